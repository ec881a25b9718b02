package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/ngstyle/internal/controller"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

var sampleRules = []m.RuleInfo{
	{ID: "no-enum", Description: "no enums", Rationale: "type-safety", Kind: m.KindEnumDeclaration, Severity: m.SeverityError, Enabled: true},
	{ID: "max-params", Description: "few params", Rationale: "readability", Kind: m.KindParameterList, Severity: m.SeverityOff},
}

func TestRulesCmd_DisplaysRules(t *testing.T) {
	mockWorkflow, mockUI := useMocks(t)

	mockWorkflow.EXPECT().Rules().Return(sampleRules)
	mockUI.EXPECT().DisplayRules(sampleRules).Return(nil)

	cmd, _ := newTestRootCmd("rules")
	require.NoError(t, cmd.Execute())
}

func TestRulesCmd_ListAlias(t *testing.T) {
	mockWorkflow, mockUI := useMocks(t)

	mockWorkflow.EXPECT().Rules().Return(sampleRules)
	mockUI.EXPECT().DisplayRules(sampleRules).Return(errors.New("closed"))

	cmd, _ := newTestRootCmd("list")
	assert.EqualError(t, cmd.Execute(), "closed")
}

func TestRulesCmd_JSON(t *testing.T) {
	mockWorkflow, _ := useMocks(t)
	newUI = controller.NewUI

	mockWorkflow.EXPECT().Rules().Return(sampleRules)

	cmd, out := newTestRootCmd("rules", "--format", "json")
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `"id": "max-params"`)
	assert.Contains(t, out.String(), `"severity": "off"`)
}

func TestRulesCmd_RejectsArgs(t *testing.T) {
	useMocks(t)

	cmd, _ := newTestRootCmd("rules", "extra")
	assert.Error(t, cmd.Execute())
}
