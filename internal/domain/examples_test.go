package domain_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mouse-blink/ngstyle/internal/adapter"
	"github.com/mouse-blink/ngstyle/internal/domain"
	"github.com/mouse-blink/ngstyle/internal/domain/rules"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

func checkExample(t *testing.T, name string) (m.Report, error) {
	t.Helper()

	root, err := filepath.Abs(filepath.Join("..", "..", "examples", name))
	require.NoError(t, err)

	w := domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.DefaultParsers(),
		adapter.NewReportStore(),
		newRegistry(t),
		domain.WorkflowOptions{BaseDir: m.Path(root)},
	)

	return w.Check(context.Background(), domain.CheckArgs{
		Paths:   []m.Path{m.Path(root + "/...")},
		Threads: 4,
	})
}

func TestExamples(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("basic", func(t *testing.T) {
		report, err := checkExample(t, "basic")
		require.NoError(t, err)

		assert.Equal(t, 2, report.Files)
		assert.Empty(t, report.Violations)
		assert.Empty(t, report.Diagnostics)
	})

	t.Run("loops", func(t *testing.T) {
		report, err := checkExample(t, "loops")
		require.ErrorIs(t, err, domain.ErrViolationsFound)

		want := []finding{
			{Rule: rules.IDForTrackIdentity, File: "src/app/order-list.component.html", Line: 2, Suggestion: "track order.id"},
			{Rule: rules.IDForTrackIdentity, File: "src/app/order-list.component.html", Line: 17, Suggestion: "track note.id"},
		}

		if diff := cmp.Diff(want, findings(report)); diff != "" {
			t.Errorf("Check() mismatch (-want +got):\n%s", diff)
		}

		for _, v := range report.Violations {
			assert.Equal(t, m.SeverityError, v.Severity)
		}
	})

	t.Run("ignore", func(t *testing.T) {
		report, err := checkExample(t, "ignore")
		require.NoError(t, err)

		assert.Equal(t, 2, report.Files)
		assert.Empty(t, report.Violations)
	})
}
