package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

func passing(m.Fragment) (*m.Violation, error) { return nil, nil }

func testRule(id string, kind m.FragmentKind) Rule {
	return Rule{ID: id, Description: id, Rationale: RationaleReadability, AppliesTo: kind, Check: passing}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(testRule("a", m.KindEnumDeclaration)))
	require.NoError(t, r.Register(testRule("b", m.KindClassMember)))
	require.NoError(t, r.Register(testRule("c", m.KindEnumDeclaration)))

	err := r.Register(testRule("a", m.KindParameterList))

	var dup *DuplicateRuleError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.ID)
	assert.EqualError(t, err, `rule "a" already registered`)

	assert.ErrorContains(t, r.Register(Rule{Check: passing}), "empty id")
	assert.ErrorContains(t, r.Register(Rule{ID: "nil-check"}), "nil check")

	ids := func(rules []Rule) []string {
		out := make([]string, 0, len(rules))
		for _, rule := range rules {
			out = append(out, rule.ID)
		}

		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(r.Rules()))
	assert.Equal(t, []string{"a", "c"}, ids(r.RulesFor(m.KindEnumDeclaration)))
	assert.Empty(t, r.RulesFor(m.KindStringConcat))

	rule, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, m.KindClassMember, rule.AppliesTo)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(testRule("a", m.KindEnumDeclaration))

	assert.False(t, r.Frozen())
	require.NoError(t, r.Freeze())
	require.NoError(t, r.Freeze())
	assert.True(t, r.Frozen())

	err := r.Register(testRule("b", m.KindEnumDeclaration))
	assert.ErrorIs(t, err, ErrRegistryFrozen)
	assert.Len(t, r.Rules(), 1)
}

func TestRegistry_Enabled(t *testing.T) {
	r := NewRegistry("a", " c ")
	r.MustRegister(
		testRule("a", m.KindEnumDeclaration),
		testRule("b", m.KindEnumDeclaration),
		testRule("c", m.KindClassMember),
	)

	assert.True(t, r.Enabled("a"))
	assert.False(t, r.Enabled("b"))
	assert.True(t, r.Enabled("c"))
	assert.False(t, r.Enabled("missing"))

	rules := r.RulesFor(m.KindEnumDeclaration)
	require.Len(t, rules, 1)
	assert.Equal(t, "a", rules[0].ID)
}

func TestRegistry_FreezeUnknown(t *testing.T) {
	r := NewRegistry("a", "zeta", "beta")
	r.MustRegister(testRule("a", m.KindEnumDeclaration))

	err := r.Freeze()
	assert.ErrorIs(t, err, ErrUnknownRule)
	assert.EqualError(t, err, "unknown rule: beta, zeta")
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := NewRegistry()

	assert.Panics(t, func() {
		r.MustRegister(testRule("a", m.KindEnumDeclaration), testRule("a", m.KindEnumDeclaration))
	})
}

func TestRegistry_NoneEnabled(t *testing.T) {
	r := NewRegistry([]string{}...)
	r.MustRegister(testRule("a", m.KindEnumDeclaration))

	require.NoError(t, r.Freeze())
	assert.False(t, r.Enabled("a"))
	assert.Empty(t, r.RulesFor(m.KindEnumDeclaration))
}
