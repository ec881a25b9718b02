package domain

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Registry holds the rules of a process. It is filled during configuration
// and frozen before the first scan; rules are never removed.
type Registry struct {
	mu      sync.RWMutex
	rules   []Rule
	index   map[string]int
	byKind  map[m.FragmentKind][]int
	enabled map[string]struct{}
	frozen  bool
}

// NewRegistry creates a registry. enabled is the list of rule ids to run;
// when nil every registered rule runs, when empty none does.
func NewRegistry(enabled ...string) *Registry {
	r := &Registry{
		index:  make(map[string]int),
		byKind: make(map[m.FragmentKind][]int),
	}

	if enabled != nil {
		r.enabled = make(map[string]struct{}, len(enabled))
		for _, id := range enabled {
			r.enabled[strings.TrimSpace(id)] = struct{}{}
		}
	}

	return r
}

// Register adds rule. It fails with *DuplicateRuleError when the id is taken
// and with ErrRegistryFrozen once the registry is frozen.
func (r *Registry) Register(rule Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("register rule: empty id")
	}

	if rule.Check == nil {
		return fmt.Errorf("register rule %s: nil check", rule.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register rule %s: %w", rule.ID, ErrRegistryFrozen)
	}

	if _, exists := r.index[rule.ID]; exists {
		return &DuplicateRuleError{ID: rule.ID}
	}

	r.rules = append(r.rules, rule)
	r.index[rule.ID] = len(r.rules) - 1
	r.byKind[rule.AppliesTo] = append(r.byKind[rule.AppliesTo], len(r.rules)-1)

	return nil
}

// MustRegister registers every rule and panics on the first error.
func (r *Registry) MustRegister(rules ...Rule) {
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
}

// Freeze ends the configuration phase. It fails with ErrUnknownRule when an
// enabled id matches no registered rule. Freezing twice is a no-op.
func (r *Registry) Freeze() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return nil
	}

	r.frozen = true

	var unknown []string

	for id := range r.enabled {
		if _, ok := r.index[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", ErrUnknownRule, strings.Join(unknown, ", "))
	}

	return nil
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.frozen
}

// RulesFor returns the enabled rules applying to kind, in registration order.
func (r *Registry) RulesFor(kind m.FragmentKind) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.byKind[kind]
	out := make([]Rule, 0, len(idx))

	for _, i := range idx {
		if r.isEnabled(r.rules[i].ID) {
			out = append(out, r.rules[i])
		}
	}

	return out
}

// Rules returns all registered rules in registration order.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Rule, len(r.rules))
	copy(out, r.rules)

	return out
}

// Get returns a rule by id.
func (r *Registry) Get(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return Rule{}, false
	}

	return r.rules[i], true
}

// Enabled reports whether the rule with id runs during scans.
func (r *Registry) Enabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.index[id]; !ok {
		return false
	}

	return r.isEnabled(id)
}

func (r *Registry) isEnabled(id string) bool {
	if r.enabled == nil {
		return true
	}

	_, ok := r.enabled[id]

	return ok
}
