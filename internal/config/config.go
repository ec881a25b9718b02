// Package config provides configuration loading for ngstyle.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/ngstyle/internal/logging"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Config is the complete ngstyle configuration.
type Config struct {
	// Rules maps rule ids to their settings.
	Rules map[string]RuleConfig `yaml:"rules"`
	// Include lists the paths checked when none are given on the command line.
	Include []string `yaml:"include"`
	// Exclude lists doublestar patterns of files to skip.
	Exclude []string `yaml:"exclude"`
	// Parallel bounds the number of files checked at once.
	Parallel int `yaml:"parallel"`
	// Budget bounds a single rule check (for example "250ms"); zero disables it.
	Budget time.Duration `yaml:"budget"`
	// Output is the file the report is saved to, if any.
	Output string    `yaml:"output"`
	Log    LogConfig `yaml:"log"`
}

// RuleConfig configures one rule.
type RuleConfig struct {
	Severity m.Severity `yaml:"severity"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with defaults.
func DefaultConfig() *Config {
	return &Config{
		Rules:    map[string]RuleConfig{},
		Include:  []string{"./..."},
		Exclude:  []string{"**/*.spec.ts"},
		Parallel: 4,
		Log: LogConfig{
			Level:  "warn",
			Format: logging.FormatConsole,
		},
	}
}

var severities = map[m.Severity]struct{}{
	m.SeverityError:   {},
	m.SeverityWarning: {},
	m.SeverityInfo:    {},
	m.SeverityOff:     {},
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		if _, ok := severities[c.Rules[id].Severity]; !ok {
			return fmt.Errorf("rules.%s.severity: unknown severity %q", id, c.Rules[id].Severity)
		}
	}

	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}

	if c.Budget < 0 {
		return fmt.Errorf("budget must not be negative, got %s", c.Budget)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}

	return nil
}

// Merge overlays the non-zero settings of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if c.Rules == nil {
		c.Rules = map[string]RuleConfig{}
	}

	for id, rule := range other.Rules {
		c.Rules[id] = rule
	}

	if len(other.Include) > 0 {
		c.Include = append([]string(nil), other.Include...)
	}

	if len(other.Exclude) > 0 {
		c.Exclude = append([]string(nil), other.Exclude...)
	}

	if other.Parallel != 0 {
		c.Parallel = other.Parallel
	}

	if other.Budget != 0 {
		c.Budget = other.Budget
	}

	if other.Output != "" {
		c.Output = other.Output
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

// Severity returns the configured severity of a rule, error by default.
func (c *Config) Severity(id string) m.Severity {
	if rule, ok := c.Rules[id]; ok && rule.Severity != "" {
		return rule.Severity
	}

	return m.SeverityError
}

// Enabled filters ids down to the rules not switched off, keeping order.
func (c *Config) Enabled(ids []string) []string {
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if c.Severity(id) != m.SeverityOff {
			out = append(out, id)
		}
	}

	return out
}

// CheckRules fails when the configuration names a rule missing from known.
func (c *Config) CheckRules(known []string) error {
	set := make(map[string]struct{}, len(known))
	for _, id := range known {
		set[id] = struct{}{}
	}

	var unknown []string

	for id := range c.Rules {
		if _, ok := set[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	if len(unknown) == 0 {
		return nil
	}

	sort.Strings(unknown)

	return fmt.Errorf("configuration names unknown rules: %s", strings.Join(unknown, ", "))
}

// LoadFromFile reads a YAML configuration file. Unset keys stay zero so the
// result can be merged over another configuration.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
