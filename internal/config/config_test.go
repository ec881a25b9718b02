package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

func writeConfig(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	require.NoError(t, config.Validate())
	assert.Equal(t, []string{"./..."}, config.Include)
	assert.Equal(t, 4, config.Parallel)
	assert.Equal(t, m.SeverityError, config.Severity("no-enum"))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown severity",
			mutate:  func(c *Config) { c.Rules["no-enum"] = RuleConfig{Severity: "fatal"} },
			wantErr: "rules.no-enum.severity",
		},
		{
			name:    "zero parallel",
			mutate:  func(c *Config) { c.Parallel = 0 },
			wantErr: "parallel must be at least 1",
		},
		{
			name:    "negative budget",
			mutate:  func(c *Config) { c.Budget = -time.Second },
			wantErr: "budget must not be negative",
		},
		{
			name:    "log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: "log.level",
		},
		{
			name:    "log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
		{
			name:   "off is a valid severity",
			mutate: func(c *Config) { c.Rules["max-params"] = RuleConfig{Severity: m.SeverityOff} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	config := DefaultConfig()
	config.Rules["no-enum"] = RuleConfig{Severity: m.SeverityWarning}

	config.Merge(&Config{
		Rules:   map[string]RuleConfig{"max-params": {Severity: m.SeverityOff}},
		Exclude: []string{"**/generated/**"},
		Budget:  time.Second,
		Log:     LogConfig{Level: "debug"},
	})

	assert.Equal(t, m.SeverityWarning, config.Severity("no-enum"))
	assert.Equal(t, m.SeverityOff, config.Severity("max-params"))
	assert.Equal(t, []string{"./..."}, config.Include, "unset lists keep their value")
	assert.Equal(t, []string{"**/generated/**"}, config.Exclude)
	assert.Equal(t, 4, config.Parallel)
	assert.Equal(t, time.Second, config.Budget)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "console", config.Log.Format)

	config.Merge(nil)
	assert.Equal(t, time.Second, config.Budget)
}

func TestConfig_Enabled(t *testing.T) {
	config := DefaultConfig()
	config.Rules["no-enum"] = RuleConfig{Severity: m.SeverityOff}
	config.Rules["max-params"] = RuleConfig{Severity: m.SeverityInfo}

	got := config.Enabled([]string{"no-attribute-interpolation", "no-enum", "max-params"})
	assert.Equal(t, []string{"no-attribute-interpolation", "max-params"}, got)
}

func TestConfig_CheckRules(t *testing.T) {
	config := DefaultConfig()
	config.Rules["no-enum"] = RuleConfig{Severity: m.SeverityOff}
	require.NoError(t, config.CheckRules([]string{"no-enum", "max-params"}))

	config.Rules["no-var"] = RuleConfig{Severity: m.SeverityError}
	config.Rules["a-rule"] = RuleConfig{Severity: m.SeverityError}
	assert.EqualError(t, config.CheckRules([]string{"no-enum"}), "configuration names unknown rules: a-rule, no-var")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigFile)
	writeConfig(t, path, `
rules:
  no-enum:
    severity: warning
  max-params:
    severity: "off"
exclude:
  - "**/*.stories.ts"
parallel: 8
budget: 250ms
output: reports/ngstyle.json
log:
  level: debug
  format: json
`)

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Rules: map[string]RuleConfig{
			"no-enum":    {Severity: m.SeverityWarning},
			"max-params": {Severity: m.SeverityOff},
		},
		Exclude:  []string{"**/*.stories.ts"},
		Parallel: 8,
		Budget:   250 * time.Millisecond,
		Output:   "reports/ngstyle.json",
		Log:      LogConfig{Level: "debug", Format: "json"},
	}, config)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	writeConfig(t, broken, "rules: [")

	_, err = LoadFromFile(broken)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestConfig_SaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := DefaultConfig()
	config.Rules["no-enum"] = RuleConfig{Severity: m.SeverityInfo}
	require.NoError(t, config.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}
