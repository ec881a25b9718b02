package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

func newTestLoader(t *testing.T, workDir, homeDir string, env map[string]string) *Loader {
	t.Helper()

	l := NewLoader(zaptest.NewLogger(t))
	l.workDir = workDir
	l.homeDir = homeDir
	l.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	return l
}

func TestLoader_Load(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config, err := newTestLoader(t, t.TempDir(), t.TempDir(), nil).Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("layers", func(t *testing.T) {
		home := t.TempDir()
		project := t.TempDir()
		workDir := filepath.Join(project, "src", "app")

		writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
rules:
  no-enum:
    severity: info
parallel: 2
log:
  format: json
`)
		writeConfig(t, filepath.Join(project, ProjectConfigFile), `
rules:
  no-enum:
    severity: warning
exclude: ["**/legacy/**"]
`)
		writeConfig(t, filepath.Join(workDir, "placeholder.ts"), "export {};\n")

		env := map[string]string{EnvLogLevel: "debug"}

		config, err := newTestLoader(t, workDir, home, env).Load("")
		require.NoError(t, err)

		assert.Equal(t, m.SeverityWarning, config.Severity("no-enum"), "project overrides user")
		assert.Equal(t, 2, config.Parallel)
		assert.Equal(t, []string{"**/legacy/**"}, config.Exclude)
		assert.Equal(t, "debug", config.Log.Level)
		assert.Equal(t, "json", config.Log.Format)
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		writeConfig(t, path, "output: out.json\n")

		config, err := newTestLoader(t, t.TempDir(), "", nil).Load(path)
		require.NoError(t, err)
		assert.Equal(t, "out.json", config.Output)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := newTestLoader(t, t.TempDir(), "", nil).Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("invalid environment", func(t *testing.T) {
		env := map[string]string{EnvLogFormat: "xml"}

		_, err := newTestLoader(t, t.TempDir(), "", env).Load("")
		assert.ErrorContains(t, err, "log.format")
	})

	t.Run("broken user config is skipped", func(t *testing.T) {
		home := t.TempDir()
		writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), "parallel: [")

		config, err := newTestLoader(t, t.TempDir(), home, nil).Load("")
		require.NoError(t, err)
		assert.Equal(t, 4, config.Parallel)
	})
}
