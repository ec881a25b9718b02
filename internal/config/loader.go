package config

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	// ProjectConfigFile is searched for in the working directory and its parents.
	ProjectConfigFile = ".ngstyle.yaml"
	// UserConfigDir is the user-level config directory, relative to $HOME.
	UserConfigDir = ".config/ngstyle"
	// UserConfigFile is the user-level config file name.
	UserConfigFile = "config.yaml"

	// EnvLogLevel overrides log.level.
	EnvLogLevel = "NGSTYLE_LOG_LEVEL"
	// EnvLogFormat overrides log.format.
	EnvLogFormat = "NGSTYLE_LOG_FORMAT"
)

// Loader loads configuration with layered precedence.
type Loader struct {
	logger    *zap.Logger
	workDir   string
	homeDir   string
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a Loader rooted at the process working directory.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	wd, _ := os.Getwd()
	home, _ := os.UserHomeDir()

	return &Loader{
		logger:    logger,
		workDir:   wd,
		homeDir:   home,
		lookupEnv: os.LookupEnv,
	}
}

// Load builds the configuration from, in increasing precedence:
//  1. DefaultConfig
//  2. the user config (~/.config/ngstyle/config.yaml)
//  3. the project config (.ngstyle.yaml in the working directory or a parent)
//  4. NGSTYLE_LOG_LEVEL and NGSTYLE_LOG_FORMAT
//
// explicit, when set, replaces the project config search.
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	if path := l.userConfigPath(); path != "" {
		userConfig, err := LoadFromFile(path)

		switch {
		case err == nil:
			l.logger.Debug("loaded user config", zap.String("path", path))
			config.Merge(userConfig)
		case !errors.Is(err, os.ErrNotExist):
			l.logger.Warn("failed to load user config", zap.String("path", path), zap.Error(err))
		}
	}

	projectPath := explicit
	if projectPath == "" {
		projectPath = l.findProjectConfig()
	}

	if projectPath != "" {
		projectConfig, err := LoadFromFile(projectPath)
		if err != nil {
			return nil, err
		}

		l.logger.Debug("loaded project config", zap.String("path", projectPath))
		config.Merge(projectConfig)
	} else {
		l.logger.Debug("no project config found")
	}

	if level, ok := l.lookupEnv(EnvLogLevel); ok && level != "" {
		config.Log.Level = level
	}

	if format, ok := l.lookupEnv(EnvLogFormat); ok && format != "" {
		config.Log.Format = format
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (l *Loader) userConfigPath() string {
	if l.homeDir == "" {
		return ""
	}

	return filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)
}

func (l *Loader) findProjectConfig() string {
	if l.workDir == "" {
		return ""
	}

	dir := l.workDir

	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}
