package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "", want: zapcore.WarnLevel},
		{in: "debug", want: zapcore.DebugLevel},
		{in: "INFO", want: zapcore.InfoLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid log level")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", FormatConsole, FormatJSON, "JSON"} {
		logger, err := New("info", format)
		require.NoError(t, err, format)

		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel), format)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), format)
	}

	_, err := New("info", "xml")
	assert.ErrorContains(t, err, "unknown log format")

	_, err = New("verbose", FormatJSON)
	assert.Error(t, err)
}
