package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestNewHonoursLevel(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := New("warn", format)
		require.NoError(t, err, format)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel), format)
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel), format)
	}
}
