package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"error": slog.LevelError,
		"Warn":  slog.LevelWarn,
		"INFO":  slog.LevelInfo,
		"debug": slog.LevelDebug,
		"0":     slog.LevelError,
		"1":     slog.LevelWarn,
		"2":     slog.LevelInfo,
		"3":     slog.LevelDebug,
	}

	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)

	_, err = ParseLevel("4")
	assert.Error(t, err)
}
