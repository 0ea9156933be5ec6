package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, closer := newWithStdout(Options{Level: "info", Environment: "production"}, &buf)
	defer closer.Close()

	log.Debug().Msg("hidden")
	log.Info().Str("short", "abc123").Msg("short link created")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc123", entry["short"])
	assert.Equal(t, "short link created", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortlink.log")

	var buf bytes.Buffer
	log, closer := newWithStdout(Options{Level: "debug", Environment: "production", File: path, MaxSizeMB: 1}, &buf)

	log.Error().Str("error_kind", "allocation_exhausted").Msg("short code allocation exhausted")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"error_kind":"allocation_exhausted"`)
	assert.Contains(t, buf.String(), "allocation_exhausted")
}
