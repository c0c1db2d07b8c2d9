package logutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "assess.log")

	for _, msg := range []string{"first", "second"} {
		l, closer, err := New("info", path)
		require.NoError(t, err)
		l.Info().Str("task_id", "task-1").Msg(msg)
		l.Debug().Msg("filtered")
		closer()
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "second", entry["message"])
	assert.Equal(t, "task-1", entry["task_id"])
	assert.Contains(t, entry, "time")
}

func TestNew_Level(t *testing.T) {
	l, _, err := New("warn", Stderr)
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	require.Error(t, err)
}
