package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagLogRecordWritesJSONLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	diag := NewDiagLog(path)

	diag.Record("http_error", "gpt-4o-mini", "https://api.openai.com/v1/chat/completions", map[string]any{
		"status": 429,
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry ErrorLogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "http_error", entry.Kind)
	assert.Equal(t, "gpt-4o-mini", entry.Model)
	assert.NotEmpty(t, entry.Timestamp)
	assert.EqualValues(t, 429, entry.Detail["status"])
}

func TestDiagLogCapsFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	diag := NewDiagLog(path)

	padding := strings.Repeat("x", 8*1024)
	total := 200 // ~1.6 MiB of entries
	for i := 0; i < total; i++ {
		diag.Record("network_error", "gpt-4o-mini", "https://example.invalid", map[string]any{
			"seq":     i,
			"padding": padding,
		})
	}

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(maxDiagBytes))

	// the most recent entry survived the trim intact
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	var last ErrorLogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	assert.EqualValues(t, total-1, last.Detail["seq"])
}

func TestDiagLogNeverFails(t *testing.T) {
	var nilLog *DiagLog
	nilLog.Record("kind", "model", "endpoint", nil)

	// unwritable path is swallowed
	diag := NewDiagLog(filepath.Join(string(os.PathSeparator), "proc", "no-such-dir", "errors.log"))
	diag.Record("kind", "model", "endpoint", nil)
}
