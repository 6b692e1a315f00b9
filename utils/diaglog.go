package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// maxDiagBytes caps the diagnostics file at 1 MiB; when exceeded, the oldest
// bytes are trimmed from the front.
const maxDiagBytes = 1 << 20

// ErrorLogEntry is one line of the diagnostics log.
type ErrorLogEntry struct {
	Timestamp string         `json:"timestamp"`
	Kind      string         `json:"kind"`
	Model     string         `json:"model"`
	Endpoint  string         `json:"endpoint"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// DiagLog is an append-only, size-capped structured error log for failed
// requests. Every method swallows its own failures: diagnostics must never
// interrupt the primary flow. A nil *DiagLog drops everything.
type DiagLog struct {
	path string
}

// NewDiagLog creates a diagnostics log writing to the given file.
func NewDiagLog(path string) *DiagLog {
	return &DiagLog{path: path}
}

// Record appends one JSON line and trims the file if it grew past the cap.
func (d *DiagLog) Record(kind, model, endpoint string, detail map[string]any) {
	if d == nil || d.path == "" {
		return
	}

	entry := ErrorLogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Kind:      kind,
		Model:     model,
		Endpoint:  endpoint,
		Detail:    detail,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return
	}
	file, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	_, writeErr := file.Write(append(line, '\n'))
	file.Close()
	if writeErr != nil {
		return
	}

	d.trim()
}

// trim rewrites the file keeping only the trailing maxDiagBytes. The cut may
// land mid-line; a truncated first line is acceptable since every intact
// line parses on its own.
func (d *DiagLog) trim() {
	info, err := os.Stat(d.path)
	if err != nil || info.Size() <= maxDiagBytes {
		return
	}

	data, err := os.ReadFile(d.path)
	if err != nil || len(data) <= maxDiagBytes {
		return
	}

	_ = os.WriteFile(d.path, data[len(data)-maxDiagBytes:], 0644)
}
