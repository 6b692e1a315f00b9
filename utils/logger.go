package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Logger provides logging functionality. A nil *Logger is valid and drops
// everything, so components can log without checking for a configured sink.
type Logger struct {
	file   *os.File
	logger *log.Logger
}

// NewLogger creates a new logger writing to the given file
func NewLogger(logPath string) (*Logger, error) {
	// Ensure directory exists
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		file:   file,
		logger: log.New(file, "", log.LstdFlags),
	}, nil
}

// Close closes the logger
func (l *Logger) Close() error {
	if l != nil && l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.printf("[INFO] "+format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.printf("[WARN] "+format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.printf("[ERROR] "+format, v...)
}

func (l *Logger) printf(format string, v ...interface{}) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Println(fmt.Sprintf(format, v...))
}

// GetLogPath returns the default log path under the data directory
func GetLogPath(dataDir string) string {
	return filepath.Join(dataDir, "companion.log")
}
