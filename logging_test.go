package coros

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoOpLoggerDiscardsEverything(t *testing.T) {
	l := NoOpLogger{}
	assert.False(t, l.IsEnabled(LogLevelDebug))
	assert.False(t, l.IsEnabled(LogLevelError))
	l.Log(LogEntry{Level: LogLevelError, Message: "ignored"})
}

func TestWriterLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(LogLevelWarn, &buf)

	l.Log(LogEntry{Level: LogLevelInfo, Category: "test", Message: "should not appear"})
	assert.Empty(t, buf.String())

	l.Log(LogEntry{Level: LogLevelError, Category: "test", Message: "should appear", Fields: map[string]any{"n": 1}})
	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "should appear")
	assert.Contains(t, out, "n=1")
}

func TestWriterLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(LogLevelError, &buf)
	assert.False(t, l.IsEnabled(LogLevelInfo))
	l.SetLevel(LogLevelInfo)
	assert.True(t, l.IsEnabled(LogLevelInfo))
}

func TestPoolUsesProvidedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(LogLevelInfo, &buf)
	pool := NewPool(2, WithLogger(logger))
	pool.Shutdown()
	assert.Contains(t, buf.String(), "pool started")
	assert.Contains(t, buf.String(), "pool shutdown")
}
