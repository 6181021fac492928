package testutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewTestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTestLogger(buf)

	logger.Debug("probe", "key", "value")
	out := buf.String()
	if out == "" {
		t.Fatal("logger did not write to buffer")
	}
	if !strings.Contains(out, "probe") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected log line: %q", out)
	}
}

func TestNewTestLoggerNilWriter(t *testing.T) {
	logger := NewTestLogger(nil)
	if logger == nil {
		t.Fatal("NewTestLogger returned nil with nil writer")
	}
	logger.Info("goes nowhere")
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger()
	if logger == nil {
		t.Fatal("DiscardLogger returned nil")
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message")
	logger.Error("error message")
}
