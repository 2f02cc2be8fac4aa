package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &StdLogger{
		logger: log.New(&buf, "", 0),
		debug:  true,
	}

	tests := []struct {
		name     string
		fn       func()
		expected string
	}{
		{
			name:     "Info",
			fn:       func() { l.Info("database %s exists", "products") },
			expected: "[INFO] database products exists",
		},
		{
			name:     "Warn",
			fn:       func() { l.Warn("close failed") },
			expected: "[WARN] close failed",
		},
		{
			name:     "Error",
			fn:       func() { l.Error("create failed: %v", "permission denied") },
			expected: "[ERROR] create failed: permission denied",
		},
		{
			name:     "Debug",
			fn:       func() { l.Debug("query=%q", "SELECT 1") },
			expected: `[DEBUG] query="SELECT 1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			got := strings.TrimSpace(buf.String())
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDebugSuppressed(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
