package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestDebugSuppressedWhenQuiet(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Section("Hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestVerboseOutput(t *testing.T) {
	buf := capture(t, true)

	Debug("parsed %s", "a.md")
	Info("built %d records", 3)
	Section("Assemble")

	out := buf.String()
	for _, want := range []string{"[DEBUG] parsed a.md", "[INFO] built 3 records", "=== Assemble ==="} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestWarnAlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Warn("skipping %s", "missing.md")
	Error("boom")

	out := buf.String()
	if !strings.Contains(out, "[WARN] skipping missing.md") {
		t.Errorf("expected warning, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] boom") {
		t.Errorf("expected error, got %q", out)
	}
}

func TestIsVerbose(t *testing.T) {
	capture(t, true)
	if !IsVerbose() {
		t.Error("expected verbose mode")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected quiet mode")
	}
}
