package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Warning)
	logger.Info("hidden")
	logger.Warningf("shown %d", 1)

	SetLevel(Debug)
	logger.Debug("verbose")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info line to be filtered at warning level; got:\n%s", out)
	}
	for _, exp := range []string{"shown 1", "verbose", "[test]"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected output to contain %q; got:\n%s", exp, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		exp     Level
		wantErr bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"Notice", Notice, false},
		{"warning", Warning, false},
		{"error", Error, false},
		{"warn", Error, true},
		{"", Error, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.exp {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.exp)
		}
		if !tt.wantErr && !strings.EqualFold(got.String(), tt.name) {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), strings.ToLower(tt.name))
		}
	}
	if s := Level(42).String(); s != "Level(42)" {
		t.Errorf("unexpected name for an unknown level: %q", s)
	}
}

func TestSetLevelClamps(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)
	defer SetLevel(Notice)

	SetLevel(Level(-5))
	if CurrentLevel() != Error {
		t.Fatalf("expected out of range level to become error; got %v", CurrentLevel())
	}
	logger := New("clamp")
	logger.Warning("dropped")
	logger.Error("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("expected only the error line; got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes in a buffer sink; got %q", out)
	}
}
