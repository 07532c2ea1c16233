package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for s, want := range cases {
		got, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): unexpected error: %v", s, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestNewRaisesQuietBelowError(t *testing.T) {
	logger, err := New(zapcore.DebugLevel, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("expected error level to remain enabled")
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected quiet to suppress info level even when requested level was debug")
	}
}

func TestNewRespectsRequestedLevel(t *testing.T) {
	logger, err := New(zapcore.WarnLevel, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("expected warn level to be enabled")
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected info level to be disabled above warn")
	}
}
