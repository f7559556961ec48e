package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transfer.yaml")
	data := []byte("anchor_pattern: '\\bREF-\\d+\\b'\nlog_level: debug\nlog_file: /tmp/transfer.log\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AnchorPattern != `\bREF-\d+\b` {
		t.Errorf("AnchorPattern = %q", cfg.AnchorPattern)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFile != "/tmp/transfer.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transfer.yaml")
	if err := os.WriteFile(path, []byte("log_file: run.log\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
	if cfg.AnchorPattern != "" {
		t.Errorf("AnchorPattern = %q, want empty (built-in default)", cfg.AnchorPattern)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() of a missing file succeeded")
	}
}

func TestPattern(t *testing.T) {
	re, err := Default().Pattern()
	if err != nil {
		t.Fatalf("Pattern() error: %v", err)
	}
	if !re.MatchString("M123") || re.MatchString("AM123") {
		t.Fatalf("default pattern behaves unexpectedly: %v", re)
	}

	cfg := Config{AnchorPattern: `(`}
	if _, err := cfg.Pattern(); err == nil {
		t.Fatal("invalid pattern compiled without error")
	}
}
