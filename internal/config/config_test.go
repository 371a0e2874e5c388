package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "keyelf.yaml", "chunk_size: 4096\ntimeout: 5s\naddresses: true\noutput: keys.txt\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ChunkSize == nil || *cfg.ChunkSize != 4096 {
		t.Fatalf("expected chunk_size=4096, got %#v", cfg.ChunkSize)
	}
	if cfg.Addresses == nil || *cfg.Addresses != true {
		t.Fatalf("expected addresses=true")
	}
	if cfg.Output == nil || *cfg.Output != "keys.txt" {
		t.Fatalf("expected output=keys.txt, got %#v", cfg.Output)
	}
	d, err := cfg.TimeoutDuration()
	if err != nil || d != 5*time.Second {
		t.Fatalf("expected timeout=5s, got %v (%v)", d, err)
	}
	if cfg.Cache != nil {
		t.Fatalf("unset field should stay nil")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"tiny chunk":  "chunk_size: 36\n",
		"bad timeout": "timeout: soon\n",
		"neg timeout": "timeout: -1s\n",
		"bad level":   "log_level: loud\n",
		"not yaml":    "chunk_size: [\n",
	}
	for name, body := range cases {
		p := writeTemp(t, dir, name+".yml", body)
		if _, err := LoadFile(p); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "keyelf.yaml", "chunk_size: 1000\n")
	writeTemp(t, dir, ".keyelf.yaml", "chunk_size: 7000\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.ChunkSize == nil || *cfg.ChunkSize != 7000 {
		t.Fatalf("expected chunk_size=7000 from .keyelf.yaml, got %#v", cfg.ChunkSize)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when no local config exists, got %v", err)
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "keyelf")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(cfgDir, "config.yml")
	if err := os.WriteFile(p, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.LogLevel == nil || *cfg.LogLevel != "debug" {
		t.Fatalf("expected log_level=debug from global config, got %#v", cfg.LogLevel)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	// Simulate no HOME as well by clearing HOME; LoadGlobal should error
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when no global config dir exists, got %v", err)
	}
}

func TestLoadLocal_InvalidIsNotNotFound(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, ".keyelf.yml", "timeout: whenever\n")
	_, err := LoadLocal(dir)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a parse error, got %v", err)
	}
}
