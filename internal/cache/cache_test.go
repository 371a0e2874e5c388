package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSave(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "results.json")
	// initial load should return empty DB and error
	db, err := Load(p)
	if err == nil {
		t.Fatalf("expected error for missing cache")
	}
	if db.Entries == nil {
		t.Fatalf("expected entries map initialized")
	}
	db.Store("/data/a.bin", "deadbeef", []string{"line"})
	if err := Save(p, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err := os.Stat(p)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("expected owner-only permissions, got %v", st.Mode().Perm())
	}
	db2, err := Load(p)
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	lines, ok := db2.Lookup("/data/a.bin", "deadbeef")
	if !ok || len(lines) != 1 || lines[0] != "line" {
		t.Fatalf("unexpected entry: %v %v", lines, ok)
	}
	if _, ok := db2.Lookup("/data/a.bin", "other"); ok {
		t.Fatalf("stale fingerprint must miss")
	}
}

func TestSave_NilEntries(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "c.json"), DB{}); err == nil {
		t.Fatalf("expected error for empty cache")
	}
}

func TestFingerprint(t *testing.T) {
	now := time.Unix(1700000000, 42)
	a := Fingerprint(10, now)
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", a)
	}
	if a != Fingerprint(10, now) {
		t.Fatalf("fingerprint must be deterministic")
	}
	if a == Fingerprint(11, now) || a == Fingerprint(10, now.Add(time.Nanosecond)) {
		t.Fatalf("fingerprint must change with size or mtime")
	}
}
