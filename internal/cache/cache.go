package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
)

// DB remembers the worker output of files that completed normally, so a
// repeated directory scan can skip files whose size and mtime are unchanged.
// Lines hold key material; the file is written owner-only.
type DB struct {
	// absolute path -> entry
	Entries map[string]Entry `json:"entries"`
}

type Entry struct {
	Fingerprint string   `json:"fingerprint"`
	Lines       []string `json:"lines,omitempty"`
}

// DefaultPath places the cache under the user cache directory rather than
// next to the scanned data.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return filepath.Join(os.TempDir(), "keyelf", "results.json")
	}
	return filepath.Join(dir, "keyelf", "results.json")
}

func Load(path string) (DB, error) {
	var db DB
	f, err := os.ReadFile(path)
	if err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	return db, nil
}

func Save(path string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(path, b, 0o600)
}

// Fingerprint summarizes the identity of a file's content cheaply.
func Fingerprint(size int64, modTime time.Time) string {
	var buf []byte
	buf = strconv.AppendInt(buf, size, 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, modTime.UnixNano(), 10)
	sum := xxhash.Sum64(buf)
	var out [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		out[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(out[:])
}

// Lookup returns the stored lines when the fingerprint still matches.
func (db DB) Lookup(path, fingerprint string) ([]string, bool) {
	e, ok := db.Entries[path]
	if !ok || e.Fingerprint != fingerprint {
		return nil, false
	}
	return e.Lines, true
}

func (db *DB) Store(path, fingerprint string, lines []string) {
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	db.Entries[path] = Entry{Fingerprint: fingerprint, Lines: lines}
}
