// Package dedup tracks which keys a run has already reported and persists
// newly discovered ones to an append-only text sink.
package dedup

import (
	"fmt"
	"os"
	"sort"
)

// DefaultOutput is the sink file name used when none is configured.
const DefaultOutput = "found_hex_keys.txt"

// Set is the per-run collection of reported raw keys, keyed by hex. It only
// grows. It is not safe for concurrent use; the supervisor is its only writer.
type Set struct {
	seen map[string]struct{}
}

func NewSet() *Set {
	return &Set{seen: map[string]struct{}{}}
}

// Add records rawHex and reports whether it was not present before.
func (s *Set) Add(rawHex string) bool {
	if _, ok := s.seen[rawHex]; ok {
		return false
	}
	s.seen[rawHex] = struct{}{}
	return true
}

func (s *Set) Has(rawHex string) bool {
	_, ok := s.seen[rawHex]
	return ok
}

func (s *Set) Len() int { return len(s.seen) }

// Keys returns the recorded keys in sorted order.
func (s *Set) Keys() []string {
	out := make([]string, 0, len(s.seen))
	for k := range s.seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Sink appends one hex key per line to a file. Existing content is never
// truncated.
type Sink struct {
	Path string
}

func NewSink(path string) *Sink {
	if path == "" {
		path = DefaultOutput
	}
	return &Sink{Path: path}
}

// Append writes rawHex followed by a newline.
func (s *Sink) Append(rawHex string) error {
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open output %s: %w", s.Path, err)
	}
	if _, err := f.WriteString(rawHex + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output %s: %w", s.Path, err)
	}
	return f.Close()
}

// Deduplicator combines a Set and an optional Sink.
type Deduplicator struct {
	set  *Set
	sink *Sink
}

// New returns a Deduplicator writing to sink. A nil sink disables
// persistence.
func New(set *Set, sink *Sink) *Deduplicator {
	if set == nil {
		set = NewSet()
	}
	return &Deduplicator{set: set, sink: sink}
}

// Accept reports whether rawHex is new to this run. A new key is persisted
// before returning; a persistence failure is returned alongside isNew=true
// so the caller can report it without losing the key.
func (d *Deduplicator) Accept(rawHex string) (isNew bool, err error) {
	if !d.set.Add(rawHex) {
		return false, nil
	}
	if d.sink == nil {
		return true, nil
	}
	return true, d.sink.Append(rawHex)
}

func (d *Deduplicator) Set() *Set { return d.set }
