package scanner

import (
	"bytes"
	"encoding/hex"
	"iter"
)

// markerBytes precedes the raw 32-byte scalar in DER-encoded EC private keys
// (SEQUENCE version INTEGER 1, OCTET STRING length 32).
var markerBytes = [MarkerLength]byte{0x02, 0x01, 0x01, 0x04, 0x20}

const (
	// MarkerLength is the size of the fixed locator sequence.
	MarkerLength = 5
	// KeyLength is the size of the raw private scalar following the marker.
	KeyLength = 32
	// Overlap is how many trailing bytes of a full window must be re-read at
	// the start of the next one so that a marker+key split across the
	// boundary is seen whole exactly once.
	Overlap = MarkerLength + KeyLength - 1
)

// Marker returns a copy of the locator sequence.
func Marker() []byte {
	m := markerBytes
	return m[:]
}

// RawKey is a candidate private scalar. Its identity is its lowercase hex.
type RawKey [KeyLength]byte

// Hex returns the 64-character lowercase hex encoding of the key.
func (k RawKey) Hex() string {
	return hex.EncodeToString(k[:])
}

// ParseRawKey decodes a 64-character hex string into a RawKey.
func ParseRawKey(s string) (RawKey, bool) {
	var k RawKey
	if len(s) != KeyLength*2 {
		return k, false
	}
	if _, err := hex.Decode(k[:], []byte(s)); err != nil {
		return k, false
	}
	return k, true
}

// Match is one marker occurrence with a complete key window.
type Match struct {
	// Offset is the position of the marker within the scanned buffer.
	Offset int
	Key    RawKey
}

// Matches walks a fixed buffer for marker occurrences. It holds only an
// explicit cursor; the buffer is never modified.
type Matches struct {
	buf    []byte
	start  int
	cursor int
	done   bool
}

// NewMatches returns an iterator over buf beginning at offset start.
func NewMatches(buf []byte, start int) *Matches {
	if start < 0 {
		start = 0
	}
	return &Matches{buf: buf, start: start, cursor: start}
}

// Next returns the next complete match. Once a marker is found whose key
// window runs past the end of the buffer the iterator is exhausted: that
// region has to be supplied again by the caller's next overlapping window.
func (m *Matches) Next() (Match, bool) {
	if m.done || m.cursor >= len(m.buf) {
		m.done = true
		return Match{}, false
	}
	i := bytes.Index(m.buf[m.cursor:], markerBytes[:])
	if i < 0 {
		m.done = true
		return Match{}, false
	}
	p := m.cursor + i
	end := p + MarkerLength + KeyLength
	if end > len(m.buf) {
		m.done = true
		return Match{}, false
	}
	var out Match
	out.Offset = p
	copy(out.Key[:], m.buf[p+MarkerLength:end])
	// Resume one byte past the marker, not past the key: a second marker may
	// start inside this one's key bytes.
	m.cursor = p + 1
	return out, true
}

// Reset rewinds the cursor to the original start offset.
func (m *Matches) Reset() {
	m.cursor = m.start
	m.done = false
}

// All yields every complete match in buf.
func All(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		it := NewMatches(buf, 0)
		for {
			mt, ok := it.Next()
			if !ok || !yield(mt) {
				return
			}
		}
	}
}

// Find collects every complete match in buf.
func Find(buf []byte) []Match {
	var out []Match
	for mt := range All(buf) {
		out = append(out, mt)
	}
	return out
}
