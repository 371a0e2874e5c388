package engine

import (
	"bytes"
	"strings"
)

const (
	// maxLineLen is well above a result line (64 hex + two WIFs + separators).
	maxLineLen = 512

	// maxStderr caps what is kept of a worker's diagnostics.
	maxStderr = 64 << 10
)

// lineCollector receives a worker's stdout. It keeps one copy of each
// well-formed result line, by key, in arrival order, so memory grows with
// the number of distinct keys rather than with the output size. Junk,
// overlong lines and an unterminated tail are dropped.
type lineCollector struct {
	seen    map[string]struct{}
	lines   []string
	partial []byte
	skip    bool
}

func (c *lineCollector) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			c.add(p)
			break
		}
		c.add(p[:i])
		c.endLine()
		p = p[i+1:]
	}
	return n, nil
}

func (c *lineCollector) add(b []byte) {
	if c.skip {
		return
	}
	if len(c.partial)+len(b) > maxLineLen {
		c.skip = true
		c.partial = c.partial[:0]
		return
	}
	c.partial = append(c.partial, b...)
}

func (c *lineCollector) endLine() {
	defer func() {
		c.partial = c.partial[:0]
		c.skip = false
	}()
	if c.skip {
		return
	}
	line := strings.TrimRight(string(c.partial), "\r")
	fk, ok := ParseLine(line)
	if !ok {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, dup := c.seen[fk.RawHex]; dup {
		return
	}
	c.seen[fk.RawHex] = struct{}{}
	c.lines = append(c.lines, line)
}

// Lines returns the distinct result lines in arrival order.
func (c *lineCollector) Lines() []string { return c.lines }

// cappedBuffer keeps the first limit bytes written and discards the rest
// without reporting an error, so the child's writes never fail.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room < len(p) {
		b.truncated = true
		if room > 0 {
			b.buf.Write(p[:room])
		}
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string { return b.buf.String() }
