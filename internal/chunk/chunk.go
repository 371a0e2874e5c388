// Package chunk streams a file or device as a sequence of bounded windows.
//
// Regular files are memory-mapped when the platform allows it, everything
// else is read sequentially. Either way the target is handed out in
// fixed-size windows and each window after the first starts scanner.Overlap
// bytes before the end of the previous one, so a marker and key straddling
// the boundary appear whole in the next window.
package chunk

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/redactyl/keyelf/internal/scanner"
)

// DefaultSize is the sequential window size.
const DefaultSize = 64 << 20

var (
	// ErrSeekUnsupported is returned when the stream cannot be rewound for
	// the boundary overlap. Matches spanning later boundaries may be missed.
	ErrSeekUnsupported = errors.New("stream does not support rewinding")
	// ErrWindowTooSmall is returned when the window cannot make progress
	// once the overlap is re-read.
	ErrWindowTooSmall = fmt.Errorf("window size must exceed %d bytes", scanner.Overlap)
)

// Options controls how a target is read.
type Options struct {
	// Size of each sequential window; DefaultSize when zero.
	Size int

	// NoMmap forces the sequential path for regular files.
	NoMmap bool

	// Progress is called after each window with the absolute stream
	// position reached and the total size (0 when unknown).
	Progress func(consumed, total int64)
}

func (o Options) size() int {
	if o.Size <= 0 {
		return DefaultSize
	}
	return o.Size
}

// Stats describes what was read.
type Stats struct {
	Total     int64
	SizeKnown bool
	Consumed  int64
	Windows   int
	Mapped    bool
}

// File opens path and passes each window to fn. Window slices are only
// valid for the duration of the call.
func File(path string, opts Options, fn func(window []byte) error) (Stats, error) {
	var st Stats
	f, err := os.Open(path)
	if err != nil {
		return st, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return st, err
	}
	regular := info.Mode().IsRegular()
	if regular {
		st.Total = info.Size()
		st.SizeKnown = true
	} else {
		end, err := seekSize(f)
		if err != nil {
			return st, fmt.Errorf("%s: %w", path, err)
		}
		st.Total = end
		st.SizeKnown = end > 0
	}

	if regular && st.Total > 0 && !opts.NoMmap {
		if data, unmap, err := mapFile(f, st.Total); err == nil {
			defer func() { _ = unmap() }()
			st.Mapped = true
			n, windows, err := walk(data, opts, fn)
			st.Consumed = n
			st.Windows = windows
			return st, err
		}
	}

	n, windows, err := stream(f, opts, st.Total, fn)
	st.Consumed = n
	st.Windows = windows
	return st, err
}

// seekSize measures s by seeking to its end, which is how block devices
// report their size. Streams that cannot seek have an unknown size (0). A
// stream that reaches its end but cannot return to the start is an error,
// since reading on would see nothing.
func seekSize(s io.Seeker) (int64, error) {
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil || end <= 0 {
		return 0, nil
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind after sizing: %w", err)
	}
	return end, nil
}

// Stream reads r sequentially in overlapping windows. total is only used
// for progress reporting and may be zero.
func Stream(r io.ReadSeeker, opts Options, total int64, fn func(window []byte) error) (Stats, error) {
	n, windows, err := stream(r, opts, total, fn)
	return Stats{Total: total, SizeKnown: total > 0, Consumed: n, Windows: windows}, err
}

// walk hands out a mapped view with the same window geometry stream uses.
func walk(data []byte, opts Options, fn func([]byte) error) (int64, int, error) {
	size := opts.size()
	if size <= scanner.Overlap {
		return 0, 0, ErrWindowTooSmall
	}
	total := int64(len(data))
	windows := 0
	for off := 0; ; {
		end := min(off+size, len(data))
		windows++
		if opts.Progress != nil {
			opts.Progress(int64(end), total)
		}
		if err := fn(data[off:end]); err != nil {
			return int64(end), windows, err
		}
		if end == len(data) {
			return int64(end), windows, nil
		}
		off = end - scanner.Overlap
	}
}

func stream(r io.ReadSeeker, opts Options, total int64, fn func([]byte) error) (int64, int, error) {
	size := opts.size()
	if size <= scanner.Overlap {
		return 0, 0, ErrWindowTooSmall
	}
	buf := make([]byte, size)
	var pos int64
	windows := 0
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			pos += int64(n)
			windows++
			if opts.Progress != nil {
				opts.Progress(pos, total)
			}
			if ferr := fn(buf[:n]); ferr != nil {
				return pos, windows, ferr
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// final partial window is never rewound
			return pos, windows, nil
		}
		if err != nil {
			return pos, windows, err
		}
		if _, err := r.Seek(-scanner.Overlap, io.SeekCurrent); err != nil {
			return pos, windows, fmt.Errorf("%w: %v", ErrSeekUnsupported, err)
		}
		pos -= scanner.Overlap
	}
}
