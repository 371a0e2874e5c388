package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/redactyl/keyelf/internal/chunk"
	"github.com/redactyl/keyelf/internal/scanner"
	"github.com/redactyl/keyelf/internal/types"
)

// ErrFault is wrapped around panics recovered while reading a target, such
// as a memory fault on a mapped file that shrank underneath the scan.
var ErrFault = errors.New("fault while scanning")

// ScanOptions tunes how a single target is read.
type ScanOptions struct {
	ChunkSize int
	NoMmap    bool
	Progress  func(consumed, total int64)
}

func (o ScanOptions) chunkOptions() chunk.Options {
	return chunk.Options{Size: o.ChunkSize, NoMmap: o.NoMmap, Progress: o.Progress}
}

// ScanFile scans path and writes one "hex:wif_u:wif_c" line per candidate to
// w, in stream order and without deduplication. Every line goes out in a
// single Write so a reader never sees half of one.
func ScanFile(path string, opts ScanOptions, w io.Writer) (chunk.Stats, error) {
	return scanTarget(context.Background(), path, opts, func(fk types.FoundKey) error {
		_, err := io.WriteString(w, FormatLine(fk)+"\n")
		return err
	})
}

// scanTarget runs the read/match/encode pipeline over path, calling emit for
// each candidate. ctx is checked between windows. Panics, including memory
// faults on mapped files, are returned as ErrFault.
func scanTarget(ctx context.Context, path string, opts ScanOptions, emit func(types.FoundKey) error) (st chunk.Stats, err error) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w %s: %v", ErrFault, path, r)
		}
	}()

	return chunk.File(path, opts.chunkOptions(), func(window []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		it := scanner.NewMatches(window, 0)
		for {
			m, ok := it.Next()
			if !ok {
				break
			}
			if err := emit(NewFoundKey(m.Key)); err != nil {
				return err
			}
		}
		return nil
	})
}
