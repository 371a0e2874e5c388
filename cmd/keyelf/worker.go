package keyelf

import (
	"errors"
	"fmt"
	"os"

	"github.com/redactyl/keyelf/internal/chunk"
	"github.com/redactyl/keyelf/internal/engine"
)

// runWorker is the isolated child side of a directory scan: result lines go
// to stdout, anything else to stderr. A seek failure is a warning, any other
// failure or panic exits with engine.WorkerExitFailure.
func runWorker(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &exitError{code: engine.WorkerExitFailure, err: fmt.Errorf("panic scanning %s: %v", path, r)}
		}
	}()
	opts := engine.ScanOptions{ChunkSize: flagChunkSize, NoMmap: flagNoMmap}
	_, err = engine.ScanFile(path, opts, os.Stdout)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, chunk.ErrSeekUnsupported):
		fmt.Fprintln(os.Stderr, "warning:", err)
		return nil
	default:
		return &exitError{code: engine.WorkerExitFailure, err: err}
	}
}
