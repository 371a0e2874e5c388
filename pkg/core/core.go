package core

import (
	"context"
	"io"

	"github.com/redactyl/keyelf/internal/engine"
	"github.com/redactyl/keyelf/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Report = types.Report
type FoundKey = types.FoundKey
type Failure = types.Failure
type Spawner = engine.Spawner
type ExecSpawner = engine.ExecSpawner

// WorkerFlag is the argument a host binary must recognize to act as a
// worker for directory scans.
const WorkerFlag = engine.WorkerFlag

// Scan is the stable entrypoint for other programs. Directory scans
// re-execute the running binary unless cfg.Spawner is set; a host program
// that is not keyelf should either set one or handle WorkerFlag by calling
// ServeWorker.
func Scan(ctx context.Context, cfg Config) (Report, error) {
	return engine.Run(ctx, cfg)
}

// ServeWorker scans one file and writes worker result lines to w.
func ServeWorker(path string, chunkSize int, noMmap bool, w io.Writer) error {
	_, err := engine.ScanFile(path, engine.ScanOptions{ChunkSize: chunkSize, NoMmap: noMmap}, w)
	return err
}
