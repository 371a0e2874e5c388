package engine

import (
	"context"
	"errors"

	"github.com/redactyl/keyelf/internal/chunk"
	"github.com/redactyl/keyelf/internal/types"
)

// runDirect scans a single file or device inside this process. Keys are
// merged as each window yields them so a later fault keeps what was found.
func runDirect(ctx context.Context, cfg Config, ms *MergeState, rep *types.Report) {
	log := cfg.logger()
	path := cfg.Target
	cfg.notify(TargetEvent{Index: 0, Total: 1, Path: path, State: types.StateRunning})

	found := 0
	fresh := 0
	st, err := scanTarget(ctx, path, cfg.scanOptions(), func(fk types.FoundKey) error {
		found++
		fresh += len(ms.Merge(path, []types.FoundKey{fk}))
		return nil
	})
	rep.BytesScanned = st.Consumed

	res := types.TargetResult{Path: path, State: types.StateCompleted, Lines: found, NewKeys: fresh}
	switch {
	case err == nil:
		rep.FilesScanned = 1
	case ctx.Err() != nil:
		res.State = types.StateFailed
		log.Warn("scan interrupted", "path", path)
	case errors.Is(err, chunk.ErrSeekUnsupported):
		// keys before the failed rewind stand; later boundaries were not read
		rep.FilesScanned = 1
		res.Warning = err.Error()
		rep.Warnings = append(rep.Warnings, path+": "+err.Error())
		log.Warn("sequential read stopped early", "path", path, "err", err)
	default:
		res.State = types.StateFailed
		rep.Failures = append(rep.Failures, types.Failure{Path: path, Reason: types.ReasonError, Detail: err.Error()})
		log.Error("scan failed", "path", path, "err", err)
	}
	rep.Targets = append(rep.Targets, res)
	cfg.notify(TargetEvent{Index: 0, Total: 1, Path: path, State: res.State, NewKeys: fresh})
}
