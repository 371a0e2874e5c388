package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/redactyl/keyelf/internal/cache"
	"github.com/redactyl/keyelf/internal/types"
)

// runDirectory enumerates the directory once and hands every file to its own
// worker, one at a time. A target's failure is recorded and the loop moves on.
func runDirectory(ctx context.Context, cfg Config, ms *MergeState, rep *types.Report) error {
	log := cfg.logger()
	targets, failures, err := Enumerate(ctx, cfg)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("enumerate %s: %w", cfg.Target, err)
	}
	rep.Failures = append(rep.Failures, failures...)

	sp := cfg.Spawner
	if sp == nil {
		self, err := NewSelfSpawner(cfg.scanOptions(), cfg.Timeout)
		if err != nil {
			return err
		}
		sp = self
	}

	var db cache.DB
	var cachePath string
	if cfg.UseCache {
		db, cachePath = loadCache(cfg, log)
	}

	total := len(targets)
	log.Info("scanning directory", "path", cfg.Target, "files", total)
	for i, t := range targets {
		if ctx.Err() != nil {
			break
		}

		var key, fp string
		if cfg.UseCache {
			key = cacheKey(t.Path)
			fp = cache.Fingerprint(t.Size, t.ModTime)
			if lines, ok := db.Lookup(key, fp); ok {
				fresh := ms.Merge(t.Path, ParseOutput(lines))
				rep.Targets = append(rep.Targets, types.TargetResult{
					Path: t.Path, State: types.StateCompleted, Lines: len(lines), NewKeys: len(fresh), Cached: true,
				})
				rep.FilesScanned++
				cfg.notify(TargetEvent{Index: i, Total: total, Path: t.Path, State: types.StateCompleted, NewKeys: len(fresh)})
				continue
			}
		}

		cfg.notify(TargetEvent{Index: i, Total: total, Path: t.Path, State: types.StateSpawned})
		out := sp.Spawn(ctx, t.Path, func() {
			cfg.notify(TargetEvent{Index: i, Total: total, Path: t.Path, State: types.StateRunning})
		})

		// partial output of crashed and killed workers still counts
		fresh := ms.Merge(t.Path, ParseOutput(out.Lines))
		if ctx.Err() != nil && out.State != types.StateCompleted {
			log.Warn("scan interrupted", "path", t.Path)
			break
		}

		res := types.TargetResult{Path: t.Path, State: out.State, Lines: len(out.Lines), NewKeys: len(fresh), ExitCode: out.ExitCode}
		switch out.State {
		case types.StateCompleted:
			rep.FilesScanned++
			rep.BytesScanned += t.Size
			if out.Stderr != "" {
				res.Warning = firstLine(out.Stderr)
				rep.Warnings = append(rep.Warnings, t.Path+": "+res.Warning)
				log.Warn("worker reported a problem", "path", t.Path, "detail", res.Warning)
			}
			if cfg.UseCache {
				db.Store(key, fp, out.Lines)
			}
		case types.StateCrashed:
			rep.Failures = append(rep.Failures, types.Failure{
				Path: t.Path, Reason: types.ReasonCrashed, ExitCode: out.ExitCode, Detail: crashDetail(out),
			})
			log.Warn("worker crashed", "path", t.Path, "exit_code", out.ExitCode)
		case types.StateTimedOut:
			rep.Failures = append(rep.Failures, types.Failure{Path: t.Path, Reason: types.ReasonTimeout, Detail: errString(out.Err)})
			log.Warn("worker timed out", "path", t.Path)
		default:
			res.State = types.StateFailed
			rep.Failures = append(rep.Failures, types.Failure{Path: t.Path, Reason: types.ReasonError, Detail: errString(out.Err)})
			log.Error("worker failed", "path", t.Path, "err", out.Err)
		}
		rep.Targets = append(rep.Targets, res)
		cfg.notify(TargetEvent{Index: i, Total: total, Path: t.Path, State: res.State, NewKeys: len(fresh)})
	}

	if cfg.UseCache {
		if err := cache.Save(cachePath, db); err != nil {
			log.Warn("could not save result cache", "path", cachePath, "err", err)
		}
	}
	return nil
}

func cacheKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func crashDetail(out types.Outcome) string {
	if out.Stderr != "" {
		return firstLine(out.Stderr)
	}
	return errString(out.Err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
