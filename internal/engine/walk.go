package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/redactyl/keyelf/internal/types"
)

// Enumerate lists the regular files under cfg.Target once, in lexical
// order. A symlink is scanned when it resolves to a regular file; linked
// directories are not descended into, and devices and sockets are skipped.
// Entries that cannot be read are returned as failures and skipped.
func Enumerate(ctx context.Context, cfg Config) ([]types.Target, []types.Failure, error) {
	var files []types.Target
	var failures []types.Failure
	err := filepath.WalkDir(cfg.Target, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			failures = append(failures, types.Failure{Path: p, Reason: types.ReasonError, Detail: err.Error()})
			if d != nil && d.IsDir() && p != cfg.Target {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		link := d.Type()&fs.ModeSymlink != 0
		if !link && !d.Type().IsRegular() {
			return nil
		}
		rel, _ := filepath.Rel(cfg.Target, p)
		if !allowedByGlobs(rel, cfg) {
			return nil
		}
		var info fs.FileInfo
		if link {
			// dangling links and links to anything but a file are not targets
			info, err = os.Stat(p)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if info, err = d.Info(); err != nil {
			failures = append(failures, types.Failure{Path: p, Reason: types.ReasonError, Detail: err.Error()})
			return nil
		}
		files = append(files, types.Target{Path: p, Size: info.Size(), SizeKnown: true, ModTime: info.ModTime()})
		return nil
	})
	return files, failures, err
}
