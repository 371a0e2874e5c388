package keyelf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/redactyl/keyelf/internal/audit"
	"github.com/redactyl/keyelf/internal/config"
	"github.com/redactyl/keyelf/internal/dedup"
	"github.com/redactyl/keyelf/internal/engine"
	"github.com/redactyl/keyelf/internal/report"
	"github.com/redactyl/keyelf/internal/types"
	"github.com/redactyl/keyelf/pkg/core"
)

// exitInterrupted follows the shell convention for SIGINT.
const exitInterrupted = 130

// loadConfigs returns the local (working directory) and global file configs.
// Missing files are not an error; unreadable or invalid ones are.
func loadConfigs() (local, global config.FileConfig, err error) {
	if c, err := config.LoadGlobal(); err == nil {
		global = c
	} else if !errors.Is(err, config.ErrNotFound) {
		return local, global, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return local, global, nil
	}
	if c, err := config.LoadLocal(wd); err == nil {
		local = c
	} else if !errors.Is(err, config.ErrNotFound) {
		return local, global, err
	}
	return local, global, nil
}

func runScan(cmd *cobra.Command, target string) error {
	// Load configs: CLI > local > global
	lcfg, gcfg, err := loadConfigs()
	if err != nil {
		return err
	}

	level, err := parseLevel(pickString(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel))
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, level)

	timeout, err := pickDuration(flagTimeout, lcfg, gcfg)
	if err != nil {
		return err
	}
	if timeout == 0 {
		timeout = engine.DefaultTimeout
	}
	chunkSize := pickInt(flagChunkSize, lcfg.ChunkSize, gcfg.ChunkSize)
	if chunkSize != 0 && chunkSize <= 36 {
		return fmt.Errorf("--chunk-size must exceed 36 bytes, got %d", chunkSize)
	}
	output := pickString(flagOutput, lcfg.Output, gcfg.Output)
	if output == "" {
		output = dedup.DefaultOutput
	}

	flags := cmd.Flags()
	structured := flagJSON || flagSARIF
	popts := report.PrintOptions{
		NoColor: pickBool(flagNoColor, flags.Changed("no-color"), lcfg.NoColor, gcfg.NoColor),
		Mask:    flagMask,
	}
	stdout := cmd.OutOrStdout()
	prog := newProgress(os.Stderr, flagQuiet)

	cfg := engine.Config{
		Target:       target,
		OutputPath:   output,
		ChunkSize:    chunkSize,
		NoMmap:       pickBool(flagNoMmap, flags.Changed("no-mmap"), lcfg.NoMmap, gcfg.NoMmap),
		Timeout:      timeout,
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		Addresses:    pickBool(flagAddresses, flags.Changed("addresses"), lcfg.Addresses, gcfg.Addresses),
		UseCache:     pickBool(flagCache, flags.Changed("cache"), lcfg.Cache, gcfg.Cache),
		CachePath:    pickString(flagCachePath, lcfg.CachePath, gcfg.CachePath),
		Logger:       logger,
		OnBytes:      prog.bytes,
		OnTarget:     prog.target,
	}
	if !structured {
		cfg.OnKey = func(fk types.FoundKey) {
			prog.clear()
			report.PrintKey(stdout, fk, popts)
		}
		report.PrintBanner(stdout, target, output, popts)
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := core.Scan(ctx, cfg)
	prog.finish()
	if err != nil {
		return err
	}

	if path := pickString(flagAuditLog, lcfg.AuditLog, gcfg.AuditLog); path != "" {
		if err := audit.NewAuditLog(path).LogRun(audit.CreateRunRecord(rep)); err != nil {
			logger.Warn("could not write audit log", "path", path, "err", err)
		}
	}

	switch {
	case flagJSON:
		err = core.MarshalReport(stdout, rep)
	case flagSARIF:
		err = report.WriteSARIF(stdout, rep, version)
	default:
		if flagTable {
			err = report.PrintKeysTable(stdout, rep.Keys, popts)
		}
		report.PrintSummary(stdout, rep, popts)
	}
	if err != nil {
		return err
	}
	if rep.Interrupted {
		return &exitError{code: exitInterrupted}
	}
	return nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
