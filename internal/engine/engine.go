package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/redactyl/keyelf/internal/cache"
	"github.com/redactyl/keyelf/internal/dedup"
	"github.com/redactyl/keyelf/internal/scanner"
	"github.com/redactyl/keyelf/internal/types"
	"github.com/redactyl/keyelf/internal/wif"
)

// DefaultTimeout bounds a single worker execution.
const DefaultTimeout = 300 * time.Second

// ErrNoTarget is returned when Run is called without a target path.
var ErrNoTarget = errors.New("no target given")

// Config controls a scan run.
type Config struct {
	Target     string
	OutputPath string
	ChunkSize  int
	NoMmap     bool

	// NoOutput disables the append-only hex sink.
	NoOutput bool

	// Timeout per worker execution; DefaultTimeout when zero.
	Timeout time.Duration

	IncludeGlobs string
	ExcludeGlobs string

	// Addresses derives P2PKH addresses for every newly discovered key.
	Addresses bool

	// UseCache skips unchanged files of a directory scan using results
	// recorded by a previous run.
	UseCache  bool
	CachePath string

	// Spawner runs isolated workers; a self re-executing spawner is used
	// when nil.
	Spawner Spawner
	Logger  *slog.Logger

	// Progress hooks, all optional and called from the goroutine running Run.
	OnTarget func(TargetEvent)
	OnBytes  func(consumed, total int64)
	OnKey    func(types.FoundKey)
}

// TargetEvent reports a state transition of one directory entry.
type TargetEvent struct {
	Index   int
	Total   int
	Path    string
	State   types.State
	NewKeys int
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c Config) notify(ev TargetEvent) {
	if c.OnTarget != nil {
		c.OnTarget(ev)
	}
}

func (c Config) scanOptions() ScanOptions {
	return ScanOptions{ChunkSize: c.ChunkSize, NoMmap: c.NoMmap, Progress: c.OnBytes}
}

// Run scans cfg.Target and returns the report. Individual target failures
// are recorded in the report; an error is returned only when the run could
// not start at all.
func Run(ctx context.Context, cfg Config) (types.Report, error) {
	rep := types.Report{Target: cfg.Target}
	if cfg.Target == "" {
		return rep, ErrNoTarget
	}
	info, err := os.Stat(cfg.Target)
	if err != nil {
		return rep, fmt.Errorf("target %s: %w", cfg.Target, err)
	}

	var sink *dedup.Sink
	if !cfg.NoOutput {
		sink = dedup.NewSink(cfg.OutputPath)
		rep.OutputPath = sink.Path
	}
	ms := NewMergeState(dedup.New(dedup.NewSet(), sink), cfg.logger())
	ms.Addresses = cfg.Addresses
	ms.OnKey = cfg.OnKey

	started := time.Now()
	if info.IsDir() {
		rep.Mode = types.ModeDirectory
		if err := runDirectory(ctx, cfg, ms, &rep); err != nil {
			return rep, err
		}
	} else {
		rep.Mode = types.ModeDirect
		runDirect(ctx, cfg, ms, &rep)
	}

	rep.Keys = ms.Keys()
	rep.SinkErrors = ms.SinkErrors()
	rep.Duration = time.Since(started)
	if ctx.Err() != nil {
		rep.Interrupted = true
	}
	return rep, nil
}

// MergeState is the single mutable context of a run: the dedup set, the
// output sink and the keys discovered so far, in arrival order. Only the
// goroutine driving Run touches it.
type MergeState struct {
	Addresses bool
	OnKey     func(types.FoundKey)

	dedup      *dedup.Deduplicator
	log        *slog.Logger
	keys       []types.FoundKey
	sinkErrors int
}

func NewMergeState(d *dedup.Deduplicator, log *slog.Logger) *MergeState {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MergeState{dedup: d, log: log}
}

// Merge passes found through the deduplicator in order and returns the keys
// that were new to this run, in arrival order. source is recorded on them.
func (s *MergeState) Merge(source string, found []types.FoundKey) []types.FoundKey {
	var fresh []types.FoundKey
	for _, fk := range found {
		isNew, err := s.dedup.Accept(fk.RawHex)
		if !isNew {
			continue
		}
		if err != nil {
			s.sinkErrors++
			s.log.Error("could not persist key", "source", source, "err", err)
		}
		fk.Source = source
		if s.Addresses {
			s.addAddresses(&fk)
		}
		s.keys = append(s.keys, fk)
		fresh = append(fresh, fk)
		if s.OnKey != nil {
			s.OnKey(fk)
		}
	}
	return fresh
}

func (s *MergeState) addAddresses(fk *types.FoundKey) {
	raw, ok := scanner.ParseRawKey(fk.RawHex)
	if !ok {
		return
	}
	c, u, err := wif.Addresses(raw)
	if err != nil {
		s.log.Debug("no address for candidate", "key_prefix", fk.RawHex[:8], "err", err)
		return
	}
	fk.AddressCompressed = c
	fk.AddressUncompressed = u
}

// Keys returns the discovered keys in arrival order.
func (s *MergeState) Keys() []types.FoundKey {
	out := make([]types.FoundKey, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *MergeState) SinkErrors() int { return s.sinkErrors }

func loadCache(cfg Config, log *slog.Logger) (cache.DB, string) {
	p := cfg.CachePath
	if p == "" {
		p = cache.DefaultPath()
	}
	db, err := cache.Load(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("ignoring unreadable result cache", "path", p, "err", err)
	}
	return db, p
}
