package keyelf

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/redactyl/keyelf/internal/engine"
	"github.com/redactyl/keyelf/internal/types"
)

// progress draws on stderr while a scan runs. All methods are no-ops when
// disabled, so callers need not check.
type progress struct {
	w       io.Writer
	enabled bool
	bar     *progressbar.ProgressBar
}

func newProgress(w io.Writer, quiet bool) *progress {
	enabled := !quiet
	if f, ok := w.(*os.File); ok && enabled {
		enabled = term.IsTerminal(int(f.Fd()))
	}
	return &progress{w: w, enabled: enabled}
}

// bytes tracks the direct path. An unknown total shows a spinner.
func (p *progress) bytes(consumed, total int64) {
	if !p.enabled {
		return
	}
	if p.bar == nil {
		limit := total
		if limit <= 0 {
			limit = -1
		}
		p.bar = progressbar.NewOptions64(limit,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("[ok] scanning"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}
	_ = p.bar.Set64(consumed)
}

// target tracks the directory path, one step per finished file.
func (p *progress) target(ev engine.TargetEvent) {
	if !p.enabled {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(ev.Total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionFullWidth(),
		)
	}
	switch {
	case ev.State == types.StateSpawned:
		p.bar.Describe(ev.Path)
	case ev.State.Terminal():
		_ = p.bar.Set(ev.Index + 1)
	}
}

// clear erases the bar so other output can be printed on a clean line.
func (p *progress) clear() {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		_, _ = io.WriteString(p.w, "\n")
	}
}
