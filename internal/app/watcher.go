package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/bft-labs/walletcli/internal/domain"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Dir is the payload directory to watch.
	Dir string

	// Debounce delays a re-run until no payload event arrived for this long.
	Debounce time.Duration

	// OnRun, if set, is called after every completed sequence run.
	OnRun func(Report)
}

// Watcher re-runs a sequence whenever one of its payload files changes.
// Runs are serialized: a change during a run schedules the next one.
type Watcher struct {
	runner *Runner
	seq    []domain.Request
	opts   WatchOptions
	logger zerolog.Logger
	files  map[string]bool
}

// NewWatcher creates a watcher for seq's payload files under opts.Dir.
func NewWatcher(runner *Runner, seq []domain.Request, opts WatchOptions, logger zerolog.Logger) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	files := make(map[string]bool, len(seq))
	for _, r := range seq {
		if r.File != "" {
			files[filepath.Base(r.File)] = true
		}
	}
	return &Watcher{runner: runner, seq: seq, opts: opts, logger: logger, files: files}
}

// Run performs an initial run, then blocks re-running on payload changes
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.opts.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.opts.Dir, err)
	}
	w.logger.Info().Str("dir", w.opts.Dir).Dur("debounce", w.opts.Debounce).Msg("watching payloads")

	w.run(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Base(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("payload changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.opts.Debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.run(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	rep := w.runner.Run(ctx, w.seq)
	if w.opts.OnRun != nil {
		w.opts.OnRun(rep)
	}
}
