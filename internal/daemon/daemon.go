package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Nomadcxx/mediasort/internal/config"
	"github.com/Nomadcxx/mediasort/internal/metadata"
	"github.com/Nomadcxx/mediasort/internal/reporter"
	"github.com/Nomadcxx/mediasort/internal/sorter"
	"github.com/Nomadcxx/mediasort/internal/transfer"
)

// Daemon watches configured inbox directories and sorts media files as they
// arrive. New files are held until they have been quiet for the configured
// settle period so half-downloaded files are never picked up; a rescan
// ticker sweeps the whole inbox as a safety net for missed events.
type Daemon struct {
	cfg    *config.Config
	srt    *sorter.Sorter
	logger *log.Logger

	pending map[string]time.Time
}

// New creates a daemon instance from a validated config
func New(cfg *config.Config, logger *log.Logger) (*Daemon, error) {
	action, err := transfer.ParseAction(cfg.Daemon.Action)
	if err != nil {
		return nil, err
	}

	opts := sorter.Options{
		MoviesDest: cfg.Daemon.MoviesDest,
		TVDest:     cfg.Daemon.TVDest,
		Action:     action,
		Replace:    cfg.Parameters.Replace,
		TagMeta:    cfg.Parameters.TagMetainfo,
	}

	srt, err := sorter.New(cfg, metadata.NewResolver(cfg.API), opts)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:     cfg,
		srt:     srt,
		logger:  logger,
		pending: make(map[string]time.Time),
	}, nil
}

// Run watches the inbox paths until the context is cancelled
func (d *Daemon) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range d.cfg.Daemon.InboxPaths {
		if err := addRecursive(watcher, path); err != nil {
			return err
		}
		d.logger.Printf("Watching: %s", path)
	}

	rescan, err := time.ParseDuration(d.cfg.Daemon.RescanInterval)
	if err != nil || rescan <= 0 {
		rescan = time.Hour
	}
	rescanTicker := time.NewTicker(rescan)
	defer rescanTicker.Stop()

	settle := time.Duration(d.cfg.Daemon.SettleSeconds) * time.Second
	if settle <= 0 {
		settle = 30 * time.Second
	}
	settleTicker := time.NewTicker(settle / 3)
	defer settleTicker.Stop()

	// Initial sweep picks up whatever was waiting before we started
	d.rescan(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			d.handleEvent(watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Printf("Watcher error: %v", err)

		case <-settleTicker.C:
			d.processSettled(ctx, settle)

		case <-rescanTicker.C:
			d.logger.Printf("Starting scheduled inbox rescan...")
			d.rescan(ctx)
		}
	}
}

// handleEvent queues new or changed media files and tracks new directories
func (d *Daemon) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		delete(d.pending, event.Name)
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := addRecursive(watcher, event.Name); err != nil {
				d.logger.Printf("Failed to watch new directory %s: %v", event.Name, err)
			}
		}
		return
	}

	if d.cfg.HasValidExtension(event.Name) {
		d.pending[event.Name] = time.Now()
	}
}

// processSettled sorts every pending file that has been quiet long enough
func (d *Daemon) processSettled(ctx context.Context, settle time.Duration) {
	for path, last := range d.pending {
		if time.Since(last) < settle {
			continue
		}
		delete(d.pending, path)

		if _, err := os.Stat(path); err != nil {
			continue
		}

		d.logger.Printf("Sorting: %s", path)
		result := d.srt.SortFile(ctx, path)
		d.logResult(result)
	}
}

// rescan sweeps all inbox paths and reports the batch
func (d *Daemon) rescan(ctx context.Context) {
	for _, path := range d.cfg.Daemon.InboxPaths {
		results, err := d.srt.SortPath(ctx, path, nil)
		if err != nil {
			d.logger.Printf("Rescan of %s failed: %v", path, err)
			continue
		}
		if len(results) == 0 {
			continue
		}

		for _, result := range results {
			d.logResult(result)
		}

		report := reporter.Build(path, d.cfg.Daemon.Action, false, results)
		if reportPath, err := reporter.Generate(report); err != nil {
			d.logger.Printf("Failed to save report: %v", err)
		} else {
			d.logger.Printf("Rescan report saved to %s", reportPath)
		}
	}
}

func (d *Daemon) logResult(result sorter.FileResult) {
	switch result.Outcome {
	case sorter.OutcomeCreated, sorter.OutcomeReplaced:
		d.logger.Printf("%s: %s -> %s", result.Outcome, result.Source, result.Destination)
	case sorter.OutcomeSkipped:
		d.logger.Printf("skipped: %s (%s)", result.Source, result.Reason)
	case sorter.OutcomeFailed:
		d.logger.Printf("failed: %s (%s)", result.Source, result.Reason)
	}
}

// addRecursive watches a directory and all its subdirectories
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("unable to watch %s: %w", path, err)
		}
		return nil
	})
}
