package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/rcliao/tasktimeline/internal/logging"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// Watcher turns document changes and a periodic timer into refresh
// triggers. Bursts of file events within the debounce window produce one
// trigger; triggers are dropped while one is already pending.
type Watcher struct {
	source   *Source
	watcher  *fsnotify.Watcher
	debounce time.Duration
	interval time.Duration
	logger   *logging.Logger

	triggers chan struct{}
	stop     chan struct{}
}

// NewWatcher watches source's tree. An interval of zero disables the timer.
func NewWatcher(source *Source, debounce, interval time.Duration, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	return &Watcher{
		source:   source,
		watcher:  watcher,
		debounce: debounce,
		interval: interval,
		logger:   logger.Named("watcher"),
		triggers: make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}, nil
}

// Start adds every directory under the root and begins emitting triggers
// in the background. Call Stop to release the watcher.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.source.Root()); err != nil {
		return fmt.Errorf("watching %s: %w", w.source.Root(), err)
	}
	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

// Triggers receives one value per refresh the watcher asks for.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

func (w *Watcher) processEvents(ctx context.Context) {
	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var (
		timer    *time.Timer
		debounce <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug(ctx, "document changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if w.debounce <= 0 {
				w.fire()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			debounce = timer.C
		case <-debounce:
			debounce = nil
			w.fire()
		case <-tick:
			w.fire()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "watcher error", zap.Error(err))
		}
	}
}

// relevant reports whether event can change the document set. New
// directories are added to the watch list as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if isHidden(filepath.Base(event.Name)) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn(context.Background(), "failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			return true
		}
	}
	if w.source.Matches(event.Name) {
		return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
			event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	}
	// A removed directory may have held documents.
	return (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && filepath.Ext(event.Name) == ""
}

func (w *Watcher) fire() {
	select {
	case w.triggers <- struct{}{}:
	default:
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return fs.SkipDir
		}
		return w.watcher.Add(path)
	})
}
