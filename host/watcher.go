package host

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/widgets/logging"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is used when a Watcher is created with no debounce.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches one file and calls onChange after writes settle. Rapid
// writes collapse into a single call once the file has been quiet for the
// debounce interval.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *logrus.Entry
}

// NewWatcher watches path. The containing directory is watched so editors
// that save by rename are still seen.
func NewWatcher(path string, debounce time.Duration, onChange func(ctx context.Context)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  watcher,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		logger:   logging.NewLogger("watcher"),
	}, nil
}

// Path is the watched file.
func (w *Watcher) Path() string { return w.path }

// Start processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
			pending = timer.C
		case <-pending:
			pending = nil
			w.logger.Infof("Config changed: %s", filepath.Base(w.path))
			if w.onChange != nil {
				w.onChange(ctx)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
