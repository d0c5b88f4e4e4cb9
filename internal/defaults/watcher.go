package defaults

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads the default file when it changes on disk. An edited file
// that fails validation is ignored and the current default stays in place.
type Watcher struct {
	store    *Store
	holder   *Holder
	log      *logrus.Logger
	fs       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	started  bool
}

func NewWatcher(store *Store, holder *Holder, log *logrus.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		store:    store,
		holder:   holder,
		log:      log,
		fs:       fw,
		debounce: 250 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// Start watches the file's directory; atomic saves replace the inode, so
// watching the file itself would lose track after the first rename.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.store.Path())
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.log.WithField("path", w.store.Path()).Info("Watching default configuration")
	w.started = true
	go w.run(ctx)
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	if w.started {
		<-w.done
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.store.Path() {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = time.After(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("Default configuration watcher error")
		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	changed, err := w.holder.Reload()
	if err != nil {
		w.log.WithError(err).Warn("Ignoring invalid default configuration, keeping current")
		return
	}
	if !changed {
		return
	}
	cfg := w.holder.Current()
	w.log.WithFields(logrus.Fields{
		"path":    w.store.Path(),
		"targets": len(cfg.TargetSequence),
		"mode":    cfg.OperationMode,
	}).Info("Default configuration reloaded")
}
