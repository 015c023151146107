package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/store"
)

// defaultGrace is how long a filesystem event may settle before the watcher
// classifies it. It has to outlast `uv venv` writing the payload plus uvve
// writing the metadata record afterwards.
const defaultGrace = 10 * time.Second

// Watcher observes the envs root for directories appearing or vanishing
// outside uvve's control.
type Watcher struct {
	root   string
	store  *store.Store
	log    *history.Log
	logger *zap.Logger
	clock  clockwork.Clock
	grace  time.Duration

	fw       *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Watcher over the envs root. A nil logger disables logging.
func New(root string, st *store.Store, ledger *history.Log, logger *zap.Logger) (*Watcher, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if ledger == nil {
		return nil, fmt.Errorf("history ledger cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		root:   root,
		store:  st,
		log:    ledger,
		logger: logger,
		clock:  clockwork.NewRealClock(),
		grace:  defaultGrace,
		stopCh: make(chan struct{}),
	}, nil
}

// SetGrace overrides the settle period. Must be called before Start.
func (w *Watcher) SetGrace(d time.Duration) {
	w.grace = d
}

// Start subscribes to filesystem events on the envs root and begins
// classifying them in the background.
func (w *Watcher) Start() error {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return fmt.Errorf("failed to create envs root %s: %w", w.root, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fw.Add(w.root); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	w.fw = fw

	w.logger.Info("watching envs root", zap.String("root", w.root))

	w.wg.Add(1)
	go w.run()

	return nil
}

// run dispatches filesystem events until stopped.
func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.dispatch(event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("filesystem watcher error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}

// dispatch routes one filesystem event. Only direct children of the envs
// root matter; events inside environment directories never reach us because
// the watch is not recursive.
func (w *Watcher) dispatch(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if skipEntry(name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() {
			// Files in the envs root are doctor's business, not drift.
			return
		}
		w.logger.Debug("directory appeared", zap.String("env", name))
		w.classifyLater(name, w.classifyCreate)

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.logger.Debug("directory entry vanished", zap.String("env", name))
		w.classifyLater(name, w.classifyRemove)
	}
}

// classifyLater waits out the grace period and then runs the classifier,
// unless the watcher stops first.
func (w *Watcher) classifyLater(name string, classify func(string)) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-w.clock.After(w.grace):
		case <-w.stopCh:
			return
		}
		classify(name)
	}()
}

// classifyCreate decides whether a directory that appeared is drift. uvve's
// own create writes the metadata record and a ledger event; a directory with
// neither after the grace period came from outside.
func (w *Watcher) classifyCreate(name string) {
	if w.store.Exists(name) {
		return
	}

	since := w.clock.Now().UTC().Add(-2 * w.grace)
	n, err := w.log.CountSince(name, history.KindCreated, since)
	if err != nil {
		w.logger.Error("history query failed", zap.String("env", name), zap.Error(err))
		return
	}
	if n > 0 {
		return
	}

	if err := w.log.Append(name, history.KindDriftCreated, w.clock.Now().UTC()); err != nil {
		w.logger.Error("failed to record drift", zap.String("env", name), zap.Error(err))
	}
	w.logger.Warn("directory appeared without metadata",
		zap.String("env", name),
		zap.String("dir", filepath.Join(w.root, name)))
}

// classifyRemove decides whether a vanished directory is drift. uvve's own
// remove appends a ledger event right after deleting; names the ledger has
// never seen are ignored so stray-file churn stays quiet.
func (w *Watcher) classifyRemove(name string) {
	if w.store.Exists(name) {
		// A remove and recreate raced the grace period.
		return
	}

	seen, err := w.log.Seen(name)
	if err != nil {
		w.logger.Error("history query failed", zap.String("env", name), zap.Error(err))
		return
	}
	if !seen {
		return
	}

	since := w.clock.Now().UTC().Add(-2 * w.grace)
	n, err := w.log.CountSince(name, history.KindRemoved, since)
	if err != nil {
		w.logger.Error("history query failed", zap.String("env", name), zap.Error(err))
		return
	}
	if n > 0 {
		return
	}

	if err := w.log.Append(name, history.KindDriftRemoved, w.clock.Now().UTC()); err != nil {
		w.logger.Error("failed to record drift", zap.String("env", name), zap.Error(err))
	}
	w.logger.Warn("environment removed outside uvve", zap.String("env", name))
}

// skipEntry filters names that can never be environments.
func skipEntry(name string) bool {
	if name == "" || name == "." {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return strings.HasSuffix(name, ".tmp")
}

// Stop halts the watcher and waits for in-flight classifications to bail
// out. Stopping an already stopped watcher is a no-op.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)

		if w.fw != nil {
			if cerr := w.fw.Close(); cerr != nil {
				err = fmt.Errorf("failed to close filesystem watcher: %w", cerr)
			}
		}

		w.wg.Wait()
		w.logger.Info("watcher stopped")
	})
	return err
}
