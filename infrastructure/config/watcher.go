package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
)

// ReloadFunc is invoked once per debounced change of a dataset file. It
// reports whether the in-memory snapshot was replaced.
type ReloadFunc func(ctx context.Context, dataset valueobjects.DatasetName) (bool, error)

// DataWatcher watches the data directory for edits to dataset files made
// outside the process and asks the service to reload them.
type DataWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	reload   ReloadFunc
	logger   *zap.Logger
	debounce time.Duration

	mu     sync.Mutex
	timers map[valueobjects.DatasetName]*time.Timer
	stopCh chan struct{}
	once   sync.Once
}

// NewDataWatcher creates a watcher on dir. Start must be called to begin
// delivering reloads.
func NewDataWatcher(dir string, reload ReloadFunc, logger *zap.Logger) (*DataWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Atomic saves rename into the directory, so the directory is watched
	// instead of the individual files.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch data directory: %w", err)
	}

	return &DataWatcher{
		dir:      dir,
		watcher:  watcher,
		reload:   reload,
		logger:   logger,
		debounce: 100 * time.Millisecond,
		timers:   make(map[valueobjects.DatasetName]*time.Timer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for data file changes
func (w *DataWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("Data watcher started", zap.String("dir", w.dir))
}

// Stop stops watching. It is safe to call more than once.
func (w *DataWatcher) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		w.watcher.Close()

		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()

		w.logger.Info("Data watcher stopped")
	})
}

func (w *DataWatcher) watchLoop() {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			dataset, ok := datasetFor(event.Name)
			if !ok {
				continue
			}
			w.schedule(dataset)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Data watcher error", zap.Error(err))
		}
	}
}

func (w *DataWatcher) schedule(dataset valueobjects.DatasetName) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[dataset]; ok {
		t.Stop()
	}
	w.timers[dataset] = time.AfterFunc(w.debounce, func() {
		w.handleChange(dataset)
	})
}

func (w *DataWatcher) handleChange(dataset valueobjects.DatasetName) {
	select {
	case <-w.stopCh:
		return
	default:
	}

	changed, err := w.reload(context.Background(), dataset)
	if err != nil {
		w.logger.Error("Failed to reload dataset",
			zap.String("dataset", string(dataset)),
			zap.Error(err),
		)
		return
	}
	if changed {
		w.logger.Info("Dataset reloaded from disk", zap.String("dataset", string(dataset)))
	}
}

// datasetFor maps "<dir>/questions.json" to its dataset. Temp files and
// unknown names are ignored.
func datasetFor(path string) (valueobjects.DatasetName, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".json" {
		return "", false
	}
	d, err := valueobjects.ParseDataset(strings.TrimSuffix(base, ".json"))
	if err != nil {
		return "", false
	}
	return d.Name(), true
}
