package adapter

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// DefaultDebounce is how long the watcher waits for more changes.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports batches of changed source files.
type Watcher interface {
	// Watch starts watching the directories behind roots. Batches of changed
	// .ts and .html files are sent on the returned channel, which is closed
	// when ctx ends.
	Watch(ctx context.Context, roots []m.Path) (<-chan []m.Path, error)
}

// WatcherConfig configures a LocalWatcher.
type WatcherConfig struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// LocalWatcher is the fsnotify-backed Watcher.
type LocalWatcher struct {
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher creates a LocalWatcher.
func NewWatcher(cfg WatcherConfig) *LocalWatcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LocalWatcher{debounce: debounce, logger: logger}
}

// Watch implements Watcher.
func (w *LocalWatcher) Watch(ctx context.Context, roots []m.Path) (<-chan []m.Path, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range watchDirs(roots) {
		if err := w.addRecursive(fsw, dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	out := make(chan []m.Path)

	go w.loop(ctx, fsw, out)

	return out, nil
}

func (w *LocalWatcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if _, skip := skippedDirs[info.Name()]; skip && path != root {
			return filepath.SkipDir
		}

		if err := fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", zap.String("path", path), zap.Error(err))
		}

		return nil
	})
}

func (w *LocalWatcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []m.Path) {
	defer close(out)
	defer func() { _ = fsw.Close() }()

	pending := make(map[string]struct{})

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(fsw, event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
					}

					continue
				}
			}

			if !isSourceFile(event.Name) {
				continue
			}

			w.logger.Debug("file change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))

			pending[event.Name] = struct{}{}

			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}

			w.logger.Error("watcher error", zap.Error(err))

		case <-timer.C:
			batch := make([]m.Path, 0, len(pending))
			for path := range pending {
				batch = append(batch, m.Path(path))
			}

			pending = make(map[string]struct{})

			if len(batch) == 0 {
				continue
			}

			sort.Slice(batch, func(i, j int) bool { return batch[i] < batch[j] })

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// watchDirs maps command-line roots to the directories to watch.
func watchDirs(roots []m.Path) []string {
	seen := make(map[string]struct{})

	var dirs []string

	for _, root := range roots {
		dir := string(root)

		switch {
		case isGlob(dir):
			dir, _ = doublestar.SplitPattern(filepath.ToSlash(dir))
			dir = filepath.FromSlash(dir)
		default:
			dir, _ = parseRootPath(dir)
			if info, err := os.Stat(dir); err == nil && !info.IsDir() {
				dir = filepath.Dir(dir)
			}
		}

		if dir == "" {
			dir = "."
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}

		if _, ok := seen[abs]; ok {
			continue
		}

		seen[abs] = struct{}{}
		dirs = append(dirs, abs)
	}

	sort.Strings(dirs)

	return pruneNested(dirs)
}

// pruneNested drops directories already covered by a parent in dirs, which
// must be sorted.
func pruneNested(dirs []string) []string {
	var out []string

	for _, dir := range dirs {
		if n := len(out); n > 0 && strings.HasPrefix(dir, out[n-1]+string(filepath.Separator)) {
			continue
		}

		out = append(out, dir)
	}

	return out
}
