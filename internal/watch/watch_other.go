//go:build !linux

package watch

import (
	"context"
	"os"
	"sync"
	"time"
)

// Watcher polls modification time and size where inotify is unavailable.
type Watcher struct {
	mu       sync.Mutex
	files    map[string]stamp
	debounce *debouncer
}

type stamp struct {
	modTime time.Time
	size    int64
}

const pollInterval = 100 * time.Millisecond

// New creates a watcher that calls onChange with the absolute path of a
// changed file, at most once per debounce interval per burst.
func New(debounce time.Duration, onChange func(string)) (*Watcher, error) {
	return &Watcher{
		files:    make(map[string]stamp),
		debounce: newDebouncer(debounce, onChange),
	}, nil
}

// Add starts watching path
func (w *Watcher) Add(path string) error {
	absPath, info, err := resolve(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.files[absPath] = stamp{modTime: info.ModTime(), size: info.Size()}
	w.mu.Unlock()
	return nil
}

// Run polls until ctx is cancelled. Pending callbacks are dropped.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debounce.stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	w.mu.Lock()
	var changed []string
	for path, old := range w.files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		now := stamp{modTime: info.ModTime(), size: info.Size()}
		if now != old {
			w.files[path] = now
			changed = append(changed, path)
		}
	}
	w.mu.Unlock()

	for _, path := range changed {
		w.debounce.trigger(path)
	}
}
