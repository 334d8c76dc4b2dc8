//go:build linux

package watch

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Watcher uses inotify on the parent directories, so editors that save by
// rename are seen as well as in-place writes.
type Watcher struct {
	fd       int
	mu       sync.Mutex
	dirs     map[int]string      // watch descriptor -> directory
	files    map[string]struct{} // absolute paths of interest
	debounce *debouncer
}

const watchMask = unix.IN_CLOSE_WRITE | unix.IN_MODIFY | unix.IN_MOVED_TO | unix.IN_CREATE

// New creates a watcher that calls onChange with the absolute path of a
// changed file, at most once per debounce interval per burst.
func New(debounce time.Duration, onChange func(string)) (*Watcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %w", err)
	}

	return &Watcher{
		fd:       fd,
		dirs:     make(map[int]string),
		files:    make(map[string]struct{}),
		debounce: newDebouncer(debounce, onChange),
	}, nil
}

// Add starts watching path
func (w *Watcher) Add(path string) error {
	absPath, _, err := resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)

	wd, err := unix.InotifyAddWatch(w.fd, dir, watchMask)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.dirs[wd] = dir
	w.files[absPath] = struct{}{}
	w.mu.Unlock()

	return nil
}

// Run reads events until ctx is cancelled, then releases the inotify
// descriptor. Pending callbacks are dropped.
func (w *Watcher) Run(ctx context.Context) error {
	defer unix.Close(w.fd)
	defer w.debounce.stop()

	buf := make([]byte, 16*1024)
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := unix.Read(w.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(50 * time.Millisecond):
				}
				continue
			}
			return fmt.Errorf("reading inotify events: %w", err)
		}

		w.dispatch(buf[:n])
	}
}

func (w *Watcher) dispatch(buf []byte) {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buf) {
		event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
		nameStart := offset + unix.SizeofInotifyEvent
		nameEnd := nameStart + int(event.Len)
		offset = nameEnd
		if event.Mask&watchMask == 0 || event.Len == 0 || nameEnd > len(buf) {
			continue
		}

		name := string(bytes.TrimRight(buf[nameStart:nameEnd], "\x00"))
		w.mu.Lock()
		dir := w.dirs[int(event.Wd)]
		path := filepath.Join(dir, name)
		_, interesting := w.files[path]
		w.mu.Unlock()

		if dir != "" && interesting {
			w.debounce.trigger(path)
		}
	}
}
