// Package watch calls back when watched source files change on disk.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// debouncer coalesces bursts of change events per path into one callback
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	fn      func(string)
	stopped bool
	running sync.WaitGroup
}

func newDebouncer(delay time.Duration, fn func(string)) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer), fn: fn}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if timer, exists := d.timers[path]; exists {
		timer.Stop()
	}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		delete(d.timers, path)
		d.running.Add(1)
		d.mu.Unlock()

		defer d.running.Done()
		d.fn(path)
	})
}

// stop drops pending callbacks and waits for any that already started
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
	d.mu.Unlock()

	d.running.Wait()
}

// resolve makes path absolute and checks it names a regular file
func resolve(path string) (string, os.FileInfo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", nil, err
	}
	if !info.Mode().IsRegular() {
		return "", nil, fmt.Errorf("%s is not a regular file", absPath)
	}
	return absPath, info, nil
}
