package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects paths and flushes them once no new path has been added
// for the configured window, or as soon as maxBatch distinct paths are queued.
type Debouncer struct {
	window   time.Duration
	maxBatch int
	paths    map[string]struct{}
	mu       sync.Mutex
	timer    *time.Timer
	onFlush  func([]string)
	stopped  bool
}

// NewDebouncer builds a Debouncer. A non-positive maxBatch disables the size
// trigger.
func NewDebouncer(window time.Duration, maxBatch int, onFlush func([]string)) *Debouncer {
	return &Debouncer{
		window:   window,
		maxBatch: maxBatch,
		paths:    make(map[string]struct{}),
		onFlush:  onFlush,
	}
}

// Add queues path and restarts the quiet-period timer.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.paths[path] = struct{}{}

	if d.maxBatch > 0 && len(d.paths) >= d.maxBatch {
		d.flushLocked()
		return
	}

	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if !d.stopped {
			d.flushLocked()
		} else {
			d.mu.Unlock()
		}
	})

	d.mu.Unlock()
}

// flushLocked must be called with d.mu held; it releases the lock before
// invoking the callback.
func (d *Debouncer) flushLocked() {
	paths := make([]string, 0, len(d.paths))
	for path := range d.paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	d.paths = make(map[string]struct{})

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.mu.Unlock()

	if len(paths) > 0 && d.onFlush != nil {
		d.onFlush(paths)
	}
}

// Stop cancels the pending timer and flushes whatever is queued. Later calls
// to Add are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	d.stopped = true

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len(d.paths) > 0 {
		d.flushLocked()
	} else {
		d.mu.Unlock()
	}
}
