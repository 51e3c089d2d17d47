// Package syncer coalesces rapid submission writes into one remote upsert
// per quiet period, keyed by run identity.
package syncer

import (
	"sync"
	"time"

	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
)

type pendingTask struct {
	timer *time.Timer
	fn    func()
}

// Debouncer holds at most one pending task per key. Scheduling again within
// the window replaces the task, so only the latest value is ever written.
// A task runs exactly once: either when its timer fires or when it is
// flushed, never both.
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]*pendingTask
	logger  *logging.ChanneledLogger
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(window time.Duration, logger *logging.ChanneledLogger) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]*pendingTask),
		logger:  logger,
	}
}

// Schedule queues fn to run after the quiet period, replacing any task
// already pending for the key.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}

	task := &pendingTask{fn: fn}
	task.timer = time.AfterFunc(d.window, func() { d.fire(key, task) })
	d.pending[key] = task
}

// fire runs a task from its timer, unless it was superseded or flushed.
func (d *Debouncer) fire(key string, task *pendingTask) {
	d.mu.Lock()
	if d.pending[key] != task {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	task.fn()
}

// Flush runs the pending task for a key synchronously, if any. The caller
// gets a completed write before proceeding, which is what final submission
// needs.
func (d *Debouncer) Flush(key string) {
	d.mu.Lock()
	task, ok := d.pending[key]
	if ok {
		delete(d.pending, key)
		task.timer.Stop()
	}
	d.mu.Unlock()

	if ok {
		task.fn()
	}
}

// Cancel drops the pending task for a key without running it.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if task, ok := d.pending[key]; ok {
		task.timer.Stop()
		delete(d.pending, key)
	}
}

// FlushAll drains every pending task synchronously. Used at shutdown so
// in-flight drafts are not lost.
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for key := range d.pending {
		keys = append(keys, key)
	}
	d.mu.Unlock()

	for _, key := range keys {
		d.Flush(key)
	}
	if len(keys) > 0 {
		d.logger.Sync().Info("Drained pending submission writes", "count", len(keys))
	}
}

// PendingCount returns the number of keys with a queued task.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
