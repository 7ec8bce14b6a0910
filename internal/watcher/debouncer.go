package watcher

import (
	"sort"
	"sync"
	"time"

	"github.com/fatih/color"
)

// debouncer collects changed Python sources until no new change has arrived
// for delay, then hands the whole batch to the re-analysis handler at once.
// Saving a file usually fires several writes; each path appears once per batch.
type debouncer struct {
	delay   time.Duration
	pending map[string]FileChangeEvent
	timer   *time.Timer
	mu      sync.Mutex
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]FileChangeEvent),
	}
}

// add records a changed source and restarts the quiet period.
func (d *debouncer) add(change FileChangeEvent, reanalyze FileChangeHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending[change.Path] = change
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.flush(reanalyze)
	})
}

func (d *debouncer) flush(reanalyze FileChangeHandler) {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(d.pending))
	for path := range d.pending {
		batch = append(batch, path)
	}
	d.pending = make(map[string]FileChangeEvent)
	d.mu.Unlock()

	// Reports list files in a stable order.
	sort.Strings(batch)
	if err := reanalyze(batch); err != nil {
		color.Red("Re-analysis of %d changed file(s) failed: %v\n", len(batch), err)
	}
}

// stop drops any pending batch; later changes are ignored.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]FileChangeEvent)
}
