// Package progress reports throttled batch progress while a collection is
// iterated. It observes the run only; it never touches the data.
package progress

import (
	"log"
	"time"
)

// DefaultInterval is how often progress lines are emitted during a run.
const DefaultInterval = 2 * time.Second

// Tracker logs throttled progress for one labelled batch run.
type Tracker struct {
	label    string
	total    int
	interval time.Duration
	done     int
	started  time.Time
	lastLog  time.Time

	now func() time.Time // test hook
}

// New creates a Tracker for total records under the given label.
func New(label string, total int) *Tracker {
	t := &Tracker{
		label:    label,
		total:    total,
		interval: DefaultInterval,
		now:      time.Now,
	}
	t.started = t.now()
	t.lastLog = t.started
	return t
}

// Tick records one processed record, logging at most once per interval.
func (t *Tracker) Tick() {
	t.done++
	now := t.now()
	if now.Sub(t.lastLog) < t.interval {
		return
	}
	t.lastLog = now
	t.logLine(now)
}

// Done logs the final count and elapsed time.
func (t *Tracker) Done() {
	elapsed := t.now().Sub(t.started)
	log.Printf("%s: finished %d/%d records in %.1fs (%.0f records/sec)",
		t.label, t.done, t.total, elapsed.Seconds(), t.rate(elapsed))
}

// Count returns the number of records seen so far.
func (t *Tracker) Count() int { return t.done }

func (t *Tracker) logLine(now time.Time) {
	elapsed := now.Sub(t.started)
	log.Printf("%s: %d/%d records (%.0f records/sec)",
		t.label, t.done, t.total, t.rate(elapsed))
}

func (t *Tracker) rate(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(t.done) / elapsed.Seconds()
}
