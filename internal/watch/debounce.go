package watch

import (
	"sort"
	"time"
)

// debouncer collapses bursts of events per path: a path becomes due once no
// event for it arrived for the debounce interval.
type debouncer struct {
	wait     time.Duration
	deadline map[string]time.Time
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{wait: wait, deadline: make(map[string]time.Time)}
}

// Add records an event for path at now, pushing its deadline back.
func (d *debouncer) Add(path string, now time.Time) {
	d.deadline[path] = now.Add(d.wait)
}

// Due removes and returns the paths whose deadline has passed, sorted.
func (d *debouncer) Due(now time.Time) []string {
	var due []string
	for path, at := range d.deadline {
		if !at.After(now) {
			due = append(due, path)
			delete(d.deadline, path)
		}
	}
	sort.Strings(due)
	return due
}

// Next returns the earliest pending deadline.
func (d *debouncer) Next() (time.Time, bool) {
	var next time.Time
	for _, at := range d.deadline {
		if next.IsZero() || at.Before(next) {
			next = at
		}
	}
	return next, !next.IsZero()
}

// Len returns the number of pending paths.
func (d *debouncer) Len() int {
	return len(d.deadline)
}
