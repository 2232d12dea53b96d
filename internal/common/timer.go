// Package common provides small shared utilities such as stage timing.
package common

import (
	"fmt"
	"time"
)

// Timer measures the duration of a named processing stage.
type Timer struct {
	start   time.Time
	name    string
	elapsed time.Duration
}

// NewTimer starts an unnamed timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer starts a timer for the given stage name.
func NewNamedTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop records and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.elapsed = time.Since(t.start)
	return t.elapsed
}

// Elapsed returns the recorded duration, valid after Stop.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Name returns the stage name, empty if unnamed.
func (t *Timer) Name() string {
	return t.name
}

func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.elapsed)
	}
	return t.elapsed.String()
}
