package clock

import (
	"time"
)

// Clock abstracts time-based waits so that callers can be tested without real delays.
type Clock interface {
	// Sleep pauses the current goroutine for at least the given duration.
	// A negative or zero duration returns immediately.
	Sleep(duration time.Duration)
}

type clock struct{}

// New returns a Clock backed by the time package.
func New() Clock {
	return clock{}
}

func (clock) Sleep(duration time.Duration) {
	time.Sleep(duration)
}
