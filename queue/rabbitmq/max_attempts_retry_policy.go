package rabbitmq

import (
	"time"
)

// Default values for the startup connection policy.
const (
	DefaultConnectAttempts = 10
	DefaultConnectInterval = 5 * time.Second
)

// NewDefaultMaxAttempts returns MaxAttempts with default values.
func NewDefaultMaxAttempts() *MaxAttempts {
	return NewMaxAttempts(DefaultConnectInterval, DefaultConnectAttempts)
}

// NewMaxAttempts creates a new MaxAttempts.
func NewMaxAttempts(interval time.Duration, attempts int) *MaxAttempts {
	if interval == 0 {
		panic("interval should not be 0")
	}

	if attempts <= 0 {
		panic("attempts should be positive")
	}

	return &MaxAttempts{
		interval: interval,
		attempts: attempts,
	}
}

// MaxAttempts is a RetryPolicy with a fixed delay that gives up after a
// bounded number of attempts.
type MaxAttempts struct {
	interval time.Duration
	attempts int
}

// TryNum for use in a for loop. tryNum is the number of the attempt that
// just failed, counted from zero.
func (m *MaxAttempts) TryNum(tryNum int) (time.Duration, bool) {
	if tryNum >= m.attempts-1 {
		return 0, true
	}

	return m.interval, false
}
