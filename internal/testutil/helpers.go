package testutil

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DiscardLogger returns a logger that writes nothing.
func DiscardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// StepClock returns a fixed start time on the first call and advances by Step
// on every call after that.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	Step time.Duration
}

func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, Step: step}
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.Step)
	return now
}
