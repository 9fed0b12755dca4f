package logging

import (
	"fmt"
	"time"
)

// StepTimer reports how long each step of a multi-step job took.
type StepTimer struct {
	begin time.Time
	last  time.Time
	now   func() time.Time
}

func NewStepTimer() *StepTimer {
	return newStepTimer(time.Now)
}

func newStepTimer(now func() time.Time) *StepTimer {
	t := now()
	return &StepTimer{begin: t, last: t, now: now}
}

// Step logs the time since the previous step and since the start.
func (t *StepTimer) Step() (step, total time.Duration) {
	n := t.now()
	step, total = n.Sub(t.last), n.Sub(t.begin)
	t.last = n
	Info(fmt.Sprintf("step took %.3f min; total %.3f min", step.Minutes(), total.Minutes()))
	return step, total
}

// Done logs the total time up to the last step.
func (t *StepTimer) Done() time.Duration {
	total := t.last.Sub(t.begin)
	Success("!!! DONE !!!")
	Success(fmt.Sprintf("took %.3f min", total.Minutes()))
	return total
}
