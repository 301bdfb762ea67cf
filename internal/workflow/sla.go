package workflow

import (
	"time"

	"github.com/spec-kit/approval-desk/internal/domain"
)

// StepDeadline computes the advisory due time for a step entered at the
// given instant. A zero-duration SLA yields the zero time, meaning no
// deadline. The engine never enforces deadlines; this feeds the external
// breach notifier.
func StepDeadline(entered time.Time, sla domain.SLA) time.Time {
	if sla.Duration <= 0 {
		return time.Time{}
	}

	increment := time.Hour
	if sla.Unit == domain.UnitDays {
		increment = 24 * time.Hour
	}

	deadline := entered
	for i := 0; i < sla.Duration; i++ {
		deadline = deadline.Add(increment)
		if sla.ExcludeWeekends {
			for isWeekend(deadline) {
				deadline = deadline.Add(24 * time.Hour)
			}
		}
	}
	return deadline
}

// Overdue reports whether the step entered at the given instant has
// exceeded its SLA budget as of now.
func Overdue(entered time.Time, sla domain.SLA, now time.Time) bool {
	deadline := StepDeadline(entered, sla)
	if deadline.IsZero() {
		return false
	}
	return now.After(deadline)
}

func isWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}
