package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/approval-desk/internal/domain"
)

func TestStepDeadlineHours(t *testing.T) {
	// Thursday 09:00 UTC.
	entered := time.Date(2025, 7, 17, 9, 0, 0, 0, time.UTC)
	sla := domain.SLA{Duration: 4, Unit: domain.UnitHours}
	assert.Equal(t, entered.Add(4*time.Hour), StepDeadline(entered, sla))
}

func TestStepDeadlineDaysSkipsWeekends(t *testing.T) {
	// Friday 10:00 UTC. One working day later is Monday.
	entered := time.Date(2025, 7, 18, 10, 0, 0, 0, time.UTC)
	sla := domain.SLA{Duration: 1, Unit: domain.UnitDays, ExcludeWeekends: true}

	deadline := StepDeadline(entered, sla)
	assert.Equal(t, time.Monday, deadline.Weekday())
	assert.Equal(t, time.Date(2025, 7, 21, 10, 0, 0, 0, time.UTC), deadline)
}

func TestStepDeadlineDaysIncludingWeekends(t *testing.T) {
	entered := time.Date(2025, 7, 18, 10, 0, 0, 0, time.UTC)
	sla := domain.SLA{Duration: 2, Unit: domain.UnitDays}
	assert.Equal(t, entered.Add(48*time.Hour), StepDeadline(entered, sla))
}

func TestZeroDurationMeansNoDeadline(t *testing.T) {
	entered := time.Date(2025, 7, 18, 10, 0, 0, 0, time.UTC)
	assert.True(t, StepDeadline(entered, domain.SLA{}).IsZero())
	assert.False(t, Overdue(entered, domain.SLA{}, entered.Add(1000*time.Hour)))
}

func TestOverdue(t *testing.T) {
	entered := time.Date(2025, 7, 17, 9, 0, 0, 0, time.UTC)
	sla := domain.SLA{Duration: 2, Unit: domain.UnitHours}

	assert.False(t, Overdue(entered, sla, entered.Add(time.Hour)))
	assert.True(t, Overdue(entered, sla, entered.Add(3*time.Hour)))
}
