package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTicketNumber(t *testing.T) {
	assert.Equal(t, "MYCO-PR-2025-00000001", FormatTicketNumber("MYCO", "PR", 2025, 1))
	assert.Equal(t, "ACME-IT-2026-00012345", FormatTicketNumber("ACME", "IT", 2026, 12345))
}

func TestTerminalStatus(t *testing.T) {
	assert.True(t, TerminalStatus(StatusApproved))
	assert.True(t, TerminalStatus(StatusRejected))
	assert.True(t, TerminalStatus(StatusCancelled))
	assert.False(t, TerminalStatus(StatusDraft))
	assert.False(t, TerminalStatus("Pending Manager Approval"))
}

func TestVoteTracking(t *testing.T) {
	ticket := &Ticket{}
	ticket.RecordVote(1, "finance")
	ticket.RecordVote(1, "finance")
	ticket.RecordVote(1, "controller")

	assert.Equal(t, []string{"finance", "controller"}, ticket.VotedRoles(1))

	ticket.ClearVotes(1)
	assert.Empty(t, ticket.VotedRoles(1))
}

func TestRoleAppliesTo(t *testing.T) {
	comp := "comp-1"
	scoped := Role{Name: "finance", CompanyID: &comp}
	global := Role{Name: "admin"}

	assert.True(t, scoped.AppliesTo("comp-1"))
	assert.False(t, scoped.AppliesTo("comp-2"))
	assert.True(t, global.AppliesTo("comp-2"))
}
