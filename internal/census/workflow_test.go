package census

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoAssignOnSave(t *testing.T) {
	got := NextStatusOnSave(StatusUnassigned, true, false, false)
	assert.Equal(t, StatusAssigned, got)
}

func TestNoAssignWithoutTranscriber(t *testing.T) {
	got := NextStatusOnSave(StatusUnassigned, false, false, false)
	assert.Equal(t, StatusUnassigned, got)
}

func TestAssignedNeverRevertsAutomatically(t *testing.T) {
	// Clearing a transcriber is an admin decision; saving must not undo the
	// assigned state on its own.
	got := NextStatusOnSave(StatusAssigned, true, false, false)
	assert.Equal(t, StatusAssigned, got)

	got = NextStatusOnSave(StatusInProgress, true, false, false)
	assert.Equal(t, StatusInProgress, got)
}

func TestTranscriberSaveWithDataForcesReview(t *testing.T) {
	for _, current := range []string{StatusAssigned, StatusInProgress, StatusCompleted} {
		got := NextStatusOnSave(current, true, true, true)
		assert.Equal(t, StatusNeedsReview, got, "from %s", current)
	}
}

func TestTranscriberSaveWithoutDataKeepsStatus(t *testing.T) {
	got := NextStatusOnSave(StatusInProgress, true, true, false)
	assert.Equal(t, StatusInProgress, got)
}

func TestReviewerSaveDoesNotForceReview(t *testing.T) {
	got := NextStatusOnSave(StatusCompleted, true, false, true)
	assert.Equal(t, StatusCompleted, got)
}

func TestApprovedIsTerminalForAutoTransitions(t *testing.T) {
	got := NextStatusOnSave(StatusApproved, true, true, true)
	assert.Equal(t, StatusApproved, got)
}

func TestUnassignedWithTranscriberAndDataGoesToReview(t *testing.T) {
	// Both transitions apply on one save; the review handoff wins.
	got := NextStatusOnSave(StatusUnassigned, true, true, true)
	assert.Equal(t, StatusNeedsReview, got)
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("archived"))
	assert.False(t, IsValidStatus(""))
}

func TestMembershipTotalMembersPrecedence(t *testing.T) {
	total := 310
	male := 140
	female := 170

	m := &Membership{TotalMembersBySex: &total, MaleMembers: &male, FemaleMembers: &female}
	assert.Equal(t, 310, m.TotalMembers(), "the recorded total wins")

	m = &Membership{MaleMembers: &male, FemaleMembers: &female}
	assert.Equal(t, 310, m.TotalMembers())

	m = &Membership{MaleMembers: &male}
	assert.Equal(t, 140, m.TotalMembers())

	m = &Membership{}
	assert.Equal(t, 0, m.TotalMembers())

	assert.Equal(t, 0, (*Membership)(nil).TotalMembers())
}
