package importer

import "github.com/chnm/relcensus-backend/internal/census"

// MapLegacyStatus derives the workflow status from the reviewed and
// is_approved flags of the legacy transcription export. Flags arrive as "0",
// "1", or nil when the column was empty.
//
// Approval outranks everything: a record flagged approved is approved even
// when the reviewed flag contradicts it, because approval was the later and
// more deliberate action in the source system.
func MapLegacyStatus(reviewed, isApproved *string) string {
	flag := func(p *string, want string) bool {
		return p != nil && *p == want
	}

	switch {
	case flag(isApproved, "1"):
		return census.StatusApproved
	case flag(reviewed, "1") && flag(isApproved, "0"):
		return census.StatusCompleted
	case flag(reviewed, "1") && isApproved == nil:
		return census.StatusNeedsReview
	case flag(reviewed, "0"):
		return census.StatusInProgress
	default:
		return census.StatusUnassigned
	}
}
