package census

// NextStatusOnSave applies the automatic transitions that run whenever a
// schedule is saved through the application.
//
// Rules:
//   - unassigned becomes assigned as soon as a transcriber is set.
//   - a transcriber saving a schedule that already holds transcribed data
//     moves it to needs_review so a reviewer picks it up.
//   - approved never changes automatically; reverting it is a manual action.
//
// CSV import does not go through this path, so bulk loads never bounce
// records into review.
func NextStatusOnSave(current string, hasTranscriber bool, actorIsTranscriber bool, hasChildRows bool) string {
	if current == StatusApproved {
		return current
	}

	next := current
	if current == StatusUnassigned && hasTranscriber {
		next = StatusAssigned
	}

	if actorIsTranscriber && hasChildRows {
		next = StatusNeedsReview
	}

	return next
}
