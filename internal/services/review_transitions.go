package services

import (
	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/domain/review"
)

// ReviewEvent is a lifecycle event observed on a review.
type ReviewEvent string

const (
	ReviewEventSubmit  ReviewEvent = "SUBMIT"
	ReviewEventSign    ReviewEvent = "SIGN"
	ReviewEventReject  ReviewEvent = "REJECT"
	ReviewEventArchive ReviewEvent = "ARCHIVE"
)

type reviewTransitionKey struct {
	Status string
	Event  ReviewEvent
}

// reviewTransitions is the single source of truth for the review lifecycle.
// The destination can depend on the review's stage and signature state, so
// each entry resolves against the row rather than naming a fixed status.
var reviewTransitions = map[reviewTransitionKey]func(rev *types.Review) string{
	{types.ReviewStatusDraft, ReviewEventSubmit}: submitDestination,

	{types.ReviewStatusPendingEmployeeSignature, ReviewEventSign}: signDestination,
	{types.ReviewStatusPendingManagerSignature, ReviewEventSign}:  signDestination,

	{types.ReviewStatusPendingEmployeeSignature, ReviewEventReject}: rejectDestination,
	{types.ReviewStatusPendingManagerSignature, ReviewEventReject}:  rejectDestination,

	{types.ReviewStatusDraft, ReviewEventArchive}:                    archiveDestination,
	{types.ReviewStatusPendingEmployeeSignature, ReviewEventArchive}: archiveDestination,
	{types.ReviewStatusPendingManagerSignature, ReviewEventArchive}:  archiveDestination,
}

// ResolveReviewTransition returns the destination status for event applied to
// rev, or ok=false when the review's current status does not admit the event.
// SIGNED and ARCHIVED are terminal and admit nothing.
func ResolveReviewTransition(rev *types.Review, event ReviewEvent) (string, bool) {
	resolve, ok := reviewTransitions[reviewTransitionKey{Status: rev.Status, Event: event}]
	if !ok {
		return "", false
	}
	return resolve(rev), true
}

// Goal setting is submitted by the employee and goes to the manager first;
// scoring stages are submitted by the manager and go to the employee first.
func submitDestination(rev *types.Review) string {
	if review.ScoringStage(rev.Stage) {
		return types.ReviewStatusPendingEmployeeSignature
	}
	return types.ReviewStatusPendingManagerSignature
}

func signDestination(rev *types.Review) string {
	switch rev.Status {
	case types.ReviewStatusPendingEmployeeSignature:
		if rev.ManagerSignedAt != nil {
			return types.ReviewStatusSigned
		}
		return types.ReviewStatusPendingManagerSignature
	case types.ReviewStatusPendingManagerSignature:
		if rev.EmployeeSignedAt != nil {
			return types.ReviewStatusSigned
		}
		return types.ReviewStatusPendingEmployeeSignature
	}
	return rev.Status
}

// A rejection during a scoring stage while the manager's signature is pending
// sends the review back one step, to the employee, instead of all the way to
// DRAFT. Every other rejection reopens the draft.
func rejectDestination(rev *types.Review) string {
	if review.ScoringStage(rev.Stage) && rev.Status == types.ReviewStatusPendingManagerSignature {
		return types.ReviewStatusPendingEmployeeSignature
	}
	return types.ReviewStatusDraft
}

func archiveDestination(*types.Review) string {
	return types.ReviewStatusArchived
}
