package services

import (
	types "github.com/yungbote/talentgrid-backend/internal/domain"
)

// SessionEvent is a lifecycle event observed on a calibration session.
type SessionEvent string

const (
	SessionEventStart           SessionEvent = "START"
	SessionEventRequestApproval SessionEvent = "REQUEST_APPROVAL"
	SessionEventReopen          SessionEvent = "REOPEN"
	SessionEventComplete        SessionEvent = "COMPLETE"
	SessionEventCancel          SessionEvent = "CANCEL"
)

type sessionTransitionKey struct {
	Status string
	Event  SessionEvent
}

// sessionTransitions is the closed transition table: anything absent here is
// an invalid-state error and a no-op. COMPLETED and CANCELLED admit nothing.
var sessionTransitions = map[sessionTransitionKey]string{
	{types.SessionStatusPreparation, SessionEventStart}:  types.SessionStatusInProgress,
	{types.SessionStatusPreparation, SessionEventCancel}: types.SessionStatusCancelled,

	{types.SessionStatusInProgress, SessionEventRequestApproval}: types.SessionStatusPendingApproval,
	{types.SessionStatusInProgress, SessionEventComplete}:        types.SessionStatusCompleted,
	{types.SessionStatusInProgress, SessionEventCancel}:          types.SessionStatusCancelled,

	{types.SessionStatusPendingApproval, SessionEventComplete}: types.SessionStatusCompleted,
	{types.SessionStatusPendingApproval, SessionEventReopen}:   types.SessionStatusInProgress,
	{types.SessionStatusPendingApproval, SessionEventCancel}:   types.SessionStatusCancelled,
}

// ResolveSessionTransition returns the destination status for event applied
// from status, or ok=false when the table does not admit the pair.
func ResolveSessionTransition(status string, event SessionEvent) (string, bool) {
	next, ok := sessionTransitions[sessionTransitionKey{Status: status, Event: event}]
	return next, ok
}

func ValidSessionEvent(event SessionEvent) bool {
	switch event {
	case SessionEventStart, SessionEventRequestApproval, SessionEventReopen, SessionEventComplete, SessionEventCancel:
		return true
	default:
		return false
	}
}
