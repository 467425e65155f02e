package services

import (
	"testing"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
)

func TestResolveSessionTransitionTable(t *testing.T) {
	admitted := []struct {
		status string
		event  SessionEvent
		want   string
	}{
		{types.SessionStatusPreparation, SessionEventStart, types.SessionStatusInProgress},
		{types.SessionStatusPreparation, SessionEventCancel, types.SessionStatusCancelled},
		{types.SessionStatusInProgress, SessionEventRequestApproval, types.SessionStatusPendingApproval},
		{types.SessionStatusInProgress, SessionEventComplete, types.SessionStatusCompleted},
		{types.SessionStatusInProgress, SessionEventCancel, types.SessionStatusCancelled},
		{types.SessionStatusPendingApproval, SessionEventComplete, types.SessionStatusCompleted},
		{types.SessionStatusPendingApproval, SessionEventReopen, types.SessionStatusInProgress},
		{types.SessionStatusPendingApproval, SessionEventCancel, types.SessionStatusCancelled},
	}
	for _, c := range admitted {
		got, ok := ResolveSessionTransition(c.status, c.event)
		if !ok || got != c.want {
			t.Fatalf("%s + %s = (%s, %v), want %s", c.status, c.event, got, ok, c.want)
		}
	}
	if len(admitted) != len(sessionTransitions) {
		t.Fatalf("table has %d entries, test covers %d", len(sessionTransitions), len(admitted))
	}
}

func TestSessionTransitionRejectsEverythingElse(t *testing.T) {
	statuses := []string{
		types.SessionStatusPreparation,
		types.SessionStatusInProgress,
		types.SessionStatusPendingApproval,
		types.SessionStatusCompleted,
		types.SessionStatusCancelled,
	}
	events := []SessionEvent{
		SessionEventStart,
		SessionEventRequestApproval,
		SessionEventReopen,
		SessionEventComplete,
		SessionEventCancel,
	}
	for _, status := range statuses {
		for _, event := range events {
			_, inTable := sessionTransitions[sessionTransitionKey{Status: status, Event: event}]
			_, ok := ResolveSessionTransition(status, event)
			if ok != inTable {
				t.Fatalf("%s + %s: resolve=%v, table=%v", status, event, ok, inTable)
			}
		}
	}
	for _, event := range events {
		if _, ok := ResolveSessionTransition(types.SessionStatusCompleted, event); ok {
			t.Fatalf("COMPLETED admitted %s", event)
		}
		if _, ok := ResolveSessionTransition(types.SessionStatusCancelled, event); ok {
			t.Fatalf("CANCELLED admitted %s", event)
		}
	}
}

func TestValidSessionEvent(t *testing.T) {
	for _, event := range []SessionEvent{SessionEventStart, SessionEventRequestApproval, SessionEventReopen, SessionEventComplete, SessionEventCancel} {
		if !ValidSessionEvent(event) {
			t.Fatalf("ValidSessionEvent(%s) = false", event)
		}
	}
	if ValidSessionEvent("PAUSE") {
		t.Fatalf("ValidSessionEvent accepted unknown event")
	}
}
