package models

import (
	"testing"
	"time"
)

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	session := Session{ExpiresAt: now.Add(SessionTTL)}

	if session.Expired(now) {
		t.Fatalf("fresh session should not be expired")
	}
	if !session.Expired(now.Add(SessionTTL + time.Second)) {
		t.Fatalf("session past its TTL should be expired")
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to InterviewStatus
		ok       bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCompleted, StatusCompleted, true},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", c.from, c.to, c.ok, got)
		}
	}
}

func TestParseWebhookEventType(t *testing.T) {
	if ParseWebhookEventType("call-started") != EventCallStarted {
		t.Fatalf("known tag should round-trip")
	}
	if ParseWebhookEventType("totally-new-event") != EventUnknown {
		t.Fatalf("unknown tag should collapse to EventUnknown")
	}
	if ParseWebhookEventType("") != EventUnknown {
		t.Fatalf("empty tag should collapse to EventUnknown")
	}
}
