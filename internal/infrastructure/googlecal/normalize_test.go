package googlecal

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
)

func TestEventWindowDefaults(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	min, max := eventWindow(time.Time{}, time.Time{}, now)
	if !min.Equal(now) {
		t.Errorf("zero lower bound should default to now, got %v", min)
	}
	if !max.Equal(now.Add(defaultWindow)) {
		t.Errorf("zero upper bound should default to now+30d, got %v", max)
	}
}

func TestEventWindowLowerBoundOnly(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	target := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	min, max := eventWindow(target, time.Time{}, now)
	if !min.Equal(target) {
		t.Errorf("explicit lower bound should be kept, got %v", min)
	}
	if !max.Equal(target.Add(defaultWindow)) {
		t.Errorf("upper bound should track the lower bound, got %v", max)
	}
}

func TestEventWindowExplicitBounds(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	min := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

	gotMin, gotMax := eventWindow(min, max, now)
	if !gotMin.Equal(min) || !gotMax.Equal(max) {
		t.Errorf("explicit bounds must pass through unchanged: [%v, %v]", gotMin, gotMax)
	}
}

func TestNormalizeEventTimed(t *testing.T) {
	event := &calendar.Event{
		Id:          "evt1",
		Summary:     "Team Meeting",
		Description: "Weekly sync",
		Location:    "Room 4",
		Status:      "tentative",
		Start:       &calendar.EventDateTime{DateTime: "2025-10-02T10:00:00-07:00"},
		End:         &calendar.EventDateTime{DateTime: "2025-10-02T11:00:00-07:00"},
		Organizer:   &calendar.EventOrganizer{Email: "boss@example.com"},
		Attendees: []*calendar.EventAttendee{
			{Email: "user1@example.com"},
			{Email: "user2@example.com"},
		},
	}

	got := normalizeEvent(event)
	if got.ID != "evt1" || got.Summary != "Team Meeting" {
		t.Errorf("identity fields mismatch: %+v", got)
	}
	if got.Start != "2025-10-02T10:00:00-07:00" || got.End != "2025-10-02T11:00:00-07:00" {
		t.Errorf("instants should be preserved verbatim: start=%q end=%q", got.Start, got.End)
	}
	if got.Organizer != "boss@example.com" {
		t.Errorf("organizer email mismatch: %q", got.Organizer)
	}
	if got.Status != "tentative" {
		t.Errorf("status mismatch: %q", got.Status)
	}
	if len(got.Attendees) != 2 || got.Attendees[0] != "user1@example.com" || got.Attendees[1] != "user2@example.com" {
		t.Errorf("attendee order must be preserved: %v", got.Attendees)
	}
}

func TestNormalizeEventAllDay(t *testing.T) {
	event := &calendar.Event{
		Id:    "evt2",
		Start: &calendar.EventDateTime{Date: "2025-10-05"},
		End:   &calendar.EventDateTime{Date: "2025-10-06"},
	}

	got := normalizeEvent(event)
	if got.Start != "2025-10-05" || got.End != "2025-10-06" {
		t.Errorf("bare dates must not be promoted to instants: start=%q end=%q", got.Start, got.End)
	}
}

func TestNormalizeEventSparse(t *testing.T) {
	got := normalizeEvent(&calendar.Event{Id: "evt3"})

	if got.Summary != "" || got.Description != "" || got.Location != "" || got.Organizer != "" {
		t.Errorf("absent fields must be empty strings: %+v", got)
	}
	if got.Start != "" || got.End != "" {
		t.Errorf("absent times must be empty strings: start=%q end=%q", got.Start, got.End)
	}
	if got.Attendees == nil {
		t.Error("attendees must be an empty list, never nil")
	}
	if len(got.Attendees) != 0 {
		t.Errorf("expected no attendees, got %v", got.Attendees)
	}
}

func TestNormalizeEventDateTimeWinsOverDate(t *testing.T) {
	event := &calendar.Event{
		Id: "evt4",
		Start: &calendar.EventDateTime{
			DateTime: "2025-10-02T10:00:00Z",
			Date:     "2025-10-02",
		},
	}

	got := normalizeEvent(event)
	if got.Start != "2025-10-02T10:00:00Z" {
		t.Errorf("the instant takes precedence over the date, got %q", got.Start)
	}
}
