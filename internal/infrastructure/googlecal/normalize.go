package googlecal

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/personalmgr/backend/domain"
)

const defaultWindow = 30 * 24 * time.Hour

// eventWindow resolves the listing bounds: a zero lower bound defaults to
// now, a zero upper bound to lower bound plus 30 days. This window defines
// what "upcoming" means when the caller supplies nothing.
func eventWindow(timeMin, timeMax, now time.Time) (time.Time, time.Time) {
	if timeMin.IsZero() {
		timeMin = now
	}
	if timeMax.IsZero() {
		timeMax = timeMin.Add(defaultWindow)
	}
	return timeMin, timeMax
}

// normalizeEvent flattens a provider event into the stable internal shape.
// Start and end keep whichever representation the provider used, an instant
// or a bare date; the other is never fabricated. Absent optional fields map
// to empty strings and an empty attendee list, never to null. The provider's
// own status is authoritative here.
func normalizeEvent(event *calendar.Event) domain.CalendarEvent {
	if event == nil {
		return domain.CalendarEvent{Attendees: []string{}}
	}

	normalized := domain.CalendarEvent{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Start:       eventTime(event.Start),
		End:         eventTime(event.End),
		Location:    event.Location,
		Status:      event.Status,
		Attendees:   make([]string, 0, len(event.Attendees)),
	}
	if event.Organizer != nil {
		normalized.Organizer = event.Organizer.Email
	}
	// Attendee order is not meaningful but is preserved for determinism.
	for _, attendee := range event.Attendees {
		normalized.Attendees = append(normalized.Attendees, attendee.Email)
	}
	return normalized
}

func eventTime(edt *calendar.EventDateTime) string {
	if edt == nil {
		return ""
	}
	if edt.DateTime != "" {
		return edt.DateTime
	}
	return edt.Date
}
