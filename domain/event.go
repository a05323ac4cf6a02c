package domain

// CalendarEvent is the provider-independent event shape. Start and End hold
// whatever representation the provider returned: an RFC3339 instant or a
// bare calendar date. The missing counterpart is never synthesized.
type CalendarEvent struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Location    string   `json:"location,omitempty"`
	Organizer   string   `json:"organizer,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	Status      string   `json:"status"`
}

// EventDetails describes an event in free text plus optional structured hints.
type EventDetails struct {
	EventText  string   `json:"event_text"`
	Date       string   `json:"date,omitempty"`
	Time       string   `json:"time,omitempty"`
	Location   string   `json:"location,omitempty"`
	Attendees  []string `json:"attendees,omitempty"`
	Duration   string   `json:"duration,omitempty"`
	Recurrence string   `json:"recurrence,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// EventRequest binds a user to an event query. UserID is compared against
// the authenticated caller and is never trusted as the acting identity on
// its own.
type EventRequest struct {
	EventDetails EventDetails `json:"event_details"`
	TargetStart  string       `json:"target_start,omitempty"`
	UserID       string       `json:"user_id"`
}
