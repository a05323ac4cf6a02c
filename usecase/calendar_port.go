package usecase

import (
	"context"
	"time"

	"github.com/personalmgr/backend/domain"
)

// EventListOptions narrows a provider listing. Zero TimeMin means "now";
// zero TimeMax means TimeMin plus thirty days. That window, not caller
// intent, defines "upcoming" when nothing is supplied.
type EventListOptions struct {
	CalendarID      string
	TimeMin         time.Time
	TimeMax         time.Time
	MaxResults      int64
	ExpandRecurring bool
	OrderBy         string
}

// EventCreate carries the fields for a new provider event.
type EventCreate struct {
	CalendarID  string
	Summary     string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
	Attendees   []string
}

// EventChanges is a partial event update; nil fields stay untouched.
type EventChanges struct {
	Summary     *string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
	Attendees   []string
}

// CalendarProvider abstracts the external calendar service. Implementations
// own a single shared authenticated session: every operation first ensures
// the session is authenticated and fails with an AUTH_REQUIRED error when a
// fresh credential exchange is needed. Provider failures are reported as
// domain.ProviderError; no operation retries on its own.
type CalendarProvider interface {
	Authenticate(ctx context.Context) error
	ListEvents(ctx context.Context, opts EventListOptions) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, create EventCreate) (*domain.CalendarEvent, error)
	UpdateEvent(ctx context.Context, eventID, calendarID string, changes EventChanges) (*domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, eventID, calendarID string) (bool, error)
}
