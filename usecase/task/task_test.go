package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/personalmgr/backend/domain"
	memoryRepo "github.com/personalmgr/backend/repository/memory"
	"github.com/personalmgr/backend/usecase"
)

// mockProvider implements usecase.CalendarProvider for testing.
type mockProvider struct {
	ListFunc  func(ctx context.Context, opts usecase.EventListOptions) ([]domain.CalendarEvent, error)
	CallCount int
	LastOpts  usecase.EventListOptions
}

func (m *mockProvider) Authenticate(ctx context.Context) error { return nil }

func (m *mockProvider) ListEvents(ctx context.Context, opts usecase.EventListOptions) ([]domain.CalendarEvent, error) {
	m.CallCount++
	m.LastOpts = opts
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockProvider) CreateEvent(ctx context.Context, create usecase.EventCreate) (*domain.CalendarEvent, error) {
	return nil, errors.New("not implemented")
}

func (m *mockProvider) UpdateEvent(ctx context.Context, eventID, calendarID string, changes usecase.EventChanges) (*domain.CalendarEvent, error) {
	return nil, errors.New("not implemented")
}

func (m *mockProvider) DeleteEvent(ctx context.Context, eventID, calendarID string) (bool, error) {
	return false, errors.New("not implemented")
}

func newUseCase(provider usecase.CalendarProvider) (*UseCase, *memoryRepo.TaskRepository) {
	repo := memoryRepo.NewTaskRepository()
	return New(repo, provider, nil), repo
}

func TestCreateTaskValidatesTitle(t *testing.T) {
	uc, _ := newUseCase(&mockProvider{})

	for _, title := range []string{"", "   "} {
		_, err := uc.CreateTask(context.Background(), "u1", domain.TaskCreate{Title: title})
		if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
			t.Errorf("title %q: expected INVALID, got %v", title, err)
		}
	}
}

func TestCreateThenCompleteTask(t *testing.T) {
	uc, _ := newUseCase(&mockProvider{})
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, "u1", domain.TaskCreate{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.Completed || created.ID == "" {
		t.Fatalf("unexpected created task: %+v", created)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Error("fresh task should have created_at == updated_at")
	}

	time.Sleep(5 * time.Millisecond)

	completed := true
	if _, err := uc.UpdateTask(ctx, created.ID, "u1", domain.TaskPatch{Completed: &completed}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	got, err := uc.GetTask(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !got.Completed {
		t.Error("task should be completed")
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updated_at %v should be after created_at %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestUpdateTaskRejectsEmptyTitle(t *testing.T) {
	uc, _ := newUseCase(&mockProvider{})
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, "u1", domain.TaskCreate{Title: "keep me"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	empty := ""
	_, err = uc.UpdateTask(ctx, created.ID, "u1", domain.TaskPatch{Title: &empty})
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID, got %v", err)
	}

	got, _ := uc.GetTask(ctx, created.ID, "u1")
	if got.Title != "keep me" {
		t.Error("rejected update must not reach storage")
	}
}

func TestListEventsOwnershipMismatch(t *testing.T) {
	provider := &mockProvider{}
	uc, _ := newUseCase(provider)

	_, err := uc.ListEvents(context.Background(), "u2", domain.EventRequest{
		UserID:       "u1",
		EventDetails: domain.EventDetails{EventText: "team meeting"},
	})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if provider.CallCount != 0 {
		t.Error("no provider call may be issued on an ownership mismatch")
	}
}

func TestListEventsEmptyUserID(t *testing.T) {
	provider := &mockProvider{}
	uc, _ := newUseCase(provider)

	_, err := uc.ListEvents(context.Background(), "", domain.EventRequest{UserID: ""})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("an empty user id must never pass the ownership check, got %v", err)
	}
	if provider.CallCount != 0 {
		t.Error("no provider call may be issued without a user id")
	}
}

func TestListEventsNormalizesDefaults(t *testing.T) {
	provider := &mockProvider{
		ListFunc: func(ctx context.Context, opts usecase.EventListOptions) ([]domain.CalendarEvent, error) {
			return []domain.CalendarEvent{
				{
					ID:      "event1",
					Summary: "Team Meeting",
					Start:   "2025-10-02T10:00:00-07:00",
					End:     "2025-10-02T11:00:00-07:00",
					Status:  "tentative",
					Attendees: []string{
						"user1@example.com",
						"user2@example.com",
					},
				},
				{
					ID:    "event2",
					Start: "2025-10-05",
					End:   "2025-10-06",
					// No status and no attendees from the provider.
				},
			}, nil
		},
	}
	uc, _ := newUseCase(provider)

	events, err := uc.ListEvents(context.Background(), "u1", domain.EventRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if events[0].Status != "tentative" {
		t.Errorf("provider status must be preserved, got %q", events[0].Status)
	}
	if events[0].Attendees[0] != "user1@example.com" || events[0].Attendees[1] != "user2@example.com" {
		t.Error("attendee order must be preserved")
	}

	if events[1].Status != "confirmed" {
		t.Errorf("absent status defaults to confirmed, got %q", events[1].Status)
	}
	if events[1].Attendees == nil {
		t.Error("attendees must be an empty list, never nil")
	}
	if events[1].Start != "2025-10-05" {
		t.Errorf("bare-date start must survive untouched, got %q", events[1].Start)
	}
}

func TestListEventsTargetStart(t *testing.T) {
	provider := &mockProvider{}
	uc, _ := newUseCase(provider)

	target := "2026-01-15T09:00:00Z"
	_, err := uc.ListEvents(context.Background(), "u1", domain.EventRequest{
		UserID:      "u1",
		TargetStart: target,
	})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}

	want, _ := time.Parse(time.RFC3339, target)
	if !provider.LastOpts.TimeMin.Equal(want) {
		t.Errorf("target_start should become the window lower bound, got %v", provider.LastOpts.TimeMin)
	}
}

func TestListEventsUnparsableTargetStart(t *testing.T) {
	provider := &mockProvider{}
	uc, _ := newUseCase(provider)

	_, err := uc.ListEvents(context.Background(), "u1", domain.EventRequest{
		UserID:      "u1",
		TargetStart: "next tuesday",
	})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if !provider.LastOpts.TimeMin.IsZero() {
		t.Error("an unparsable target_start falls back to the default window")
	}
}

func TestListEventsProviderFailure(t *testing.T) {
	providerErr := domain.NewProviderError("list_events", errors.New("quota exceeded"))
	provider := &mockProvider{
		ListFunc: func(ctx context.Context, opts usecase.EventListOptions) ([]domain.CalendarEvent, error) {
			return nil, providerErr
		},
	}
	uc, _ := newUseCase(provider)

	_, err := uc.ListEvents(context.Background(), "u1", domain.EventRequest{UserID: "u1"})
	if !errors.Is(err, providerErr) {
		t.Fatalf("provider failures must propagate unchanged, got %v", err)
	}
}
