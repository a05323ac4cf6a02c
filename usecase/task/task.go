package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/personalmgr/backend/domain"
	"github.com/personalmgr/backend/pkg/httpcontext"
	"github.com/personalmgr/backend/repository"
	"github.com/personalmgr/backend/usecase"
)

// UseCase is the caller-facing façade over task persistence and the
// calendar provider. Task CRUD passes straight through to the repository;
// event listings are ownership-checked here before the provider is touched.
type UseCase struct {
	tasks    repository.TaskRepository
	calendar usecase.CalendarProvider
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, calendar usecase.CalendarProvider, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		calendar: calendar,
		logger:   logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	return uc.tasks.Get(ctx, id, userID)
}

func (uc *UseCase) CreateTask(ctx context.Context, userID string, data domain.TaskCreate) (*domain.Task, error) {
	if strings.TrimSpace(data.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	return uc.tasks.Create(ctx, userID, data)
}

func (uc *UseCase) UpdateTask(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title cannot be empty")
	}
	return uc.tasks.Update(ctx, id, userID, patch)
}

func (uc *UseCase) DeleteTask(ctx context.Context, id, userID string) (bool, error) {
	return uc.tasks.Delete(ctx, id, userID)
}

// ListEvents returns upcoming calendar events for the requesting user. The
// user id embedded in the request must match the authenticated caller; on
// mismatch the request is refused before any provider call is made.
func (uc *UseCase) ListEvents(ctx context.Context, callerID string, req domain.EventRequest) ([]domain.CalendarEvent, error) {
	if req.UserID == "" || req.UserID != callerID {
		uc.logger.Warn("event request refused",
			zap.String("caller_id", callerID),
			zap.String("request_user_id", req.UserID),
			zap.String("remote_addr", httpcontext.RemoteAddr(ctx)),
			zap.String("user_agent", httpcontext.UserAgent(ctx)),
		)
		return nil, domain.ErrPermissionDenied
	}

	opts := usecase.EventListOptions{}
	if req.TargetStart != "" {
		if start, err := time.Parse(time.RFC3339, req.TargetStart); err == nil {
			opts.TimeMin = start
		}
	}

	raw, err := uc.calendar.ListEvents(ctx, opts)
	if err != nil {
		return nil, err
	}

	events := make([]domain.CalendarEvent, 0, len(raw))
	for _, event := range raw {
		if event.Status == "" {
			event.Status = "confirmed"
		}
		if event.Attendees == nil {
			event.Attendees = []string{}
		}
		events = append(events, event)
	}
	return events, nil
}
