package repository

import (
	"context"

	"github.com/personalmgr/backend/domain"
)

// TaskFilter scopes a listing to one owner with optional completion filter
// and skip/limit pagination.
type TaskFilter struct {
	UserID    string
	Completed *bool
	Skip      int64
	Limit     int64
}

// TaskRepository is the owner-scoped task collection. Get, Update and Delete
// match on both id and owner: a malformed id, a missing record and a record
// owned by someone else are indistinguishable to the caller.
type TaskRepository interface {
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, userID string, data domain.TaskCreate) (*domain.Task, error)
	Get(ctx context.Context, id, userID string) (*domain.Task, error)
	Update(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}
