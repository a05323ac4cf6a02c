package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/personalmgr/backend/domain"
	"github.com/personalmgr/backend/repository"
)

// TaskRepository keeps tasks in process memory. It backs the service when no
// Mongo URL is configured and doubles as the repository used in tests.
// Writes are last-writer-wins; there is no conflict detection between
// concurrent updates to the same task.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	order []string
}

// NewTaskRepository returns an empty in-memory task repository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[string]domain.Task),
	}
}

func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Task, 0)
	for _, id := range r.order {
		task, ok := r.tasks[id]
		if !ok || task.UserID != filter.UserID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		matched = append(matched, task)
	}

	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(matched)) {
		return []domain.Task{}, nil
	}
	matched = matched[skip:]

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *TaskRepository) Create(ctx context.Context, userID string, data domain.TaskCreate) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := domain.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       data.Title,
		Description: data.Description,
		DueDate:     data.DueDate,
		Completed:   data.Completed,
		Priority:    data.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.order = append(r.order, task.ID)
	r.mu.Unlock()

	return &task, nil
}

func (r *TaskRepository) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || userID == "" || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

func (r *TaskRepository) Update(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.IsEmpty() {
		return r.Get(ctx, id, userID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || userID == "" || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		task.DueDate = &due
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		priority := *patch.Priority
		task.Priority = &priority
	}
	task.UpdatedAt = time.Now().UTC()

	r.tasks[id] = task
	copied := task
	return &copied, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || userID == "" || task.UserID != userID {
		return false, nil
	}

	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}
