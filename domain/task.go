package domain

import "time"

// Task represents a user-owned to-do record.
type Task struct {
	ID          string     `bson:"-" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Completed   bool       `bson:"completed" json:"completed"`
	Priority    *int       `bson:"priority,omitempty" json:"priority,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// TaskCreate carries the caller-supplied fields for a new task.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    *int       `json:"priority,omitempty"`
}

// TaskPatch is a partial update. A nil field is left untouched; a non-nil
// field is written as-is, so callers can distinguish "unset" from an
// explicit value. Optional fields cannot be reverted to absent.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.DueDate == nil &&
		p.Completed == nil &&
		p.Priority == nil
}
