package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/personalmgr/backend/domain"
	"github.com/personalmgr/backend/repository"
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	Completed   bool               `bson:"completed"`
	Priority    *int               `bson:"priority,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *taskDocument) toDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Completed:   d.Completed,
		Priority:    d.Priority,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository returns a Mongo-backed implementation of TaskRepository.
func NewTaskRepository(collection *mongo.Collection) repository.TaskRepository {
	return &taskRepository{collection: collection}
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := bson.M{"user_id": filter.UserID}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find().
		SetSkip(clampSkip(filter.Skip)).
		SetLimit(clampLimit(filter.Limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := make([]domain.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tasks = append(tasks, *doc.toDomain())
	}
	return tasks, cursor.Err()
}

func (r *taskRepository) Create(ctx context.Context, userID string, data domain.TaskCreate) (*domain.Task, error) {
	now := time.Now().UTC()
	doc := taskDocument{
		UserID:      userID,
		Title:       data.Title,
		Description: data.Description,
		DueDate:     data.DueDate,
		Completed:   data.Completed,
		Priority:    data.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// Get folds a malformed id, a query failure and a genuine miss into the same
// not-found result so callers cannot probe for records they do not own.
func (r *taskRepository) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || userID == "" {
		return nil, domain.ErrTaskNotFound
	}

	var doc taskDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeNotFound, "task not found", err)
	}
	return doc.toDomain(), nil
}

func (r *taskRepository) Update(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error) {
	// A patch with no fields is a no-op that still returns the record.
	if patch.IsEmpty() {
		return r.Get(ctx, id, userID)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || userID == "" {
		return nil, domain.ErrTaskNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.DueDate != nil {
		set["due_date"] = *patch.DueDate
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeNotFound, "task not found", err)
	}
	if result.MatchedCount == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.Get(ctx, id, userID)
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || userID == "" {
		return false, nil
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return false, nil
	}
	return result.DeletedCount > 0, nil
}

func clampLimit(limit int64) int64 {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func clampSkip(skip int64) int64 {
	if skip < 0 {
		return 0
	}
	return skip
}
