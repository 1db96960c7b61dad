package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{collection: db.Collection(database.TasksCollection)}
}

// List returns every task in natural order
func (r *MongoTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// FindByID finds a task by ID
func (r *MongoTaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// Create inserts a task
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		task.ID = primitive.NilObjectID
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a task
func (r *MongoTaskRepository) Update(ctx context.Context, id primitive.ObjectID, update TaskUpdate) error {
	set := bson.M{
		"title":       update.Title,
		"description": update.Description,
		"status":      update.Status,
		"assignedTo":  update.AssignedTo,
		"dueDate":     update.DueDate,
		"priority":    update.Priority,
		"updatedAt":   update.UpdatedAt,
	}
	if update.Tags != nil {
		set["tags"] = update.Tags
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task
func (r *MongoTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
