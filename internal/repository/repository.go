package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches the identifier.
	ErrNotFound = errors.New("repository: document not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List returns every task in the store's natural order
	List(ctx context.Context) ([]models.Task, error)

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)

	// Create inserts a task and assigns its ID
	Create(ctx context.Context, task *models.Task) error

	// Update overwrites the mutable fields of a task
	Update(ctx context.Context, id primitive.ObjectID, update TaskUpdate) error

	// Delete removes a task
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TaskUpdate holds the mutable task fields written by Update.
type TaskUpdate struct {
	Title       string
	Description string
	Status      models.TaskStatus
	AssignedTo  string
	DueDate     time.Time
	Priority    models.TaskPriority
	// Tags replaces the stored tags when non-nil.
	Tags      []string
	UpdatedAt time.Time
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// List returns every comment in the store's natural order
	List(ctx context.Context) ([]models.Comment, error)

	// FindByID finds a comment by ID
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)

	// Create inserts a comment and assigns its ID
	Create(ctx context.Context, comment *models.Comment) error

	// Update overwrites the mutable fields of a comment
	Update(ctx context.Context, id primitive.ObjectID, update CommentUpdate) error

	// Delete removes a comment
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CommentUpdate holds the mutable comment fields written by Update.
type CommentUpdate struct {
	TaskID    string
	Content   string
	UpdatedAt time.Time
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a user and assigns its ID
	Create(ctx context.Context, user *models.User) error

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
