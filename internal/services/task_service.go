package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidTaskID = errors.New("invalid task id")
	ErrTaskNotFound  = errors.New("task not found")
)

const taskFieldsRequiredMessage = "All fields are required"

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, log logrus.FieldLogger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		log:      log,
		now:      storeNow,
	}
}

// TaskInput carries the client-supplied task fields. Create and Update both
// require every field except Tags.
type TaskInput struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description" validate:"required"`
	Status      models.TaskStatus   `json:"status" validate:"required,oneof=pending completed"`
	AssignedTo  string              `json:"assignedTo" validate:"required"`
	DueDate     time.Time           `json:"dueDate" validate:"required"`
	Priority    models.TaskPriority `json:"priority" validate:"required,oneof=low medium high"`
	Tags        []string            `json:"tags"`
}

// ListTasks returns every task
func (s *TaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task by its hex ID
func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	objectID, err := parseTaskID(id)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// CreateTask validates input and stores a new task created by the caller
func (s *TaskService) CreateTask(ctx context.Context, caller Identity, input TaskInput) (*models.Task, error) {
	if err := validateInput(input, taskFieldsRequiredMessage); err != nil {
		return nil, err
	}

	now := s.now()
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Tags:        tags,
		Comments:    []string{},
		CreatedBy:   caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"task_id": task.ID.Hex(),
		"user_id": caller.UserID,
	}).Info("Task created")
	return task, nil
}

// UpdateTask overwrites the mutable fields of a task and refreshes updatedAt
func (s *TaskService) UpdateTask(ctx context.Context, id string, input TaskInput) error {
	objectID, err := parseTaskID(id)
	if err != nil {
		return err
	}
	if err := validateInput(input, taskFieldsRequiredMessage); err != nil {
		return err
	}

	update := repository.TaskUpdate{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Tags:        input.Tags,
		UpdatedAt:   s.now(),
	}
	if err := s.taskRepo.Update(ctx, objectID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}

	s.log.WithField("task_id", id).Info("Task updated")
	return nil
}

// DeleteTask removes a task. Comments that reference it are left in place.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	objectID, err := parseTaskID(id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, objectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.log.WithField("task_id", id).Info("Task deleted")
	return nil
}

func parseTaskID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidTaskID
	}
	return objectID, nil
}

// storeNow matches the millisecond precision of stored timestamps so values
// returned to callers equal what a later read sees.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
