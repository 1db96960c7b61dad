// Package testutil provides in-memory repositories for tests.
package testutil

import (
	"context"
	"sync"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FakeTaskRepository is an in-memory repository.TaskRepository that keeps
// insertion order.
type FakeTaskRepository struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	tasks map[primitive.ObjectID]models.Task

	// Err, when set, is returned by every method.
	Err error
	// Calls counts store round-trips.
	Calls int
}

func NewFakeTaskRepository() *FakeTaskRepository {
	return &FakeTaskRepository{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (f *FakeTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}

	tasks := make([]models.Task, 0, len(f.order))
	for _, id := range f.order {
		tasks = append(tasks, cloneTask(f.tasks[id]))
	}
	return tasks, nil
}

func (f *FakeTaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}

	task, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	task = cloneTask(task)
	return &task, nil
}

func (f *FakeTaskRepository) Create(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return f.Err
	}

	task.ID = primitive.NewObjectID()
	f.tasks[task.ID] = cloneTask(*task)
	f.order = append(f.order, task.ID)
	return nil
}

func (f *FakeTaskRepository) Update(ctx context.Context, id primitive.ObjectID, update repository.TaskUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return f.Err
	}

	task, ok := f.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	task.Title = update.Title
	task.Description = update.Description
	task.Status = update.Status
	task.AssignedTo = update.AssignedTo
	task.DueDate = update.DueDate
	task.Priority = update.Priority
	if update.Tags != nil {
		task.Tags = append([]string{}, update.Tags...)
	}
	task.UpdatedAt = update.UpdatedAt
	f.tasks[id] = task
	return nil
}

func (f *FakeTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return f.Err
	}

	if _, ok := f.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tasks, id)
	f.order = removeID(f.order, id)
	return nil
}

// Len returns the number of stored tasks.
func (f *FakeTaskRepository) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

// FakeCommentRepository is an in-memory repository.CommentRepository.
type FakeCommentRepository struct {
	mu       sync.RWMutex
	order    []primitive.ObjectID
	comments map[primitive.ObjectID]models.Comment

	Err   error
	Calls int
}

func NewFakeCommentRepository() *FakeCommentRepository {
	return &FakeCommentRepository{comments: make(map[primitive.ObjectID]models.Comment)}
}

func (f *FakeCommentRepository) List(ctx context.Context) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}

	comments := make([]models.Comment, 0, len(f.order))
	for _, id := range f.order {
		comments = append(comments, f.comments[id])
	}
	return comments, nil
}

func (f *FakeCommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}

	comment, ok := f.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &comment, nil
}

func (f *FakeCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return f.Err
	}

	comment.ID = primitive.NewObjectID()
	f.comments[comment.ID] = *comment
	f.order = append(f.order, comment.ID)
	return nil
}

func (f *FakeCommentRepository) Update(ctx context.Context, id primitive.ObjectID, update repository.CommentUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return f.Err
	}

	comment, ok := f.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	comment.TaskID = update.TaskID
	comment.Content = update.Content
	comment.UpdatedAt = update.UpdatedAt
	f.comments[id] = comment
	return nil
}

func (f *FakeCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return f.Err
	}

	if _, ok := f.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.comments, id)
	f.order = removeID(f.order, id)
	return nil
}

// FakeUserRepository is an in-memory repository.UserRepository that enforces
// username uniqueness like the store's unique index.
type FakeUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User

	Err error
	// CreateErr, when set, is returned by Create only.
	CreateErr error
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: make(map[string]models.User)}
}

func (f *FakeUserRepository) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if f.CreateErr != nil {
		return f.CreateErr
	}

	if _, exists := f.users[user.Username]; exists {
		return repository.ErrDuplicateKey
	}
	user.ID = primitive.NewObjectID()
	f.users[user.Username] = *user
	return nil
}

func (f *FakeUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.Err != nil {
		return nil, f.Err
	}

	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func cloneTask(task models.Task) models.Task {
	task.Tags = append([]string{}, task.Tags...)
	task.Comments = append([]string{}, task.Comments...)
	return task
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
