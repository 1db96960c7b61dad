package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	repo    *testutil.FakeTaskRepository
	clock   *testutil.StepClock
	service *TaskService
	ctx     context.Context
	caller  Identity
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	suite.repo = testutil.NewFakeTaskRepository()
	suite.clock = testutil.NewStepClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), time.Second)
	suite.service = NewTaskService(suite.repo, testutil.DiscardLogger())
	suite.service.now = suite.clock.Now
	suite.ctx = context.Background()
	suite.caller = Identity{UserID: primitive.NewObjectID().Hex()}
}

func validTaskInput() TaskInput {
	return TaskInput{
		Title:       "Write report",
		Description: "Quarterly numbers",
		Status:      models.TaskStatusPending,
		AssignedTo:  "bob",
		DueDate:     time.Date(2025, 4, 1, 17, 0, 0, 0, time.UTC),
		Priority:    models.TaskPriorityHigh,
		Tags:        []string{"work", "q1"},
	}
}

func (suite *TaskServiceTestSuite) TestCreateThenGet() {
	input := validTaskInput()

	created, err := suite.service.CreateTask(suite.ctx, suite.caller, input)
	suite.Require().NoError(err)

	got, err := suite.service.GetTask(suite.ctx, created.ID.Hex())
	suite.Require().NoError(err)
	suite.Equal(input.Title, got.Title)
	suite.Equal(input.Description, got.Description)
	suite.Equal(input.Status, got.Status)
	suite.Equal(input.AssignedTo, got.AssignedTo)
	suite.True(input.DueDate.Equal(got.DueDate))
	suite.Equal(input.Priority, got.Priority)
	suite.Equal(input.Tags, got.Tags)
	suite.Equal(suite.caller.UserID, got.CreatedBy)
	suite.Empty(got.Comments)
	suite.NotNil(got.Comments)
	suite.Equal(got.CreatedAt, got.UpdatedAt)
}

func (suite *TaskServiceTestSuite) TestCreateWithoutTagsStoresEmptyList() {
	input := validTaskInput()
	input.Tags = nil

	created, err := suite.service.CreateTask(suite.ctx, suite.caller, input)
	suite.Require().NoError(err)
	suite.NotNil(created.Tags)
	suite.Empty(created.Tags)
}

func (suite *TaskServiceTestSuite) TestCreateMissingField() {
	for _, strip := range []func(*TaskInput){
		func(in *TaskInput) { in.Title = "" },
		func(in *TaskInput) { in.Description = "" },
		func(in *TaskInput) { in.Status = "" },
		func(in *TaskInput) { in.AssignedTo = "" },
		func(in *TaskInput) { in.DueDate = time.Time{} },
		func(in *TaskInput) { in.Priority = "" },
	} {
		input := validTaskInput()
		strip(&input)

		_, err := suite.service.CreateTask(suite.ctx, suite.caller, input)
		var validationErr *ValidationError
		suite.Require().True(errors.As(err, &validationErr), "expected ValidationError, got %v", err)
		suite.Equal("All fields are required", validationErr.Message)
	}
	suite.Equal(0, suite.repo.Calls)
}

func (suite *TaskServiceTestSuite) TestCreateInvalidEnum() {
	input := validTaskInput()
	input.Status = "in-progress"
	_, err := suite.service.CreateTask(suite.ctx, suite.caller, input)
	var validationErr *ValidationError
	suite.Require().True(errors.As(err, &validationErr))
	suite.Equal("Invalid status", validationErr.Message)

	input = validTaskInput()
	input.Priority = "urgent"
	_, err = suite.service.CreateTask(suite.ctx, suite.caller, input)
	suite.Require().True(errors.As(err, &validationErr))
	suite.Equal("Invalid priority", validationErr.Message)
}

func (suite *TaskServiceTestSuite) TestUpdateRefreshesUpdatedAt() {
	created, err := suite.service.CreateTask(suite.ctx, suite.caller, validTaskInput())
	suite.Require().NoError(err)

	input := validTaskInput()
	input.Title = "Write final report"
	input.Status = models.TaskStatusCompleted
	suite.Require().NoError(suite.service.UpdateTask(suite.ctx, created.ID.Hex(), input))

	got, err := suite.service.GetTask(suite.ctx, created.ID.Hex())
	suite.Require().NoError(err)
	suite.Equal("Write final report", got.Title)
	suite.Equal(models.TaskStatusCompleted, got.Status)
	suite.Equal(created.CreatedAt, got.CreatedAt)
	suite.True(got.UpdatedAt.After(got.CreatedAt))
}

func (suite *TaskServiceTestSuite) TestUpdateKeepsTagsWhenOmitted() {
	created, err := suite.service.CreateTask(suite.ctx, suite.caller, validTaskInput())
	suite.Require().NoError(err)

	input := validTaskInput()
	input.Tags = nil
	suite.Require().NoError(suite.service.UpdateTask(suite.ctx, created.ID.Hex(), input))

	got, err := suite.service.GetTask(suite.ctx, created.ID.Hex())
	suite.Require().NoError(err)
	suite.Equal([]string{"work", "q1"}, got.Tags)

	input.Tags = []string{}
	suite.Require().NoError(suite.service.UpdateTask(suite.ctx, created.ID.Hex(), input))
	got, err = suite.service.GetTask(suite.ctx, created.ID.Hex())
	suite.Require().NoError(err)
	suite.Empty(got.Tags)
}

func (suite *TaskServiceTestSuite) TestUpdateNonexistent() {
	err := suite.service.UpdateTask(suite.ctx, primitive.NewObjectID().Hex(), validTaskInput())
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.Equal(0, suite.repo.Len())
}

func (suite *TaskServiceTestSuite) TestUpdateRequiresAllFields() {
	created, err := suite.service.CreateTask(suite.ctx, suite.caller, validTaskInput())
	suite.Require().NoError(err)

	input := validTaskInput()
	input.Title = "Changed"
	input.Priority = ""
	err = suite.service.UpdateTask(suite.ctx, created.ID.Hex(), input)
	var validationErr *ValidationError
	suite.Require().True(errors.As(err, &validationErr))

	got, err := suite.service.GetTask(suite.ctx, created.ID.Hex())
	suite.Require().NoError(err)
	suite.Equal("Write report", got.Title)
}

func (suite *TaskServiceTestSuite) TestDeleteTwice() {
	created, err := suite.service.CreateTask(suite.ctx, suite.caller, validTaskInput())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteTask(suite.ctx, created.ID.Hex()))
	suite.ErrorIs(suite.service.DeleteTask(suite.ctx, created.ID.Hex()), ErrTaskNotFound)

	_, err = suite.service.GetTask(suite.ctx, created.ID.Hex())
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestInvalidIDNeverReachesStore() {
	_, err := suite.service.GetTask(suite.ctx, "not-an-id")
	suite.ErrorIs(err, ErrInvalidTaskID)
	suite.ErrorIs(suite.service.UpdateTask(suite.ctx, "not-an-id", validTaskInput()), ErrInvalidTaskID)
	suite.ErrorIs(suite.service.DeleteTask(suite.ctx, "not-an-id"), ErrInvalidTaskID)
	suite.Equal(0, suite.repo.Calls)
}

func (suite *TaskServiceTestSuite) TestListKeepsInsertionOrder() {
	for _, title := range []string{"first", "second", "third"} {
		input := validTaskInput()
		input.Title = title
		_, err := suite.service.CreateTask(suite.ctx, suite.caller, input)
		suite.Require().NoError(err)
	}

	tasks, err := suite.service.ListTasks(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 3)
	suite.Equal("first", tasks[0].Title)
	suite.Equal("second", tasks[1].Title)
	suite.Equal("third", tasks[2].Title)
}

func (suite *TaskServiceTestSuite) TestStoreErrorsPropagate() {
	storeErr := errors.New("server selection timeout")
	suite.repo.Err = storeErr

	_, err := suite.service.ListTasks(suite.ctx)
	suite.ErrorIs(err, storeErr)

	_, err = suite.service.GetTask(suite.ctx, primitive.NewObjectID().Hex())
	suite.ErrorIs(err, storeErr)
	suite.NotErrorIs(err, ErrTaskNotFound)

	_, err = suite.service.CreateTask(suite.ctx, suite.caller, validTaskInput())
	suite.ErrorIs(err, storeErr)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
