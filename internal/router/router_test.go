package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// RouterTestSuite drives the full route table against in-memory stores.
type RouterTestSuite struct {
	suite.Suite
	router *gin.Engine
	tasks  *testutil.FakeTaskRepository
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := testutil.DiscardLogger()

	tokens, err := services.NewTokenService("test-secret", time.Hour)
	suite.Require().NoError(err)

	suite.tasks = testutil.NewFakeTaskRepository()
	suite.router = New(Services{
		Auth:     services.NewAuthService(testutil.NewFakeUserRepository(), tokens, bcrypt.MinCost, log),
		Tasks:    services.NewTaskService(suite.tasks, log),
		Comments: services.NewCommentService(testutil.NewFakeCommentRepository(), log),
		Tokens:   tokens,
		Store:    okPinger{},
	}, log)
}

func (suite *RouterTestSuite) do(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		suite.Require().NoError(err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) login() string {
	creds := map[string]string{"username": "alice", "password": "pw1"}
	w := suite.do(http.MethodPost, "/auth/register", "", creds)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/auth/login", "", creds)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.Token
}

func (suite *RouterTestSuite) message(w *httptest.ResponseRecorder) string {
	var body struct {
		Message string `json:"message"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func (suite *RouterTestSuite) TestRegisterLoginFlow() {
	creds := map[string]string{"username": "alice", "password": "pw1"}

	suite.Equal(http.StatusCreated, suite.do(http.MethodPost, "/auth/register", "", creds).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPost, "/auth/register", "", creds).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/auth/login", "", creds).Code)

	w := suite.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	suite.Equal(http.StatusOK, suite.do(http.MethodPost, "/auth/logout", "", nil).Code)
}

func (suite *RouterTestSuite) TestProtectedRoutesRequireToken() {
	for _, path := range []string{"/tasks", "/comments"} {
		w := suite.do(http.MethodGet, path, "", nil)
		suite.Equal(http.StatusUnauthorized, w.Code, path)
		suite.Equal("Access denied. No token provided.", suite.message(w))

		w = suite.do(http.MethodGet, path, "forged.token.value", nil)
		suite.Equal(http.StatusForbidden, w.Code, path)
		suite.Equal("Invalid or expired token", suite.message(w))
	}

	w := suite.do(http.MethodPost, "/tasks", "bad", map[string]string{"title": "x"})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(0, suite.tasks.Calls)
}

func (suite *RouterTestSuite) TestTaskScenarios() {
	token := suite.login()

	payload := map[string]any{
		"title":       "Write report",
		"description": "Quarterly numbers",
		"status":      "pending",
		"assignedTo":  "bob",
		"dueDate":     "2025-04-01T17:00:00Z",
	}
	w := suite.do(http.MethodPost, "/tasks", token, payload)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("All fields are required", suite.message(w))

	w = suite.do(http.MethodGet, "/tasks/not-an-id", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid task ID format", suite.message(w))

	w = suite.do(http.MethodGet, "/tasks/"+primitive.NewObjectID().Hex(), token, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	payload["priority"] = "medium"
	w = suite.do(http.MethodPost, "/tasks", token, payload)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created dto.TaskCreatedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	w = suite.do(http.MethodGet, "/tasks/"+created.TaskID, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var task models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	suite.Equal("Write report", task.Title)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Equal(task.CreatedAt, task.UpdatedAt)

	payload["status"] = "completed"
	suite.Equal(http.StatusOK, suite.do(http.MethodPut, "/tasks/"+created.TaskID, token, payload).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, "/tasks/"+created.TaskID, token, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodDelete, "/tasks/"+created.TaskID, token, nil).Code)
}

func (suite *RouterTestSuite) TestCommentsSurviveTaskDeletion() {
	token := suite.login()

	taskPayload := map[string]any{
		"title":       "Write report",
		"description": "Quarterly numbers",
		"status":      "pending",
		"assignedTo":  "bob",
		"dueDate":     "2025-04-01T17:00:00Z",
		"priority":    "low",
	}
	w := suite.do(http.MethodPost, "/tasks", token, taskPayload)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var task dto.TaskCreatedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))

	w = suite.do(http.MethodPost, "/comments", token, map[string]string{"taskId": task.TaskID, "content": "Looks good"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var comment dto.CommentCreatedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &comment))

	suite.Require().Equal(http.StatusOK, suite.do(http.MethodDelete, "/tasks/"+task.TaskID, token, nil).Code)

	w = suite.do(http.MethodGet, "/comments/"+comment.CommentID, token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RouterTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
