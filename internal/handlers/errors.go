package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// respondServiceError maps a service error onto the API error body. Anything
// unrecognised is logged and reported as a 500.
func respondServiceError(c *gin.Context, log logrus.FieldLogger, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.MissingField(c, validationErr.Message)
	case errors.Is(err, services.ErrInvalidTaskID):
		apierrors.InvalidFormat(c, "Invalid task ID format")
	case errors.Is(err, services.ErrInvalidCommentID):
		apierrors.InvalidFormat(c, "Invalid comment ID format")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, "Comment not found")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.AlreadyExists(c, "Username already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	default:
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"error":  err,
		}).Error("Request failed")
		apierrors.InternalError(c, err)
	}
}
