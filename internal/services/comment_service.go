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
	ErrInvalidCommentID = errors.New("invalid comment id")
	ErrCommentNotFound  = errors.New("comment not found")
)

const commentFieldsRequiredMessage = "Task ID and content are required"

// CommentService handles comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, log logrus.FieldLogger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		log:         log,
		now:         storeNow,
	}
}

// CommentInput carries the client-supplied comment fields. TaskID is stored
// as given; it is not checked against the tasks collection.
type CommentInput struct {
	TaskID  string `json:"taskId" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (s *CommentService) ListComments(ctx context.Context) ([]models.Comment, error) {
	comments, err := s.commentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	objectID, err := parseCommentID(id)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) CreateComment(ctx context.Context, input CommentInput) (*models.Comment, error) {
	if err := validateInput(input, commentFieldsRequiredMessage); err != nil {
		return nil, err
	}

	now := s.now()
	comment := &models.Comment{
		TaskID:    input.TaskID,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"comment_id": comment.ID.Hex(),
		"task_id":    comment.TaskID,
	}).Info("Comment created")
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, id string, input CommentInput) error {
	objectID, err := parseCommentID(id)
	if err != nil {
		return err
	}
	if err := validateInput(input, commentFieldsRequiredMessage); err != nil {
		return err
	}

	update := repository.CommentUpdate{
		TaskID:    input.TaskID,
		Content:   input.Content,
		UpdatedAt: s.now(),
	}
	if err := s.commentRepo.Update(ctx, objectID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to update comment: %w", err)
	}

	s.log.WithField("comment_id", id).Info("Comment updated")
	return nil
}

func (s *CommentService) DeleteComment(ctx context.Context, id string) error {
	objectID, err := parseCommentID(id)
	if err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, objectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.log.WithField("comment_id", id).Info("Comment deleted")
	return nil
}

func parseCommentID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidCommentID
	}
	return objectID, nil
}
