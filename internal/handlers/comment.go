package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
	log            logrus.FieldLogger
}

func NewCommentHandler(commentService *services.CommentService, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		log:            log,
	}
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.ListComments(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	comment, err := h.commentService.GetComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req services.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CommentCreatedResponse{
		Message:   "Comment created successfully",
		CommentID: comment.ID.Hex(),
	})
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	var req services.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.commentService.UpdateComment(c.Request.Context(), c.Param("id"), req); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment updated successfully"})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.commentService.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}
