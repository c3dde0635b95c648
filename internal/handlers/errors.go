package handlers

import (
	"errors"
	"net/http"

	"theory-test-service/internal/models"
	"theory-test-service/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service and model errors onto HTTP statuses with a
// stable machine-readable code next to the human message. Unknown errors
// become a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var conflict *service.ActiveSessionConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "An active test session already exists",
			"code":           "ACTIVE_SESSION_CONFLICT",
			"active_session": conflict.Active,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrInvalidConfig):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
	case errors.Is(err, models.ErrInvalidQuestion):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
	case errors.Is(err, models.ErrAlreadyAnswered):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question already answered in this session", "code": "ALREADY_ANSWERED"})
	case errors.Is(err, models.ErrAlreadyCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session is already finished", "code": "ALREADY_COMPLETED"})
	case errors.Is(err, service.ErrNoQuestionsAvailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No questions match the requested configuration", "code": "NO_QUESTIONS_AVAILABLE"})
	case errors.Is(err, service.ErrSessionNotDeletable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only finished sessions can be deleted", "code": "SESSION_NOT_DELETABLE"})
	case errors.Is(err, models.ErrQuestionNotFound), errors.Is(err, service.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found", "code": "QUESTION_NOT_FOUND"})
	case errors.Is(err, models.ErrAnswerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found on this question", "code": "ANSWER_NOT_FOUND"})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found", "code": "SESSION_NOT_FOUND"})
	case errors.Is(err, service.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found", "code": "TEMPLATE_NOT_FOUND"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this resource", "code": "FORBIDDEN"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": "INTERNAL"})
	}
}

// userID pulls the authenticated user from the gateway header. Protected
// routes sit behind the middleware that rejects requests without it, so an
// empty value here is a misconfiguration rather than a client error.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}
