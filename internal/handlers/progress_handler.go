package handlers

import (
	"context"
	"net/http"

	"theory-test-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Service         *service.ProgressService
	QuestionService *service.QuestionService
}

func NewProgressHandler(s *service.ProgressService, qs *service.QuestionService) *ProgressHandler {
	return &ProgressHandler{Service: s, QuestionService: qs}
}

// ToggleBookmark flips the bookmark flag and returns the new state
func (h *ProgressHandler) ToggleBookmark(c *gin.Context) {
	bookmarked, err := h.Service.ToggleBookmark(context.Background(), userID(c), c.Param("questionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_bookmarked": bookmarked})
}

// ListBookmarks returns the user's bookmarked questions in full
func (h *ProgressHandler) ListBookmarks(c *gin.Context) {
	ids, err := h.Service.BookmarkedQuestionIDs(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	questions, err := h.QuestionService.GetByIDs(context.Background(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions, "total": len(questions)})
}

type progressLookupRequest struct {
	QuestionIDs []string `json:"question_ids" binding:"required"`
}

// LookupProgress returns per-question answer history for the given ids,
// keyed by question id. Questions never answered are absent.
func (h *ProgressHandler) LookupProgress(c *gin.Context) {
	var req progressLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	progress, err := h.Service.ProgressByQuestion(context.Background(), userID(c), req.QuestionIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
