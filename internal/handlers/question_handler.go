package handlers

import (
	"context"
	"net/http"

	"theory-test-service/internal/models"
	"theory-test-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	Service *service.QuestionService
}

func NewQuestionHandler(s *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{Service: s}
}

// ListQuestions returns active questions filtered by license type and
// categories. The license type filter includes its children.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.Service.List(
		context.Background(),
		c.Query("license_type_id"),
		c.QueryArray("category_id"),
		true,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions, "total": len(questions)})
}

// GetQuestion returns one question with its answers and linked signs
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.Service.GetByID(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// CountQuestions returns the number of active questions for a license type
func (h *QuestionHandler) CountQuestions(c *gin.Context) {
	count, err := h.Service.CountActive(context.Background(), c.Query("license_type_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// CountByCategory returns active question counts grouped by category
func (h *QuestionHandler) CountByCategory(c *gin.Context) {
	counts, err := h.Service.CountByCategory(context.Background(), c.Query("license_type_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": counts})
}

// CreateQuestion inserts a new question; answer ids are assigned server-side
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	if err := h.Service.Create(context.Background(), &question); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion applies a partial update to a question
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var update map[string]interface{}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	if err := h.Service.Update(context.Background(), c.Param("id"), update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DeleteQuestion deactivates a question. Existing session snapshots keep
// their frozen copy.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := h.Service.Deactivate(context.Background(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deactivated"})
}
