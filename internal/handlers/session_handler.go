package handlers

import (
	"context"
	"net/http"
	"strconv"

	"theory-test-service/internal/models"
	"theory-test-service/internal/repository"
	"theory-test-service/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

type createSessionRequest struct {
	models.SessionConfig
	AbandonActive bool `json:"abandon_active"`
}

// CreateSession starts a new test session from an inline configuration
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}

	session, err := h.Service.Create(context.Background(), userID(c), req.SessionConfig, req.AbandonActive)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionsCreated.WithLabelValues(string(session.Config.TestType)).Inc()
	c.JSON(http.StatusCreated, session)
}

// GetSession reads a session; a paused session resumes on read. The response
// points the client at the next open question, wrapping past the end.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.Service.Get(context.Background(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":             session,
		"next_question_index": session.NextUnansweredIndex(session.CurrentQuestionIndex),
	})
}

// ListSessions returns the user's session history, newest first
func (h *SessionHandler) ListSessions(c *gin.Context) {
	filter := repository.SessionListFilter{
		Status:   models.SessionStatus(c.Query("status")),
		TestType: models.TestType(c.Query("test_type")),
	}
	if v, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64); err == nil && v > 0 {
		filter.Skip = v
	}
	if v, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64); err == nil && v > 0 {
		filter.Limit = v
	}

	summaries, total, err := h.Service.List(context.Background(), userID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": summaries, "total": total})
}

type answerRequest struct {
	QuestionID           string `json:"question_id" binding:"required"`
	AnswerID             string `json:"answer_id" binding:"required"`
	RemainingTimeSeconds int    `json:"remaining_time_seconds"`
}

// SubmitAnswer records one answer against the session's frozen snapshot
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}

	outcome, err := h.Service.Answer(context.Background(), userID(c), c.Param("id"), req.QuestionID, req.AnswerID, req.RemainingTimeSeconds)
	if err != nil {
		respondError(c, err)
		return
	}

	result := "wrong"
	if outcome.IsCorrect {
		result = "correct"
	}
	answersRecorded.WithLabelValues(result).Inc()
	c.JSON(http.StatusOK, outcome)
}

type skipRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
}

// SkipQuestion marks a question skipped; answering it later clears the mark
func (h *SessionHandler) SkipQuestion(c *gin.Context) {
	var req skipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	if err := h.Service.Skip(context.Background(), userID(c), c.Param("id"), req.QuestionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "skipped"})
}

type pauseRequest struct {
	CurrentQuestionIndex int `json:"current_question_index"`
	RemainingTimeSeconds int `json:"remaining_time_seconds"`
}

// PauseSession freezes the session with the client's timer position
func (h *SessionHandler) PauseSession(c *gin.Context) {
	var req pauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	err := h.Service.Pause(context.Background(), userID(c), c.Param("id"), req.CurrentQuestionIndex, req.RemainingTimeSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "paused"})
}

type completeRequest struct {
	RemainingTimeSeconds *int `json:"remaining_time_seconds"`
}

// CompleteSession finalizes the attempt and returns the result breakdown
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}

	outcome, err := h.Service.Complete(context.Background(), userID(c), c.Param("id"), req.RemainingTimeSeconds)
	if err != nil {
		respondError(c, err)
		return
	}

	if !outcome.AlreadyFinished {
		label := "failed"
		if outcome.Passed {
			label = "passed"
		}
		sessionsCompleted.WithLabelValues(label).Inc()
		sessionScore.Observe(outcome.ScorePercentage)
	}
	c.JSON(http.StatusOK, outcome)
}

type restartRequest struct {
	AbandonActive bool `json:"abandon_active"`
}

// RedoSession starts a new attempt over the exact same questions and order
func (h *SessionHandler) RedoSession(c *gin.Context) {
	var req restartRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	session, err := h.Service.RedoSame(context.Background(), userID(c), c.Param("id"), req.AbandonActive)
	if err != nil {
		respondError(c, err)
		return
	}
	sessionsCreated.WithLabelValues(string(session.Config.TestType)).Inc()
	c.JSON(http.StatusCreated, session)
}

// SimilarSession starts a new attempt with the same configuration but a
// fresh random selection
func (h *SessionHandler) SimilarSession(c *gin.Context) {
	var req restartRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	session, err := h.Service.NewSimilar(context.Background(), userID(c), c.Param("id"), req.AbandonActive)
	if err != nil {
		respondError(c, err)
		return
	}
	sessionsCreated.WithLabelValues(string(session.Config.TestType)).Inc()
	c.JSON(http.StatusCreated, session)
}

// DeleteSession removes a finished session from history
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.Service.Delete(context.Background(), userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
