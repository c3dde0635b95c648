package handlers

import (
	"context"
	"net/http"

	"theory-test-service/internal/models"
	"theory-test-service/internal/service"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	Service *service.TemplateService
}

func NewTemplateHandler(s *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{Service: s}
}

type templateRequest struct {
	Name   string               `json:"name" binding:"required"`
	Config models.SessionConfig `json:"config" binding:"required"`
}

// CreateTemplate saves a named session configuration
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	template, err := h.Service.Create(context.Background(), userID(c), req.Name, req.Config)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// GetTemplate returns one template owned by the caller
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	template, err := h.Service.Get(context.Background(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// ListTemplates returns the caller's templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.Service.List(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// UpdateTemplate replaces a template's name and configuration
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	template, err := h.Service.Update(context.Background(), userID(c), c.Param("id"), req.Name, req.Config)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.Service.Delete(context.Background(), userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type startTemplateRequest struct {
	AbandonActive bool `json:"abandon_active"`
}

// StartTemplate launches a session from the stored configuration
func (h *TemplateHandler) StartTemplate(c *gin.Context) {
	var req startTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
		return
	}
	session, err := h.Service.Start(context.Background(), userID(c), c.Param("id"), req.AbandonActive)
	if err != nil {
		respondError(c, err)
		return
	}
	sessionsCreated.WithLabelValues(string(session.Config.TestType)).Inc()
	c.JSON(http.StatusCreated, session)
}
