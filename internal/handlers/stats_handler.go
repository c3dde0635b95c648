package handlers

import (
	"context"
	"net/http"

	"theory-test-service/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Service *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler {
	return &StatsHandler{Service: s}
}

// PassChance estimates pass chances from finished sessions. Without a
// license_type_id it returns one estimate per license type practised.
func (h *StatsHandler) PassChance(c *gin.Context) {
	estimates, err := h.Service.HistoryPassChance(context.Background(), userID(c), c.Query("license_type_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimates": estimates})
}

// Mastery returns the question-level mastery estimate for a license type
func (h *StatsHandler) Mastery(c *gin.Context) {
	estimate, err := h.Service.Mastery(context.Background(), userID(c), c.Param("licenseTypeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// Dashboard bundles mastery, history and recent sessions for one license type
func (h *StatsHandler) Dashboard(c *gin.Context) {
	licenseTypeID := c.Query("license_type_id")
	if licenseTypeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "license_type_id is required", "code": "BAD_REQUEST"})
		return
	}
	dashboard, err := h.Service.Dashboard(context.Background(), userID(c), licenseTypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
