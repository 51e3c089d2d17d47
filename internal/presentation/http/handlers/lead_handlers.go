package handlers

import (
	"errors"
	"net/http"

	"github.com/ettle-app/ettle-go/internal/application/services"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// LeadHandlers contains the landing-page lead capture handler.
type LeadHandlers struct {
	leadService *services.LeadService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewLeadHandlers creates lead handlers with injected dependencies.
func NewLeadHandlers(leadService *services.LeadService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LeadHandlers {
	return &LeadHandlers{
		leadService: leadService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

type leadRequest struct {
	Email string `json:"email"`
}

// PostLead captures a landing-page email signup.
func (h *LeadHandlers) PostLead(c *gin.Context) {
	marker := h.perfTracker.StartOperation("lead:capture")
	defer marker.Complete()

	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lead, err := h.leadService.Capture(c.Request.Context(), req.Email)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, services.ErrInvalidEmail) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.System().Error("Lead capture failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, gin.H{"leadId": lead.ID})

	h.logger.Perf().Info("Performance for lead request", "duration", marker.Duration)
}
