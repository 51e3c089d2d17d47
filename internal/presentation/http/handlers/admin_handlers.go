package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/performance"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/submissions"
	"github.com/gin-gonic/gin"
)

// AdminHandlers contains the authenticated submissions dashboard handlers.
type AdminHandlers struct {
	submissions *submissions.Repository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAdminHandlers creates admin handlers with injected dependencies.
func NewAdminHandlers(repo *submissions.Repository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AdminHandlers {
	return &AdminHandlers{
		submissions: repo,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetSubmissions lists stored submissions, newest first.
func (h *AdminHandlers) GetSubmissions(c *gin.Context) {
	marker := h.perfTracker.StartOperation("admin:submissions")
	defer marker.Complete()

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	rows, err := h.submissions.List(c.Request.Context(), limit, offset)
	if err != nil {
		marker.SetError(err)
		h.logger.System().Error("Submissions list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	count, err := h.submissions.Count(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, gin.H{
		"submissions": rows,
		"total":       count,
		"limit":       limit,
		"offset":      offset,
	})

	h.logger.Perf().Info("Performance for submissions request",
		"duration", marker.Duration, "rows", len(rows))
}

// GetSubmission returns one submission by run id.
func (h *AdminHandlers) GetSubmission(c *gin.Context) {
	marker := h.perfTracker.StartOperation("admin:submission")
	defer marker.Complete()

	runID := c.Param("runId")
	row, err := h.submissions.FindByRunID(c.Request.Context(), runID)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
			return
		}
		h.logger.System().Error("Submission lookup failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, row)
}
