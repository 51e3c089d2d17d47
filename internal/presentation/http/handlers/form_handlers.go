// Package handlers provides HTTP handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/ettle-app/ettle-go/internal/application/services"
	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// RunIDHeader carries the run identity between client and server.
const RunIDHeader = "X-Ettle-Run-ID"

// FormHandlers contains all questionnaire endpoint handlers.
type FormHandlers struct {
	sessionService *services.SessionService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewFormHandlers creates form handlers with injected dependencies.
func NewFormHandlers(sessionService *services.SessionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *FormHandlers {
	return &FormHandlers{
		sessionService: sessionService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetQuestions returns the whole question graph in client shape.
func (h *FormHandlers) GetQuestions(c *gin.Context) {
	marker := h.perfTracker.StartOperation("form:questions")
	defer marker.Complete()

	questions := h.sessionService.Questions()
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"total":     len(questions),
	})
}

// GetSession restores (or starts) the session for the run id in the request
// header. The run id is always echoed back in the response header.
func (h *FormHandlers) GetSession(c *gin.Context) {
	marker := h.perfTracker.StartOperation("form:session")
	defer marker.Complete()

	view, err := h.sessionService.GetOrCreate(c.GetHeader(RunIDHeader))
	if err != nil {
		marker.SetError(err)
		h.respondError(c, err)
		return
	}
	marker.SetSuccess(true)

	c.Header(RunIDHeader, view.RunID)
	c.JSON(http.StatusOK, view)

	h.logger.Perf().Info("Performance for session request",
		"duration", marker.Duration, "status", view.Status)
}

type consentRequest struct {
	Granted bool `json:"granted"`
}

// PostConsent records the consent decision for a run.
func (h *FormHandlers) PostConsent(c *gin.Context) {
	marker := h.perfTracker.StartOperation("form:consent")
	defer marker.Complete()

	runID := c.GetHeader(RunIDHeader)
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + RunIDHeader + " header"})
		return
	}

	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.sessionService.GrantConsent(runID, req.Granted)
	if err != nil {
		marker.SetError(err)
		h.respondError(c, err)
		return
	}
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, view)
}

type answerRequest struct {
	QuestionID int               `json:"questionId"`
	OtherFor   int               `json:"otherFor"`
	Value      forms.AnswerValue `json:"value"`
}

// PostAnswer merges one answer into the run. OtherFor addresses the
// free-text companion slot of a choice question instead of a question's own
// slot.
func (h *FormHandlers) PostAnswer(c *gin.Context) {
	marker := h.perfTracker.StartOperation("form:answer")
	defer marker.Complete()

	runID := c.GetHeader(RunIDHeader)
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + RunIDHeader + " header"})
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var key forms.AnswerKey
	switch {
	case req.OtherFor != 0:
		key = forms.OtherKey(req.OtherFor)
	case req.QuestionID != 0:
		key = forms.Key(req.QuestionID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionId or otherFor is required"})
		return
	}

	result, err := h.sessionService.SetAnswer(runID, key, req.Value)
	if err != nil {
		marker.SetError(err)
		h.respondError(c, err)
		return
	}
	marker.SetSuccess(true)
	marker.AddMetadata("questionId", key.QuestionID)

	c.JSON(http.StatusOK, result)

	h.logger.Perf().Info("Performance for answer request",
		"duration", marker.Duration, "questionId", key.QuestionID)
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

// PostNavigate moves the run forward or back. Advancing past the last
// question performs the final submission.
func (h *FormHandlers) PostNavigate(c *gin.Context) {
	marker := h.perfTracker.StartOperation("form:navigate")
	defer marker.Complete()

	runID := c.GetHeader(RunIDHeader)
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + RunIDHeader + " header"})
		return
	}

	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var view *services.SessionView
	var err error
	switch req.Direction {
	case "next":
		view, err = h.sessionService.Next(c.Request.Context(), runID)
	case "back":
		view, err = h.sessionService.Back(runID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be next or back"})
		return
	}
	if err != nil {
		marker.SetError(err)
		h.respondError(c, err)
		return
	}
	marker.SetSuccess(true)
	marker.AddMetadata("direction", req.Direction)

	c.JSON(http.StatusOK, view)

	h.logger.Perf().Info("Performance for navigate request",
		"duration", marker.Duration, "direction", req.Direction)
}

// PostSubmit performs the final submission explicitly.
func (h *FormHandlers) PostSubmit(c *gin.Context) {
	marker := h.perfTracker.StartOperation("form:submit")
	defer marker.Complete()

	runID := c.GetHeader(RunIDHeader)
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + RunIDHeader + " header"})
		return
	}

	view, err := h.sessionService.Submit(c.Request.Context(), runID)
	if err != nil {
		marker.SetError(err)
		h.respondError(c, err)
		return
	}
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, view)

	h.logger.Perf().Info("Performance for submit request",
		"duration", marker.Duration, "status", view.Status)
}

// respondError maps service errors onto HTTP statuses.
func (h *FormHandlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrConsentRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnknownQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAnswerRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadySubmitted), errors.Is(err, services.ErrNotAtEnd):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSyncFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.System().Error("Unhandled form error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
