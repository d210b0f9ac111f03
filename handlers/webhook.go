package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"vapicalendar/middleware"
	"vapicalendar/models"
	"vapicalendar/services/audit"
	"vapicalendar/services/vapi"
	"vapicalendar/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultAuditTimeout = 5 * time.Second

// FunctionDispatcher is satisfied by *vapi.Dispatcher.
type FunctionDispatcher interface {
	Dispatch(ctx context.Context, call models.FunctionCall) vapi.Outcome
}

// CalendarHandler serves the calendar function-call webhook. Both the local
// and the hosted route use the same handler.
type CalendarHandler struct {
	Dispatcher   FunctionDispatcher
	Renderer     vapi.Renderer
	Recorder     audit.Recorder
	AuditTimeout time.Duration
}

// NewCalendarHandler creates a new CalendarHandler. A nil recorder disables audit capture.
func NewCalendarHandler(d FunctionDispatcher, r vapi.Renderer, rec audit.Recorder) *CalendarHandler {
	if rec == nil {
		rec = audit.NoopRecorder{}
	}
	return &CalendarHandler{
		Dispatcher:   d,
		Renderer:     r,
		Recorder:     rec,
		AuditTimeout: defaultAuditTimeout,
	}
}

// HandleFunctionCall validates the envelope, dispatches it, renders the
// outcome and captures the interaction.
func (h *CalendarHandler) HandleFunctionCall(c *gin.Context) {
	logger := getLogger(c)

	body, err := c.GetRawData()
	if err != nil {
		logger.Warn("HandleFunctionCall: failed to read body", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.FunctionResult{Result: vapi.InvalidRequestMessage})
		return
	}

	envelope, err := vapi.ParseRequest(body)
	if err != nil {
		logger.Warn("HandleFunctionCall: validation error", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.FunctionResult{Result: vapi.InvalidRequestMessage})
		return
	}

	call := envelope.FunctionCall
	logger.Info("HandleFunctionCall: parsed message",
		zap.String("functionName", call.Name),
		zap.Any("parameters", call.Parameters))

	outcome := h.Dispatcher.Dispatch(c.Request.Context(), *call)

	status := http.StatusOK
	response := models.FunctionResult{Result: h.Renderer.Render(outcome)}
	if outcome.Status == vapi.StatusBackendError {
		cause := outcome.Err
		if cause == nil {
			cause = errors.New(outcome.Detail)
		}
		logger.Error("HandleFunctionCall: function error", zap.String("functionName", call.Name), zap.Error(cause))
		status = http.StatusInternalServerError
		response = utils.FailureResult(cause)
	}

	logger.Info("HandleFunctionCall: function result",
		zap.String("functionName", call.Name),
		zap.String("status", string(outcome.Status)),
		zap.String("result", response.Result))

	h.capture(c, logger, call, outcome, response)
	c.JSON(status, response)
}

// capture records the interaction. Failures are logged only.
func (h *CalendarHandler) capture(c *gin.Context, logger *zap.Logger, call *models.FunctionCall, outcome vapi.Outcome, response models.FunctionResult) {
	requestID := c.GetString(middleware.RequestIDKey)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.auditTimeout())
	defer cancel()

	err := h.Recorder.Capture(ctx, models.Interaction{
		ID:           uuid.New().String(),
		RequestID:    requestID,
		FunctionName: call.Name,
		Parameters:   call.Parameters,
		Response:     response,
		Status:       string(outcome.Status),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("HandleFunctionCall: audit capture failed", zap.Error(err))
	}
}

func (h *CalendarHandler) auditTimeout() time.Duration {
	if h.AuditTimeout <= 0 {
		return defaultAuditTimeout
	}
	return h.AuditTimeout
}
