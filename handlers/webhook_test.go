package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vapicalendar/models"
	"vapicalendar/services/vapi"
	"vapicalendar/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDispatcher struct {
	outcome vapi.Outcome
	calls   []models.FunctionCall
}

func (s *stubDispatcher) Dispatch(_ context.Context, call models.FunctionCall) vapi.Outcome {
	s.calls = append(s.calls, call)
	return s.outcome
}

type stubRecorder struct {
	captured []models.Interaction
	err      error
}

func (s *stubRecorder) Capture(_ context.Context, i models.Interaction) error {
	s.captured = append(s.captured, i)
	return s.err
}

const validBody = `{"message":{"type":"function-call","functionCall":{"name":"checkAvailability","parameters":{"dateTime":"2024-03-20 14:00"}}}}`

func serve(t *testing.T, h *CalendarHandler, body string) (*httptest.ResponseRecorder, models.FunctionResult) {
	t.Helper()
	r := gin.New()
	r.POST("/webhook/calendar", h.HandleFunctionCall)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/calendar", strings.NewReader(body)))

	var result models.FunctionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), w.Body.String())
	return w, result
}

func TestHandleFunctionCall(t *testing.T) {
	start := time.Date(2024, time.March, 20, 14, 0, 0, 0, time.UTC)
	interval := models.NewResolvedInterval(start, 15)
	dispatcher := &stubDispatcher{outcome: vapi.Outcome{Intent: vapi.IntentCheckAvailability, Status: vapi.StatusAvailable, Requested: &interval}}
	recorder := &stubRecorder{}

	w, result := serve(t, NewCalendarHandler(dispatcher, vapi.NewRenderer(time.UTC), recorder), validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Yes, that time slot is available! The appointment can be scheduled for Wednesday, March 20, 2024 at 2:00 PM.", result.Result)
	assert.Nil(t, result.Error)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, "2024-03-20 14:00", dispatcher.calls[0].Parameters["dateTime"])

	require.Len(t, recorder.captured, 1)
	captured := recorder.captured[0]
	assert.Equal(t, "checkAvailability", captured.FunctionName)
	assert.Equal(t, "available", captured.Status)
	assert.Equal(t, result, captured.Response)
	assert.NotEmpty(t, captured.RequestID)
}

func TestHandleFunctionCallRejectsInvalidEnvelope(t *testing.T) {
	bodies := map[string]string{
		"not json":      `this is not json`,
		"wrong type":    `{"message":{"type":"status-update","functionCall":{"name":"x","parameters":{}}}}`,
		"no message":    `{"type":"function-call"}`,
		"numeric name":  `{"message":{"type":"function-call","functionCall":{"name":7,"parameters":{}}}}`,
		"no parameters": `{"message":{"type":"function-call","functionCall":{"name":"checkAvailability"}}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			dispatcher := &stubDispatcher{}
			recorder := &stubRecorder{}
			w, result := serve(t, NewCalendarHandler(dispatcher, vapi.NewRenderer(time.UTC), recorder), body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, vapi.InvalidRequestMessage, result.Result)
			assert.Empty(t, dispatcher.calls)
			assert.Empty(t, recorder.captured)
		})
	}
}

func TestHandleFunctionCallBackendError(t *testing.T) {
	dispatcher := &stubDispatcher{outcome: vapi.Outcome{
		Intent: vapi.IntentCheckAvailability,
		Status: vapi.StatusBackendError,
		Detail: "availability lookup failed: timeout",
		Err:    errors.New("availability lookup failed: timeout"),
	}}

	w, result := serve(t, NewCalendarHandler(dispatcher, vapi.NewRenderer(time.UTC), nil), validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, models.GenericFailureResult, result.Result)
	require.NotNil(t, result.Error)
	assert.Equal(t, "availability lookup failed: timeout", result.Error.Message)
	assert.NotEmpty(t, result.Error.Timestamp)
	assert.NotEmpty(t, result.Error.Type)
}

func TestHandleFunctionCallAuditFailureDoesNotChangeResponse(t *testing.T) {
	dispatcher := &stubDispatcher{outcome: vapi.Outcome{Intent: "cancel", Status: vapi.StatusUnknownIntent}}
	recorder := &stubRecorder{err: errors.New("rpc down")}

	w, result := serve(t, NewCalendarHandler(dispatcher, vapi.NewRenderer(time.UTC), recorder), validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Unknown function call", result.Result)
	assert.Len(t, recorder.captured, 1)
}

func TestHealthHandler(t *testing.T) {
	monitor := utils.NewHealthMonitor(zap.NewNop(), time.Second)
	monitor.Register("redis", func(context.Context) error { return errors.New("refused") })

	r := gin.New()
	r.GET("/health", HealthHandler(monitor))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code, "no snapshot yet")

	monitor.RunOnce(context.Background())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "refused")
}
