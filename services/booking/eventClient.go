package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vapicalendar/models"
)

// HTTPEventCreator posts bookings to {BaseURL}/scheduler with a bearer credential.
type HTTPEventCreator struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPEventCreator(baseURL, apiKey string, timeout time.Duration) *HTTPEventCreator {
	return &HTTPEventCreator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPEventCreator) CreateEvent(ctx context.Context, event models.BookingRequest) (string, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/scheduler", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach booking backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &EventCreationError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	var created models.CreatedEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode booking backend response: %w", err)
	}
	return eventID(created.ID), nil
}

// eventID normalizes string and numeric ids.
func eventID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
