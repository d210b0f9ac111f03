package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls PostgREST RPC functions on a Supabase project.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// RPCError is returned when PostgREST answers with a non-2xx status.
type RPCError struct {
	Function   string
	StatusCode int
	Body       string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s failed with status %d: %s", e.Function, e.StatusCode, e.Body)
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// RPC posts params to /rest/v1/rpc/{fn} and decodes the reply into out.
// A nil out discards the body.
func (c *Client) RPC(ctx context.Context, fn string, params any, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode rpc %s params: %w", fn, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/rest/v1/rpc/"+fn, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build rpc %s request: %w", fn, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", fn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RPCError{Function: fn, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode rpc %s response: %w", fn, err)
	}
	return nil
}

// Ping checks the REST endpoint answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/rest/v1/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("supabase responded %s", resp.Status)
	}
	return nil
}
