// HTTP client for the engine's visualization bridge
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gmti-panel/internal/scenario"
	"gmti-panel/internal/snapshot"
)

// Client talks to the engine's HTTP bridge: GET /payload for the latest
// snapshot, POST /ingest-config to submit a generator configuration.
type Client struct {
	endpoint string
	http     *http.Client
}

// SubmitResult is the engine's response to an accepted configuration.
type SubmitResult struct {
	Status      string `json:"status"`
	Detections  int    `json:"detections"`
	Description string `json:"description"`
}

// NewClient creates a Client for the given endpoint, e.g. "http://127.0.0.1:9000".
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Fetch retrieves the latest snapshot. Callers polling on a timer treat any
// error as "no update this cycle".
func (c *Client) Fetch(ctx context.Context) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/payload", nil)
	if err != nil {
		return snap, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return snap, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return snap, fmt.Errorf("payload request returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode payload: %w", err)
	}
	return snap, nil
}

// Submit posts a configuration to the engine. A zero seed is replaced with a
// fresh random seed before encoding; the engine never sees seed 0. On a non-2xx
// response the body text becomes the error message. There is no retry.
func (c *Client) Submit(ctx context.Context, params scenario.Params) (SubmitResult, error) {
	var result SubmitResult

	body, err := json.Marshal(params.EnsureSeed())
	if err != nil {
		return result, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/ingest-config", bytes.NewReader(body))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = resp.Status
		}
		return result, fmt.Errorf("submit rejected: %s", msg)
	}
	// The response echo is informational; a decode failure is not a submit failure.
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return result, nil
}
