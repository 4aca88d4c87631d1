package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gamevideogen/api/internal/config"
)

// VideoGenerator defines the interface for video generation operations
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, req *VideoGenerationRequest) (*VideoGenerationResult, error)
	IsConfigured() bool
}

// FalClient implements VideoGenerator for the FAL queue API
type FalClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// VideoGenerationRequest represents the request for video generation.
// Duration must carry the "s" suffix the FAL model expects.
type VideoGenerationRequest struct {
	Prompt      string `json:"prompt"`
	Duration    string `json:"duration"`
	AspectRatio string `json:"aspect_ratio"`
}

// VideoGenerationResult represents a completed video generation
type VideoGenerationResult struct {
	VideoURL     string
	ThumbnailURL string
	Cost         float64
}

// queueSubmitResponse is the response from submitting to the FAL queue
type queueSubmitResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// queueStatusResponse is the response from the queue status endpoint
type queueStatusResponse struct {
	Status string `json:"status"`
}

// queueResultResponse is the terminal result payload
type queueResultResponse struct {
	Video struct {
		URL          string `json:"url"`
		ThumbnailURL string `json:"thumbnail_url"`
	} `json:"video"`
}

// videoCosts maps provider duration values to generation cost in USD
var videoCosts = map[string]float64{
	"4s":  0.13,
	"8s":  0.25,
	"12s": 0.37,
}

// VideoCost returns the generation cost for a provider duration value.
func VideoCost(duration string) float64 {
	return videoCosts[duration]
}

// NewFalClient creates a new FAL API client
func NewFalClient(cfg *config.FalConfig) *FalClient {
	return &FalClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// GenerateVideo submits a generation request to the FAL queue and waits for
// the terminal result.
func (c *FalClient) GenerateVideo(ctx context.Context, req *VideoGenerationRequest) (*VideoGenerationResult, error) {
	var submitted queueSubmitResponse
	if err := c.post(ctx, "/"+c.model, req, &submitted); err != nil {
		return nil, err
	}
	if submitted.RequestID == "" {
		return nil, fmt.Errorf("no request id in queue response")
	}

	if err := c.pollStatus(ctx, submitted.RequestID, 5*time.Second, 10*time.Minute); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/%s/requests/%s", c.model, submitted.RequestID)
	var result queueResultResponse
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	if result.Video.URL == "" {
		return nil, fmt.Errorf("no video URL in response")
	}

	return &VideoGenerationResult{
		VideoURL:     result.Video.URL,
		ThumbnailURL: result.Video.ThumbnailURL,
		Cost:         VideoCost(req.Duration),
	}, nil
}

// pollStatus polls the queue until the request reaches a terminal status
func (c *FalClient) pollStatus(ctx context.Context, requestID string, interval, maxWait time.Duration) error {
	endpoint := fmt.Sprintf("/%s/requests/%s/status", c.model, requestID)
	deadline := time.Now().Add(maxWait)
	attempt := 0

	for time.Now().Before(deadline) {
		attempt++
		var status queueStatusResponse
		if err := c.get(ctx, endpoint, &status); err != nil {
			log.Printf("[FAL API] Poll #%d (request=%s) — error: %v", attempt, requestID, err)
			return err
		}

		log.Printf("[FAL API] Poll #%d (request=%s) — status: %s", attempt, requestID, status.Status)

		switch status.Status {
		case "COMPLETED":
			return nil
		case "FAILED", "ERROR":
			return fmt.Errorf("video generation failed: %s", status.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
			continue
		}
	}

	return fmt.Errorf("video generation timed out after %v", maxWait)
}

// post sends a POST request with JSON body
func (c *FalClient) post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req, result)
}

// get sends a GET request and parses JSON response
func (c *FalClient) get(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req, result)
}

// doRequest executes an HTTP request and parses the response
func (c *FalClient) doRequest(req *http.Request, result interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fal API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// IsConfigured returns true if the client has valid configuration
func (c *FalClient) IsConfigured() bool {
	return c.apiKey != ""
}
