package heatmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured indicates the operational API base URL is missing
var ErrNotConfigured = errors.New("operational api url not configured")

// Config holds configuration for the heatmap client
type Config struct {
	BaseURL string        // self-hosted operational API, e.g. http://localhost:8081
	Timeout time.Duration // Default: 10s
}

// Client fetches "most replayed" markers from a self-hosted operational API
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a new heatmap client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

// Configured reports whether a base URL is set
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// FetchMostReplayed retrieves the heatmap of a video. Only transport failures
// are returned as errors; status and payload problems become Result.Warning.
func (c *Client) FetchMostReplayed(ctx context.Context, videoID string) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/videos?part=mostReplayed&id=%s", c.baseURL, url.QueryEscape(videoID))
	c.logger.Debug("fetching heatmap", zap.String("url", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating heatmap request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching heatmap for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	result := &Result{}

	if resp.StatusCode != http.StatusOK {
		result.Warning = fmt.Sprintf("Self-hosted API responded with status: %d", resp.StatusCode)
		c.logger.Warn("heatmap fetch failed", zap.String("video_id", videoID), zap.Int("status", resp.StatusCode))
		return result, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Warning = fmt.Sprintf("Failed to read response text from self-hosted API. Error: %v", err)
		c.logger.Warn("heatmap body unreadable", zap.String("video_id", videoID), zap.Error(err))
		return result, nil
	}

	payload, prefixed, ok := CleanBody(body)
	if !ok {
		result.Warning = "Valid JSON start '{' not found in self-hosted response."
		c.logger.Warn("heatmap body has no json object", zap.String("video_id", videoID))
		return result, nil
	}

	var data operationalResponse
	if err := json.Unmarshal(payload, &data); err != nil {
		result.Warning = fmt.Sprintf("Failed to parse JSON from self-hosted API after cleaning. Error: %v", err)
		c.logger.Warn("heatmap json invalid", zap.String("video_id", videoID), zap.Error(err))
		return result, nil
	}
	if prefixed {
		result.Warning = "Self-hosted API produced warnings."
		c.logger.Warn("heatmap body had leading diagnostics", zap.String("video_id", videoID))
	}

	if len(data.Items) == 0 {
		c.logger.Debug("heatmap payload has no items", zap.String("video_id", videoID))
		return result, nil
	}

	item := data.Items[0]
	result.Title = item.Title
	if item.MostReplayed != nil && item.MostReplayed.Markers != nil {
		result.Samples = item.MostReplayed.Markers
		result.HasMarkers = true
	}

	c.logger.Debug("heatmap fetched",
		zap.String("video_id", videoID),
		zap.Int("markers", len(result.Samples)))
	return result, nil
}

// CleanBody strips any diagnostic text the service prints before its JSON
// object. It returns the payload starting at the first '{', whether anything
// was stripped, and false when no '{' exists.
func CleanBody(body []byte) ([]byte, bool, bool) {
	idx := bytes.IndexByte(body, '{')
	if idx == -1 {
		return nil, false, false
	}
	return body[idx:], idx > 0, true
}
