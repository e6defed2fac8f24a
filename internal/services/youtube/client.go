package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/killallgit/songpeaks/pkg/isoduration"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrNoAPIKey indicates no Data API key is configured
	ErrNoAPIKey = errors.New("youtube api key not configured")

	// ErrVideoNotFound indicates the API answered but knows no such video
	ErrVideoNotFound = errors.New("video not found")
)

// StatusError is returned when the Data API answers with a non-200 status
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("youtube api responded with status: %d", e.StatusCode)
}

// Config holds configuration for the YouTube Data API client
type Config struct {
	APIKey            string
	BaseURL           string        // Default: https://www.googleapis.com/youtube/v3
	Timeout           time.Duration // Default: 10s
	RequestsPerMinute int           // Default: 60
}

// Client talks to the YouTube Data API v3
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	apiKey      string
	baseURL     string
	logger      *zap.Logger
}

// NewClient creates a new YouTube Data API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 5),
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		logger:      logger,
	}
}

// HasAPIKey reports whether lookups can be attempted at all
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// LookupVideo fetches title, thumbnail and duration of a video.
// It returns ErrNoAPIKey, ErrVideoNotFound, a *StatusError, or a transport error.
func (c *Client) LookupVideo(ctx context.Context, videoID string) (*Video, error) {
	if !c.HasAPIKey() {
		return nil, ErrNoAPIKey
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("id", videoID)
	params.Set("key", c.apiKey)
	params.Set("part", "snippet,contentDetails")
	endpoint := fmt.Sprintf("%s/videos?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching video metadata", zap.String("video_id", videoID))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup video %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var data videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(data.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := data.Items[0]
	video := &Video{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		ThumbnailURL: pickThumbnail(item.Snippet.Thumbnails),
	}
	if seconds, ok := isoduration.Seconds(item.ContentDetails.Duration); ok {
		video.DurationSeconds = seconds
	}

	c.logger.Debug("video metadata fetched",
		zap.String("video_id", videoID),
		zap.Float64("duration_seconds", video.DurationSeconds))
	return video, nil
}

// pickThumbnail prefers the medium rendition and falls back to the default one
func pickThumbnail(t thumbnails) string {
	if t.Medium != nil && t.Medium.URL != "" {
		return t.Medium.URL
	}
	if t.Default != nil {
		return t.Default.URL
	}
	return ""
}
