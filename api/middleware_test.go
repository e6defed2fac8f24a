package api

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/songpeaks/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origins        []string
		method         string
		origin         string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "preflight request",
			method:         http.MethodOptions,
			origin:         "https://example.com",
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "*",
		},
		{
			name:           "regular GET request",
			method:         http.MethodGet,
			origin:         "https://example.com",
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:           "allowed origin is echoed",
			origins:        []string{"https://songpeaks.app"},
			method:         http.MethodGet,
			origin:         "https://songpeaks.app",
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://songpeaks.app",
		},
		{
			name:           "unknown origin gets no header",
			origins:        []string{"https://songpeaks.app"},
			method:         http.MethodGet,
			origin:         "https://evil.example",
			expectedStatus: http.StatusOK,
			expectedOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.origins...))
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}

func TestRequestSizeLimitWithSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		bodySize       int
		expectedStatus int
	}{
		{"under limit", 100, http.StatusOK},
		{"at limit", 512, http.StatusOK},
		{"over limit", 513, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestSizeLimitWithSize(512))
			router.POST("/test", func(c *gin.Context) {
				_, err := io.ReadAll(c.Request.Body)
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					c.Status(http.StatusRequestEntityTooLarge)
					return
				}
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	m := metrics.New()

	router := gin.New()
	router.Use(RequestLogger(zap.New(core), m))
	router.GET("/api/getYoutubeData", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video ID required"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/getYoutubeData", nil))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "/api/getYoutubeData", entry.ContextMap()["path"])
	assert.EqualValues(t, http.StatusBadRequest, entry.ContextMap()["status"])

	expected := `
# HELP songpeaks_http_requests_total Total number of HTTP requests by route and status class
# TYPE songpeaks_http_requests_total counter
songpeaks_http_requests_total{route="/api/getYoutubeData",status="4xx"} 1
songpeaks_http_requests_total{route="unmatched",status="4xx"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "songpeaks_http_requests_total"))
}

func TestPerClientRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name              string
		requestCount      int
		rps               float64
		burst             int
		expectSomeBlocked bool
		waitBetween       time.Duration
	}{
		{"requests under rate limit", 3, 10, 5, false, 0},
		{"burst requests", 6, 2, 3, true, 0},
		{"spaced requests", 5, 10, 2, false, 150 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiters()
			defer rl.Stop()

			router := gin.New()
			router.Use(PerClientRateLimit(rl, tt.rps, tt.burst))
			router.GET("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			successCount, blockedCount := 0, 0
			for i := 0; i < tt.requestCount; i++ {
				if tt.waitBetween > 0 && i > 0 {
					time.Sleep(tt.waitBetween)
				}
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.RemoteAddr = "127.0.0.1:12345"
				router.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			if tt.expectSomeBlocked {
				assert.Greater(t, blockedCount, 0)
			} else {
				assert.Equal(t, 0, blockedCount)
				assert.Equal(t, tt.requestCount, successCount)
			}
		})
	}
}

func TestPerClientRateLimit_ErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiters()
	defer rl.Stop()

	router := gin.New()
	router.Use(PerClientRateLimit(rl, 0.001, 1))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		router.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, send().Code)

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded. Please slow down your requests."}`, w.Body.String())
}

func TestPerClientRateLimit_DifferentClients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiters()
	defer rl.Stop()

	router := gin.New()
	router.Use(PerClientRateLimit(rl, 2, 2))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiters_Sweep(t *testing.T) {
	rl := NewRateLimiters()
	defer rl.Stop()

	now := time.Now()
	stale := &clientLimiter{}
	stale.lastSeen.Store(now.Add(-time.Hour).UnixNano())
	fresh := &clientLimiter{}
	fresh.lastSeen.Store(now.UnixNano())
	rl.clients.Store("stale", stale)
	rl.clients.Store("fresh", fresh)

	rl.sweep(now, limiterIdleTTL)

	_, ok := rl.clients.Load("stale")
	assert.False(t, ok)
	_, ok = rl.clients.Load("fresh")
	assert.True(t, ok)

	// Stop is idempotent
	rl.Stop()
}
