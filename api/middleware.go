package api

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/songpeaks/api/types"
	"github.com/killallgit/songpeaks/internal/metrics"
	apperrors "github.com/killallgit/songpeaks/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// CORS allows the given origins; an empty list or "*" allows any origin
func CORS(origins ...string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(1024 * 1024)
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger logs every request with zap and counts it by route and status
func RequestLogger(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.ObserveHTTP(route, status)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// RateLimiters tracks one token bucket per client IP
type RateLimiters struct {
	clients sync.Map
	once    sync.Once
	stop    chan struct{}
	stopped sync.Once
}

// NewRateLimiters creates an empty limiter set
func NewRateLimiters() *RateLimiters {
	return &RateLimiters{stop: make(chan struct{})}
}

// Stop ends the idle limiter sweep
func (rl *RateLimiters) Stop() {
	rl.stopped.Do(func() { close(rl.stop) })
}

// errRateLimited is returned to clients whose limiter has no tokens left
var errRateLimited = apperrors.New(apperrors.ErrCodeAPIRateLimit, "Rate limit exceeded. Please slow down your requests.")

// PerClientRateLimit allows each client IP rps requests per second with the
// given burst. Limiters live in rl and are swept once idle.
func PerClientRateLimit(rl *RateLimiters, rps float64, burst int) gin.HandlerFunc {
	rl.once.Do(func() {
		go rl.cleanup(limiterSweepInterval, limiterIdleTTL)
	})

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		v, ok := rl.clients.Load(clientIP)
		if !ok {
			v, _ = rl.clients.LoadOrStore(clientIP, &clientLimiter{
				limiter: rate.NewLimiter(rate.Limit(rps), burst),
			})
		}
		cl := v.(*clientLimiter)
		cl.lastSeen.Store(time.Now().UnixNano())

		if !cl.limiter.Allow() {
			types.SendError(c, errRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiters) cleanup(interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep(time.Now(), idle)
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiters) sweep(now time.Time, idle time.Duration) {
	rl.clients.Range(func(key, value any) bool {
		cl := value.(*clientLimiter)
		if now.Sub(time.Unix(0, cl.lastSeen.Load())) > idle {
			rl.clients.Delete(key)
		}
		return true
	})
}
