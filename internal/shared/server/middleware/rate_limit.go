package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	RateLimitGroupDefault = "DEFAULT"

	// RateLimitGroupAI covers the provider-backed assist routes.
	RateLimitGroupAI = "AI"

	// buckets untouched this long are dropped on the next sweep
	bucketIdleTTL = 10 * time.Minute
	sweepInterval = time.Minute
)

// RateLimitRule refills PerMinute tokens per minute up to Burst.
type RateLimitRule struct {
	PerMinute float64
	Burst     int
}

func (r RateLimitRule) disabled() bool {
	return r.PerMinute <= 0 || r.Burst <= 0
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

type bucketKey struct {
	principal string
	group     string
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// RateLimiter holds one token bucket per caller and route group.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[bucketKey]*bucket
	now       func() time.Time
	lastSweep time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{buckets: make(map[bucketKey]*bucket), now: now}
}

type rateLimitedBody struct {
	Error        string `json:"error"`
	RetryAfterMs int64  `json:"retryAfterMs"`
}

// RateLimit rejects requests over the rule of their group with 429 and a
// Retry-After header. Groups without a rule pass through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	fallbackGroup := cfg.DefaultGroup
	if fallbackGroup == "" {
		fallbackGroup = RateLimitGroupDefault
	}
	return func(c *gin.Context) {
		group := fallbackGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		wait, allowed := limiter.take(bucketKey{principal: principalOf(c), group: group}, rule)
		if allowed {
			c.Next()
			return
		}
		if wait < time.Millisecond {
			wait = time.Second
		}
		c.Header("Retry-After", strconv.FormatInt(int64(math.Ceil(wait.Seconds())), 10))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, rateLimitedBody{
			Error:        "rate_limited",
			RetryAfterMs: wait.Milliseconds(),
		})
	}
}

// principalOf keys anonymous callers by client IP.
func principalOf(c *gin.Context) string {
	if id := strings.TrimSpace(UserIDFromContext(c)); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// GroupByPathPrefix returns a GroupFor that maps requests whose path starts
// with prefix to group.
func GroupByPathPrefix(prefix, group string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			return group
		}
		return RateLimitGroupDefault
	}
}

// take spends one token for key. When the bucket is empty it reports how
// long until the next token.
func (l *RateLimiter) take(key bucketKey, rule RateLimitRule) (time.Duration, bool) {
	if l == nil || rule.disabled() {
		return 0, true
	}
	now := l.now()
	perSecond := rule.PerMinute / 60.0

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(rule.Burst), seen: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.seen).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(rule.Burst), b.tokens+elapsed*perSecond)
	}
	b.seen = now
	if b.tokens >= 1 {
		b.tokens--
		return 0, true
	}
	wait := time.Duration(math.Ceil((1-b.tokens)/perSecond*1000)) * time.Millisecond
	return wait, false
}

func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.seen) > bucketIdleTTL {
			delete(l.buckets, key)
		}
	}
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
