// Package ratelimit provides token-bucket rate limiting for the API. The
// bucket store is injected state owned by the Limiter, keyed by client id,
// so running multiple instances only needs swapping the store.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket refilling at a steady rate.
type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Rule is a per-route limit. Path supports prefix matching when it ends
// with a slash.
type Rule struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
}

// Config holds the limiter configuration, injected at construction.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Rules         []Rule
}

// DefaultConfig returns the built-in limits: chat and module calls are the
// expensive tier, settings writes the moderate one.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  300,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/api/chat", Method: "POST", Limit: 30, Window: time.Minute},
			{Path: "/api/content/", Method: "POST", Limit: 30, Window: time.Minute},
			{Path: "/api/analysis/", Method: "POST", Limit: 30, Window: time.Minute},
			{Path: "/api/materials/", Method: "POST", Limit: 30, Window: time.Minute},
			{Path: "/api/settings/", Method: "PUT", Limit: 20, Window: time.Minute},
			{Path: "/api/settings/", Method: "POST", Limit: 20, Window: time.Minute},
		},
	}
}

// Limiter manages one token bucket per client and matched rule.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLimiter builds a limiter around the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
	}
}

// Allow reports whether the client may issue this request now. Health
// checks are never limited.
func (l *Limiter) Allow(clientID, path, method string) bool {
	if !l.config.Enabled || path == "/health" {
		return true
	}

	limit, window := l.config.DefaultLimit, l.config.DefaultWindow
	for _, rule := range l.config.Rules {
		if rule.Method != method {
			continue
		}
		if rule.Path == path || (len(rule.Path) > 0 && rule.Path[len(rule.Path)-1] == '/' && hasPrefix(path, rule.Path)) {
			limit, window = rule.Limit, rule.Window
			break
		}
	}
	if limit <= 0 {
		return true
	}

	key := clientID + ":" + method + ":" + path
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(limit, float64(limit)/window.Seconds())
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.allow()
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
