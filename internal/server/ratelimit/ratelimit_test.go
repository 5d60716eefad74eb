package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllowsWithinLimit(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/api/chat", Method: "POST", Limit: 3, Window: time.Minute},
		},
	})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("user-1", "/api/chat", "POST"))
	}
	assert.False(t, limiter.Allow("user-1", "/api/chat", "POST"))
}

func TestLimiterIsolatesClients(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/api/chat", Method: "POST", Limit: 1, Window: time.Minute},
		},
	})

	assert.True(t, limiter.Allow("user-1", "/api/chat", "POST"))
	assert.False(t, limiter.Allow("user-1", "/api/chat", "POST"))
	assert.True(t, limiter.Allow("user-2", "/api/chat", "POST"))
}

func TestLimiterPrefixRule(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/api/settings/", Method: "PUT", Limit: 1, Window: time.Minute},
		},
	})

	assert.True(t, limiter.Allow("user-1", "/api/settings/credentials/openai", "PUT"))
	assert.False(t, limiter.Allow("user-1", "/api/settings/credentials/openai", "PUT"))
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow("user-1", "/api/chat", "POST"))
	}
}

func TestLimiterSkipsHealth(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("user-1", "/health", "GET"))
	}
}

func TestBucketRefills(t *testing.T) {
	b := newBucket(1, 100) // refills fast enough to observe
	assert.True(t, b.allow())
	assert.False(t, b.allow())
	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.allow())
}
