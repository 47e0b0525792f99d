package database

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// Without Redis the post limit is not enforced and caches always miss;
// the API must keep working either way.

func TestCheckPostRateLimit_NoRedisAllows(t *testing.T) {
	Redis = nil

	allowed, err := CheckPostRateLimit("S1", 1, 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, allowed)

	// Repeated calls stay allowed: there is no window to exhaust
	allowed, err = CheckPostRateLimit("S1", 1, 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestCache_NoRedisMisses(t *testing.T) {
	Redis = nil

	assert.NoError(t, CacheSet("k", "v", time.Minute))

	var out string
	assert.ErrorIs(t, CacheGet("k", &out), redis.Nil)
	assert.NoError(t, CacheInvalidate("k*"))
}
