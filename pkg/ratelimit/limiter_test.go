package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestLimiterStore_PerKeyBuckets(t *testing.T) {
	store := NewLimiterStore(rate.Every(time.Hour), 1)

	assert.True(t, store.Allow("chat:1"))
	assert.False(t, store.Allow("chat:1"), "burst of one is spent")
	assert.True(t, store.Allow("chat:2"), "other keys have their own bucket")
	assert.Same(t, store.GetLimiter("chat:1"), store.GetLimiter("chat:1"))
}

func TestLimiterStore_Prune(t *testing.T) {
	store := NewLimiterStore(rate.Limit(1), 1)
	store.GetLimiter("a")
	store.GetLimiter("b")

	assert.Equal(t, 0, store.Prune(time.Hour))
	assert.Equal(t, 2, store.Len())

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, store.Prune(time.Millisecond))
	assert.Equal(t, 0, store.Len())
}
