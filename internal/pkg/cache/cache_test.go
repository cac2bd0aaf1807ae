package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_AppliesPrefix(t *testing.T) {
	c := New(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "catalog:category:", time.Minute)
	defer c.Close()

	assert.Equal(t, "catalog:category:7", c.Key("7"))
}

func TestGet_UnreachableServerCountsError(t *testing.T) {
	c := New(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}), "p:", time.Minute)
	defer c.Close()

	var v string
	hit, err := c.Get(context.Background(), "k", &v)
	require.Error(t, err)
	assert.False(t, hit)
	assert.Equal(t, uint64(1), c.Snapshot().Errors)
}
