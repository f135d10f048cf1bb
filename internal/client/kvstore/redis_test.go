package kvstore

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set LEAVEKEEPER_TEST_REDIS_ADDR to run these against a real server.
func newRedis(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("LEAVEKEEPER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEAVEKEEPER_TEST_REDIS_ADDR not set")
	}
	prefix := "leavekeeper-test:" + strconv.FormatInt(time.Now().UnixNano(), 10) + ":"
	s, err := OpenRedis(context.Background(), addr, 0, prefix)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newRedis(t)

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, "token", []byte(`"abc"`)))
	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(v))

	require.NoError(t, s.Delete(ctx, "token"))
	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRedisStore_ConcurrentMerge(t *testing.T) {
	ctx := context.Background()
	s := newRedis(t)
	t.Cleanup(func() { _ = s.Delete(ctx, "counter") })

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Merge(ctx, "counter", func(cur []byte) ([]byte, error) {
				c, _ := strconv.Atoi(string(cur))
				return []byte(strconv.Itoa(c + 1)), nil
			}))
		}()
	}
	wg.Wait()

	v, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(n), string(v))
}

func TestOpenRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := OpenRedis(ctx, "127.0.0.1:1", 0, "")
	assert.Error(t, err)
}
