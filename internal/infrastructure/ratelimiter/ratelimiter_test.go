package ratelimiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowExhaustsBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 3})

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("client-a"), "request %d should pass", i)
	}
	require.False(t, rl.Allow("client-a"))

	// a different source has its own bucket
	require.True(t, rl.Allow("client-b"))
}

func TestRemaining(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 5})

	require.Equal(t, 5, rl.Remaining("c"))
	rl.Allow("c")
	require.Equal(t, 4, rl.Remaining("c"))
}

func TestGetSourceKey(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "X-Forwarded-For"})

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	require.Equal(t, "10.0.0.1:1234", rl.GetSourceKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	require.Equal(t, "203.0.113.9", rl.GetSourceKey(r))
}

func TestInMemoryExpiration(t *testing.T) {
	im := NewInMemory()
	defer im.Close()

	require.NoError(t, im.Set("k", 7))
	v, err := im.Get("k")
	require.NoError(t, err)
	require.Equal(t, 7, v)

	_, err = im.Get("missing")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, im.SetWithExpiration("short", 1, time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, err = im.Get("short")
	require.ErrorIs(t, err, ErrCacheMiss)
}
