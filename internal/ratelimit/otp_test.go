package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, max int) (*OTPLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOTPLimiter(client, 10*time.Minute, max, time.Minute), mr
}

func TestOTPLimiter_Cooldown(t *testing.T) {
	ctx := context.Background()
	l, mr := newLimiter(t, 5)

	require.NoError(t, l.Allow(ctx, "a@x.com"))

	err := l.Allow(ctx, "a@x.com")
	require.ErrorIs(t, err, ErrLimited)
	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Greater(t, limitErr.RetryAfter, time.Duration(0))

	require.NoError(t, l.Allow(ctx, "b@x.com"), "limits are per email")

	mr.FastForward(61 * time.Second)
	assert.NoError(t, l.Allow(ctx, "a@x.com"))
}

func TestOTPLimiter_BlocksAfterMax(t *testing.T) {
	ctx := context.Background()
	l, mr := newLimiter(t, 2)

	for i := 0; i < 2; i++ {
		require.NoError(t, l.Allow(ctx, "a@x.com"))
		mr.FastForward(61 * time.Second)
	}

	err := l.Allow(ctx, "a@x.com")
	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 30*time.Minute, limitErr.RetryAfter)

	mr.FastForward(61 * time.Second)
	assert.ErrorIs(t, l.Allow(ctx, "a@x.com"), ErrLimited)

	require.NoError(t, l.Reset(ctx, "a@x.com"))
	assert.NoError(t, l.Allow(ctx, "a@x.com"))
}

func TestOTPLimiter_ReleaseUndoesAllow(t *testing.T) {
	ctx := context.Background()
	l, mr := newLimiter(t, 1)

	require.NoError(t, l.Allow(ctx, "a@x.com"))
	require.NoError(t, l.Release(ctx, "a@x.com"))
	assert.False(t, mr.Exists("otp_rate:count:a@x.com"))

	require.NoError(t, l.Allow(ctx, "a@x.com"), "released issuance neither cools down nor counts")
	assert.ErrorIs(t, l.Allow(ctx, "a@x.com"), ErrLimited)
}
