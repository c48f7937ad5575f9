// Package ratelimit throttles OTP issuance per email using Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLimited = errors.New("otp request limited")

// LimitError carries how long the caller should wait.
type LimitError struct {
	RetryAfter time.Duration
	Reason     string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s; try again in %d seconds", e.Reason, int(e.RetryAfter.Seconds()))
}

func (e *LimitError) Unwrap() error { return ErrLimited }

// OTPLimiter enforces a cooldown between codes for one email and a cap on
// codes per window. Exceeding the cap blocks the email for three windows.
type OTPLimiter struct {
	client      redis.UniversalClient
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

func NewOTPLimiter(client redis.UniversalClient, window time.Duration, max int, cooldown time.Duration) *OTPLimiter {
	return &OTPLimiter{client: client, window: window, maxInWindow: max, cooldown: cooldown}
}

func keys(email string) (block, last, count string) {
	return "otp_rate:block:" + email, "otp_rate:last:" + email, "otp_rate:count:" + email
}

func (l *OTPLimiter) Allow(ctx context.Context, email string) error {
	blockKey, lastKey, countKey := keys(email)

	if ttl, err := l.client.TTL(ctx, blockKey).Result(); err != nil {
		return err
	} else if ttl > 0 {
		return &LimitError{RetryAfter: ttl, Reason: "too many OTP requests"}
	}

	if ttl, err := l.client.TTL(ctx, lastKey).Result(); err != nil {
		return err
	} else if ttl > 0 {
		return &LimitError{RetryAfter: ttl, Reason: "please wait before requesting another OTP"}
	}

	cnt, err := l.client.Incr(ctx, countKey).Result()
	if err != nil {
		return err
	}
	if cnt == 1 {
		if err := l.client.Expire(ctx, countKey, l.window).Err(); err != nil {
			return err
		}
	}

	if int(cnt) > l.maxInWindow {
		block := l.window * 3
		if err := l.client.Set(ctx, blockKey, "1", block).Err(); err != nil {
			return err
		}
		return &LimitError{RetryAfter: block, Reason: "too many OTP requests"}
	}

	return l.client.Set(ctx, lastKey, "1", l.cooldown).Err()
}

// Release gives back an issuance that was never delivered: the cooldown is
// lifted and the window count decremented.
func (l *OTPLimiter) Release(ctx context.Context, email string) error {
	_, lastKey, countKey := keys(email)
	if err := l.client.Del(ctx, lastKey).Err(); err != nil {
		return err
	}
	cnt, err := l.client.Decr(ctx, countKey).Result()
	if err != nil {
		return err
	}
	if cnt <= 0 {
		return l.client.Del(ctx, countKey).Err()
	}
	return nil
}

// Reset clears the limiter state for email, e.g. after a successful verification.
func (l *OTPLimiter) Reset(ctx context.Context, email string) error {
	blockKey, lastKey, countKey := keys(email)
	return l.client.Del(ctx, blockKey, lastKey, countKey).Err()
}
