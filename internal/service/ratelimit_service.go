package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Rate limited action types with their default cooldowns.
const (
	ActionGuidanceRequest = "guidance_request"
	ActionReferralRequest = "referral_request"
	ActionReferralApply   = "referral_apply"
	ActionCreatePost      = "create_post"
)

// DefaultCooldowns returns the per-action cooldown table used when config
// does not override it.
func DefaultCooldowns() map[string]time.Duration {
	return map[string]time.Duration{
		ActionGuidanceRequest: 5 * time.Minute,
		ActionReferralRequest: 30 * 24 * time.Hour,
		ActionReferralApply:   30 * 24 * time.Hour,
		ActionCreatePost:      time.Minute,
	}
}

// RateLimiter guards abuse-prone actions with a per-account, per-action
// cooldown. Record is called only after the guarded action succeeds, so
// failed attempts never count against the caller.
type RateLimiter interface {
	Check(ctx context.Context, accountID uint, action string) error
	Record(ctx context.Context, accountID uint, action string) error
}

type redisRateLimiter struct {
	client    *redis.Client
	cooldowns map[string]time.Duration
	logger    zerolog.Logger
}

// NewRateLimiter constructs a Redis-backed rate limiter. Each account/action
// pair is an independent key with the cooldown as its TTL; no cross-account
// coordination happens.
func NewRateLimiter(client *redis.Client, cooldowns map[string]time.Duration, logger zerolog.Logger) RateLimiter {
	if cooldowns == nil {
		cooldowns = DefaultCooldowns()
	}
	return &redisRateLimiter{
		client:    client,
		cooldowns: cooldowns,
		logger:    logger.With().Str("component", "rate_limiter").Logger(),
	}
}

func rateLimitKey(accountID uint, action string) string {
	return fmt.Sprintf("ratelimit:%d:%s", accountID, action)
}

func (l *redisRateLimiter) Check(ctx context.Context, accountID uint, action string) error {
	if _, ok := l.cooldowns[action]; !ok {
		return nil
	}

	ttl, err := l.client.TTL(ctx, rateLimitKey(accountID, action)).Result()
	if err != nil {
		l.logger.Error().Err(err).Str("action", action).Msg("rate limit check failed")
		return err
	}
	if ttl > 0 {
		return &RateLimitError{Action: action, RetryAfter: ttl}
	}
	return nil
}

func (l *redisRateLimiter) Record(ctx context.Context, accountID uint, action string) error {
	cooldown, ok := l.cooldowns[action]
	if !ok {
		return nil
	}

	if err := l.client.Set(ctx, rateLimitKey(accountID, action), time.Now().UTC().Unix(), cooldown).Err(); err != nil {
		l.logger.Error().Err(err).Str("action", action).Msg("failed to record rate limited action")
		return err
	}
	return nil
}
