package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/persistence"
)

// SigninLimiter throttles repeated failed signin attempts per email.
type SigninLimiter interface {
	TooManyFailures(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

const signinFailureKeyPrefix = "signin:fail:"

// redisSigninLimiter counts failures in Redis with a sliding expiry window.
// Redis being unreachable fails open: an upstream outage must degrade to no
// throttling, not to denied logins.
type redisSigninLimiter struct {
	redis       *persistence.Redis
	logger      *zap.Logger
	maxFailures int
	window      time.Duration
}

// NewRedisSigninLimiter builds the limiter.
func NewRedisSigninLimiter(redis *persistence.Redis, logger *zap.Logger, maxFailures int, window time.Duration) SigninLimiter {
	if maxFailures <= 0 {
		maxFailures = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &redisSigninLimiter{redis: redis, logger: logger, maxFailures: maxFailures, window: window}
}

func (l *redisSigninLimiter) TooManyFailures(ctx context.Context, email string) bool {
	count, err := l.redis.Client.Get(ctx, signinFailureKeyPrefix+email).Int()
	if err != nil {
		return false
	}
	return count >= l.maxFailures
}

func (l *redisSigninLimiter) RecordFailure(ctx context.Context, email string) {
	key := signinFailureKeyPrefix + email
	count, err := l.redis.Client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("signin limiter unavailable", zap.Error(err))
		return
	}
	if count == 1 {
		if err := l.redis.Client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("signin limiter expire failed", zap.Error(err))
		}
	}
}

func (l *redisSigninLimiter) Reset(ctx context.Context, email string) {
	if err := l.redis.Client.Del(ctx, signinFailureKeyPrefix+email).Err(); err != nil {
		l.logger.Warn("signin limiter reset failed", zap.Error(err))
	}
}
