package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/ideabox/internal/config"
	"go.uber.org/fx"
)

const keyBulkActor = "ideabox:bulk:actor:%s"

// BulkLimiter throttles bulk mutations and exports per actor. A nil
// limiter admits everything.
type BulkLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewBulkLimiter(lc fx.Lifecycle, cfg config.Config) (*BulkLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.BulkRate <= 0 || limitCfg.BulkBurst <= 0 {
		return nil, errors.New("bulk rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("rate limit redis ping: %w", err)
				}
				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
	}

	return NewBulkLimiterWithClient(client, limitCfg.BulkRate, limitCfg.BulkBurst), nil
}

// NewBulkLimiterWithClient builds a limiter over an existing script runner.
func NewBulkLimiterWithClient(client redis.Scripter, rate float64, burst int) *BulkLimiter {
	return &BulkLimiter{
		bucket: NewTokenBucket(client),
		rate:   rate,
		burst:  burst,
	}
}

func (l *BulkLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *BulkLimiter) Allow(ctx context.Context, actorID string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return Result{}, errors.New("rate limit actor is empty")
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyBulkActor, actorID), l.rate, l.burst)
}
