package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	loginFailKeyPrefix = "login:fail:"

	DefaultThrottleWindow = 15 * time.Minute
)

// LoginThrottle counts failed logins per email. The window starts at the
// first failure and is not extended by later ones.
type LoginThrottle struct {
	client *redis.Client
	window time.Duration
	logger *logger.Logger
}

func NewLoginThrottle(client *redis.Client, window time.Duration, log *logger.Logger) *LoginThrottle {
	if window <= 0 {
		window = DefaultThrottleWindow
	}
	return &LoginThrottle{client: client, window: window, logger: log.Named("LoginThrottle")}
}

func failKey(email string) string {
	return loginFailKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (t *LoginThrottle) Fail(ctx context.Context, email string) (int64, error) {
	key := failKey(email)
	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Error("LoginThrottle.Fail: redis pipeline failed", zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("LoginThrottle.Fail: %w", err)
	}
	return incr.Val(), nil
}

func (t *LoginThrottle) Failures(ctx context.Context, email string) (int64, error) {
	n, err := t.client.Get(ctx, failKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("LoginThrottle.Failures: %w", err)
	}
	return n, nil
}

func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, failKey(email)).Err(); err != nil {
		return fmt.Errorf("LoginThrottle.Reset: %w", err)
	}
	return nil
}
