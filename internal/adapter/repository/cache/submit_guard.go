package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const submitKeyPrefix = "submit:"

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmitGuard is the shared version of the disabled submit button: one key
// per user, set only if absent, holding the owner's token.
type SubmitGuard struct {
	client *redis.Client
	logger *logger.Logger
}

func NewSubmitGuard(client *redis.Client, log *logger.Logger) *SubmitGuard {
	return &SubmitGuard{client: client, logger: log.Named("SubmitGuard")}
}

func (g *SubmitGuard) Acquire(ctx context.Context, userID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, submitKeyPrefix+userID, token, ttl).Result()
	if err != nil {
		g.logger.Error("SubmitGuard.Acquire: redis SETNX failed", zap.String("userID", userID), zap.Error(err))
		return "", false, fmt.Errorf("SubmitGuard.Acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (g *SubmitGuard) Release(ctx context.Context, userID, token string) error {
	deleted, err := releaseScript.Run(ctx, g.client, []string{submitKeyPrefix + userID}, token).Int64()
	if err != nil {
		g.logger.Warn("SubmitGuard.Release: release script failed", zap.String("userID", userID), zap.Error(err))
		return fmt.Errorf("SubmitGuard.Release: %w", err)
	}
	if deleted == 0 {
		g.logger.Info("SubmitGuard.Release: slot expired or taken over, left untouched", zap.String("userID", userID))
	}
	return nil
}
