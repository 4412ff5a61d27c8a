package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

// TokenStore keeps one JSON encoded session per token id. The key expires
// together with the token.
type TokenStore struct {
	client *redis.Client
	logger *logger.Logger
}

func NewTokenStore(client *redis.Client, log *logger.Logger) *TokenStore {
	return &TokenStore{client: client, logger: log.Named("TokenStore")}
}

func sessionKey(tokenID string) string { return sessionKeyPrefix + tokenID }

func (s *TokenStore) Save(ctx context.Context, tokenID string, session *domain.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("token %s already expired", tokenID)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(tokenID), data, ttl).Err(); err != nil {
		s.logger.Error("TokenStore.Save: redis SET failed", zap.String("tokenID", tokenID), zap.Error(err))
		return fmt.Errorf("TokenStore.Save for token '%s': %w", tokenID, err)
	}
	return nil
}

func (s *TokenStore) Get(ctx context.Context, tokenID string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrTokenNotFound
		}
		s.logger.Error("TokenStore.Get: redis GET failed", zap.String("tokenID", tokenID), zap.Error(err))
		return nil, fmt.Errorf("TokenStore.Get for token '%s': %w", tokenID, err)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *TokenStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		s.logger.Error("TokenStore.Delete: redis DEL failed", zap.String("tokenID", tokenID), zap.Error(err))
		return fmt.Errorf("TokenStore.Delete for token '%s': %w", tokenID, err)
	}
	return nil
}
