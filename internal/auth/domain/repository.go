package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) (string, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateName(ctx context.Context, id, name string) error
}

// TokenStore keeps the live sessions keyed by token id. Deleting an entry
// logs the token out even if its signature is still valid.
type TokenStore interface {
	Save(ctx context.Context, tokenID string, session *Session, ttl time.Duration) error
	Get(ctx context.Context, tokenID string) (*Session, error)
	Delete(ctx context.Context, tokenID string) error
}

// LoginThrottle counts failed logins per email inside a fixed window.
type LoginThrottle interface {
	Fail(ctx context.Context, email string) (int64, error)
	Failures(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}

type SessionEventPublisher interface {
	PublishSessionChanged(ctx context.Context, userID string, session *Session) error
}
