package domain

import (
	"context"
	"io"
	"time"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *BusinessListing) (string, error)
}

// Storage is the object store. Put returns a reference that PublicURL
// resolves to a URL the browser can fetch.
type Storage interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	PublicURL(ctx context.Context, ref string) (string, error)
}

type EventPublisher interface {
	PublishBusinessRegistered(ctx context.Context, listing *BusinessListing) error
}

type Mailer interface {
	SendListingCreatedEmail(ctx context.Context, toEmail, ownerName, businessName string) error
}

// SubmitGuard allows one in-flight submission per user. Acquire returns an
// owner token; Release only frees the slot while that token still holds it.
type SubmitGuard interface {
	Acquire(ctx context.Context, userID string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, userID, token string) error
}
