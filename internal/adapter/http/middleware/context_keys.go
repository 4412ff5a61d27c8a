package middleware

import (
	"context"

	"github.com/PartyAppOfficial/Partyapp/internal/auth/usecase"
)

type ContextKey string

const IdentityCtxKey = ContextKey("identity")

// IdentityFrom returns the live token of the request, or nil for guests.
func IdentityFrom(ctx context.Context) *usecase.Identity {
	id, _ := ctx.Value(IdentityCtxKey).(*usecase.Identity)
	return id
}

func WithIdentity(ctx context.Context, id *usecase.Identity) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, id)
}
