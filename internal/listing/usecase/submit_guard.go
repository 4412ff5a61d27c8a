package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type heldSlot struct {
	token string
	until time.Time
}

// MemorySubmitGuard is the in-process SubmitGuard used when Redis is not
// configured.
type MemorySubmitGuard struct {
	mu      sync.Mutex
	held    map[string]heldSlot
	nowFunc func() time.Time
}

func NewMemorySubmitGuard() *MemorySubmitGuard {
	return &MemorySubmitGuard{held: make(map[string]heldSlot), nowFunc: time.Now}
}

func (g *MemorySubmitGuard) Acquire(_ context.Context, userID string, ttl time.Duration) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.nowFunc()
	if slot, ok := g.held[userID]; ok && now.Before(slot.until) {
		return "", false, nil
	}
	token := uuid.NewString()
	g.held[userID] = heldSlot{token: token, until: now.Add(ttl)}
	return token, true, nil
}

func (g *MemorySubmitGuard) Release(_ context.Context, userID, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slot, ok := g.held[userID]; ok && slot.token == token {
		delete(g.held, userID)
	}
	return nil
}
