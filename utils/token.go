package utils

import (
	"context"
	"sync"
	"time"
)

// TokenBlocklist remembers tokens revoked by logout until they expire.
type TokenBlocklist interface {
	Block(ctx context.Context, token string, until time.Time) error
	IsBlocked(ctx context.Context, token string) (bool, error)
}

type MemoryBlocklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryBlocklist() *MemoryBlocklist {
	return &MemoryBlocklist{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (b *MemoryBlocklist) Block(_ context.Context, token string, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = until
	return nil
}

func (b *MemoryBlocklist) IsBlocked(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	expiry, exists := b.tokens[token]
	b.mu.RUnlock()

	if !exists {
		return false, nil
	}
	if b.now().Before(expiry) {
		return true, nil
	}

	// expired, nothing left to block
	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
	return false, nil
}

// Cleanup drops expired entries every interval until ctx is done.
func (b *MemoryBlocklist) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.mu.Lock()
			now := b.now()
			for token, expiry := range b.tokens {
				if now.After(expiry) {
					delete(b.tokens, token)
				}
			}
			b.mu.Unlock()
		}
	}
}
