// Package cache provides an optional read-through cache for chat session
// history. The persistence layer stays the source of truth; the cache only
// absorbs repeated history reads from polling clients.
package cache

import (
	"context"
	"time"

	"github.com/manishsingh1309/ai-planet/pkg/models"
)

// DefaultTTL bounds staleness when an invalidation is missed.
const DefaultTTL = 5 * time.Minute

// SessionCache caches chat history per session id. A miss returns
// (nil, false, nil).
type SessionCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]*models.ChatHistoryEntry, bool, error)
	SetHistory(ctx context.Context, sessionID string, entries []*models.ChatHistoryEntry) error
	Invalidate(ctx context.Context, sessionID string) error
	Close() error
}

// Noop satisfies SessionCache without caching anything. Used when no Redis
// URL is configured.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) GetHistory(_ context.Context, _ string) ([]*models.ChatHistoryEntry, bool, error) {
	return nil, false, nil
}

func (n *Noop) SetHistory(_ context.Context, _ string, _ []*models.ChatHistoryEntry) error {
	return nil
}

func (n *Noop) Invalidate(_ context.Context, _ string) error {
	return nil
}

func (n *Noop) Close() error {
	return nil
}
