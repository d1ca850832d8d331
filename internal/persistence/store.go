package persistence

import (
	"context"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
)

// Store persists the full collection set as one document. Load never
// fails on a missing or unreadable backing store; it returns the empty
// default snapshot instead. Save errors surface to the caller.
type Store interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
	Ping(ctx context.Context) error
	Close()
}
