package persistence

import (
	"context"
	"sync"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/pkg/util"
)

// Records is the single-writer guard around a Store. Every access runs
// a full load of the current snapshot under one mutex, so a
// read-modify-write cannot discard a concurrent writer's change.
type Records struct {
	mu    sync.Mutex
	store Store
}

// NewRecords wraps a store with the serialization guard.
func NewRecords(store Store) *Records {
	return &Records{store: store}
}

// View runs fn against the current snapshot without persisting.
func (r *Records) View(ctx context.Context, fn func(*domain.Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.store.Load(ctx)
	if err != nil {
		return util.NewStorageError(err)
	}
	return fn(snap)
}

// Update runs fn against the current snapshot and saves the result.
// If fn returns an error nothing is written.
func (r *Records) Update(ctx context.Context, fn func(*domain.Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.store.Load(ctx)
	if err != nil {
		return util.NewStorageError(err)
	}
	if err := fn(snap); err != nil {
		return err
	}
	if err := r.store.Save(ctx, snap); err != nil {
		return util.NewStorageError(err)
	}
	return nil
}
