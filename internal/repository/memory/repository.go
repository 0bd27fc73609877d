// Package memory provides an in-process asset store used when no MongoDB URI is
// configured and by tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
)

// Repository keeps records in insertion order, partitioned by room.
type Repository struct {
	mu        sync.RWMutex
	order     []string
	records   map[string]models.AssetRecord
	snapshots []models.InventorySummary
	newID     func() string
}

// NewRepository builds an empty store.
func NewRepository() *Repository {
	return &Repository{
		records: make(map[string]models.AssetRecord),
		newID:   uuid.NewString,
	}
}

// List returns every record in insertion order.
func (r *Repository) List(_ context.Context) ([]models.AssetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AssetRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out, nil
}

// Get loads one record addressed by room and id.
func (r *Repository) Get(_ context.Context, room, id string) (models.AssetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok || record.Room != room {
		return models.AssetRecord{}, models.ErrAssetNotFound
	}
	return record, nil
}

// FindByAssetNumber returns the record using the primary asset number, or nil.
func (r *Repository) FindByAssetNumber(_ context.Context, number string) (*models.AssetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if record := r.records[id]; record.AssetNumberPrimary == number {
			return &record, nil
		}
	}
	return nil, nil
}

// Insert stores a new record and assigns its id.
func (r *Repository) Insert(_ context.Context, in models.AssetInput) (models.AssetRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.numberTaken(in.AssetNumberPrimary, "") {
		return models.AssetRecord{}, models.ErrDuplicateAssetNumber
	}

	record := in.Record(r.newID())
	r.records[record.ID] = record
	r.order = append(r.order, record.ID)
	return record, nil
}

// Replace overwrites the record addressed by room and id, moving it when the room changes.
func (r *Repository) Replace(_ context.Context, room, id string, in models.AssetInput) (models.AssetRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[id]
	if !ok || current.Room != room {
		return models.AssetRecord{}, models.ErrAssetNotFound
	}
	if r.numberTaken(in.AssetNumberPrimary, id) {
		return models.AssetRecord{}, models.ErrDuplicateAssetNumber
	}

	record := in.Record(id)
	r.records[id] = record
	return record, nil
}

// Delete removes the record addressed by room and id.
func (r *Repository) Delete(_ context.Context, room, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[id]
	if !ok || current.Room != room {
		return models.ErrAssetNotFound
	}

	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// SaveSnapshot keeps the summary in memory.
func (r *Repository) SaveSnapshot(_ context.Context, summary models.InventorySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, summary)
	return nil
}

// Snapshots returns the stored summaries.
func (r *Repository) Snapshots() []models.InventorySummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.InventorySummary(nil), r.snapshots...)
}

// Close is a no-op.
func (r *Repository) Close(context.Context) error { return nil }

func (r *Repository) numberTaken(number, exceptID string) bool {
	for id, record := range r.records {
		if id != exceptID && record.AssetNumberPrimary == number {
			return true
		}
	}
	return false
}
