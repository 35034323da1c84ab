package repository

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// MemoryRepository keeps the catalog in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	catalog model.Catalog
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// List returns a deep copy of the catalog.
func (r *MemoryRepository) List(ctx context.Context) (model.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out model.Catalog
	for _, a := range r.catalog.Activities() {
		out.Add(a.Clone())
	}
	return out, nil
}

// Get returns a copy of one activity or ErrNotFound.
func (r *MemoryRepository) Get(ctx context.Context, name string) (*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.catalog.Get(name)
	if !ok {
		return nil, ErrNotFound
	}
	a = a.Clone()
	return &a, nil
}

// AddParticipant appends email under the write lock, so the duplicate and
// capacity checks cannot race with another signup.
func (r *MemoryRepository) AddParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.catalog.Get(name)
	if !ok {
		return ErrNotFound
	}
	if a.HasParticipant(email) {
		return ErrAlreadyRegistered
	}
	if a.IsFull() {
		return ErrActivityFull
	}
	a = a.Clone()
	a.Participants = append(a.Participants, email)
	r.catalog.Add(a)
	return nil
}

// RemoveParticipant drops email from the roster.
func (r *MemoryRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.catalog.Get(name)
	if !ok {
		return ErrNotFound
	}
	if !a.HasParticipant(email) {
		return ErrNotRegistered
	}
	kept := make([]string, 0, len(a.Participants)-1)
	for _, p := range a.Participants {
		if p != email {
			kept = append(kept, p)
		}
	}
	a.Participants = kept
	r.catalog.Add(a)
	return nil
}

// Seed loads activities if the repository is empty.
func (r *MemoryRepository) Seed(ctx context.Context, activities []model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.catalog.Len() > 0 {
		return nil
	}
	for _, a := range activities {
		r.catalog.Add(a.Clone())
	}
	return nil
}

// Close is a no-op.
func (r *MemoryRepository) Close() error {
	return nil
}
