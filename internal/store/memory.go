// internal/store/memory.go
package store

import (
	"context"
	"sync"

	"remotehire/internal/common/errors"
	"remotehire/internal/models"
)

// MemoryStore is an in-memory RowStore used by tests and local development.
// It preserves append order and, like the real backend, offers no per-record
// locking beyond whole-table mutex protection of individual calls.
type MemoryStore struct {
	mu         sync.Mutex
	order      []string
	records    map[string]*models.ApplicationRecord
	highlights map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:    make(map[string]*models.ApplicationRecord),
		highlights: make(map[string]string),
	}
}

func (s *MemoryStore) GetAll(_ context.Context) ([]models.ApplicationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ApplicationRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.records[id])
	}
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, appID string) (*models.ApplicationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[appID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*models.ApplicationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized := models.NormalizeEmail(email)
	for _, id := range s.order {
		rec := s.records[id]
		if models.NormalizeEmail(rec.Email) == normalized {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Append(_ context.Context, rec models.ApplicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := rec
	s.records[rec.AppID] = &copied
	s.order = append(s.order, rec.AppID)
	return nil
}

func (s *MemoryStore) UpdateFields(_ context.Context, appID string, updates map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[appID]
	if !ok {
		return errors.NewUpstreamFailureError("updateFields", ErrNoRowsUpdated)
	}
	if err := applyFieldUpdates(rec, updates); err != nil {
		return errors.NewUpstreamFailureError("updateFields", err)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, appID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[appID]; !ok {
		return errors.NewNotFoundError(appID)
	}
	delete(s.records, appID)
	delete(s.highlights, appID)
	for i, id := range s.order {
		if id == appID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) ApplyRowHighlight(_ context.Context, appID, colorToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlights[appID] = colorToken
	return nil
}

// Highlight returns the last highlight applied to a record, for assertions.
func (s *MemoryStore) Highlight(appID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlights[appID]
}
