package predictor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store persists prediction records
type Store interface {
	// Create appends a record
	Create(ctx context.Context, record *PredictionRecord) error

	// ListByStudent returns a student's records, most recent first
	ListByStudent(ctx context.Context, studentID string) ([]*PredictionRecord, error)
}

// InMemoryStore implements Store using an in-memory slice.
// Thread-safe with RWMutex.
type InMemoryStore struct {
	records []*PredictionRecord
	ids     map[string]struct{}
	mu      sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		ids: make(map[string]struct{}),
	}
}

// Create stores a copy of the record and sets CreatedAt when unset
func (s *InMemoryStore) Create(_ context.Context, record *PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[record.ID]; exists {
		return fmt.Errorf("prediction with ID %s already exists", record.ID)
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	stored := *record
	s.records = append(s.records, &stored)
	s.ids[stored.ID] = struct{}{}
	return nil
}

// ListByStudent returns copies of the student's records, most recent first.
// Records created at the same instant keep reverse insertion order.
func (s *InMemoryStore) ListByStudent(_ context.Context, studentID string) ([]*PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []*PredictionRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].StudentID == studentID {
			record := *s.records[i]
			owned = append(owned, &record)
		}
	}

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned, nil
}

// Len returns the number of stored records across all students
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
