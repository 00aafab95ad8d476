package accounts

import (
	"context"
	"sync"
	"time"
)

// StudentStore persists registered students
type StudentStore interface {
	// Create adds a new student; ErrEmailExists when the email is taken
	Create(ctx context.Context, s *Student) error

	// GetByEmail looks a student up by login email
	GetByEmail(ctx context.Context, email string) (*Student, error)

	// GetByID looks a student up by ID
	GetByID(ctx context.Context, id string) (*Student, error)
}

// InMemoryStudentStore implements StudentStore using in-memory maps.
// Thread-safe with RWMutex.
type InMemoryStudentStore struct {
	byID    map[string]*Student
	byEmail map[string]string
	mu      sync.RWMutex
}

// NewInMemoryStudentStore creates an empty in-memory store
func NewInMemoryStudentStore() *InMemoryStudentStore {
	return &InMemoryStudentStore{
		byID:    make(map[string]*Student),
		byEmail: make(map[string]string),
	}
}

// Create stores a copy of the student and sets CreatedAt when unset
func (s *InMemoryStudentStore) Create(_ context.Context, student *Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[student.Email]; exists {
		return ErrEmailExists
	}

	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now()
	}
	stored := *student
	s.byID[stored.ID] = &stored
	s.byEmail[stored.Email] = stored.ID
	return nil
}

// GetByEmail returns a copy of the student registered with email
func (s *InMemoryStudentStore) GetByEmail(_ context.Context, email string) (*Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, ErrStudentNotFound
	}
	student := *s.byID[id]
	return &student, nil
}

// GetByID returns a copy of the student with the given ID
func (s *InMemoryStudentStore) GetByID(_ context.Context, id string) (*Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.byID[id]
	if !exists {
		return nil, ErrStudentNotFound
	}
	student := *stored
	return &student, nil
}
