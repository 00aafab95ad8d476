package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	uniqueViolation   = "23505"
	invalidTextFormat = "22P02"
)

// PostgresStudentStore implements StudentStore backed by PostgreSQL
type PostgresStudentStore struct {
	db *sql.DB
}

// NewPostgresStudentStore creates a new PostgreSQL-backed StudentStore
func NewPostgresStudentStore(db *sql.DB) *PostgresStudentStore {
	return &PostgresStudentStore{db: db}
}

// Create inserts a new student. CreatedAt is assigned by the database.
func (s *PostgresStudentStore) Create(ctx context.Context, student *Student) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO students (id, email, full_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, student.ID, student.Email, student.FullName, student.PasswordHash).Scan(&student.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to insert student: %w", err)
	}

	return nil
}

// GetByEmail retrieves a student by login email
func (s *PostgresStudentStore) GetByEmail(ctx context.Context, email string) (*Student, error) {
	return s.get(ctx, `
		SELECT id, email, full_name, password_hash, created_at
		FROM students
		WHERE email = $1
	`, email)
}

// GetByID retrieves a student by ID
func (s *PostgresStudentStore) GetByID(ctx context.Context, id string) (*Student, error) {
	return s.get(ctx, `
		SELECT id, email, full_name, password_hash, created_at
		FROM students
		WHERE id = $1
	`, id)
}

func (s *PostgresStudentStore) get(ctx context.Context, query string, arg any) (*Student, error) {
	var student Student
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&student.ID,
		&student.Email,
		&student.FullName,
		&student.PasswordHash,
		&student.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStudentNotFound
	}
	// a subject that is not a UUID cannot match any row
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == invalidTextFormat {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &student, nil
}
