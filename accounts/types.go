// Package accounts registers students, issues their access tokens and
// resolves the authenticated identity of incoming requests.
package accounts

import (
	"errors"
	"time"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrStudentNotFound    = errors.New("student not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Student is a registered account. Email is the login identifier.
type Student struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the authenticated requester as seen by the rest of the
// service.
type Identity struct {
	ID       string
	FullName string
	Email    string
}

// Identity returns the public identity of a student.
func (s *Student) Identity() Identity {
	return Identity{ID: s.ID, FullName: s.FullName, Email: s.Email}
}

func (s *Student) String() string {
	return s.FullName
}
