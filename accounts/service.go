package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFullNameLength = 100
	minPasswordLength = 8
	// bcrypt only reads the first 72 bytes
	maxPasswordBytes = 72
)

// RegistrationError lists the rejected registration fields.
type RegistrationError struct {
	Fields map[string]string
}

func (e *RegistrationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}

// Service implements registration and login
type Service struct {
	store  StudentStore
	tokens *TokenIssuer
}

// NewService creates an account service
func NewService(store StudentStore, tokens *TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// TokenTTL is the lifetime of the tokens returned by Authenticate
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a student account with a bcrypt-hashed password
func (s *Service) Register(ctx context.Context, email, fullName, password string) (*Student, error) {
	email = NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	fields := make(map[string]string)
	if email == "" {
		fields["email"] = "Ce champ est obligatoire."
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		fields["email"] = "Saisissez une adresse e-mail valide."
	}
	if fullName == "" {
		fields["full_name"] = "Ce champ est obligatoire."
	} else if utf8.RuneCountInString(fullName) > maxFullNameLength {
		fields["full_name"] = fmt.Sprintf("Assurez-vous que ce champ comporte au plus %d caractères.", maxFullNameLength)
	}
	if len(password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("Le mot de passe doit contenir au moins %d caractères.", minPasswordLength)
	} else if len(password) > maxPasswordBytes {
		fields["password"] = fmt.Sprintf("Le mot de passe ne peut pas dépasser %d octets.", maxPasswordBytes)
	}
	if len(fields) > 0 {
		return nil, &RegistrationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &Student{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Authenticate checks credentials and returns a signed access token
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	student, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(student)
}

// Resolve verifies a token and loads the student it was issued to
func (s *Service) Resolve(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	student, err := s.store.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return Identity{}, fmt.Errorf("%w: unknown student", ErrInvalidToken)
		}
		return Identity{}, err
	}
	return student.Identity(), nil
}
