package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("test-signing-key-0123456789")

func newTestService() (*Service, *InMemoryStudentStore, *TokenIssuer) {
	store := NewInMemoryStudentStore()
	tokens := NewTokenIssuer(testKey, time.Hour)
	return NewService(store, tokens), store, tokens
}

func TestRegister(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	student, err := svc.Register(ctx, "  Alice@Example.com ", "Alice Martin", "password123")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if student.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %q", student.Email)
	}
	if student.ID == "" {
		t.Error("Expected an ID to be assigned")
	}
	if student.PasswordHash == "password123" || student.PasswordHash == "" {
		t.Error("Password must be stored hashed")
	}

	stored, err := store.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() failed: %v", err)
	}
	if stored.FullName != "Alice Martin" || stored.CreatedAt.IsZero() {
		t.Errorf("Unexpected stored student: %+v", stored)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob@example.com", "Bob", "password123"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	_, err := svc.Register(ctx, "BOB@example.com", "Bob Again", "password456")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "not-an-email", "", "short")
	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("Expected *RegistrationError, got %v", err)
	}

	for _, field := range []string{"email", "full_name", "password"} {
		if _, ok := regErr.Fields[field]; !ok {
			t.Errorf("Expected %s to be reported, got %v", field, regErr.Fields)
		}
	}

	_, err = svc.Register(context.Background(), "carol@example.com", strings.Repeat("a", 101), "password123")
	if !errors.As(err, &regErr) || regErr.Fields["full_name"] == "" {
		t.Errorf("Expected full_name length error, got %v", err)
	}

	_, err = svc.Register(context.Background(), "carol@example.com", "Carol", strings.Repeat("p", 73))
	if !errors.As(err, &regErr) || regErr.Fields["password"] == "" {
		t.Errorf("Expected password length error, got %v", err)
	}
}

func TestAuthenticateAndResolve(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	student, err := svc.Register(ctx, "dana@example.com", "Dana", "password123")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	token, err := svc.Authenticate(ctx, "Dana@Example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}

	id, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if id.ID != student.ID || id.Email != "dana@example.com" || id.FullName != "Dana" {
		t.Errorf("Resolve() = %+v, want identity of %+v", id, student)
	}
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "erin@example.com", "Erin", "password123"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "erin@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestVerify_RejectsBadTokens(t *testing.T) {
	_, _, tokens := newTestService()
	student := &Student{ID: "student-1", Email: "frank@example.com"}

	valid, err := tokens.Issue(student)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	expiredIssuer := NewTokenIssuer(testKey, time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredIssuer.Issue(student)

	foreign, _ := NewTokenIssuer([]byte("another-signing-key-987654"), time.Hour).Issue(student)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "student-1", Issuer: tokenIssuer}})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"expired", expired},
		{"foreign key", foreign},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}

	claims, err := tokens.Verify(valid)
	if err != nil {
		t.Fatalf("Verify() failed on a valid token: %v", err)
	}
	if claims.Subject != "student-1" || claims.Email != "frank@example.com" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestResolve_UnknownStudent(t *testing.T) {
	svc, _, tokens := newTestService()

	token, _ := tokens.Issue(&Student{ID: "deleted-student", Email: "gone@example.com"})
	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for unknown student, got %v", err)
	}
}

func TestRequireAuth(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "gina@example.com", "Gina", "password123"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	token, _ := svc.Authenticate(ctx, "gina@example.com", "password123")

	var seen Identity
	handler := svc.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("Expected identity in request context")
		}
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}

	if seen.Email != "gina@example.com" {
		t.Errorf("Handler saw identity %+v", seen)
	}
}
