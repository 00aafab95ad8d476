//go:build integration

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/liamcoop/edupredict/internal/config"
	"github.com/liamcoop/edupredict/migrations"
	"github.com/liamcoop/edupredict/predictor"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and runs migrations
func setupTestDB(t *testing.T) (*sql.DB, string, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	connStr := fmt.Sprintf("postgres://postgres:password@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	// Wait for database to be ready
	for i := 0; i < 30; i++ {
		if err := db.Ping(); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	if err := migrations.Up(connStr); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		db.Close()
		postgres.Terminate(ctx)
	}

	return db, connStr, cleanup
}

func TestEndToEnd_RegisterPredictAndDashboard(t *testing.T) {
	db, connStr, cleanup := setupTestDB(t)
	defer cleanup()

	model, err := loadModel(testModelPath)
	if err != nil {
		t.Fatalf("loadModel() failed: %v", err)
	}

	cfg := &config.Config{
		DatabaseURL: connStr,
		JWTSecret:   []byte("integration-signing-key"),
		TokenTTL:    time.Hour,
		Location:    time.UTC,
	}
	server, err := NewServerWithDB(db, cfg, model)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	// Step 1: register and log in
	t.Log("Step 1: Registering student...")
	token := registerAndLogin(t, server, "integration@example.com")

	rec := do(t, server, http.MethodPost, "/api/v1/accounts/register", "", RegisterRequest{
		Email: "Integration@Example.com", FullName: "Duplicate", Password: "password123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected duplicate email to be rejected, got %d", rec.Code)
	}

	// Step 2: submit two predictions
	t.Log("Step 2: Submitting predictions...")
	rec = do(t, server, http.MethodPost, "/api/v1/predict", token, atRiskInput())
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	healthy := atRiskInput()
	healthy["study_hours_per_day"] = 3.0
	healthy["sleep_hours"] = 7.5
	healthy["attendance_percentage"] = 95.0
	rec = do(t, server, http.MethodPost, "/api/v1/predict", token, healthy)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Step 3: an invalid submission is not recorded
	invalid := atRiskInput()
	invalid["attendance_percentage"] = 140.0
	if rec := do(t, server, http.MethodPost, "/api/v1/predict", token, invalid); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid input, got %d", rec.Code)
	}

	// Step 4: dashboard
	t.Log("Step 4: Reading dashboard...")
	rec = do(t, server, http.MethodGet, "/api/v1/predict/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var summary predictor.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to decode dashboard: %v", err)
	}
	if summary.Total != 2 || summary.AtRisk != 1 || summary.NotAtRisk != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if len(summary.History) != 2 || summary.History[0].Result != 0 || summary.History[1].Result != 1 {
		t.Errorf("Expected most recent first, got %+v", summary.History)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&rows); err != nil {
		t.Fatalf("Failed to count predictions: %v", err)
	}
	if rows != 2 {
		t.Errorf("Expected 2 stored predictions, got %d", rows)
	}

	// Step 5: health
	if rec := do(t, server, http.MethodGet, "/api/v1/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("Expected healthy server, got %d", rec.Code)
	}
}

func TestEndToEnd_StudentDeletionCascades(t *testing.T) {
	db, connStr, cleanup := setupTestDB(t)
	defer cleanup()

	model, _ := loadModel(testModelPath)
	server, err := NewServerWithDB(db, &config.Config{
		DatabaseURL: connStr,
		JWTSecret:   []byte("integration-signing-key"),
		TokenTTL:    time.Hour,
		Location:    time.UTC,
	}, model)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	token := registerAndLogin(t, server, "cascade@example.com")
	if rec := do(t, server, http.MethodPost, "/api/v1/predict", token, atRiskInput()); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	if _, err := db.Exec(`DELETE FROM students WHERE email = $1`, "cascade@example.com"); err != nil {
		t.Fatalf("Failed to delete student: %v", err)
	}

	var rows int
	db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&rows)
	if rows != 0 {
		t.Errorf("Expected predictions to be removed with their student, got %d", rows)
	}

	if rec := do(t, server, http.MethodGet, "/api/v1/predict/dashboard", token, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected token of a deleted student to be rejected, got %d", rec.Code)
	}
}
