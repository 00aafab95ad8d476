package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/liamcoop/edupredict/accounts"
	"github.com/liamcoop/edupredict/advisory"
	"github.com/liamcoop/edupredict/classifier"
	"github.com/liamcoop/edupredict/features"
	"github.com/liamcoop/edupredict/internal/config"
	"github.com/liamcoop/edupredict/internal/logger"
	"github.com/liamcoop/edupredict/migrations"
	"github.com/liamcoop/edupredict/predictor"
	"github.com/liamcoop/edupredict/report"
	_ "github.com/lib/pq"
)

type Server struct {
	db        *sql.DB
	accounts  *accounts.Service
	predictor *predictor.Predictor
	reports   *report.Renderer
	router    *chi.Mux
}

// NewServer connects to the database and wires the PostgreSQL-backed
// services.
func NewServer(cfg *config.Config, scorer classifier.Scorer) (*Server, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := NewServerWithDB(db, cfg, scorer)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewServerWithDB wires the services on an open database
func NewServerWithDB(db *sql.DB, cfg *config.Config, scorer classifier.Scorer) (*Server, error) {
	engine, err := advisory.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to compile advisory rules: %w", err)
	}

	tokens := accounts.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	svc := accounts.NewService(accounts.NewPostgresStudentStore(db), tokens)
	p := predictor.New(scorer, engine, predictor.NewPostgresStore(db), cfg.Location)

	return newServer(db, svc, p, report.NewRenderer(cfg.Location)), nil
}

func newServer(db *sql.DB, svc *accounts.Service, p *predictor.Predictor, reports *report.Renderer) *Server {
	s := &Server{
		db:        db,
		accounts:  svc,
		predictor: p,
		reports:   reports,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(logger.Counters)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)

	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/token", s.handleToken)

		r.With(s.accounts.RequireAuth).Get("/protected", s.handleProtected)
	})

	r.Route("/api/v1/predict", func(r chi.Router) {
		r.Use(s.accounts.RequireAuth)

		r.Post("/", s.handlePredict)
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/download-report", s.handleDownloadReport)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// loadModel loads the classifier artifact and checks it was trained on the
// feature layout the service produces.
func loadModel(path string) (*classifier.GradientBoosting, error) {
	model, err := classifier.Load(path)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(model.FeatureNames(), features.Names) {
		return nil, fmt.Errorf("%w: artifact features %v do not match %v",
			classifier.ErrModelUnavailable, model.FeatureNames(), features.Names)
	}
	return model, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	model, err := loadModel(cfg.ModelPath)
	if err != nil {
		logger.Fatal("Failed to load model", "path", cfg.ModelPath, "error", err)
	}
	logger.Info("Model loaded", "path", cfg.ModelPath, "features", model.NumFeatures())

	if cfg.AutoMigrate {
		logger.Info("Applying database migrations...")
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	server, err := NewServer(cfg, model)
	if err != nil {
		logger.Fatal("Failed to create server", "error", err)
	}
	defer server.db.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
