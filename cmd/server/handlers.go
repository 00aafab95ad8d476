package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/liamcoop/edupredict/accounts"
	"github.com/liamcoop/edupredict/advisory"
	"github.com/liamcoop/edupredict/classifier"
	"github.com/liamcoop/edupredict/features"
	"github.com/liamcoop/edupredict/internal/logger"
	"github.com/liamcoop/edupredict/predictor"
	"github.com/liamcoop/edupredict/report"
)

const maxBodyBytes = 1 << 20

const (
	msgInvalidData     = "Les données envoyées sont invalides."
	msgInvalidReport   = "Champs requis manquants ou invalides."
	msgRegistered      = "Inscription réussie."
	msgEmailTaken      = "Un compte avec cette adresse e-mail existe déjà."
	msgBadCredentials  = "Aucun compte actif n'a été trouvé avec les identifiants fournis."
	msgInternalFailure = "Une erreur interne est survenue."
)

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "unhealthy",
				Error:  err.Error(),
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Counters: logger.Snapshot(),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	student, err := s.accounts.Register(r.Context(), req.Email, req.FullName, req.Password)
	var regErr *accounts.RegistrationError
	switch {
	case errors.As(err, &regErr):
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: msgInvalidData, Details: regErr.Fields})
		return
	case errors.Is(err, accounts.ErrEmailExists):
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   msgInvalidData,
			Details: map[string]string{"email": msgEmailTaken},
		})
		return
	case err != nil:
		s.internalError(w, r, "registration failed", err)
		return
	}

	logger.Info("Student registered", "student_id", student.ID)
	respondJSON(w, http.StatusCreated, MessageResponse{Message: msgRegistered})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	token, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, msgBadCredentials, nil)
		return
	}
	if err != nil {
		s.internalError(w, r, "authentication failed", err)
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.accounts.TokenTTL().Seconds()),
	})
}

func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	id, _ := accounts.IdentityFromContext(r.Context())
	respondJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Bonjour %s, vous êtes authentifié !", id.FullName),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := decodeJSON(w, r, &raw); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidData, err)
		return
	}

	id, _ := accounts.IdentityFromContext(r.Context())
	result, err := s.predictor.Predict(r.Context(), id, raw)

	var vErr *features.ValidationError
	var pErr *predictor.PersistenceError
	switch {
	case errors.As(err, &vErr):
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: msgInvalidData, Details: vErr.Details()})
		return
	case errors.Is(err, classifier.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, msgInvalidData, err)
		return
	case errors.As(err, &pErr):
		s.internalError(w, r, "prediction could not be recorded", err)
		return
	case err != nil:
		s.internalError(w, r, "prediction failed", err)
		return
	}

	logger.Debug("Prediction recorded",
		"student_id", id.ID,
		"prediction_id", result.Record.ID,
		"label", result.Raw,
	)

	respondJSON(w, http.StatusOK, PredictResponse{
		Prediction: result.Prediction,
		Raw:        result.Raw,
		Advice:     advisory.Join(result.Advice),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := accounts.IdentityFromContext(r.Context())

	summary, err := s.predictor.History(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "failed to load history", err)
		return
	}

	respondJSON(w, http.StatusOK, DashboardResponse(summary))
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := decodeJSON(w, r, &raw); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidReport, err)
		return
	}

	id, _ := accounts.IdentityFromContext(r.Context())
	bundle, err := report.ParseRequest(id, raw)
	var inErr *report.InputError
	if errors.As(err, &inErr) {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: msgInvalidReport, Details: inErr.Problems})
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidReport, err)
		return
	}

	// render fully before writing headers so a failure can still be reported
	var buf bytes.Buffer
	if err := s.reports.Render(&buf, bundle); err != nil {
		s.internalError(w, r, "failed to render report", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(id.ID)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("Failed to send report", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	logger.Error(message, "error", err, "request_id", middleware.GetReqID(r.Context()))
	respondError(w, http.StatusInternalServerError, msgInternalFailure, nil)
}

// decodeJSON decodes a single JSON value from a size-limited body. Numbers
// are kept as json.Number so integers and decimals stay distinguishable.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
