package main

import (
	"github.com/liamcoop/edupredict/predictor"
)

// API request and response models

// RegisterRequest is the body of POST /accounts/register
type RegisterRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	FullName string `json:"full_name" example:"Alice Martin"`
	Password string `json:"password" example:"s3cret-pass"`
}

// TokenRequest is the body of POST /accounts/token
type TokenRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
}

// TokenResponse carries a signed access token
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type" example:"Bearer"`
	ExpiresIn int64  `json:"expires_in" example:"86400"`
}

// MessageResponse is a single user-facing message
type MessageResponse struct {
	Message string `json:"message"`
}

// PredictResponse is returned by POST /predict
type PredictResponse struct {
	Prediction string `json:"prediction" example:"Vous risquez d'être en difficulté"`
	Raw        int    `json:"raw" example:"1"`
	Advice     string `json:"advice"`
}

// DashboardResponse is returned by GET /predict/dashboard
type DashboardResponse = predictor.Summary

// ValidationErrorResponse describes a rejected request field by field
type ValidationErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string           `json:"status" example:"healthy"`
	Error    string           `json:"error,omitempty"`
	Counters map[string]int64 `json:"counters,omitempty"`
}
