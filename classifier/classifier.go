// Package classifier wraps the pretrained at-risk model behind a single
// scoring operation.
package classifier

import "errors"

var (
	// ErrModelUnavailable is returned when the model artifact cannot be
	// loaded. Callers treat it as fatal: no predictions are served without
	// a model.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInvalidInput is returned when a vector cannot be scored.
	ErrInvalidInput = errors.New("invalid feature vector")
)

// Scorer classifies a feature vector as at risk (1) or not at risk (0).
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(vector []float64) (int, error)
	NumFeatures() int
}
