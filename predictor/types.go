// Package predictor runs a submission through validation, the classifier
// and the advisory engine, records the outcome and summarizes a student's
// prediction history.
package predictor

import (
	"errors"
	"time"

	"github.com/liamcoop/edupredict/features"
)

// Classification labels produced by the model
const (
	LabelNotAtRisk = 0
	LabelAtRisk    = 1
)

const (
	displayAtRisk    = "Vous risquez d'être en difficulté"
	displayNotAtRisk = "Vous n'êtes pas en difficulté"
)

// ErrUnexpectedLabel is returned when a scorer produces a label outside {0, 1}.
var ErrUnexpectedLabel = errors.New("unexpected classification label")

// ClassificationResult is a model decision and its user-facing wording
type ClassificationResult struct {
	Label   int
	Display string
}

// Classify derives the display string of a label.
func Classify(label int) (ClassificationResult, error) {
	switch label {
	case LabelAtRisk:
		return ClassificationResult{Label: label, Display: displayAtRisk}, nil
	case LabelNotAtRisk:
		return ClassificationResult{Label: label, Display: displayNotAtRisk}, nil
	default:
		return ClassificationResult{}, ErrUnexpectedLabel
	}
}

// PredictionRecord is the stored outcome of one successful prediction.
// Records are written once and never updated.
type PredictionRecord struct {
	ID        string
	StudentID string
	Input     features.InputRecord
	Result    int
	CreatedAt time.Time
}

// Result is returned to the caller of Predict
type Result struct {
	Prediction string
	Raw        int
	Advice     []string
	Record     *PredictionRecord
}

// PersistenceError reports that a scored prediction could not be recorded.
// No result is returned alongside it.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to persist prediction: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
