package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/liamcoop/edupredict/accounts"
	"github.com/liamcoop/edupredict/classifier"
	"github.com/liamcoop/edupredict/features"
)

// Advisor produces the ordered advisory lines for a classified record
type Advisor interface {
	Advise(r features.InputRecord, label int) ([]string, error)
}

// Predictor orchestrates one prediction request. It holds no per-request
// state and is safe for concurrent use when its collaborators are.
type Predictor struct {
	scorer   classifier.Scorer
	advisor  Advisor
	store    Store
	location *time.Location
	now      func() time.Time
}

// New creates a Predictor. History timestamps are formatted in loc; a nil
// loc means UTC.
func New(scorer classifier.Scorer, advisor Advisor, store Store, loc *time.Location) *Predictor {
	if loc == nil {
		loc = time.UTC
	}
	return &Predictor{
		scorer:   scorer,
		advisor:  advisor,
		store:    store,
		location: loc,
		now:      time.Now,
	}
}

// Predict validates raw input, classifies it, builds the advisory and
// records exactly one PredictionRecord for the requester. Nothing is stored
// when any step before persistence fails.
func (p *Predictor) Predict(ctx context.Context, requester accounts.Identity, raw map[string]any) (*Result, error) {
	record, err := features.Parse(raw)
	if err != nil {
		return nil, err
	}

	label, err := p.scorer.Score(features.Vector(record))
	if err != nil {
		return nil, err
	}

	classification, err := Classify(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", err, label)
	}

	advice, err := p.advisor.Advise(record, label)
	if err != nil {
		return nil, fmt.Errorf("failed to build advisory: %w", err)
	}

	stored := &PredictionRecord{
		ID:        uuid.New().String(),
		StudentID: requester.ID,
		Input:     record,
		Result:    label,
		CreatedAt: p.now(),
	}
	if err := p.store.Create(ctx, stored); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	return &Result{
		Prediction: classification.Display,
		Raw:        label,
		Advice:     advice,
		Record:     stored,
	}, nil
}

// History reads the requester's records and summarizes them. The store is
// read on every call.
func (p *Predictor) History(ctx context.Context, requester accounts.Identity) (Summary, error) {
	records, err := p.store.ListByStudent(ctx, requester.ID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load history: %w", err)
	}
	return Summarize(requester.ID, records, p.location), nil
}
