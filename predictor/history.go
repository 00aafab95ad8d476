package predictor

import (
	"sort"
	"time"
)

// HistoryTimeFormat renders timestamps as "14/10/2026 à 09:30".
const HistoryTimeFormat = "02/01/2006 à 15:04"

// HistoryEntry is one line of the dashboard history
type HistoryEntry struct {
	CreatedAt string `json:"created_at"`
	Result    int    `json:"result"`
}

// Summary counts a student's predictions by label
type Summary struct {
	Total     int            `json:"total"`
	AtRisk    int            `json:"difficulte"`
	NotAtRisk int            `json:"non_difficulte"`
	History   []HistoryEntry `json:"history"`
}

// Summarize aggregates the records owned by ownerID, most recent first.
// Records of other owners or with an unknown label are ignored, so Total is
// always AtRisk + NotAtRisk. Timestamps are formatted in loc.
func Summarize(ownerID string, records []*PredictionRecord, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}

	owned := make([]*PredictionRecord, 0, len(records))
	for _, r := range records {
		if r == nil || r.StudentID != ownerID {
			continue
		}
		if r.Result == LabelAtRisk || r.Result == LabelNotAtRisk {
			owned = append(owned, r)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	summary := Summary{
		Total:   len(owned),
		History: make([]HistoryEntry, 0, len(owned)),
	}
	for _, r := range owned {
		if r.Result == LabelAtRisk {
			summary.AtRisk++
		} else {
			summary.NotAtRisk++
		}
		summary.History = append(summary.History, HistoryEntry{
			CreatedAt: r.CreatedAt.In(loc).Format(HistoryTimeFormat),
			Result:    r.Result,
		})
	}
	return summary
}
