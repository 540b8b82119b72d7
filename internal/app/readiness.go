package app

import (
	"fmt"
	"time"

	"crackit/internal/util"
	"crackit/pkg/domain"
)

// Readiness blends roadmap completion (50%) with the average score of
// completed mock tests (50%), capped at 100, and stores the snapshot.
func (a *App) Readiness(userID string) (domain.ProgressSnapshot, error) {
	readiness := 0.0
	categoryProgress := map[string]float64{}

	roadmap, ok, err := a.store.GetRoadmapByUser(userID)
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("load roadmap: %w", err)
	}
	if ok {
		readiness += roadmap.OverallProgress * 0.5
		categoryProgress["roadmap"] = roadmap.OverallProgress
	}

	tests, err := a.store.ListMockTestsByUser(userID)
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("list tests: %w", err)
	}
	completed := 0
	scoreSum := 0.0
	for _, test := range tests {
		if test.CompletedAt == nil {
			continue
		}
		completed++
		scoreSum += test.Score
	}
	if completed > 0 {
		avg := scoreSum / float64(completed)
		readiness += avg * 0.5
		categoryProgress["tests"] = avg
	}
	if readiness > 100 {
		readiness = 100
	}

	snapshot := domain.ProgressSnapshot{
		ID:                  util.NewID(),
		UserID:              userID,
		ReadinessPercentage: readiness,
		CategoryProgress:    categoryProgress,
		LastUpdated:         time.Now().UTC(),
	}
	if err := a.store.UpsertProgressSnapshot(snapshot); err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	return snapshot, nil
}
