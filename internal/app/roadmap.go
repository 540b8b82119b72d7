package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"crackit/internal/util"
	"crackit/pkg/domain"
)

// GenerateRoadmap runs the full pipeline: load inputs, prompt the
// generation service, parse its output, fall back to the deterministic
// planner when parsing yields nothing, then replace the user's roadmap.
// Downstream of "goal and survey exist" this never fails except on
// storage errors.
func (a *App) GenerateRoadmap(ctx context.Context, userID string) (domain.Roadmap, error) {
	var (
		goal     domain.Goal
		goalOK   bool
		survey   domain.SurveyResponse
		surveyOK bool
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		goal, goalOK, err = a.store.GetGoalByUser(userID)
		return err
	})
	g.Go(func() error {
		var err error
		survey, surveyOK, err = a.store.GetSurveyByUser(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Roadmap{}, fmt.Errorf("load profile: %w", err)
	}
	if !goalOK || !surveyOK {
		return domain.Roadmap{}, ErrGoalAndSurveyRequired
	}

	completion := a.complete(ctx, roadmapSystemPrompt, buildRoadmapPrompt(goal, survey))
	result := parseRoadmapItems(completion.Text)
	items := result.Items
	if len(items) == 0 {
		items = fallbackPlan(goal, survey)
		slog.Info("roadmap generated from fallback plan",
			"user_id", userID,
			"degraded_generation", completion.Degraded,
			"items", len(items),
		)
	} else {
		slog.Info("roadmap generated from model output",
			"user_id", userID,
			"repaired", result.Stage == StageRepaired,
			"items", len(items),
		)
	}

	now := time.Now().UTC()
	roadmap := domain.Roadmap{
		ID:            util.NewID(),
		UserID:        userID,
		TargetCompany: goal.PrimaryCompany(),
		Domain:        goal.PreferredDomain,
		RoadmapItems:  items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	roadmap.OverallProgress = roadmap.Progress()

	// One live roadmap per user: clear any prior plans unconditionally.
	if _, err := a.store.DeleteRoadmapsByUser(userID); err != nil {
		return domain.Roadmap{}, fmt.Errorf("delete prior roadmaps: %w", err)
	}
	if err := a.store.InsertRoadmap(roadmap); err != nil {
		return domain.Roadmap{}, fmt.Errorf("save roadmap: %w", err)
	}
	return roadmap, nil
}

// GetRoadmap returns the user's current roadmap when one exists. Absence
// is not an error; it means no roadmap was generated yet.
func (a *App) GetRoadmap(userID string) (domain.Roadmap, bool, error) {
	roadmap, ok, err := a.store.GetRoadmapByUser(userID)
	if err != nil {
		return domain.Roadmap{}, false, fmt.Errorf("load roadmap: %w", err)
	}
	return roadmap, ok, nil
}

// ResetRoadmap deletes the user's roadmap(s). Deleting nothing is fine.
func (a *App) ResetRoadmap(userID string) (int, error) {
	deleted, err := a.store.DeleteRoadmapsByUser(userID)
	if err != nil {
		return 0, fmt.Errorf("delete roadmaps: %w", err)
	}
	return deleted, nil
}

// ReconcileProgress flips the completion state of every item matching the
// topic, then recomputes the overall percentage over the freshly reread
// item list. The read-modify-write pair is not atomic; concurrent updates
// settle last-writer-wins.
func (a *App) ReconcileProgress(userID, topic string, completed bool) (float64, error) {
	_, ok, err := a.store.GetRoadmapByUser(userID)
	if err != nil {
		return 0, fmt.Errorf("load roadmap: %w", err)
	}
	if !ok {
		return 0, ErrRoadmapNotFound
	}

	now := time.Now().UTC()
	if err := a.store.SetItemCompletion(userID, topic, completed, now); err != nil {
		return 0, fmt.Errorf("update item: %w", err)
	}

	roadmap, ok, err := a.store.GetRoadmapByUser(userID)
	if err != nil {
		return 0, fmt.Errorf("reload roadmap: %w", err)
	}
	if !ok {
		return 0, ErrRoadmapNotFound
	}
	progress := roadmap.Progress()
	if err := a.store.SetRoadmapProgress(userID, progress, now); err != nil {
		return 0, fmt.Errorf("save progress: %w", err)
	}
	return progress, nil
}
