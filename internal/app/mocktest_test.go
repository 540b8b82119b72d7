package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"crackit/pkg/domain"
)

func TestStartMockTestDefaultsType(t *testing.T) {
	a, _ := newTestApp(t, stubGenerator{})

	test, err := a.StartMockTest("u1", "  ")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if test.TestType != "DSA" {
		t.Fatalf("test type = %q, want DSA", test.TestType)
	}
	if test.TotalQuestions != 3 || len(test.Questions) != 3 {
		t.Fatalf("unexpected question count: %d/%d", len(test.Questions), test.TotalQuestions)
	}
	for _, q := range test.Questions {
		if q.QuestionID == "" {
			t.Fatal("question without id")
		}
	}
}

func TestSubmitMockTestScoringAndWeakAreas(t *testing.T) {
	a, _ := newTestApp(t, stubGenerator{text: "Solid attempt, review sorting."})

	test, err := a.StartMockTest("u1", "DSA")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Answer the first question right, miss the other two.
	answers := map[string]string{
		test.Questions[0].QuestionID: test.Questions[0].CorrectAnswer,
		test.Questions[1].QuestionID: "Queue",
		test.Questions[2].QuestionID: "O(n)",
	}
	result, err := a.SubmitMockTest(context.Background(), "u1", test.ID, answers, 240)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.CorrectAnswers != 1 || result.TotalQuestions != 3 {
		t.Fatalf("grading wrong: %d/%d", result.CorrectAnswers, result.TotalQuestions)
	}
	if want := float64(1) / float64(3) * 100; result.Score != want {
		t.Fatalf("score = %v, want %v", result.Score, want)
	}
	if result.Feedback != "Solid attempt, review sorting." {
		t.Fatalf("feedback = %q", result.Feedback)
	}
	// Missed questions mention "data structure" and "complexity".
	if len(result.WeakAreas) != 2 {
		t.Fatalf("weak areas = %v", result.WeakAreas)
	}

	history, err := a.TestHistory("u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d", len(history))
	}
	stored := history[0]
	if stored.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}
	if len(stored.WeakAreas) != 2 || stored.WeakAreas[0] != "Data Structures" || stored.WeakAreas[1] != "Time Complexity" {
		t.Fatalf("stored weak areas = %v", stored.WeakAreas)
	}
}

func TestSubmitMockTestPerfectScore(t *testing.T) {
	a, _ := newTestApp(t, stubGenerator{text: "Great work."})

	test, err := a.StartMockTest("u1", "DSA")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	answers := map[string]string{}
	for _, q := range test.Questions {
		answers[q.QuestionID] = q.CorrectAnswer
	}
	result, err := a.SubmitMockTest(context.Background(), "u1", test.ID, answers, 120)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 100 {
		t.Fatalf("score = %v, want 100", result.Score)
	}
	if len(result.WeakAreas) != 0 {
		t.Fatalf("weak areas for perfect score: %v", result.WeakAreas)
	}
}

func TestSubmitMockTestDegradedFeedback(t *testing.T) {
	a, _ := newTestApp(t, stubGenerator{err: errors.New("upstream down")})

	test, err := a.StartMockTest("u1", "DSA")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	result, err := a.SubmitMockTest(context.Background(), "u1", test.ID, nil, 60)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Feedback != degradedResponseText {
		t.Fatalf("feedback = %q", result.Feedback)
	}
}

func TestSubmitMockTestWrongUser(t *testing.T) {
	a, _ := newTestApp(t, stubGenerator{})

	test, err := a.StartMockTest("owner", "DSA")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := a.SubmitMockTest(context.Background(), "intruder", test.ID, nil, 10); !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("got %v, want ErrTestNotFound", err)
	}
}

func TestReadinessBlendsRoadmapAndTests(t *testing.T) {
	a, s := newTestApp(t, stubGenerator{text: "ok"})

	now := time.Now().UTC()
	if err := s.InsertRoadmap(domain.Roadmap{
		ID:              "r1",
		UserID:          "u1",
		RoadmapItems:    []domain.RoadmapItem{{Topic: "A", Completed: true}, {Topic: "B"}},
		OverallProgress: 50,
		CreatedAt:       now,
		UpdatedAt:       now,
	}); err != nil {
		t.Fatalf("seed roadmap: %v", err)
	}

	test, err := a.StartMockTest("u1", "DSA")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	answers := map[string]string{}
	for _, q := range test.Questions {
		answers[q.QuestionID] = q.CorrectAnswer
	}
	if _, err := a.SubmitMockTest(context.Background(), "u1", test.ID, answers, 90); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// An unfinished test must not count toward the average.
	if _, err := a.StartMockTest("u1", "DSA"); err != nil {
		t.Fatalf("start second: %v", err)
	}

	snapshot, err := a.Readiness("u1")
	if err != nil {
		t.Fatalf("readiness: %v", err)
	}
	if snapshot.ReadinessPercentage != 75 {
		t.Fatalf("readiness = %v, want 75", snapshot.ReadinessPercentage)
	}
	if snapshot.CategoryProgress["roadmap"] != 50 || snapshot.CategoryProgress["tests"] != 100 {
		t.Fatalf("category progress = %v", snapshot.CategoryProgress)
	}
}

func TestReadinessWithNoData(t *testing.T) {
	a, _ := newTestApp(t, stubGenerator{})

	snapshot, err := a.Readiness("fresh")
	if err != nil {
		t.Fatalf("readiness: %v", err)
	}
	if snapshot.ReadinessPercentage != 0 {
		t.Fatalf("readiness = %v, want 0", snapshot.ReadinessPercentage)
	}
	if len(snapshot.CategoryProgress) != 0 {
		t.Fatalf("category progress = %v", snapshot.CategoryProgress)
	}
}
