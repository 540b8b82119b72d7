package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"crackit/internal/util"
	"crackit/pkg/domain"
)

const feedbackSystemPrompt = "You are a coding interview coach providing actionable feedback."

// StartMockTest creates a test from the fixed question bank and stores it.
func (a *App) StartMockTest(userID, testType string) (domain.MockTest, error) {
	if strings.TrimSpace(testType) == "" {
		testType = "DSA"
	}
	questions := sampleQuestions()
	test := domain.MockTest{
		ID:             util.NewID(),
		UserID:         userID,
		TestType:       testType,
		Questions:      questions,
		TotalQuestions: len(questions),
	}
	if err := a.store.InsertMockTest(test); err != nil {
		return domain.MockTest{}, fmt.Errorf("save test: %w", err)
	}
	return test, nil
}

// TestResult summarizes a graded submission.
type TestResult struct {
	Score          float64  `json:"score"`
	CorrectAnswers int      `json:"correct_answers"`
	TotalQuestions int      `json:"total_questions"`
	Feedback       string   `json:"feedback"`
	WeakAreas      []string `json:"weak_areas"`
}

// SubmitMockTest grades answers, tags weak areas by question keywords, and
// attaches AI feedback through the same fail-soft generation path as
// roadmaps.
func (a *App) SubmitMockTest(ctx context.Context, userID, testID string, answers map[string]string, timeSpent int) (TestResult, error) {
	test, ok, err := a.store.GetMockTest(testID, userID)
	if err != nil {
		return TestResult{}, fmt.Errorf("load test: %w", err)
	}
	if !ok {
		return TestResult{}, ErrTestNotFound
	}

	correct := 0
	var weakAreas []string
	for _, question := range test.Questions {
		if answers[question.QuestionID] == question.CorrectAnswer {
			correct++
			continue
		}
		lower := strings.ToLower(question.Question)
		if strings.Contains(lower, "complexity") {
			weakAreas = append(weakAreas, "Time Complexity")
		} else if strings.Contains(lower, "data structure") {
			weakAreas = append(weakAreas, "Data Structures")
		}
	}
	score := 0.0
	if len(test.Questions) > 0 {
		score = float64(correct) / float64(len(test.Questions)) * 100
	}

	weakSummary := "None identified"
	if len(weakAreas) > 0 {
		weakSummary = strings.Join(weakAreas, ", ")
	}
	feedbackPrompt := fmt.Sprintf(
		"Analyze this mock test performance:\n- Score: %.0f%%\n- Correct: %d/%d\n- Time: %d seconds\n- Weak areas: %s\n\nProvide constructive feedback and specific improvement suggestions in 2-3 sentences.",
		score, correct, len(test.Questions), timeSpent, weakSummary,
	)
	feedback := a.complete(ctx, feedbackSystemPrompt, feedbackPrompt).Text

	completedAt := time.Now().UTC()
	result := domain.MockTest{
		Score:          score,
		CorrectAnswers: correct,
		TimeSpent:      timeSpent,
		WeakAreas:      dedupe(weakAreas),
		Feedback:       feedback,
		CompletedAt:    &completedAt,
	}
	if err := a.store.UpdateMockTestResult(testID, result); err != nil {
		return TestResult{}, fmt.Errorf("save result: %w", err)
	}
	return TestResult{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(test.Questions),
		Feedback:       feedback,
		WeakAreas:      weakAreas,
	}, nil
}

// TestHistory lists the user's mock tests oldest-first.
func (a *App) TestHistory(userID string) ([]domain.MockTest, error) {
	tests, err := a.store.ListMockTestsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return tests, nil
}

// sampleQuestions is the static question fixture; a real bank is out of
// scope for now.
func sampleQuestions() []domain.TestQuestion {
	return []domain.TestQuestion{
		{
			QuestionID:    util.NewID(),
			Question:      "What is the time complexity of binary search?",
			Options:       []string{"O(n)", "O(log n)", "O(n²)", "O(1)"},
			CorrectAnswer: "O(log n)",
		},
		{
			QuestionID:    util.NewID(),
			Question:      "Which data structure uses LIFO principle?",
			Options:       []string{"Queue", "Stack", "Array", "Tree"},
			CorrectAnswer: "Stack",
		},
		{
			QuestionID:    util.NewID(),
			Question:      "What is the worst-case time complexity of quick sort?",
			Options:       []string{"O(n log n)", "O(n²)", "O(n)", "O(log n)"},
			CorrectAnswer: "O(n²)",
		},
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
