package store

import (
	"time"

	"crackit/pkg/domain"
)

// Store defines persistence operations for users, goals, surveys, roadmaps,
// mock tests, chat messages, and progress snapshots.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	UpdateUserProfile(id string, fields map[string]any) error

	// goals
	UpsertGoal(domain.Goal) error
	GetGoalByUser(userID string) (domain.Goal, bool, error)

	// surveys
	UpsertSurvey(domain.SurveyResponse) error
	GetSurveyByUser(userID string) (domain.SurveyResponse, bool, error)

	// roadmaps
	GetRoadmapByUser(userID string) (domain.Roadmap, bool, error)
	// DeleteRoadmapsByUser removes every roadmap owned by the user and
	// reports how many were deleted. Deleting nothing is not an error.
	DeleteRoadmapsByUser(userID string) (int, error)
	InsertRoadmap(domain.Roadmap) error
	// SetItemCompletion flags every item whose topic matches, stamping or
	// clearing the per-item completion time and bumping updated_at.
	SetItemCompletion(userID, topic string, completed bool, at time.Time) error
	// SetRoadmapProgress persists a recomputed completion percentage.
	SetRoadmapProgress(userID string, progress float64, at time.Time) error

	// mock tests
	InsertMockTest(domain.MockTest) error
	GetMockTest(id, userID string) (domain.MockTest, bool, error)
	UpdateMockTestResult(id string, result domain.MockTest) error
	ListMockTestsByUser(userID string) ([]domain.MockTest, error)

	// chat
	AppendChatMessage(domain.ChatMessage) error
	ListChatMessages(company string, limit int) ([]domain.ChatMessage, error)

	// readiness
	UpsertProgressSnapshot(domain.ProgressSnapshot) error
}
