package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence. List-valued fields are stored as JSON
// columns so the document shape survives round trips unchanged.
type UserModel struct {
	ID             string `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	Name           string `gorm:"not null"`
	College        string
	Branch         string
	GraduationYear int
	Phone          string
	CreatedAt      time.Time `gorm:"not null"`
}

type GoalModel struct {
	ID              string         `gorm:"primaryKey"`
	UserID          string         `gorm:"uniqueIndex;not null"`
	TargetCompanies datatypes.JSON `gorm:"type:jsonb"`
	PreferredDomain string
	ExpectedSalary  int
	TechStack       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"not null"`
}

type SurveyModel struct {
	ID                   string `gorm:"primaryKey"`
	UserID               string `gorm:"uniqueIndex;not null"`
	DSASkill             int    `gorm:"not null"`
	OSKnowledge          int    `gorm:"not null"`
	DBMSSkill            int    `gorm:"not null"`
	OOPSUnderstanding    int    `gorm:"not null"`
	NetworkingKnowledge  int    `gorm:"not null"`
	ProgrammingLanguages datatypes.JSON `gorm:"type:jsonb"`
	ProjectCount         int
	InternshipExperience bool
	CodingPracticeHours  int
	CompletedAt          time.Time `gorm:"not null"`
}

type RoadmapModel struct {
	ID              string         `gorm:"primaryKey"`
	UserID          string         `gorm:"not null;index"`
	TargetCompany   string         `gorm:"not null"`
	Domain          string
	RoadmapItems    datatypes.JSON `gorm:"type:jsonb"`
	OverallProgress float64        `gorm:"not null"`
	CreatedAt       time.Time      `gorm:"not null"`
	UpdatedAt       time.Time      `gorm:"not null"`
}

type MockTestModel struct {
	ID             string         `gorm:"primaryKey"`
	UserID         string         `gorm:"not null;index"`
	TestType       string         `gorm:"not null"`
	Questions      datatypes.JSON `gorm:"type:jsonb"`
	Score          float64
	TotalQuestions int
	CorrectAnswers int
	TimeSpent      int
	WeakAreas      datatypes.JSON `gorm:"type:jsonb"`
	Feedback       string
	CompletedAt    *time.Time
	CreatedAt      time.Time `gorm:"not null"`
}

type ChatMessageModel struct {
	ID          string    `gorm:"primaryKey"`
	UserID      string    `gorm:"not null"`
	UserName    string    `gorm:"not null"`
	Company     string    `gorm:"not null;index"`
	Message     string    `gorm:"type:text;not null"`
	MessageType string    `gorm:"not null"`
	Timestamp   time.Time `gorm:"not null;index"`
}

type ProgressSnapshotModel struct {
	ID                  string         `gorm:"primaryKey"`
	UserID              string         `gorm:"uniqueIndex;not null"`
	ReadinessPercentage float64        `gorm:"not null"`
	CategoryProgress    datatypes.JSON `gorm:"type:jsonb"`
	LastUpdated         time.Time      `gorm:"not null"`
}
