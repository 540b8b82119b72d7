package domain

import "time"

// Priority ranks a roadmap item. Items tagged outside High/Medium do not
// survive fallback truncation when the candidate pool exceeds the cap.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	College        string    `json:"college"`
	Branch         string    `json:"branch"`
	GraduationYear int       `json:"graduation_year"`
	Phone          string    `json:"phone"`
	CreatedAt      time.Time `json:"created_at"`
}

// Goal records a user's placement target. At most one per user; a new
// submission overwrites the previous one in place.
type Goal struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	TargetCompanies []string  `json:"target_companies"`
	PreferredDomain string    `json:"preferred_domain"`
	ExpectedSalary  int       `json:"expected_salary"`
	TechStack       []string  `json:"tech_stack"`
	CreatedAt       time.Time `json:"created_at"`
}

// PrimaryCompany returns the first target company, or "General" when the
// user has not picked any.
func (g Goal) PrimaryCompany() string {
	if len(g.TargetCompanies) > 0 {
		return g.TargetCompanies[0]
	}
	return "General"
}

// SurveyResponse carries self-reported skill ratings on a 1-10 scale.
// At most one per user; resubmission keeps the original record identity.
type SurveyResponse struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	DSASkill             int       `json:"dsa_skill"`
	OSKnowledge          int       `json:"os_knowledge"`
	DBMSSkill            int       `json:"dbms_skill"`
	OOPSUnderstanding    int       `json:"oops_understanding"`
	NetworkingKnowledge  int       `json:"networking_knowledge"`
	ProgrammingLanguages []string  `json:"programming_languages"`
	ProjectCount         int       `json:"project_count"`
	InternshipExperience bool      `json:"internship_experience"`
	CodingPracticeHours  int       `json:"coding_practice_hours"`
	CompletedAt          time.Time `json:"completed_at"`
}

// RoadmapItem is one learning topic inside a roadmap. Topic doubles as the
// completion-update key and is expected to be unique within a roadmap.
type RoadmapItem struct {
	Topic          string     `json:"topic"`
	Description    string     `json:"description"`
	Priority       Priority   `json:"priority"`
	EstimatedHours int        `json:"estimated_hours"`
	Resources      []string   `json:"resources"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Roadmap is a user's current ranked learning plan. Zero or one per user
// at all times; regeneration replaces any prior roadmap.
type Roadmap struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	TargetCompany   string        `json:"target_company"`
	Domain          string        `json:"domain"`
	RoadmapItems    []RoadmapItem `json:"roadmap_items"`
	OverallProgress float64       `json:"overall_progress"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Progress computes the completion percentage from the item list.
// OverallProgress must only ever hold a value produced here.
func (r Roadmap) Progress() float64 {
	if len(r.RoadmapItems) == 0 {
		return 0
	}
	completed := 0
	for _, item := range r.RoadmapItems {
		if item.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(r.RoadmapItems)) * 100
}

type TestQuestion struct {
	QuestionID    string   `json:"question_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    string   `json:"user_answer"`
	TimeTaken     int      `json:"time_taken"`
}

type MockTest struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	TestType       string         `json:"test_type"`
	Questions      []TestQuestion `json:"questions"`
	Score          float64        `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	TimeSpent      int            `json:"time_spent"`
	WeakAreas      []string       `json:"weak_areas"`
	Feedback       string         `json:"feedback"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

type ChatMessage struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Company     string    `json:"company"`
	Message     string    `json:"message"`
	MessageType string    `json:"message_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProgressSnapshot is the stored readiness summary blending roadmap
// completion with mock-test performance.
type ProgressSnapshot struct {
	ID                  string             `json:"id"`
	UserID              string             `json:"user_id"`
	ReadinessPercentage float64            `json:"readiness_percentage"`
	CategoryProgress    map[string]float64 `json:"category_progress"`
	LastUpdated         time.Time          `json:"last_updated"`
}
