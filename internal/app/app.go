package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crackit/internal/chat"
	"crackit/internal/util"
	"crackit/pkg/ai"
	"crackit/pkg/auth"
	"crackit/pkg/domain"
	"crackit/pkg/store"
)

// Config holds runtime dependencies for the core application.
type Config struct {
	Store     store.Store
	Generator ai.TextGenerator
	Tokens    *auth.TokenIssuer
	Hub       *chat.Hub
}

// App is the core application service wiring storage, generation, and chat
// fan-out together.
type App struct {
	store     store.Store
	generator ai.TextGenerator
	tokens    *auth.TokenIssuer
	hub       *chat.Hub
}

// New constructs the application. The chat hub is optional: without it,
// messages persist but are not broadcast across instances.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("text generator required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token issuer required")
	}
	return &App{
		store:     cfg.Store,
		generator: cfg.Generator,
		tokens:    cfg.Tokens,
		hub:       cfg.Hub,
	}, nil
}

// Hub exposes the chat hub for websocket subscriptions.
func (a *App) Hub() *chat.Hub {
	return a.hub
}

// RegisterRequest carries the signup payload.
type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	College        string `json:"college"`
	Branch         string `json:"branch"`
	GraduationYear int    `json:"graduation_year"`
	Phone          string `json:"phone"`
}

// Register creates a user account and returns the user with a bearer token.
func (a *App) Register(req RegisterRequest) (domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return domain.User{}, "", fmt.Errorf("email and password required")
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrEmailAlreadyRegistered
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	graduationYear := req.GraduationYear
	if graduationYear == 0 {
		graduationYear = 2024
	}
	user := domain.User{
		ID:             util.NewID(),
		Email:          email,
		PasswordHash:   passwordHash,
		Name:           req.Name,
		College:        req.College,
		Branch:         req.Branch,
		GraduationYear: graduationYear,
		Phone:          req.Phone,
		CreatedAt:      time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a bearer token.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("load user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
func (a *App) Authenticate(token string) (domain.User, bool) {
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return domain.User{}, false
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil || !ok {
		return domain.User{}, false
	}
	return user, true
}

// UpdateProfile applies profile field updates and returns the fresh user.
func (a *App) UpdateProfile(userID string, fields map[string]any) (domain.User, error) {
	if err := a.store.UpdateUserProfile(userID, fields); err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("reload user: %w", err)
	}
	if !ok {
		return domain.User{}, fmt.Errorf("user disappeared during update")
	}
	return user, nil
}

// SetGoal upserts the user's single goal record.
func (a *App) SetGoal(userID string, goal domain.Goal) (domain.Goal, error) {
	goal.ID = util.NewID()
	goal.UserID = userID
	goal.CreatedAt = time.Now().UTC()
	if err := a.store.UpsertGoal(goal); err != nil {
		return domain.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	return goal, nil
}

// GetGoal returns the user's goal when one exists.
func (a *App) GetGoal(userID string) (domain.Goal, bool, error) {
	goal, ok, err := a.store.GetGoalByUser(userID)
	if err != nil {
		return domain.Goal{}, false, fmt.Errorf("load goal: %w", err)
	}
	return goal, ok, nil
}

// SubmitSurvey upserts the user's skill survey. A resubmission keeps the
// original record identity while overwriting every field.
func (a *App) SubmitSurvey(userID string, survey domain.SurveyResponse) (domain.SurveyResponse, error) {
	existing, ok, err := a.store.GetSurveyByUser(userID)
	if err != nil {
		return domain.SurveyResponse{}, fmt.Errorf("load survey: %w", err)
	}
	if ok {
		survey.ID = existing.ID
	} else {
		survey.ID = util.NewID()
	}
	survey.UserID = userID
	survey.CompletedAt = time.Now().UTC()
	if err := a.store.UpsertSurvey(survey); err != nil {
		return domain.SurveyResponse{}, fmt.Errorf("save survey: %w", err)
	}
	return survey, nil
}

// GetSurvey returns the user's survey when one exists.
func (a *App) GetSurvey(userID string) (domain.SurveyResponse, bool, error) {
	survey, ok, err := a.store.GetSurveyByUser(userID)
	if err != nil {
		return domain.SurveyResponse{}, false, fmt.Errorf("load survey: %w", err)
	}
	return survey, ok, nil
}

// PostChatMessage persists a room message and broadcasts it when a hub is
// configured.
func (a *App) PostChatMessage(ctx context.Context, user domain.User, company, text string) (domain.ChatMessage, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return domain.ChatMessage{}, fmt.Errorf("company required")
	}
	if strings.TrimSpace(text) == "" {
		return domain.ChatMessage{}, fmt.Errorf("message required")
	}
	msg := domain.ChatMessage{
		ID:          util.NewID(),
		UserID:      user.ID,
		UserName:    user.Name,
		Company:     company,
		Message:     text,
		MessageType: "text",
		Timestamp:   time.Now().UTC(),
	}
	if err := a.store.AppendChatMessage(msg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("save chat message: %w", err)
	}
	if a.hub != nil {
		if err := a.hub.Publish(ctx, msg); err != nil {
			return domain.ChatMessage{}, fmt.Errorf("broadcast chat message: %w", err)
		}
	}
	return msg, nil
}

// ChatHistory returns the latest room messages in chronological order.
func (a *App) ChatHistory(company string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	messages, err := a.store.ListChatMessages(company, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return messages, nil
}
