package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"crackit/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&GoalModel{},
		&SurveyModel{},
		&RoadmapModel{},
		&MockTestModel{},
		&ChatMessageModel{},
		&ProgressSnapshotModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Ping checks database connectivity.
func (s *GormStore) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// users

func (s *GormStore) SaveUser(u domain.User) error {
	model := UserModel{
		ID:             u.ID,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Name:           u.Name,
		College:        u.College,
		Branch:         u.Branch,
		GraduationYear: u.GraduationYear,
		Phone:          u.Phone,
		CreatedAt:      u.CreatedAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&model).Error
}

func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	err := s.db.Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	err := s.db.Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// UpdateUserProfile applies a whitelisted field set to the user row.
func (s *GormStore) UpdateUserProfile(id string, fields map[string]any) error {
	updates := map[string]any{}
	for key, value := range fields {
		switch key {
		case "name", "college", "branch", "graduation_year", "phone":
			updates[key] = value
		}
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(&UserModel{}).Where("id = ?", id).Updates(updates).Error
}

// goals

func (s *GormStore) UpsertGoal(g domain.Goal) error {
	model := GoalModel{
		ID:              g.ID,
		UserID:          g.UserID,
		TargetCompanies: mustJSON(g.TargetCompanies),
		PreferredDomain: g.PreferredDomain,
		ExpectedSalary:  g.ExpectedSalary,
		TechStack:       mustJSON(g.TechStack),
		CreatedAt:       g.CreatedAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_companies", "preferred_domain", "expected_salary", "tech_stack", "created_at"}),
	}).Create(&model).Error
}

func (s *GormStore) GetGoalByUser(userID string) (domain.Goal, bool, error) {
	var model GoalModel
	err := s.db.Where("user_id = ?", userID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Goal{}, false, nil
	}
	if err != nil {
		return domain.Goal{}, false, err
	}
	goal := domain.Goal{
		ID:              model.ID,
		UserID:          model.UserID,
		PreferredDomain: model.PreferredDomain,
		ExpectedSalary:  model.ExpectedSalary,
		CreatedAt:       model.CreatedAt,
	}
	if err := fromJSON(model.TargetCompanies, &goal.TargetCompanies); err != nil {
		return domain.Goal{}, false, fmt.Errorf("decode target companies: %w", err)
	}
	if err := fromJSON(model.TechStack, &goal.TechStack); err != nil {
		return domain.Goal{}, false, fmt.Errorf("decode tech stack: %w", err)
	}
	return goal, true, nil
}

// surveys

// UpsertSurvey overwrites all survey fields while keeping the row identity
// of a previously submitted survey.
func (s *GormStore) UpsertSurvey(sr domain.SurveyResponse) error {
	model := SurveyModel{
		ID:                   sr.ID,
		UserID:               sr.UserID,
		DSASkill:             sr.DSASkill,
		OSKnowledge:          sr.OSKnowledge,
		DBMSSkill:            sr.DBMSSkill,
		OOPSUnderstanding:    sr.OOPSUnderstanding,
		NetworkingKnowledge:  sr.NetworkingKnowledge,
		ProgrammingLanguages: mustJSON(sr.ProgrammingLanguages),
		ProjectCount:         sr.ProjectCount,
		InternshipExperience: sr.InternshipExperience,
		CodingPracticeHours:  sr.CodingPracticeHours,
		CompletedAt:          sr.CompletedAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"dsa_skill", "os_knowledge", "dbms_skill", "oops_understanding",
			"networking_knowledge", "programming_languages", "project_count",
			"internship_experience", "coding_practice_hours", "completed_at",
		}),
	}).Create(&model).Error
}

func (s *GormStore) GetSurveyByUser(userID string) (domain.SurveyResponse, bool, error) {
	var model SurveyModel
	err := s.db.Where("user_id = ?", userID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.SurveyResponse{}, false, nil
	}
	if err != nil {
		return domain.SurveyResponse{}, false, err
	}
	survey := domain.SurveyResponse{
		ID:                   model.ID,
		UserID:               model.UserID,
		DSASkill:             model.DSASkill,
		OSKnowledge:          model.OSKnowledge,
		DBMSSkill:            model.DBMSSkill,
		OOPSUnderstanding:    model.OOPSUnderstanding,
		NetworkingKnowledge:  model.NetworkingKnowledge,
		ProjectCount:         model.ProjectCount,
		InternshipExperience: model.InternshipExperience,
		CodingPracticeHours:  model.CodingPracticeHours,
		CompletedAt:          model.CompletedAt,
	}
	if err := fromJSON(model.ProgrammingLanguages, &survey.ProgrammingLanguages); err != nil {
		return domain.SurveyResponse{}, false, fmt.Errorf("decode languages: %w", err)
	}
	return survey, true, nil
}

// roadmaps

func (s *GormStore) GetRoadmapByUser(userID string) (domain.Roadmap, bool, error) {
	var model RoadmapModel
	err := s.db.Where("user_id = ?", userID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Roadmap{}, false, nil
	}
	if err != nil {
		return domain.Roadmap{}, false, err
	}
	roadmap, err := roadmapFromModel(model)
	if err != nil {
		return domain.Roadmap{}, false, err
	}
	return roadmap, true, nil
}

func (s *GormStore) DeleteRoadmapsByUser(userID string) (int, error) {
	res := s.db.Where("user_id = ?", userID).Delete(&RoadmapModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (s *GormStore) InsertRoadmap(r domain.Roadmap) error {
	model := RoadmapModel{
		ID:              r.ID,
		UserID:          r.UserID,
		TargetCompany:   r.TargetCompany,
		Domain:          r.Domain,
		RoadmapItems:    mustJSON(r.RoadmapItems),
		OverallProgress: r.OverallProgress,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	return s.db.Create(&model).Error
}

// SetItemCompletion rewrites the item array with every topic match flagged.
// The read and the write are individually atomic but the pair is not;
// concurrent updates settle last-writer-wins.
func (s *GormStore) SetItemCompletion(userID, topic string, completed bool, at time.Time) error {
	var model RoadmapModel
	if err := s.db.Where("user_id = ?", userID).First(&model).Error; err != nil {
		return err
	}
	var items []domain.RoadmapItem
	if err := fromJSON(model.RoadmapItems, &items); err != nil {
		return fmt.Errorf("decode roadmap items: %w", err)
	}
	for i := range items {
		if items[i].Topic != topic {
			continue
		}
		items[i].Completed = completed
		if completed {
			stamped := at
			items[i].CompletedAt = &stamped
		} else {
			items[i].CompletedAt = nil
		}
	}
	return s.db.Model(&RoadmapModel{}).Where("user_id = ?", userID).Updates(map[string]any{
		"roadmap_items": mustJSON(items),
		"updated_at":    at,
	}).Error
}

func (s *GormStore) SetRoadmapProgress(userID string, progress float64, at time.Time) error {
	return s.db.Model(&RoadmapModel{}).Where("user_id = ?", userID).Updates(map[string]any{
		"overall_progress": progress,
		"updated_at":       at,
	}).Error
}

// mock tests

func (s *GormStore) InsertMockTest(t domain.MockTest) error {
	model := MockTestModel{
		ID:             t.ID,
		UserID:         t.UserID,
		TestType:       t.TestType,
		Questions:      mustJSON(t.Questions),
		Score:          t.Score,
		TotalQuestions: t.TotalQuestions,
		CorrectAnswers: t.CorrectAnswers,
		TimeSpent:      t.TimeSpent,
		WeakAreas:      mustJSON(t.WeakAreas),
		Feedback:       t.Feedback,
		CompletedAt:    t.CompletedAt,
		CreatedAt:      time.Now().UTC(),
	}
	return s.db.Create(&model).Error
}

func (s *GormStore) GetMockTest(id, userID string) (domain.MockTest, bool, error) {
	var model MockTestModel
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.MockTest{}, false, nil
	}
	if err != nil {
		return domain.MockTest{}, false, err
	}
	test, err := mockTestFromModel(model)
	if err != nil {
		return domain.MockTest{}, false, err
	}
	return test, true, nil
}

func (s *GormStore) UpdateMockTestResult(id string, result domain.MockTest) error {
	return s.db.Model(&MockTestModel{}).Where("id = ?", id).Updates(map[string]any{
		"score":           result.Score,
		"correct_answers": result.CorrectAnswers,
		"time_spent":      result.TimeSpent,
		"weak_areas":      mustJSON(result.WeakAreas),
		"feedback":        result.Feedback,
		"completed_at":    result.CompletedAt,
	}).Error
}

func (s *GormStore) ListMockTestsByUser(userID string) ([]domain.MockTest, error) {
	var models []MockTestModel
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	tests := make([]domain.MockTest, 0, len(models))
	for _, model := range models {
		test, err := mockTestFromModel(model)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	return tests, nil
}

// chat

func (s *GormStore) AppendChatMessage(msg domain.ChatMessage) error {
	model := ChatMessageModel{
		ID:          msg.ID,
		UserID:      msg.UserID,
		UserName:    msg.UserName,
		Company:     msg.Company,
		Message:     msg.Message,
		MessageType: msg.MessageType,
		Timestamp:   msg.Timestamp,
	}
	return s.db.Create(&model).Error
}

// ListChatMessages returns the most recent messages for a company room in
// chronological order.
func (s *GormStore) ListChatMessages(company string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []ChatMessageModel
	if err := s.db.Where("company = ?", company).Order("timestamp DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	messages := make([]domain.ChatMessage, 0, len(models))
	for i := len(models) - 1; i >= 0; i-- {
		model := models[i]
		messages = append(messages, domain.ChatMessage{
			ID:          model.ID,
			UserID:      model.UserID,
			UserName:    model.UserName,
			Company:     model.Company,
			Message:     model.Message,
			MessageType: model.MessageType,
			Timestamp:   model.Timestamp,
		})
	}
	return messages, nil
}

// readiness

func (s *GormStore) UpsertProgressSnapshot(p domain.ProgressSnapshot) error {
	model := ProgressSnapshotModel{
		ID:                  p.ID,
		UserID:              p.UserID,
		ReadinessPercentage: p.ReadinessPercentage,
		CategoryProgress:    mustJSON(p.CategoryProgress),
		LastUpdated:         p.LastUpdated,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"readiness_percentage", "category_progress", "last_updated"}),
	}).Create(&model).Error
}

// conversions

func userFromModel(model UserModel) domain.User {
	return domain.User{
		ID:             model.ID,
		Email:          model.Email,
		PasswordHash:   model.PasswordHash,
		Name:           model.Name,
		College:        model.College,
		Branch:         model.Branch,
		GraduationYear: model.GraduationYear,
		Phone:          model.Phone,
		CreatedAt:      model.CreatedAt,
	}
}

func roadmapFromModel(model RoadmapModel) (domain.Roadmap, error) {
	roadmap := domain.Roadmap{
		ID:              model.ID,
		UserID:          model.UserID,
		TargetCompany:   model.TargetCompany,
		Domain:          model.Domain,
		OverallProgress: model.OverallProgress,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if err := fromJSON(model.RoadmapItems, &roadmap.RoadmapItems); err != nil {
		return domain.Roadmap{}, fmt.Errorf("decode roadmap items: %w", err)
	}
	return roadmap, nil
}

func mockTestFromModel(model MockTestModel) (domain.MockTest, error) {
	test := domain.MockTest{
		ID:             model.ID,
		UserID:         model.UserID,
		TestType:       model.TestType,
		Score:          model.Score,
		TotalQuestions: model.TotalQuestions,
		CorrectAnswers: model.CorrectAnswers,
		TimeSpent:      model.TimeSpent,
		Feedback:       model.Feedback,
		CompletedAt:    model.CompletedAt,
	}
	if err := fromJSON(model.Questions, &test.Questions); err != nil {
		return domain.MockTest{}, fmt.Errorf("decode questions: %w", err)
	}
	if err := fromJSON(model.WeakAreas, &test.WeakAreas); err != nil {
		return domain.MockTest{}, fmt.Errorf("decode weak areas: %w", err)
	}
	return test, nil
}

func mustJSON(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(data)
}

func fromJSON(data datatypes.JSON, out any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(data), out)
}
