package app

import "errors"

var (
	// ErrGoalAndSurveyRequired indicates roadmap generation was requested
	// before the user stored both a goal and a skill survey.
	ErrGoalAndSurveyRequired = errors.New("goals and skill survey required")
	// ErrRoadmapNotFound indicates a progress update targeted a user with
	// no current roadmap.
	ErrRoadmapNotFound        = errors.New("roadmap not found")
	ErrTestNotFound           = errors.New("test not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)
