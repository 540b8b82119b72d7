package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crackit/internal/app"
	"crackit/internal/ratelimit"
	"crackit/internal/util"
	"crackit/pkg/domain"
)

// Pinger reports backing-store connectivity for the health endpoint.
type Pinger interface {
	Ping() error
}

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                     *app.App
	Pinger                  Pinger
	RedisAddr               string
	RedisPassword           string
	AuthRateLimitPerMinute  int
	GenerateRateLimitPerMin int
	FollowXForwardedFor     bool
	TrustedProxies          []string
}

// Server exposes the HTTP API.
type Server struct {
	app             *app.App
	pinger          Pinger
	mux             *http.ServeMux
	trustedProxies  *util.TrustedProxies
	authLimiter     *ratelimit.FixedWindowLimiter
	generateLimiter *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured. Rate limiters are
// optional: with no Redis address the endpoints run unthrottled.
func New(cfg Config) (*Server, error) {
	s := &Server{
		app:    cfg.App,
		pinger: cfg.Pinger,
		mux:    http.NewServeMux(),
	}
	if cfg.FollowXForwardedFor {
		trusted, err := util.NewTrustedProxies(cfg.TrustedProxies)
		if err != nil {
			return nil, fmt.Errorf("parse trusted proxies: %w", err)
		}
		s.trustedProxies = trusted
	}
	if cfg.RedisAddr != "" {
		authLimit := cfg.AuthRateLimitPerMinute
		if authLimit <= 0 {
			authLimit = 10
		}
		generateLimit := cfg.GenerateRateLimitPerMin
		if generateLimit <= 0 {
			generateLimit = 5
		}
		newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
			prefix := "crackit:ratelimit:" + name
			limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, time.Minute)
			if err != nil {
				return nil, fmt.Errorf("init %s limiter: %w", name, err)
			}
			return limiter, nil
		}
		var err error
		if s.authLimiter, err = newLimiter("auth", authLimit); err != nil {
			return nil, err
		}
		if s.generateLimiter, err = newLimiter("generate", generateLimit); err != nil {
			return nil, err
		}
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler wrapped in the middleware chain.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.Handle("/api/profile", s.authenticated(s.handleProfile))

	// placement profile
	s.mux.Handle("/api/goals", s.authenticated(s.handleGoals))
	s.mux.Handle("/api/survey", s.authenticated(s.handleSurvey))

	// roadmap
	s.mux.Handle("/api/roadmap/generate", s.authenticated(s.handleRoadmapGenerate))
	s.mux.Handle("/api/roadmap", s.authenticated(s.handleRoadmap))
	s.mux.Handle("/api/roadmap/reset", s.authenticated(s.handleRoadmapReset))
	s.mux.Handle("/api/roadmap/progress", s.authenticated(s.handleRoadmapProgress))

	// mock tests
	s.mux.Handle("/api/test/start", s.authenticated(s.handleTestStart))
	s.mux.Handle("/api/test/submit", s.authenticated(s.handleTestSubmit))
	s.mux.Handle("/api/tests/history", s.authenticated(s.handleTestHistory))

	// readiness
	s.mux.Handle("/api/progress", s.authenticated(s.handleProgress))

	// reference data
	s.mux.HandleFunc("/api/companies", s.handleCompanies)
	s.mux.HandleFunc("/api/domains", s.handleDomains)
	s.mux.HandleFunc("/api/languages", s.handleLanguages)

	// chat rooms
	s.mux.Handle("/api/chatrooms/", s.authenticated(s.handleChatroom))

	s.mux.Handle("/ws/chat", s.websocketHandler())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	dbStatus := "ok"
	status := http.StatusOK
	if s.pinger != nil {
		if err := s.pinger.Ping(); err != nil {
			dbStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, map[string]string{"status": "ok", "database": dbStatus})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.User{}, false
	}
	return s.app.Authenticate(token)
}

// auth handlers
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.authLimiter, "too many signup attempts, try again later") {
		return
	}
	var req app.RegisterRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Register(req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.authLimiter, "too many login attempts, try again later") {
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, user)
	case http.MethodPut:
		var fields map[string]any
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&fields); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.app.UpdateProfile(user.ID, fields)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		methodNotAllowed(w)
	}
}

// placement profile handlers
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		goal, ok, err := s.app.GetGoal(user.ID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"goal": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"goal": goal})
	case http.MethodPost:
		var goal domain.Goal
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&goal); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		saved, err := s.app.SetGoal(user.ID, goal)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		survey, ok, err := s.app.GetSurvey(user.ID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"survey": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"survey": survey})
	case http.MethodPost:
		var survey domain.SurveyResponse
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&survey); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		saved, err := s.app.SubmitSurvey(user.ID, survey)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	default:
		methodNotAllowed(w)
	}
}

// roadmap handlers
func (s *Server) handleRoadmapGenerate(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.generateLimiter, "too many generation requests, try again later") {
		return
	}
	roadmap, err := s.app.GenerateRoadmap(r.Context(), user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roadmap)
}

func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	roadmap, ok, err := s.app.GetRoadmap(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"roadmap": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roadmap": roadmap})
}

func (s *Server) handleRoadmapReset(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	deleted, err := s.app.ResetRoadmap(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted_count": deleted})
}

func (s *Server) handleRoadmapProgress(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	var req progressUpdateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	progress, err := s.app.ReconcileProgress(user.ID, req.Topic, req.Completed)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"progress": progress})
}

// mock test handlers
func (s *Server) handleTestStart(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req testStartRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	test, err := s.app.StartMockTest(user.ID, req.TestType)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, test)
}

func (s *Server) handleTestSubmit(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	var req testSubmitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TestID == "" {
		writeError(w, http.StatusBadRequest, "test_id is required")
		return
	}
	result, err := s.app.SubmitMockTest(r.Context(), user.ID, req.TestID, req.Answers, req.TimeSpent)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTestHistory(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	tests, err := s.app.TestHistory(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": tests,
		"count": len(tests),
	})
}

// readiness handler
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	snapshot, err := s.app.Readiness(user.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// reference data handlers
func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": app.Companies})
}

func (s *Server) handleDomains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"domains": app.TechDomains})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"languages": app.ProgrammingLanguages})
}

// chat handlers
func (s *Server) handleChatroom(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/chatrooms/")
	company, action, found := strings.Cut(rest, "/")
	if company == "" || !found || action != "messages" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = parsed
		}
		messages, err := s.app.ChatHistory(company, limit)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": messages,
			"count": len(messages),
		})
	case http.MethodPost:
		var req chatMessageRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, err := s.app.PostChatMessage(r.Context(), user, company, req.Message)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + util.ClientIP(r, s.trustedProxies)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

// writeAppError maps application errors to HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrEmailAlreadyRegistered),
		errors.Is(err, app.ErrGoalAndSurveyRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrRoadmapNotFound),
		errors.Is(err, app.ErrTestNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type progressUpdateRequest struct {
	Topic     string `json:"topic"`
	Completed bool   `json:"completed"`
}

type testStartRequest struct {
	TestType string `json:"test_type"`
}

type testSubmitRequest struct {
	TestID    string            `json:"test_id"`
	Answers   map[string]string `json:"answers"`
	TimeSpent int               `json:"time_spent"`
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
