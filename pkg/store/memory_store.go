package store

import (
	"sync"
	"time"

	"crackit/pkg/domain"
)

// MemoryStore keeps all records in-process. It backs tests and local runs
// without Postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User // key: user ID
	email     map[string]string      // email -> user ID
	goals     map[string]domain.Goal // key: user ID
	surveys   map[string]domain.SurveyResponse
	roadmaps  map[string]domain.Roadmap // key: user ID (zero or one per user)
	tests     map[string]domain.MockTest
	testOrder []string
	chats     map[string][]domain.ChatMessage // key: company
	snapshots map[string]domain.ProgressSnapshot
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]domain.User),
		email:     make(map[string]string),
		goals:     make(map[string]domain.Goal),
		surveys:   make(map[string]domain.SurveyResponse),
		roadmaps:  make(map[string]domain.Roadmap),
		tests:     make(map[string]domain.MockTest),
		chats:     make(map[string][]domain.ChatMessage),
		snapshots: make(map[string]domain.ProgressSnapshot),
	}
}

func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.email[email]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) UpdateUserProfile(id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	for key, value := range fields {
		switch key {
		case "name":
			if v, ok := value.(string); ok {
				u.Name = v
			}
		case "college":
			if v, ok := value.(string); ok {
				u.College = v
			}
		case "branch":
			if v, ok := value.(string); ok {
				u.Branch = v
			}
		case "graduation_year":
			switch v := value.(type) {
			case int:
				u.GraduationYear = v
			case float64:
				u.GraduationYear = int(v)
			}
		case "phone":
			if v, ok := value.(string); ok {
				u.Phone = v
			}
		}
	}
	m.users[id] = u
	return nil
}

func (m *MemoryStore) UpsertGoal(g domain.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.goals[g.UserID]; ok {
		g.ID = existing.ID
	}
	m.goals[g.UserID] = g
	return nil
}

func (m *MemoryStore) GetGoalByUser(userID string) (domain.Goal, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.goals[userID]
	return g, ok, nil
}

func (m *MemoryStore) UpsertSurvey(s domain.SurveyResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.surveys[s.UserID]; ok {
		s.ID = existing.ID
	}
	m.surveys[s.UserID] = s
	return nil
}

func (m *MemoryStore) GetSurveyByUser(userID string) (domain.SurveyResponse, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.surveys[userID]
	return s, ok, nil
}

func (m *MemoryStore) GetRoadmapByUser(userID string) (domain.Roadmap, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roadmaps[userID]
	if !ok {
		return domain.Roadmap{}, false, nil
	}
	return cloneRoadmap(r), true, nil
}

func (m *MemoryStore) DeleteRoadmapsByUser(userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roadmaps[userID]; !ok {
		return 0, nil
	}
	delete(m.roadmaps, userID)
	return 1, nil
}

func (m *MemoryStore) InsertRoadmap(r domain.Roadmap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roadmaps[r.UserID] = cloneRoadmap(r)
	return nil
}

func (m *MemoryStore) SetItemCompletion(userID, topic string, completed bool, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roadmaps[userID]
	if !ok {
		return nil
	}
	for i := range r.RoadmapItems {
		if r.RoadmapItems[i].Topic != topic {
			continue
		}
		r.RoadmapItems[i].Completed = completed
		if completed {
			stamped := at
			r.RoadmapItems[i].CompletedAt = &stamped
		} else {
			r.RoadmapItems[i].CompletedAt = nil
		}
	}
	r.UpdatedAt = at
	m.roadmaps[userID] = r
	return nil
}

func (m *MemoryStore) SetRoadmapProgress(userID string, progress float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roadmaps[userID]
	if !ok {
		return nil
	}
	r.OverallProgress = progress
	r.UpdatedAt = at
	m.roadmaps[userID] = r
	return nil
}

func (m *MemoryStore) InsertMockTest(t domain.MockTest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[t.ID] = t
	m.testOrder = append(m.testOrder, t.ID)
	return nil
}

func (m *MemoryStore) GetMockTest(id, userID string) (domain.MockTest, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok || t.UserID != userID {
		return domain.MockTest{}, false, nil
	}
	return t, true, nil
}

func (m *MemoryStore) UpdateMockTestResult(id string, result domain.MockTest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tests[id]
	if !ok {
		return nil
	}
	t.Score = result.Score
	t.CorrectAnswers = result.CorrectAnswers
	t.TimeSpent = result.TimeSpent
	t.WeakAreas = result.WeakAreas
	t.Feedback = result.Feedback
	t.CompletedAt = result.CompletedAt
	m.tests[id] = t
	return nil
}

func (m *MemoryStore) ListMockTestsByUser(userID string) ([]domain.MockTest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.MockTest, 0)
	for _, id := range m.testOrder {
		if t, ok := m.tests[id]; ok && t.UserID == userID {
			res = append(res, t)
		}
	}
	return res, nil
}

func (m *MemoryStore) AppendChatMessage(msg domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[msg.Company] = append(m.chats[msg.Company], msg)
	return nil
}

func (m *MemoryStore) ListChatMessages(company string, limit int) ([]domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.chats[company]
	if limit <= 0 {
		limit = 100
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	res := make([]domain.ChatMessage, len(msgs))
	copy(res, msgs)
	return res, nil
}

func (m *MemoryStore) UpsertProgressSnapshot(p domain.ProgressSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.snapshots[p.UserID]; ok {
		p.ID = existing.ID
	}
	m.snapshots[p.UserID] = p
	return nil
}

// cloneRoadmap copies the item slice so callers cannot mutate stored state.
func cloneRoadmap(r domain.Roadmap) domain.Roadmap {
	items := make([]domain.RoadmapItem, len(r.RoadmapItems))
	copy(items, r.RoadmapItems)
	r.RoadmapItems = items
	return r
}
