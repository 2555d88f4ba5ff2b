package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rabbikazmi/HackingDelhi/models"
)

// Memory keeps everything in process. It backs the demo deployment and tests.
type Memory struct {
	mu sync.RWMutex

	records     map[string]models.CensusRecord
	recordOrder []string
	surveys     map[string]models.Survey
	surveyOrder []string
	users       map[string]models.User
	audit       []models.AuditLogEntry
}

func NewMemory(records []models.CensusRecord) *Memory {
	m := &Memory{
		records: make(map[string]models.CensusRecord, len(records)),
		surveys: make(map[string]models.Survey),
		users:   make(map[string]models.User),
	}
	m.seed(records)
	return m
}

func (m *Memory) Backend() string { return BackendMemory }

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) SeedRecords(_ context.Context, records []models.CensusRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seed(records), nil
}

func (m *Memory) seed(records []models.CensusRecord) int {
	added := 0
	for _, r := range records {
		if r.RecordID == "" {
			continue
		}
		if _, ok := m.records[r.RecordID]; ok {
			continue
		}
		m.records[r.RecordID] = NormalizeRecord(r)
		m.recordOrder = append(m.recordOrder, r.RecordID)
		added++
	}
	return added
}

func (m *Memory) List(_ context.Context, opts ListOptions) ([]models.CensusRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.CensusRecord, 0)
	for _, id := range m.recordOrder {
		r := m.records[id]
		if opts.FlagStatus != "" && r.FlagStatus != opts.FlagStatus {
			continue
		}
		out = append(out, r)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, recordID string) (models.CensusRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[recordID]
	if !ok {
		return models.CensusRecord{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) ByHousehold(_ context.Context, householdID string) ([]models.CensusRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.CensusRecord, 0)
	for _, id := range m.recordOrder {
		if r := m.records[id]; r.HouseholdID == householdID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) MarkReviewed(_ context.Context, recordID string, rv Review) (models.CensusRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[recordID]
	if !ok {
		return models.CensusRecord{}, ErrNotFound
	}
	applyReview(&r, rv)
	m.records[recordID] = r

	if s, ok := m.surveys[recordID]; ok {
		applySurveyReview(&s, rv)
		m.surveys[recordID] = s
	}
	return r, nil
}

func (m *Memory) InsertSurvey(_ context.Context, s models.Survey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.surveys[s.ID]; ok {
		return ErrDuplicate
	}
	m.surveys[s.ID] = s
	m.surveyOrder = append(m.surveyOrder, s.ID)
	if _, ok := m.records[s.ID]; !ok {
		m.records[s.ID] = RecordFromSurvey(s)
		m.recordOrder = append(m.recordOrder, s.ID)
	}
	return nil
}

func (m *Memory) GetSurvey(_ context.Context, id string) (models.Survey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.surveys[id]
	if !ok {
		return models.Survey{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) ListSurveys(_ context.Context, limit int) ([]models.Survey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Survey, 0)
	for _, id := range m.surveyOrder {
		out = append(out, m.surveys[id])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) GetUser(_ context.Context, userID string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) CreateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.UserID]; ok {
		return ErrDuplicate
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	m.users[u.UserID] = u
	return nil
}

func (m *Memory) UpdateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.UserID]; !ok {
		return ErrNotFound
	}
	m.users[u.UserID] = u
	return nil
}

func (m *Memory) AppendAudit(_ context.Context, e models.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.audit = append(m.audit, e)
	return nil
}

func (m *Memory) ListAudit(_ context.Context, limit int) ([]models.AuditLogEntry, error) {
	m.mu.RLock()
	entries := make([]models.AuditLogEntry, len(m.audit))
	copy(entries, m.audit)
	m.mu.RUnlock()

	// Stable keeps append order for equal timestamps, then reverse it so the
	// latest append wins ties.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	out := make([]models.AuditLogEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
