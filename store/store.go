// Package store is the portal's persistence boundary. Every backend exposes
// the same canonical CensusRecord shape; source-specific field mapping
// happens in the adapters here and never reaches the analytics engines.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rabbikazmi/HackingDelhi/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendSQL    = "sql"
)

type ListOptions struct {
	FlagStatus string
	Limit      int // <= 0 means no limit
}

type Review struct {
	ReviewerID string
	Action     string
	At         time.Time
}

type Records interface {
	List(ctx context.Context, opts ListOptions) ([]models.CensusRecord, error)
	Get(ctx context.Context, recordID string) (models.CensusRecord, error)
	ByHousehold(ctx context.Context, householdID string) ([]models.CensusRecord, error)
	MarkReviewed(ctx context.Context, recordID string, review Review) (models.CensusRecord, error)
}

type Surveys interface {
	InsertSurvey(ctx context.Context, s models.Survey) error
	GetSurvey(ctx context.Context, id string) (models.Survey, error)
	ListSurveys(ctx context.Context, limit int) ([]models.Survey, error)
}

type Users interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) error
	UpdateUser(ctx context.Context, u models.User) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context, token string) (models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type AuditLog interface {
	AppendAudit(ctx context.Context, e models.AuditLogEntry) error
	// ListAudit returns the newest entries first.
	ListAudit(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

// Seeder is implemented by backends that hold canonical records directly
// rather than deriving them from surveys.
type Seeder interface {
	SeedRecords(ctx context.Context, records []models.CensusRecord) (int, error)
}

type Store interface {
	Records
	Surveys
	Users
	AuditLog
	Backend() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func applyReview(r *models.CensusRecord, rv Review) {
	at := rv.At
	r.Reviewed = true
	r.ReviewedBy = rv.ReviewerID
	r.ReviewedAt = &at
	r.ReviewAction = rv.Action
	r.FlagStatus = models.FlagAfterReview(rv.Action, r.FlagStatus)
}

func applySurveyReview(s *models.Survey, rv Review) {
	at := rv.At
	s.Reviewed = true
	s.ReviewedBy = rv.ReviewerID
	s.ReviewedAt = &at
	s.ReviewAction = rv.Action
}

var (
	_ Store    = (*Memory)(nil)
	_ Store    = (*SQL)(nil)
	_ Store    = (*Mongo)(nil)
	_ Seeder   = (*Memory)(nil)
	_ Seeder   = (*SQL)(nil)
	_ Sessions = (*MemorySessions)(nil)
	_ Sessions = (*RedisSessions)(nil)
)
