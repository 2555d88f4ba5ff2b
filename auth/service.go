package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rabbikazmi/HackingDelhi/apperr"
	"github.com/rabbikazmi/HackingDelhi/logger"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/store"
)

const DefaultSessionTTL = 7 * 24 * time.Hour

// Defaults for a development login.
const (
	DevEmail = "dev@example.com"
	DevName  = "Dev User"
)

type DevLoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Service struct {
	users    store.Users
	sessions store.Sessions
	provider Provider
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func NewService(users store.Users, sessions store.Sessions, provider Provider, ttl time.Duration, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		provider: provider,
		ttl:      ttl,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Login exchanges an upstream session id for a portal session. The user is
// matched by email; a first login creates a supervisor.
func (s *Service) Login(ctx context.Context, sessionID string) (models.User, models.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return models.User{}, models.Session{}, apperr.Validation("session_id required")
	}
	id, err := s.provider.SessionData(ctx, sessionID)
	if err != nil {
		return models.User{}, models.Session{}, err
	}

	u, err := s.users.FindUserByEmail(ctx, id.Email)
	switch {
	case err == nil:
		now := s.now()
		u.Name = id.Name
		u.Picture = id.Picture
		u.UpdatedAt = &now
		if err := s.users.UpdateUser(ctx, u); err != nil {
			return models.User{}, models.Session{}, fmt.Errorf("refresh user: %w", err)
		}
	case errors.Is(err, store.ErrNotFound):
		u, err = s.createUser(ctx, models.User{
			Email:   id.Email,
			Name:    id.Name,
			Picture: id.Picture,
			Role:    models.RoleSupervisor,
		})
		if err != nil {
			return models.User{}, models.Session{}, err
		}
	default:
		return models.User{}, models.Session{}, fmt.Errorf("find user: %w", err)
	}

	sess, err := s.startSession(ctx, u.UserID)
	if err != nil {
		return models.User{}, models.Session{}, err
	}
	s.log.Info("user signed in", "user_id", u.UserID, "role", u.Role)
	return u, sess, nil
}

// DevLogin signs in without the upstream provider. An existing user keeps its
// stored name and role.
func (s *Service) DevLogin(ctx context.Context, req DevLoginRequest) (models.User, models.Session, error) {
	if req.Email == "" {
		req.Email = DevEmail
	}
	if req.Name == "" {
		req.Name = DevName
	}
	if req.Role == "" {
		req.Role = models.RoleSupervisor
	}
	if !models.ValidRole(req.Role) {
		return models.User{}, models.Session{}, apperr.Validation("Invalid role")
	}

	u, err := s.users.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		u, err = s.createUser(ctx, models.User{Email: req.Email, Name: req.Name, Role: req.Role})
	}
	if err != nil {
		return models.User{}, models.Session{}, err
	}

	sess, err := s.startSession(ctx, u.UserID)
	if err != nil {
		return models.User{}, models.Session{}, err
	}
	s.log.Warn("development login", "user_id", u.UserID, "role", u.Role)
	return u, sess, nil
}

func (s *Service) createUser(ctx context.Context, u models.User) (models.User, error) {
	u.UserID = "user_" + hexID()[:12]
	u.CreatedAt = s.now()
	err := s.users.CreateUser(ctx, u)
	if errors.Is(err, store.ErrDuplicate) {
		// another request created the same email first
		return s.users.FindUserByEmail(ctx, u.Email)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Service) startSession(ctx context.Context, userID string) (models.Session, error) {
	now := s.now()
	sess := models.Session{
		Token:     "session_" + hexID(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Resolve returns the user behind a session token.
func (s *Service) Resolve(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, apperr.Unauthenticated("Not authenticated")
	}
	sess, err := s.sessions.GetSession(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperr.Unauthenticated("Invalid session")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.now()) {
		if err := s.sessions.DeleteSession(ctx, token); err != nil {
			s.log.Warn("failed to delete expired session", "error", err)
		}
		return models.User{}, apperr.Unauthenticated("Session expired")
	}

	u, err := s.users.GetUser(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperr.Unauthenticated("User not found")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

func (s *Service) SetRole(ctx context.Context, userID, role string) (models.User, error) {
	if !models.ValidRole(role) {
		return models.User{}, apperr.Validation("Invalid role")
	}
	u, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperr.Unauthenticated("User not found")
	}
	if err != nil {
		return models.User{}, err
	}
	now := s.now()
	u.Role = role
	u.UpdatedAt = &now
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("update role: %w", err)
	}
	s.log.Info("role changed", "user_id", u.UserID, "role", role)
	return u, nil
}

func hexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
