package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/olfat123/profile-creator/internal/cache"
	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/utils"
)

const DefaultSessionTTL = 14 * 24 * time.Hour

type SessionService interface {
	Create(ctx context.Context, accountID string, role models.AccountRole) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Destroy(ctx context.Context, sessionID string) error
}

type sessionService struct {
	store cache.Cache
	ttl   time.Duration
}

func NewSessionService(store cache.Cache, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionService{store: store, ttl: ttl}
}

func sessionKey(id string) string { return cache.Key("session", id) }

func (s *sessionService) Create(ctx context.Context, accountID string, role models.AccountRole) (*models.Session, error) {
	const op = "SessionService.Create"

	if accountID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "account_id is required", nil)
	}

	now := time.Now().UTC()
	ss := &models.Session{
		SessionID: uuid.NewString(),
		AccountID: accountID,
		Role:      string(role),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.SetJSON(ctx, sessionKey(ss.SessionID), ss, s.ttl); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store session", err)
	}
	return ss, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "SessionService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	var ss models.Session
	hit, err := s.store.GetJSON(ctx, sessionKey(sessionID), &ss)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to read session", err)
	}
	if !hit || time.Now().UTC().After(ss.ExpiresAt) {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", utils.ErrNotFound)
	}
	return &ss, nil
}

func (s *sessionService) Destroy(ctx context.Context, sessionID string) error {
	const op = "SessionService.Destroy"

	if sessionID == "" {
		return nil
	}
	if err := s.store.Del(ctx, sessionKey(sessionID)); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to delete session", err)
	}
	return nil
}
