package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/academic-support/internal/auth"
	"github.com/spec-kit/academic-support/internal/config"
	apperrors "github.com/spec-kit/academic-support/pkg/util/errorutil"
)

// AdminAuthService gates the dashboard behind the configured administrator
// credential and a revocable session.
type AdminAuthService struct {
	cfg      config.AuthConfig
	tokens   *auth.TokenManager
	sessions *auth.SessionStore
	logger   *zap.Logger
}

// NewAdminAuthService builds the service.
func NewAdminAuthService(cfg config.AuthConfig, sessions *auth.SessionStore, logger *zap.Logger) *AdminAuthService {
	return &AdminAuthService{
		cfg:      cfg,
		tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		sessions: sessions,
		logger:   logger,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AdminAuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login checks the credential and issues a session token. Failures are
// reported with one generic message regardless of which part was wrong.
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if username != s.cfg.AdminUsername || !s.credentialMatches(password) {
		return "", time.Time{}, apperrors.NewUnauthorized("incorrect credentials")
	}

	token, claims, err := s.tokens.GenerateToken(username)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	expiresAt := claims.ExpiresAt.Time
	if err := s.sessions.Register(ctx, claims.ID, expiresAt); err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}

	s.logger.Info("admin login", zap.String("username", username))
	return token, expiresAt, nil
}

// Logout revokes the session carried by the token.
func (s *AdminAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

func (s *AdminAuthService) credentialMatches(password string) bool {
	if s.cfg.AdminPasswordHash != "" {
		return auth.ComparePassword(s.cfg.AdminPasswordHash, password) == nil
	}
	return auth.ComparePlain(s.cfg.AdminPassword, password)
}
