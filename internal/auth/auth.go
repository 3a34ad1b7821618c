// Package auth gates the API behind a capability check. A single
// configured credential pair exchanges for an opaque, expiring bearer
// token; everything else about identity is out of scope.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/snapextract/snapextract/pkg/database"
)

var (
	// ErrInvalidCredentials is returned when the login pair does not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned for unknown or expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Config holds the static credential pair and token lifetime.
type Config struct {
	Username string
	Password string
	TokenTTL time.Duration
}

// Service issues and verifies bearer tokens backed by the sessions table.
type Service struct {
	cfg    Config
	db     *database.DB
	logger *zap.Logger
}

// NewService creates an auth service.
func NewService(cfg Config, db *database.DB, logger *zap.Logger) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	return &Service{cfg: cfg, db: db, logger: logger}
}

// Login checks the credential pair and issues a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK {
		s.logger.Warn("Login rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.TokenTTL).UTC()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO auth_sessions (token, username, expires_at) VALUES (?, ?, ?)",
		token, username, expiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	s.pruneExpired(ctx)

	s.logger.Info("Login succeeded", zap.String("username", username))
	return token, nil
}

// Verify resolves a bearer token to its username.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	var username string
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT username, expires_at FROM auth_sessions WHERE token = ?", token).
		Scan(&username, &expiresAt)
	if err == sql.ErrNoRows {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up session: %w", err)
	}

	if time.Now().After(expiresAt) {
		return "", ErrInvalidToken
	}
	return username, nil
}

// Logout revokes a token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM auth_sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *Service) pruneExpired(ctx context.Context) {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM auth_sessions WHERE expires_at < ?", time.Now().UTC()); err != nil {
		s.logger.Warn("Failed to prune expired sessions", zap.Error(err))
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
