// Package profile persists the user's export settings. The only setting
// today is the email address that enables the mailto export path.
package profile

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/snapextract/snapextract/pkg/database"
	"github.com/snapextract/snapextract/pkg/utils"
)

const emailKey = "email"

// Store reads and writes profile settings in SQLite.
type Store struct {
	db     *database.DB
	logger *zap.Logger
}

// NewStore creates a profile store on the given database.
func NewStore(db *database.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// GetEmail returns the configured export email address, or "" when none
// is set.
func (s *Store) GetEmail(ctx context.Context) (string, error) {
	var email string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM profile_settings WHERE key = ?", emailKey).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		s.logger.Error("Failed to read profile email", zap.Error(err))
		return "", fmt.Errorf("failed to read profile email: %w", err)
	}
	return email, nil
}

// SetEmail validates and stores the export email address.
func (s *Store) SetEmail(ctx context.Context, email string) error {
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile_settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, emailKey, email)
	if err != nil {
		s.logger.Error("Failed to store profile email", zap.Error(err))
		return fmt.Errorf("failed to store profile email: %w", err)
	}

	s.logger.Info("Profile email updated")
	return nil
}
