package auth

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/carelink/hms-core/pkg/database"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// Repository implements SessionRepository on top of the sessions table.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new session repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// Create persists a new session row
func (r *Repository) Create(session *types.Session) error {
	query := `
		INSERT INTO sessions (id, token_digest, user_type, staff_id, patient_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		session.ID,
		session.TokenDigest,
		session.Kind,
		session.StaffID,
		session.PatientID,
		session.CreatedAt,
		session.ExpiresAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create session")
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByDigest retrieves a session by token digest. A missing row yields
// (nil, nil) so the caller can treat it as an unauthenticated request.
func (r *Repository) GetByDigest(digest string) (*types.Session, error) {
	query := `
		SELECT id, token_digest, user_type, staff_id, patient_id, created_at, expires_at
		FROM sessions
		WHERE token_digest = $1`

	session := &types.Session{}
	err := r.db.QueryRow(query, digest).Scan(
		&session.ID,
		&session.TokenDigest,
		&session.Kind,
		&session.StaffID,
		&session.PatientID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithError(err).Error("Failed to get session")
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// DeleteByDigest deletes the session with the given digest, if any.
func (r *Repository) DeleteByDigest(digest string) error {
	query := `DELETE FROM sessions WHERE token_digest = $1`

	if _, err := r.db.Exec(query, digest); err != nil {
		r.logger.WithError(err).Error("Failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteExpired removes every session whose absolute expiry has passed and
// returns the number of rows removed.
func (r *Repository) DeleteExpired(now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < $1`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	swept, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return swept, nil
}
