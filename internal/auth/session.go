package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hms-core/pkg/config"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/monitoring"
	"github.com/carelink/hms-core/pkg/types"
)

// SessionRepository persists session rows keyed by token digest.
type SessionRepository interface {
	Create(session *types.Session) error
	GetByDigest(digest string) (*types.Session, error)
	DeleteByDigest(digest string) error
	DeleteExpired(now time.Time) (int64, error)
}

// PrincipalDirectory resolves a session's weak principal reference to the
// live identity record owned by the credential store.
type PrincipalDirectory interface {
	GetStaffByID(id string) (*types.StaffIdentity, error)
	GetPatientByID(id string) (*types.PatientIdentity, error)
}

// SessionManager issues, resolves and revokes opaque session tokens. Every
// request re-validates against the store; there is no in-process session
// cache.
type SessionManager struct {
	repo      SessionRepository
	directory PrincipalDirectory
	secret    string
	ttl       time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

// NewSessionManager creates a session manager. A missing session secret is a
// startup misconfiguration and fails construction.
func NewSessionManager(cfg *config.SessionConfig, repo SessionRepository, directory PrincipalDirectory, log *logger.Logger) (*SessionManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is not configured")
	}

	ttlDays := cfg.TTLDays
	if ttlDays <= 0 {
		ttlDays = 7
	}

	return &SessionManager{
		repo:      repo,
		directory: directory,
		secret:    cfg.Secret,
		ttl:       time.Duration(ttlDays) * 24 * time.Hour,
		logger:    log,
		now:       time.Now,
	}, nil
}

// Issue creates a session for the given principal reference and returns the
// raw token for transport in the cookie, together with the stored session.
// The raw token is never persisted and never logged.
func (sm *SessionManager) Issue(kind types.PrincipalKind, principalID string) (string, *types.Session, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", nil, err
	}

	now := sm.now()
	session := &types.Session{
		ID:          uuid.New().String(),
		TokenDigest: DigestToken(token, sm.secret),
		Kind:        kind,
		CreatedAt:   now,
		ExpiresAt:   now.Add(sm.ttl),
	}

	switch kind {
	case types.KindStaff:
		session.StaffID = &principalID
	case types.KindPatient:
		session.PatientID = &principalID
	default:
		return "", nil, fmt.Errorf("unknown principal kind: %s", kind)
	}

	if err := sm.repo.Create(session); err != nil {
		return "", nil, fmt.Errorf("failed to persist session: %w", err)
	}

	monitoring.RecordSessionIssued()
	sm.logger.WithFields(map[string]interface{}{
		"session_id":   session.ID,
		"kind":         kind,
		"principal_id": principalID,
	}).Info("Session issued")

	return token, session, nil
}

// Resolve maps a raw token to its principal. It returns (nil, nil) for any
// token that does not correspond to a live session: unknown digest, expired
// row, or a principal record that no longer exists. Before the lookup it
// opportunistically deletes expired sessions; the sweep is amortized cleanup,
// not a correctness mechanism, because expiry is re-checked on the row.
func (sm *SessionManager) Resolve(token string) (*types.Principal, error) {
	if token == "" {
		return nil, nil
	}

	now := sm.now()
	if swept, err := sm.repo.DeleteExpired(now); err != nil {
		sm.logger.WithError(err).Warn("Expired session sweep failed")
	} else if swept > 0 {
		monitoring.RecordSessionsSwept(int(swept))
	}

	session, err := sm.repo.GetByDigest(DigestToken(token, sm.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil || session.Expired(now) {
		return nil, nil
	}

	switch session.Kind {
	case types.KindStaff:
		if session.StaffID == nil {
			return nil, nil
		}
		staff, err := sm.directory.GetStaffByID(*session.StaffID)
		if err != nil {
			if types.IsErrorType(err, types.ErrorTypeNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to resolve staff principal: %w", err)
		}
		return types.StaffPrincipal(staff), nil

	case types.KindPatient:
		if session.PatientID == nil {
			return nil, nil
		}
		patient, err := sm.directory.GetPatientByID(*session.PatientID)
		if err != nil {
			if types.IsErrorType(err, types.ErrorTypeNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to resolve patient principal: %w", err)
		}
		return types.PatientPrincipal(patient), nil
	}

	return nil, nil
}

// Revoke deletes the session matching the token's digest. Revoking an
// unknown or already-revoked token is a no-op.
func (sm *SessionManager) Revoke(token string) error {
	if token == "" {
		return nil
	}

	if err := sm.repo.DeleteByDigest(DigestToken(token, sm.secret)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// TTL returns the absolute session lifetime, used to align the cookie expiry
// with the stored session expiry.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}
