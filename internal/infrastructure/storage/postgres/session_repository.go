package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"credvault/internal/domain/identity"
	"credvault/internal/domain/session"
)

type SessionRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log.With("component", "session_repository"),
	}
}

func (r *SessionRepository) Create(ctx context.Context, principalID int, tokenHash string, expiresAt time.Time) error {
	const query = `
		INSERT INTO sessions (user_id, token_hash, expires_at)
		VALUES ($1, decode($2, 'hex'), $3)`

	_, err := r.db.conn(ctx).Exec(ctx, query, principalID, tokenHash, expiresAt)
	if err != nil {
		r.log.Error("failed to create session", "user_id", principalID, "error", err)
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Validate resolves the token hash to its principal, carrying the current
// ecosystem role so a role change takes effect on the next request.
func (r *SessionRepository) Validate(ctx context.Context, tokenHash string) (identity.Principal, error) {
	const query = `
		SELECT u.id, u.login, u.role, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = decode($1, 'hex') AND s.expires_at > NOW()`

	var p identity.Principal
	err := r.db.conn(ctx).QueryRow(ctx, query, tokenHash).
		Scan(&p.ID, &p.Login, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.Principal{}, session.ErrInvalid
		}
		r.log.Error("failed to validate session", "error", err)
		return identity.Principal{}, fmt.Errorf("validate session: %w", err)
	}
	return p, nil
}
