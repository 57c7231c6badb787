package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"credvault/internal/domain/identity"
)

type UserRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewUserRepository(db *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log.With("component", "user_repository"),
	}
}

func (r *UserRepository) Get(ctx context.Context, id int) (*identity.Principal, error) {
	const query = `SELECT id, login, role, created_at FROM users WHERE id = $1`

	var p identity.Principal
	err := r.db.conn(ctx).QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Login, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		r.log.Error("failed to get user", "user_id", id, "error", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &p, nil
}

func (r *UserRepository) Exists(ctx context.Context, id int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.db.conn(ctx).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) GoogleAccountExists(ctx context.Context, id, ownerID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM google_accounts WHERE id = $1 AND owner_id = $2)`

	var exists bool
	if err := r.db.conn(ctx).QueryRow(ctx, query, id, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check google account: %w", err)
	}
	return exists, nil
}
