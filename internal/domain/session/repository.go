package session

import (
	"context"
	"time"

	"credvault/internal/domain/identity"
)

type Repository interface {
	Create(ctx context.Context, principalID int, tokenHash string, expiresAt time.Time) error

	// Validate resolves an unexpired token hash to its principal, including
	// the current ecosystem role.
	Validate(ctx context.Context, tokenHash string) (identity.Principal, error)
}
