package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/exp/slog"

	"credvault/internal/domain/audit"
)

type AuditRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewAuditRepository(db *Storage, log *slog.Logger) *AuditRepository {
	return &AuditRepository{
		db:  db,
		log: log.With("component", "audit_repository"),
	}
}

// Append inserts one entry. The table carries no update or delete paths; the
// trail only ever grows.
func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	const query = `
		INSERT INTO audit_entries
			(id, resource_type, resource_id, action, field, old_value,
			 new_value, actor_id, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.conn(ctx).Exec(ctx, query,
		entry.ID, entry.ResourceType, entry.ResourceID, entry.Action,
		nullText(entry.Field), entry.OldValue, entry.NewValue,
		entry.ActorID, nullText(entry.Origin.IP), nullText(entry.Origin.UserAgent),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) History(ctx context.Context, resourceType audit.ResourceType, resourceID int, limit int) ([]audit.Entry, error) {
	const query = `
		SELECT id, resource_type, resource_id, action, field, old_value,
		       new_value, actor_id, ip, user_agent, created_at
		FROM audit_entries
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.db.conn(ctx).Query(ctx, query, resourceType, resourceID, limit)
	if err != nil {
		r.log.Error("failed to read history",
			"resource_type", resourceType, "resource_id", resourceID, "error", err)
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var field, ip, userAgent sql.NullString

		err := rows.Scan(
			&e.ID, &e.ResourceType, &e.ResourceID, &e.Action, &field,
			&e.OldValue, &e.NewValue, &e.ActorID, &ip, &userAgent, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		e.Field = field.String
		e.Origin = audit.Origin{IP: ip.String, UserAgent: userAgent.String}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
