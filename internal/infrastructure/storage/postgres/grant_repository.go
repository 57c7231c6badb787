package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"credvault/internal/domain/access"
)

type GrantRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewGrantRepository(db *Storage, log *slog.Logger) *GrantRepository {
	return &GrantRepository{
		db:  db,
		log: log.With("component", "grant_repository"),
	}
}

func (r *GrantRepository) ItemOwner(ctx context.Context, itemID int) (int, error) {
	const query = `SELECT owner_id FROM vault_items WHERE id = $1`

	var ownerID int
	err := r.db.conn(ctx).QueryRow(ctx, query, itemID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, access.ErrItemNotFound
		}
		r.log.Error("failed to get item owner", "item_id", itemID, "error", err)
		return 0, fmt.Errorf("get item owner: %w", err)
	}
	return ownerID, nil
}

func (r *GrantRepository) UserGrantLevel(ctx context.Context, itemID, userID int) (access.Level, error) {
	const query = `SELECT level FROM item_user_grants WHERE item_id = $1 AND user_id = $2`

	var level access.Level
	err := r.db.conn(ctx).QueryRow(ctx, query, itemID, userID).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.LevelNone, access.ErrGrantNotFound
		}
		r.log.Error("failed to get user grant",
			"item_id", itemID, "user_id", userID, "error", err)
		return access.LevelNone, fmt.Errorf("get user grant: %w", err)
	}
	return level, nil
}

// GroupGrantLevels gathers group grants the user reaches as a member or as the
// owner of the granted group.
func (r *GrantRepository) GroupGrantLevels(ctx context.Context, itemID, userID int) ([]access.Level, error) {
	const query = `
		SELECT igg.level
		FROM item_group_grants igg
		JOIN group_members gm ON gm.group_id = igg.group_id AND gm.user_id = $2
		WHERE igg.item_id = $1
		UNION ALL
		SELECT igg.level
		FROM item_group_grants igg
		JOIN groups g ON g.id = igg.group_id AND g.owner_id = $2
		WHERE igg.item_id = $1`

	rows, err := r.db.conn(ctx).Query(ctx, query, itemID, userID)
	if err != nil {
		r.log.Error("failed to get group grants",
			"item_id", itemID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("get group grants: %w", err)
	}
	defer rows.Close()

	var levels []access.Level
	for rows.Next() {
		var level access.Level
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("scan group grant: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

func (r *GrantRepository) AccessibleItemIDs(ctx context.Context, userID int) ([]int, error) {
	const query = `
		SELECT id FROM vault_items WHERE owner_id = $1
		UNION
		SELECT item_id FROM item_user_grants WHERE user_id = $1
		UNION
		SELECT igg.item_id
		FROM item_group_grants igg
		JOIN group_members gm ON gm.group_id = igg.group_id
		WHERE gm.user_id = $1
		UNION
		SELECT igg.item_id
		FROM item_group_grants igg
		JOIN groups g ON g.id = igg.group_id
		WHERE g.owner_id = $1`

	rows, err := r.db.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list accessible items", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list accessible items: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *GrantRepository) UpsertGrant(ctx context.Context, grant *access.Grant) error {
	var query string
	switch grant.Grantee.Type {
	case access.GranteeUser:
		query = `
			INSERT INTO item_user_grants (item_id, user_id, level)
			VALUES ($1, $2, $3)
			ON CONFLICT (item_id, user_id) DO UPDATE SET level = EXCLUDED.level`
	case access.GranteeGroup:
		query = `
			INSERT INTO item_group_grants (item_id, group_id, level)
			VALUES ($1, $2, $3)
			ON CONFLICT (item_id, group_id) DO UPDATE SET level = EXCLUDED.level`
	default:
		return fmt.Errorf("unknown grantee type: %s", grant.Grantee.Type)
	}

	_, err := r.db.conn(ctx).Exec(ctx, query, grant.ItemID, grant.Grantee.ID, grant.Level)
	if err != nil {
		r.log.Error("failed to upsert grant",
			"item_id", grant.ItemID, "grantee_type", grant.Grantee.Type,
			"grantee_id", grant.Grantee.ID, "error", err)
		return fmt.Errorf("upsert grant: %w", err)
	}
	return nil
}

func (r *GrantRepository) DeleteGrant(ctx context.Context, itemID int, grantee access.Grantee) (access.Level, error) {
	var query string
	switch grantee.Type {
	case access.GranteeUser:
		query = `DELETE FROM item_user_grants WHERE item_id = $1 AND user_id = $2 RETURNING level`
	case access.GranteeGroup:
		query = `DELETE FROM item_group_grants WHERE item_id = $1 AND group_id = $2 RETURNING level`
	default:
		return access.LevelNone, fmt.Errorf("unknown grantee type: %s", grantee.Type)
	}

	var level access.Level
	err := r.db.conn(ctx).QueryRow(ctx, query, itemID, grantee.ID).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.LevelNone, access.ErrGrantNotFound
		}
		r.log.Error("failed to delete grant",
			"item_id", itemID, "grantee_type", grantee.Type,
			"grantee_id", grantee.ID, "error", err)
		return access.LevelNone, fmt.Errorf("delete grant: %w", err)
	}
	return level, nil
}

func (r *GrantRepository) ListGrants(ctx context.Context, itemID int) ([]access.Grant, error) {
	const query = `
		SELECT 'user' AS grantee_type, user_id AS grantee_id, level
		FROM item_user_grants
		WHERE item_id = $1
		UNION ALL
		SELECT 'group', group_id, level
		FROM item_group_grants
		WHERE item_id = $1
		ORDER BY grantee_type, grantee_id`

	rows, err := r.db.conn(ctx).Query(ctx, query, itemID)
	if err != nil {
		r.log.Error("failed to list grants", "item_id", itemID, "error", err)
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var grants []access.Grant
	for rows.Next() {
		g := access.Grant{ItemID: itemID}
		if err := rows.Scan(&g.Grantee.Type, &g.Grantee.ID, &g.Level); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
