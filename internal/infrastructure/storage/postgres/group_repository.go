package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"credvault/internal/domain/group"
)

type GroupRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewGroupRepository(db *Storage, log *slog.Logger) *GroupRepository {
	return &GroupRepository{
		db:  db,
		log: log.With("component", "group_repository"),
	}
}

func (r *GroupRepository) Get(ctx context.Context, groupID int) (*group.Group, error) {
	const query = `SELECT id, owner_id, name, created_at FROM groups WHERE id = $1`

	var g group.Group
	err := r.db.conn(ctx).QueryRow(ctx, query, groupID).
		Scan(&g.ID, &g.OwnerID, &g.Name, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, group.ErrNotFound
		}
		r.log.Error("failed to get group", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}

func (r *GroupRepository) Exists(ctx context.Context, groupID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`

	var exists bool
	if err := r.db.conn(ctx).QueryRow(ctx, query, groupID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check group: %w", err)
	}
	return exists, nil
}

func (r *GroupRepository) Create(ctx context.Context, g *group.Group) (int, error) {
	const query = `
		INSERT INTO groups (owner_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.conn(ctx).QueryRow(ctx, query, g.OwnerID, g.Name).
		Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, group.ErrConflict
		}
		r.log.Error("failed to create group", "owner_id", g.OwnerID, "error", err)
		return 0, fmt.Errorf("create group: %w", err)
	}
	return g.ID, nil
}

func (r *GroupRepository) Delete(ctx context.Context, groupID int) error {
	const query = `DELETE FROM groups WHERE id = $1`

	result, err := r.db.conn(ctx).Exec(ctx, query, groupID)
	if err != nil {
		r.log.Error("failed to delete group", "group_id", groupID, "error", err)
		return fmt.Errorf("delete group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return group.ErrNotFound
	}
	return nil
}

func (r *GroupRepository) ListForUser(ctx context.Context, userID int) ([]group.Group, error) {
	const query = `
		SELECT id, owner_id, name, created_at
		FROM groups
		WHERE owner_id = $1
		UNION
		SELECT g.id, g.owner_id, g.name, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY name`

	rows, err := r.db.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list groups", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []group.Group
	for rows.Next() {
		var g group.Group
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *GroupRepository) Members(ctx context.Context, groupID int) ([]group.Member, error) {
	const query = `
		SELECT group_id, user_id, role, added_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY added_at`

	rows, err := r.db.conn(ctx).Query(ctx, query, groupID)
	if err != nil {
		r.log.Error("failed to list members", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []group.Member
	for rows.Next() {
		var m group.Member
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *GroupRepository) GetMember(ctx context.Context, groupID, userID int) (*group.Member, error) {
	const query = `
		SELECT group_id, user_id, role, added_at
		FROM group_members
		WHERE group_id = $1 AND user_id = $2`

	var m group.Member
	err := r.db.conn(ctx).QueryRow(ctx, query, groupID, userID).
		Scan(&m.GroupID, &m.UserID, &m.Role, &m.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, group.ErrMemberNotFound
		}
		r.log.Error("failed to get member",
			"group_id", groupID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, m *group.Member) error {
	const query = `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING added_at`

	err := r.db.conn(ctx).QueryRow(ctx, query, m.GroupID, m.UserID, m.Role).
		Scan(&m.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return group.ErrConflict
		}
		r.log.Error("failed to add member",
			"group_id", m.GroupID, "user_id", m.UserID, "error", err)
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID int) error {
	const query = `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	result, err := r.db.conn(ctx).Exec(ctx, query, groupID, userID)
	if err != nil {
		r.log.Error("failed to remove member",
			"group_id", groupID, "user_id", userID, "error", err)
		return fmt.Errorf("remove member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return group.ErrMemberNotFound
	}
	return nil
}

func (r *GroupRepository) UpdateMemberRole(ctx context.Context, groupID, userID int, role group.MemberRole) error {
	const query = `UPDATE group_members SET role = $1 WHERE group_id = $2 AND user_id = $3`

	result, err := r.db.conn(ctx).Exec(ctx, query, role, groupID, userID)
	if err != nil {
		r.log.Error("failed to update member role",
			"group_id", groupID, "user_id", userID, "error", err)
		return fmt.Errorf("update member role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return group.ErrMemberNotFound
	}
	return nil
}
