package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"credvault/internal/domain/folder"
)

type FolderRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewFolderRepository(db *Storage, log *slog.Logger) *FolderRepository {
	return &FolderRepository{
		db:  db,
		log: log.With("component", "folder_repository"),
	}
}

func (r *FolderRepository) Get(ctx context.Context, ownerID, folderID int) (*folder.Folder, error) {
	const query = `
		SELECT id, owner_id, parent_id, name, created_at
		FROM folders
		WHERE id = $1 AND owner_id = $2`

	var f folder.Folder
	err := r.db.conn(ctx).QueryRow(ctx, query, folderID, ownerID).
		Scan(&f.ID, &f.OwnerID, &f.ParentID, &f.Name, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, folder.ErrNotFound
		}
		r.log.Error("failed to get folder",
			"folder_id", folderID, "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return &f, nil
}

func (r *FolderRepository) Create(ctx context.Context, f *folder.Folder) (int, error) {
	const query = `
		INSERT INTO folders (owner_id, parent_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.conn(ctx).QueryRow(ctx, query, f.OwnerID, f.ParentID, f.Name).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, folder.ErrConflict
		}
		r.log.Error("failed to create folder", "owner_id", f.OwnerID, "error", err)
		return 0, fmt.Errorf("create folder: %w", err)
	}
	return f.ID, nil
}

func (r *FolderRepository) Rename(ctx context.Context, ownerID, folderID int, name string) error {
	const query = `UPDATE folders SET name = $1 WHERE id = $2 AND owner_id = $3`

	result, err := r.db.conn(ctx).Exec(ctx, query, name, folderID, ownerID)
	if err != nil {
		if isUniqueViolation(err) {
			return folder.ErrConflict
		}
		r.log.Error("failed to rename folder", "folder_id", folderID, "error", err)
		return fmt.Errorf("rename folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return folder.ErrNotFound
	}
	return nil
}

func (r *FolderRepository) SetParent(ctx context.Context, ownerID, folderID int, parentID *int) error {
	const query = `UPDATE folders SET parent_id = $1 WHERE id = $2 AND owner_id = $3`

	result, err := r.db.conn(ctx).Exec(ctx, query, parentID, folderID, ownerID)
	if err != nil {
		if isUniqueViolation(err) {
			return folder.ErrConflict
		}
		r.log.Error("failed to move folder", "folder_id", folderID, "error", err)
		return fmt.Errorf("move folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return folder.ErrNotFound
	}
	return nil
}

// Delete detaches contained items, re-parents child folders to the deleted
// folder's parent, then removes the row. All three steps share one
// transaction.
func (r *FolderRepository) Delete(ctx context.Context, ownerID, folderID int) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		conn := r.db.conn(ctx)

		var parentID *int
		err := conn.QueryRow(ctx,
			`SELECT parent_id FROM folders WHERE id = $1 AND owner_id = $2`,
			folderID, ownerID).Scan(&parentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return folder.ErrNotFound
			}
			return fmt.Errorf("get folder parent: %w", err)
		}

		if _, err := conn.Exec(ctx,
			`UPDATE vault_items SET folder_id = NULL WHERE folder_id = $1`, folderID); err != nil {
			return fmt.Errorf("detach items: %w", err)
		}
		if _, err := conn.Exec(ctx,
			`UPDATE folders SET parent_id = $1 WHERE parent_id = $2`, parentID, folderID); err != nil {
			return fmt.Errorf("reparent children: %w", err)
		}
		if _, err := conn.Exec(ctx,
			`DELETE FROM folders WHERE id = $1 AND owner_id = $2`, folderID, ownerID); err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
		return nil
	})
}

func (r *FolderRepository) ListByOwner(ctx context.Context, ownerID int) ([]folder.Folder, error) {
	const query = `
		SELECT id, owner_id, parent_id, name, created_at
		FROM folders
		WHERE owner_id = $1
		ORDER BY name`

	rows, err := r.db.conn(ctx).Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("failed to list folders", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []folder.Folder
	for rows.Next() {
		var f folder.Folder
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.ParentID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}
