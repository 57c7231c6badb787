package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"credvault/internal/domain/vault"
)

type ItemRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewItemRepository(db *Storage, log *slog.Logger) *ItemRepository {
	return &ItemRepository{
		db:  db,
		log: log.With("component", "item_repository"),
	}
}

const itemColumns = `
		id, owner_id, title, url, login_type, username, password, totp_secret,
		notes, google_account_id, folder_id, created_at, updated_at`

func (r *ItemRepository) Get(ctx context.Context, itemID int) (*vault.StoredItem, error) {
	const query = `SELECT` + itemColumns + `
		FROM vault_items
		WHERE id = $1`

	row := r.db.conn(ctx).QueryRow(ctx, query, itemID)

	item, err := r.scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vault.ErrNotFound
		}
		r.log.Error("failed to get item", "item_id", itemID, "error", err)
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *vault.StoredItem) (int, error) {
	const query = `
		INSERT INTO vault_items
			(owner_id, title, url, login_type, username, password, totp_secret,
			 notes, google_account_id, folder_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.conn(ctx).QueryRow(ctx, query,
		item.OwnerID, item.Title, nullText(item.URL), item.LoginType,
		nullText(item.Username), nullText(item.Password),
		nullText(item.TOTPSecret), nullText(item.Notes),
		item.GoogleAccountID, item.FolderID,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		r.log.Error("failed to create item", "owner_id", item.OwnerID, "error", err)
		return 0, fmt.Errorf("create item: %w", err)
	}
	return item.ID, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *vault.StoredItem) error {
	const query = `
		UPDATE vault_items
		SET title = $1, url = $2, login_type = $3, username = $4, password = $5,
			totp_secret = $6, notes = $7, folder_id = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`

	err := r.db.conn(ctx).QueryRow(ctx, query,
		item.Title, nullText(item.URL), item.LoginType,
		nullText(item.Username), nullText(item.Password),
		nullText(item.TOTPSecret), nullText(item.Notes),
		item.FolderID, item.ID,
	).Scan(&item.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vault.ErrNotFound
		}
		r.log.Error("failed to update item", "item_id", item.ID, "error", err)
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, itemID int) error {
	const query = `DELETE FROM vault_items WHERE id = $1`

	result, err := r.db.conn(ctx).Exec(ctx, query, itemID)
	if err != nil {
		r.log.Error("failed to delete item", "item_id", itemID, "error", err)
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return vault.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) List(ctx context.Context, ids []int, filter vault.ListFilter) ([]vault.StoredItem, int, error) {
	where := ` WHERE id = ANY($1)`
	args := []any{ids}
	argIndex := 2

	if filter.Query != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR url ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+filter.Query+"%")
		argIndex++
	}
	if filter.FolderID != nil {
		where += fmt.Sprintf(" AND folder_id = $%d", argIndex)
		args = append(args, *filter.FolderID)
		argIndex++
	}
	if filter.LoginType != nil {
		where += fmt.Sprintf(" AND login_type = $%d", argIndex)
		args = append(args, *filter.LoginType)
		argIndex++
	}

	var total int
	if err := r.db.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM vault_items`+where, args...).Scan(&total); err != nil {
		r.log.Error("failed to count items", "error", err)
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := `SELECT` + itemColumns + ` FROM vault_items` + where + ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++

		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list items", "error", err)
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []vault.StoredItem
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

func (r *ItemRepository) FolderBelongsTo(ctx context.Context, folderID, ownerID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM folders WHERE id = $1 AND owner_id = $2)`

	var exists bool
	if err := r.db.conn(ctx).QueryRow(ctx, query, folderID, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check folder: %w", err)
	}
	return exists, nil
}

func (r *ItemRepository) scanItem(row interface {
	Scan(dest ...interface{}) error
}) (*vault.StoredItem, error) {
	var item vault.StoredItem
	var url, username, password, totpSecret, notes sql.NullString

	err := row.Scan(
		&item.ID, &item.OwnerID, &item.Title, &url, &item.LoginType,
		&username, &password, &totpSecret, &notes,
		&item.GoogleAccountID, &item.FolderID,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.URL = url.String
	item.Username = username.String
	item.Password = password.String
	item.TOTPSecret = totpSecret.String
	item.Notes = notes.String
	return &item, nil
}

// nullText maps "" to NULL so an absent secret is visible without decrypting.
func nullText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
