package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"credvault/internal/domain/platform"
)

type PlatformRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewPlatformRepository(db *Storage, log *slog.Logger) *PlatformRepository {
	return &PlatformRepository{
		db:  db,
		log: log.With("component", "platform_repository"),
	}
}

const platformColumns = `
		id, ecosystem_id, name, url, username, password, totp_secret, notes,
		created_at, updated_at`

func (r *PlatformRepository) Get(ctx context.Context, platformID int) (*platform.StoredCredential, error) {
	const query = `SELECT` + platformColumns + `
		FROM platform_credentials
		WHERE id = $1`

	row := r.db.conn(ctx).QueryRow(ctx, query, platformID)

	cred, err := r.scanCredential(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, platform.ErrNotFound
		}
		r.log.Error("failed to get platform credential", "platform_id", platformID, "error", err)
		return nil, fmt.Errorf("get platform credential: %w", err)
	}
	return cred, nil
}

func (r *PlatformRepository) Create(ctx context.Context, cred *platform.StoredCredential) (int, error) {
	const query = `
		INSERT INTO platform_credentials
			(ecosystem_id, name, url, username, password, totp_secret, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.conn(ctx).QueryRow(ctx, query,
		cred.EcosystemID, cred.Name, nullText(cred.URL), nullText(cred.Username),
		nullText(cred.Password), nullText(cred.TOTPSecret), nullText(cred.Notes),
	).Scan(&cred.ID, &cred.CreatedAt, &cred.UpdatedAt)

	if err != nil {
		r.log.Error("failed to create platform credential",
			"ecosystem_id", cred.EcosystemID, "error", err)
		return 0, fmt.Errorf("create platform credential: %w", err)
	}
	return cred.ID, nil
}

func (r *PlatformRepository) Update(ctx context.Context, cred *platform.StoredCredential) error {
	const query = `
		UPDATE platform_credentials
		SET name = $1, url = $2, username = $3, password = $4, totp_secret = $5,
			notes = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.db.conn(ctx).QueryRow(ctx, query,
		cred.Name, nullText(cred.URL), nullText(cred.Username),
		nullText(cred.Password), nullText(cred.TOTPSecret), nullText(cred.Notes),
		cred.ID,
	).Scan(&cred.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return platform.ErrNotFound
		}
		r.log.Error("failed to update platform credential", "platform_id", cred.ID, "error", err)
		return fmt.Errorf("update platform credential: %w", err)
	}
	return nil
}

func (r *PlatformRepository) Delete(ctx context.Context, platformID int) error {
	const query = `DELETE FROM platform_credentials WHERE id = $1`

	result, err := r.db.conn(ctx).Exec(ctx, query, platformID)
	if err != nil {
		r.log.Error("failed to delete platform credential", "platform_id", platformID, "error", err)
		return fmt.Errorf("delete platform credential: %w", err)
	}
	if result.RowsAffected() == 0 {
		return platform.ErrNotFound
	}
	return nil
}

func (r *PlatformRepository) List(ctx context.Context, filter platform.ListFilter) ([]platform.StoredCredential, int, error) {
	where := ` WHERE TRUE`
	var args []any
	argIndex := 1

	if filter.EcosystemID != nil {
		where += fmt.Sprintf(" AND ecosystem_id = $%d", argIndex)
		args = append(args, *filter.EcosystemID)
		argIndex++
	}
	if filter.Query != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR url ILIKE $%d OR username ILIKE $%d)",
			argIndex, argIndex, argIndex)
		args = append(args, "%"+filter.Query+"%")
		argIndex++
	}

	var total int
	if err := r.db.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM platform_credentials`+where, args...).Scan(&total); err != nil {
		r.log.Error("failed to count platform credentials", "error", err)
		return nil, 0, fmt.Errorf("count platform credentials: %w", err)
	}

	query := `SELECT` + platformColumns + ` FROM platform_credentials` + where + ` ORDER BY name`
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
		r.log.Error("failed to list platform credentials", "error", err)
		return nil, 0, fmt.Errorf("list platform credentials: %w", err)
	}
	defer rows.Close()

	var creds []platform.StoredCredential
	for rows.Next() {
		cred, err := r.scanCredential(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan platform credential: %w", err)
		}
		creds = append(creds, *cred)
	}
	return creds, total, rows.Err()
}

func (r *PlatformRepository) UpsertTag(ctx context.Context, tag *platform.AccessTag) (string, error) {
	const previousQuery = `
		SELECT label FROM platform_access_tags WHERE platform_id = $1 AND user_id = $2`
	const upsertQuery = `
		INSERT INTO platform_access_tags (platform_id, user_id, label)
		VALUES ($1, $2, $3)
		ON CONFLICT (platform_id, user_id) DO UPDATE SET label = EXCLUDED.label
		RETURNING id, created_at`

	var previous string
	err := r.db.conn(ctx).QueryRow(ctx, previousQuery, tag.PlatformID, tag.UserID).Scan(&previous)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("get previous tag: %w", err)
	}

	err = r.db.conn(ctx).QueryRow(ctx, upsertQuery, tag.PlatformID, tag.UserID, tag.Label).
		Scan(&tag.ID, &tag.CreatedAt)
	if err != nil {
		r.log.Error("failed to upsert access tag",
			"platform_id", tag.PlatformID, "user_id", tag.UserID, "error", err)
		return "", fmt.Errorf("upsert access tag: %w", err)
	}
	return previous, nil
}

func (r *PlatformRepository) DeleteTag(ctx context.Context, platformID, userID int) (string, error) {
	const query = `
		DELETE FROM platform_access_tags
		WHERE platform_id = $1 AND user_id = $2
		RETURNING label`

	var label string
	err := r.db.conn(ctx).QueryRow(ctx, query, platformID, userID).Scan(&label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", platform.ErrTagNotFound
		}
		r.log.Error("failed to delete access tag",
			"platform_id", platformID, "user_id", userID, "error", err)
		return "", fmt.Errorf("delete access tag: %w", err)
	}
	return label, nil
}

func (r *PlatformRepository) ListTags(ctx context.Context, platformID int) ([]platform.AccessTag, error) {
	const query = `
		SELECT id, platform_id, user_id, label, created_at
		FROM platform_access_tags
		WHERE platform_id = $1
		ORDER BY created_at`

	rows, err := r.db.conn(ctx).Query(ctx, query, platformID)
	if err != nil {
		r.log.Error("failed to list access tags", "platform_id", platformID, "error", err)
		return nil, fmt.Errorf("list access tags: %w", err)
	}
	defer rows.Close()

	var tags []platform.AccessTag
	for rows.Next() {
		var tag platform.AccessTag
		if err := rows.Scan(&tag.ID, &tag.PlatformID, &tag.UserID, &tag.Label, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan access tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *PlatformRepository) scanCredential(row interface {
	Scan(dest ...interface{}) error
}) (*platform.StoredCredential, error) {
	var cred platform.StoredCredential
	var url, username, password, totpSecret, notes sql.NullString

	err := row.Scan(
		&cred.ID, &cred.EcosystemID, &cred.Name, &url, &username,
		&password, &totpSecret, &notes, &cred.CreatedAt, &cred.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cred.URL = url.String
	cred.Username = username.String
	cred.Password = password.String
	cred.TOTPSecret = totpSecret.String
	cred.Notes = notes.String
	return &cred, nil
}
