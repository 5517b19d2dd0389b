package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-media/pkg/simplemedia"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// Repository implements simplemedia.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "media_type") {
				return simplemedia.ErrMediaTypeExists
			}
			if strings.Contains(pgErr.ConstraintName, "field_config") {
				return simplemedia.ErrFieldConfigExists
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			if strings.Contains(pgErr.ConstraintName, "media_item") {
				// Removing a referenced type vs. referencing a missing one.
				if operation == "delete media type" {
					return simplemedia.ErrMediaTypeInUse
				}
				return simplemedia.ErrMediaTypeNotFound
			}
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Media type operations

func (r *Repository) CreateMediaType(ctx context.Context, mediaType *simplemedia.MediaType) error {
	if mediaType.Source == nil {
		return simplemedia.ErrMissingSource
	}

	query := `
		INSERT INTO media_type (
			id, label, description, source_plugin, source_field, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		mediaType.ID, mediaType.Label, mediaType.Description,
		mediaType.Source.PluginID(), mediaType.Source.SourceFieldName(),
		mediaType.CreatedAt, mediaType.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create media type", err)
	}
	return nil
}

func (r *Repository) LookupMediaType(ctx context.Context, id string) (*simplemedia.MediaType, error) {
	query := `
		SELECT id, label, description, source_plugin, source_field, created_at, updated_at
		FROM media_type WHERE id = $1`

	mediaType, err := scanMediaType(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplemedia.ErrMediaTypeNotFound
		}
		return nil, r.handlePostgresError("lookup media type", err)
	}
	return mediaType, nil
}

func (r *Repository) ListMediaTypes(ctx context.Context) ([]*simplemedia.MediaType, error) {
	query := `
		SELECT id, label, description, source_plugin, source_field, created_at, updated_at
		FROM media_type ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list media types", err)
	}
	defer rows.Close()

	var result []*simplemedia.MediaType
	for rows.Next() {
		mediaType, err := scanMediaType(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, mediaType)
	}
	return result, rows.Err()
}

func (r *Repository) DeleteMediaType(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// Lock the type row so no media item can reference it until commit.
		var locked string
		err := tx.QueryRow(ctx, `SELECT id FROM media_type WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return simplemedia.ErrMediaTypeNotFound
		} else if err != nil {
			return r.handlePostgresError("delete media type", err)
		}

		var inUse bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM media_item WHERE bundle = $1)`, id).Scan(&inUse)
		if err != nil {
			return r.handlePostgresError("delete media type", err)
		}
		if inUse {
			return simplemedia.ErrMediaTypeInUse
		}

		if _, err := tx.Exec(ctx, `DELETE FROM field_config WHERE entity_type = $1 AND bundle = $2`,
			simplemedia.MediaEntityType, id); err != nil {
			return r.handlePostgresError("delete media type", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM media_type WHERE id = $1`, id); err != nil {
			return r.handlePostgresError("delete media type", err)
		}
		return nil
	})
}

func scanMediaType(row pgx.Row) (*simplemedia.MediaType, error) {
	var (
		mediaType    simplemedia.MediaType
		sourcePlugin string
		sourceField  string
	)
	err := row.Scan(&mediaType.ID, &mediaType.Label, &mediaType.Description,
		&sourcePlugin, &sourceField, &mediaType.CreatedAt, &mediaType.UpdatedAt)
	if err != nil {
		return nil, err
	}
	source, err := simplemedia.NewSource(sourcePlugin, sourceField)
	if err != nil {
		return nil, fmt.Errorf("media type %s: %w", mediaType.ID, err)
	}
	mediaType.Source = source
	return &mediaType, nil
}

// Field config operations

func (r *Repository) CreateFieldConfig(ctx context.Context, field *simplemedia.FieldConfig) error {
	settings, err := json.Marshal(field.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal field settings: %w", err)
	}

	query := `
		INSERT INTO field_config (
			id, entity_type, bundle, field_name, field_type, label, settings, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		field.ID, field.TargetEntityType, field.TargetBundle, field.FieldName,
		field.FieldType, field.Label, string(settings), field.CreatedAt, field.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create field config", err)
	}
	return nil
}

func (r *Repository) GetFieldConfig(ctx context.Context, id string) (*simplemedia.FieldConfig, error) {
	query := `
		SELECT id, entity_type, bundle, field_name, field_type, label, settings, created_at, updated_at
		FROM field_config WHERE id = $1`

	field, err := scanFieldConfig(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplemedia.ErrFieldConfigNotFound
		}
		return nil, r.handlePostgresError("get field config", err)
	}
	return field, nil
}

func (r *Repository) ListFieldConfigs(ctx context.Context, entityType, bundle string) ([]*simplemedia.FieldConfig, error) {
	query := `
		SELECT id, entity_type, bundle, field_name, field_type, label, settings, created_at, updated_at
		FROM field_config
		WHERE ($1 = '' OR entity_type = $1) AND ($2 = '' OR bundle = $2)
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, entityType, bundle)
	if err != nil {
		return nil, r.handlePostgresError("list field configs", err)
	}
	defer rows.Close()

	var result []*simplemedia.FieldConfig
	for rows.Next() {
		field, err := scanFieldConfig(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, field)
	}
	return result, rows.Err()
}

func (r *Repository) DeleteFieldConfig(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM field_config WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete field config", err)
	}
	if tag.RowsAffected() == 0 {
		return simplemedia.ErrFieldConfigNotFound
	}
	return nil
}

func scanFieldConfig(row pgx.Row) (*simplemedia.FieldConfig, error) {
	var (
		field    simplemedia.FieldConfig
		settings []byte
	)
	err := row.Scan(&field.ID, &field.TargetEntityType, &field.TargetBundle, &field.FieldName,
		&field.FieldType, &field.Label, &settings, &field.CreatedAt, &field.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &field.Settings); err != nil {
			return nil, fmt.Errorf("field %s: invalid settings: %w", field.ID, err)
		}
	}
	return &field, nil
}

// Media item operations

func (r *Repository) CreateMediaItem(ctx context.Context, item *simplemedia.MediaItem) error {
	query := `
		INSERT INTO media_item (id, bundle, label, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Bundle, item.Label, item.Published, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create media item", err)
	}
	return nil
}

func (r *Repository) GetMediaItem(ctx context.Context, id uuid.UUID) (*simplemedia.MediaItem, error) {
	query := `
		SELECT id, bundle, label, published, created_at, updated_at
		FROM media_item WHERE id = $1`

	var item simplemedia.MediaItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Bundle, &item.Label, &item.Published, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplemedia.ErrMediaItemNotFound
		}
		return nil, r.handlePostgresError("get media item", err)
	}
	return &item, nil
}

func (r *Repository) ListMediaItems(ctx context.Context, bundle string) ([]*simplemedia.MediaItem, error) {
	query := `
		SELECT id, bundle, label, published, created_at, updated_at
		FROM media_item
		WHERE ($1 = '' OR bundle = $1)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, bundle)
	if err != nil {
		return nil, r.handlePostgresError("list media items", err)
	}
	defer rows.Close()

	var result []*simplemedia.MediaItem
	for rows.Next() {
		var item simplemedia.MediaItem
		if err := rows.Scan(&item.ID, &item.Bundle, &item.Label, &item.Published, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	return result, rows.Err()
}

func (r *Repository) CountMediaItems(ctx context.Context, bundle string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM media_item WHERE ($1 = '' OR bundle = $1)`, bundle).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count media items", err)
	}
	return count, nil
}

func (r *Repository) DeleteMediaItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM media_item WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete media item", err)
	}
	if tag.RowsAffected() == 0 {
		return simplemedia.ErrMediaItemNotFound
	}
	return nil
}

var _ simplemedia.Repository = (*Repository)(nil)
