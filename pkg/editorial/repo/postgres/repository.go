package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressroom/editorial/pkg/editorial"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements editorial.Repository using PostgreSQL. The schema
// lives in migrations/001_content.sql; soft deletes are a deleted_at
// tombstone, never a row removal.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) editorial.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) editorial.Repository {
	return &Repository{db: pool}
}

const contentColumns = `id, author_id, title, body, excerpt, state, published_at, created_at, updated_at`

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("content already exists")
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

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*editorial.Content, error) {
	query := `
        SELECT ` + contentColumns + `
        FROM content WHERE id = $1 AND deleted_at IS NULL`

	snapshot, err := scanSnapshot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absent and soft-deleted ids are both a null success.
			return nil, nil
		}
		return nil, r.handlePostgresError("find content", err)
	}

	content := editorial.FromSnapshot(snapshot)
	return &content, nil
}

func (r *Repository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]editorial.Content, error) {
	query := `
        SELECT ` + contentColumns + `
        FROM content
        WHERE author_id = $1 AND deleted_at IS NULL
        ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, r.handlePostgresError("find content by author", err)
	}
	defer rows.Close()

	return collectContents(rows)
}

func (r *Repository) FindPublished(ctx context.Context, query editorial.PublishedQuery) ([]editorial.Content, error) {
	state := editorial.StatePublished
	return r.Search(ctx, editorial.SearchQuery{
		AuthorID:        query.AuthorID,
		State:           &state,
		PublishedAfter:  query.PublishedAfter,
		PublishedBefore: query.PublishedBefore,
		Limit:           query.Limit,
		Offset:          query.Offset,
	})
}

func (r *Repository) FindFeatured(ctx context.Context) ([]editorial.Content, error) {
	query := `
        SELECT ` + contentColumns + `
        FROM content
        WHERE state = $1 AND deleted_at IS NULL
        ORDER BY published_at DESC NULLS LAST
        LIMIT $2`

	rows, err := r.db.Query(ctx, query, editorial.StatePublished, editorial.FeaturedContentLimit)
	if err != nil {
		return nil, r.handlePostgresError("find featured content", err)
	}
	defer rows.Close()

	return collectContents(rows)
}

func (r *Repository) Search(ctx context.Context, query editorial.SearchQuery) ([]editorial.Content, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if query.AuthorID != nil {
		addCondition("author_id = $%d", *query.AuthorID)
	}
	if query.State != nil {
		addCondition("state = $%d", *query.State)
	}
	if query.PublishedAfter != nil {
		addCondition("published_at >= $%d", *query.PublishedAfter)
	}
	if query.PublishedBefore != nil {
		addCondition("published_at <= $%d", *query.PublishedBefore)
	}

	sql := `
        SELECT ` + contentColumns + `
        FROM content
        WHERE ` + strings.Join(conditions, " AND ") + `
        ORDER BY published_at DESC NULLS LAST`

	if query.Limit != nil && *query.Limit > 0 {
		args = append(args, *query.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if query.Offset != nil && *query.Offset > 0 {
		args = append(args, *query.Offset)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, r.handlePostgresError("search content", err)
	}
	defer rows.Close()

	return collectContents(rows)
}

func (r *Repository) Save(ctx context.Context, content editorial.Content) error {
	s := content.Snapshot()
	query := `
        INSERT INTO content (` + contentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE SET
            author_id = EXCLUDED.author_id,
            title = EXCLUDED.title,
            body = EXCLUDED.body,
            excerpt = EXCLUDED.excerpt,
            state = EXCLUDED.state,
            published_at = EXCLUDED.published_at,
            updated_at = EXCLUDED.updated_at,
            deleted_at = NULL`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.AuthorID, s.Title, s.Body, s.Excerpt,
		s.State, s.PublishedAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("save content", err)
	}

	return nil
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	state, err := r.currentState(ctx, id)
	if err != nil {
		return err
	}
	if !state.IsPublished() {
		return fmt.Errorf("%w: only published content can be soft-deleted (state: %s)",
			editorial.ErrInvalidOperation, state)
	}

	query := `UPDATE content SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	_, err = r.db.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return r.handlePostgresError("soft delete content", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	state, err := r.currentState(ctx, id)
	if err != nil {
		return err
	}
	if state.IsPublished() {
		return fmt.Errorf("%w: published content cannot be hard-deleted (state: %s)",
			editorial.ErrInvalidOperation, state)
	}

	query := `DELETE FROM content WHERE id = $1`
	_, err = r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	return nil
}

func (r *Repository) CountFeatured(ctx context.Context) (int, error) {
	query := `
        SELECT count(*) FROM (
            SELECT 1 FROM content
            WHERE state = $1 AND deleted_at IS NULL
            LIMIT $2
        ) featured`

	var count int
	err := r.db.QueryRow(ctx, query, editorial.StatePublished, editorial.FeaturedContentLimit).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count featured content", err)
	}
	return count, nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM content WHERE id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, r.handlePostgresError("check content exists", err)
	}
	return exists, nil
}

// currentState fetches the state of a visible record, mapping a missing row
// to ErrNotFound.
func (r *Repository) currentState(ctx context.Context, id uuid.UUID) (editorial.ContentState, error) {
	var state editorial.ContentState
	query := `SELECT state FROM content WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.QueryRow(ctx, query, id).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", editorial.ErrNotFound, id)
		}
		return "", r.handlePostgresError("find content state", err)
	}
	return state, nil
}

func scanSnapshot(row pgx.Row) (editorial.Snapshot, error) {
	var s editorial.Snapshot
	err := row.Scan(&s.ID, &s.AuthorID, &s.Title, &s.Body, &s.Excerpt,
		&s.State, &s.PublishedAt, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func collectContents(rows pgx.Rows) ([]editorial.Content, error) {
	var result []editorial.Content
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, editorial.FromSnapshot(snapshot))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
