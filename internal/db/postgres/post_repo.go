package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"Posterr/internal/core/posts"
)

type postgresPostRepo struct {
	db dbtx
	// conn starts author-lock transactions; nil when the repo is already bound to one
	conn *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db, conn: db}
}

const postColumns = `p.id, p.author_id, p.content, p.type, p.original_post_id, p.created_at`

// Create inserts a new post. ID is generated here; a zero CreatedAt is filled in by the database.
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (id, author_id, content, type, original_post_id, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::timestamptz, NOW()))
		RETURNING id, created_at`

	var createdAt sql.NullTime
	if !post.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: post.CreatedAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		post.AuthorID,
		nullString(post.Content),
		string(post.Type),
		nullString(post.OriginalPostID),
		createdAt,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) || pqErrorCode(err) == invalidTextRepr {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// Count counts posts matching filter
func (r *postgresPostRepo) Count(ctx context.Context, filter posts.PostFilter) (int, error) {
	whereClause, args := buildPostFilter(filter)

	var count int
	query := `SELECT COUNT(*) FROM posts p ` + whereClause
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// List returns posts matching filter, newest first, with their authors and referenced posts
func (r *postgresPostRepo) List(ctx context.Context, filter posts.PostFilter, skip, take int) ([]*posts.PostView, error) {
	whereClause, args := buildPostFilter(filter)
	argCount := len(args) + 1

	query := fmt.Sprintf(`
		SELECT %s,
			u.username, u.joined_at,
			op.id, op.author_id, op.content, op.type, op.original_post_id, op.created_at,
			ou.username
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN posts op ON op.id = p.original_post_id
		LEFT JOIN users ou ON ou.id = op.author_id
		%s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d`,
		postColumns, whereClause, argCount, argCount+1)

	args = append(args, take, skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.Any("error", closeErr))
		}
	}()

	views := []*posts.PostView{}
	for rows.Next() {
		view := &posts.PostView{Author: &posts.AuthorView{}}
		var (
			content, originalPostID                      sql.NullString
			opID, opAuthorID, opContent, opType, opOrigID sql.NullString
			opCreatedAt, joinedAt                        sql.NullTime
			opAuthor                                     sql.NullString
			postType                                     string
		)

		scanErr := rows.Scan(
			&view.ID, &view.AuthorID, &content, &postType, &originalPostID, &view.CreatedAt,
			&view.Author.Username, &joinedAt,
			&opID, &opAuthorID, &opContent, &opType, &opOrigID, &opCreatedAt,
			&opAuthor,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan post: %w", scanErr)
		}

		view.Type = posts.PostType(postType)
		view.Content = stringPtr(content)
		view.OriginalPostID = stringPtr(originalPostID)
		if joinedAt.Valid {
			t := joinedAt.Time
			view.Author.JoinedAt = &t
		}

		if opID.Valid {
			view.OriginalPost = &posts.OriginalPostView{
				Post: posts.Post{
					ID:             opID.String,
					AuthorID:       opAuthorID.String,
					Content:        stringPtr(opContent),
					Type:           posts.PostType(opType.String),
					OriginalPostID: stringPtr(opOrigID),
					CreatedAt:      opCreatedAt.Time,
				},
				Author: &posts.AuthorView{Username: opAuthor.String},
			}
		}

		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return views, nil
}

// WithAuthorLock runs fn inside a transaction holding a per-author advisory lock.
// Concurrent creates for the same author are serialized, so the daily limit
// count and the insert observe a consistent view.
func (r *postgresPostRepo) WithAuthorLock(ctx context.Context, authorID string, fn func(repo posts.Repository) error) error {
	if r.conn == nil {
		return fn(r)
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction",
				slog.String("author_id", authorID), slog.Any("error", rollbackErr))
		}
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, authorID); err != nil {
		return fmt.Errorf("failed to acquire author lock: %w", err)
	}

	if err := fn(&postgresPostRepo{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// buildPostFilter renders filter as a WHERE clause over the posts alias p
func buildPostFilter(filter posts.PostFilter) (string, []interface{}) {
	whereClauses := []string{}
	args := []interface{}{}
	argCount := 1

	if filter.AuthorID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("p.author_id = $%d", argCount))
		args = append(args, filter.AuthorID)
		argCount++
	}
	if filter.CreatedFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.created_at >= $%d", argCount))
		args = append(args, *filter.CreatedFrom)
		argCount++
	}
	if filter.CreatedTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.created_at <= $%d", argCount))
		args = append(args, *filter.CreatedTo)
	}

	if len(whereClauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(whereClauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	post := &posts.Post{}
	var content, originalPostID sql.NullString
	var postType string

	if err := row.Scan(&post.ID, &post.AuthorID, &content, &postType, &originalPostID, &post.CreatedAt); err != nil {
		return nil, err
	}

	post.Type = posts.PostType(postType)
	post.Content = stringPtr(content)
	post.OriginalPostID = stringPtr(originalPostID)
	return post, nil
}
