package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

// PostRepository reads and updates CMS content items.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Get loads a post by id.
func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	const q = `
SELECT id, post_type, title, status, published_at, parent_id, is_revision
FROM posts
WHERE id = $1;
`
	p, err := scanPost(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return p, nil
}

// UpdateContent changes the title and status of a post. The publish date is
// stamped the first time the post reaches the publish status and kept after.
func (r *PostRepository) UpdateContent(ctx context.Context, id int64, title, status string) (*domain.Post, error) {
	const q = `
UPDATE posts
SET title = $2,
    status = $3,
    published_at = CASE WHEN $3 = 'publish' AND published_at IS NULL THEN now() ELSE published_at END
WHERE id = $1
RETURNING id, post_type, title, status, published_at, parent_id, is_revision;
`
	p, err := scanPost(r.db.QueryRowContext(ctx, q, id, title, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}
	return p, nil
}

// ListPublishedIDs returns the ids of published, non-revision posts of a type.
func (r *PostRepository) ListPublishedIDs(ctx context.Context, postType string) ([]int64, error) {
	const q = `
SELECT id
FROM posts
WHERE post_type = $1 AND status = 'publish' AND is_revision = false
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q, postType)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	out := make([]int64, 0, 64)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPost(row *sql.Row) (*domain.Post, error) {
	var (
		p           domain.Post
		publishedAt sql.NullTime
		parentID    sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Type, &p.Title, &p.Status, &publishedAt, &parentID, &p.IsRevision); err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}
	p.ParentID = parentID.Int64
	return &p, nil
}
