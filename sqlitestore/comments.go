package sqlitestore

import (
	"context"

	"github.com/google/uuid"

	"github.com/northpoint/website/content"
)

// ListComments implements content.Backend.
func (s *Store) ListComments(ctx context.Context, q content.CommentQuery) ([]content.BlogComment, error) {
	query := `SELECT id, post_slug, name, email, comment, approved, created_at FROM blog_comments WHERE 1 = 1`
	var args []any
	if q.PostSlug != "" {
		query += ` AND post_slug = ?`
		args = append(args, q.PostSlug)
	}
	if q.ApprovedOnly {
		query += ` AND approved = 1`
	}
	if q.Ascending {
		query += ` ORDER BY created_at ASC, rowid ASC`
	} else {
		query += ` ORDER BY created_at DESC, rowid DESC`
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var comments []content.BlogComment
	for rows.Next() {
		var c content.BlogComment
		var approved int
		var created string
		if err := rows.Scan(&c.ID, &c.PostSlug, &c.Name, &c.Email, &c.Comment, &approved, &created); err != nil {
			return nil, translate(err)
		}
		c.Approved = approved == 1
		c.CreatedAt = parseTime(created)
		comments = append(comments, c)
	}
	return comments, translate(rows.Err())
}

// InsertComment implements content.Backend.
func (s *Store) InsertComment(ctx context.Context, c content.BlogComment) (content.BlogComment, error) {
	c.ID = uuid.NewString()
	var created string
	created, c.CreatedAt = s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_comments (id, post_slug, name, email, comment, approved, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.PostSlug, c.Name, c.Email, c.Comment, boolInt(c.Approved), created)
	if err != nil {
		return content.BlogComment{}, translate(err)
	}
	return c, nil
}

// SetCommentApproval implements content.Backend.
func (s *Store) SetCommentApproval(ctx context.Context, id string, approved bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE blog_comments SET approved = ? WHERE id = ?`, boolInt(approved), id)
	return translate(err)
}

// DeleteComment implements content.Backend.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blog_comments WHERE id = ?`, id)
	return translate(err)
}
