package sqlitestore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/northpoint/website/content"
)

const postColumns = `id, title, slug, excerpt, content, author, date, read_time, tags, published, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (content.BlogPost, error) {
	var p content.BlogPost
	var tags, created string
	var published int
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Author, &p.Date, &p.ReadTime, &tags, &published, &created); err != nil {
		return content.BlogPost{}, err
	}
	p.Tags = decodeTags(tags)
	p.Published = published == 1
	p.CreatedAt = parseTime(created)
	return p, nil
}

// ListPosts implements content.Backend.
func (s *Store) ListPosts(ctx context.Context, q content.PostQuery) ([]content.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts`
	if q.PublishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var posts []content.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, translate(err)
		}
		posts = append(posts, p)
	}
	return posts, translate(rows.Err())
}

// PostBySlug implements content.Backend.
func (s *Store) PostBySlug(ctx context.Context, slug string) (content.BlogPost, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug = ?`, slug))
	return p, translate(err)
}

func (s *Store) postByID(ctx context.Context, id string) (content.BlogPost, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = ?`, id))
	return p, translate(err)
}

// InsertPost implements content.Backend.
func (s *Store) InsertPost(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	id := uuid.NewString()
	created, _ := s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Title, p.Slug, p.Excerpt, p.Content, p.Author, p.Date, p.ReadTime, encodeTags(p.Tags), boolInt(p.Published), created)
	if err != nil {
		return content.BlogPost{}, translate(err)
	}
	return s.postByID(ctx, id)
}

// UpdatePost implements content.Backend. Only the patched columns change.
func (s *Store) UpdatePost(ctx context.Context, id string, patch content.PostPatch) (content.BlogPost, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Excerpt != nil {
		add("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Author != nil {
		add("author", *patch.Author)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.ReadTime != nil {
		add("read_time", *patch.ReadTime)
	}
	if patch.Tags != nil {
		add("tags", encodeTags(*patch.Tags))
	}
	if patch.Published != nil {
		add("published", boolInt(*patch.Published))
	}
	if len(sets) == 0 {
		return s.postByID(ctx, id)
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `UPDATE blog_posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return content.BlogPost{}, translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return content.BlogPost{}, translate(sql.ErrNoRows)
	}
	return s.postByID(ctx, id)
}

// DeletePost implements content.Backend. Deleting a missing id is not an error.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	return translate(err)
}
