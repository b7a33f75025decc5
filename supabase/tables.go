package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/northpoint/website/content"
)

const (
	preferRepresentation = "return=representation"
	singleObject         = "application/vnd.pgrst.object+json"
)

var _ content.Backend = (*Client)(nil)

type postRow struct {
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Author    string   `json:"author"`
	Date      string   `json:"date"`
	ReadTime  string   `json:"read_time"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

type imageRow struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	UploadDate string `json:"upload_date"`
}

type commentRow struct {
	PostSlug string `json:"post_slug"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Comment  string `json:"comment"`
	Approved bool   `json:"approved"`
}

func jsonBody(v any) (*bytes.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func (c *Client) insert(ctx context.Context, table string, row, out any) error {
	body, err := jsonBody(row)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/rest/v1/" + table,
		body:    body,
		headers: map[string]string{"Prefer": preferRepresentation, "Accept": singleObject},
	}, out)
}

func (c *Client) deleteByID(ctx context.Context, table, id string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/rest/v1/" + table,
		query:  url.Values{"id": {"eq." + id}},
	}, nil)
}

// ListPosts implements content.Backend.
func (c *Client) ListPosts(ctx context.Context, q content.PostQuery) ([]content.BlogPost, error) {
	query := url.Values{"select": {"*"}, "order": {"created_at.desc"}}
	if q.PublishedOnly {
		query.Set("published", "eq.true")
	}
	var posts []content.BlogPost
	err := c.do(ctx, request{method: http.MethodGet, path: "/rest/v1/" + content.PostsTable, query: query}, &posts)
	return posts, err
}

// PostBySlug implements content.Backend. PostgREST answers a single-object
// request with no matching row with code PGRST116.
func (c *Client) PostBySlug(ctx context.Context, slug string) (content.BlogPost, error) {
	var post content.BlogPost
	err := c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/rest/v1/" + content.PostsTable,
		query:   url.Values{"select": {"*"}, "slug": {"eq." + slug}},
		headers: map[string]string{"Accept": singleObject},
	}, &post)
	return post, err
}

// InsertPost implements content.Backend.
func (c *Client) InsertPost(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	var created content.BlogPost
	err := c.insert(ctx, content.PostsTable, postRow{
		Title: p.Title, Slug: p.Slug, Excerpt: p.Excerpt, Content: p.Content,
		Author: p.Author, Date: p.Date, ReadTime: p.ReadTime, Tags: tags, Published: p.Published,
	}, &created)
	return created, err
}

// UpdatePost implements content.Backend.
func (c *Client) UpdatePost(ctx context.Context, id string, patch content.PostPatch) (content.BlogPost, error) {
	body, err := jsonBody(patch)
	if err != nil {
		return content.BlogPost{}, err
	}
	var updated content.BlogPost
	err = c.do(ctx, request{
		method:  http.MethodPatch,
		path:    "/rest/v1/" + content.PostsTable,
		query:   url.Values{"id": {"eq." + id}},
		body:    body,
		headers: map[string]string{"Prefer": preferRepresentation, "Accept": singleObject},
	}, &updated)
	return updated, err
}

// DeletePost implements content.Backend.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.deleteByID(ctx, content.PostsTable, id)
}

// ListImages implements content.Backend.
func (c *Client) ListImages(ctx context.Context) ([]content.UploadedImage, error) {
	var images []content.UploadedImage
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/" + content.ImagesTable,
		query:  url.Values{"select": {"*"}, "order": {"created_at.desc"}},
	}, &images)
	return images, err
}

// InsertImage implements content.Backend.
func (c *Client) InsertImage(ctx context.Context, img content.UploadedImage) (content.UploadedImage, error) {
	var created content.UploadedImage
	err := c.insert(ctx, content.ImagesTable, imageRow{Name: img.Name, URL: img.URL, UploadDate: img.UploadDate}, &created)
	return created, err
}

// DeleteImage implements content.Backend.
func (c *Client) DeleteImage(ctx context.Context, id string) error {
	return c.deleteByID(ctx, content.ImagesTable, id)
}

// ListComments implements content.Backend.
func (c *Client) ListComments(ctx context.Context, q content.CommentQuery) ([]content.BlogComment, error) {
	order := "created_at.desc"
	if q.Ascending {
		order = "created_at.asc"
	}
	query := url.Values{"select": {"*"}, "order": {order}}
	if q.PostSlug != "" {
		query.Set("post_slug", "eq."+q.PostSlug)
	}
	if q.ApprovedOnly {
		query.Set("approved", "eq.true")
	}
	var comments []content.BlogComment
	err := c.do(ctx, request{method: http.MethodGet, path: "/rest/v1/" + content.CommentsTable, query: query}, &comments)
	return comments, err
}

// InsertComment implements content.Backend.
func (c *Client) InsertComment(ctx context.Context, cm content.BlogComment) (content.BlogComment, error) {
	var created content.BlogComment
	err := c.insert(ctx, content.CommentsTable, commentRow{
		PostSlug: cm.PostSlug, Name: cm.Name, Email: cm.Email, Comment: cm.Comment, Approved: cm.Approved,
	}, &created)
	return created, err
}

// SetCommentApproval implements content.Backend.
func (c *Client) SetCommentApproval(ctx context.Context, id string, approved bool) error {
	body, err := jsonBody(map[string]bool{"approved": approved})
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/" + content.CommentsTable,
		query:  url.Values{"id": {"eq." + id}},
		body:   body,
	}, nil)
}

// DeleteComment implements content.Backend.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.deleteByID(ctx, content.CommentsTable, id)
}
