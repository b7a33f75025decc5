package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/northpoint/website/content"
	"github.com/northpoint/website/sitemap"
)

// ServerPosts reads published post slugs and dates with the privileged
// service key. It must only run server side.
type ServerPosts struct {
	client *Client
}

var _ sitemap.Source = (*ServerPosts)(nil)

// NewServerPosts returns a sitemap source authenticated with serviceKey.
func NewServerPosts(rawURL, serviceKey string, hc *http.Client) (*ServerPosts, error) {
	if strings.TrimSpace(rawURL) == "" || strings.TrimSpace(serviceKey) == "" {
		return nil, errors.New("supabase: url and service key are required for server-side reads")
	}
	c, err := newClient(rawURL, serviceKey, hc)
	if err != nil {
		return nil, err
	}
	return &ServerPosts{client: c}, nil
}

// PublishedPosts implements sitemap.Source.
func (s *ServerPosts) PublishedPosts(ctx context.Context) ([]sitemap.Post, error) {
	var posts []sitemap.Post
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/" + content.PostsTable,
		query: url.Values{
			"select":    {"slug,date"},
			"published": {"eq.true"},
			"order":     {"created_at.desc"},
		},
	}, &posts)
	return posts, err
}
