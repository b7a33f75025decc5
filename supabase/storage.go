package supabase

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/northpoint/website/content"
)

var _ content.ObjectStorage = (*Client)(nil)

// Upload implements content.ObjectStorage.
func (c *Client) Upload(ctx context.Context, name, contentType string, body io.Reader) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/storage/v1/object/" + c.bucket + "/" + name,
		body:   body,
		headers: map[string]string{
			"Content-Type":  contentType,
			"Cache-Control": "max-age=3600",
			"x-upsert":      "false",
		},
	}, nil)
}

// Remove implements content.ObjectStorage.
func (c *Client) Remove(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	body, err := jsonBody(map[string][]string{"prefixes": names})
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/storage/v1/object/" + c.bucket,
		body:   body,
	}, nil)
}

// PublicURL implements content.ObjectStorage.
func (c *Client) PublicURL(name string) string {
	return c.endpoint("/storage/v1/object/public/"+c.bucket+"/"+name, nil)
}

// ObjectName implements content.ObjectStorage.
func (c *Client) ObjectName(publicURL string) string {
	marker := "/" + c.bucket + "/"
	i := strings.LastIndex(publicURL, marker)
	if i < 0 {
		return ""
	}
	name := publicURL[i+len(marker):]
	if j := strings.IndexAny(name, "?#"); j >= 0 {
		name = name[:j]
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}
