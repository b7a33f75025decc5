// Package supabase talks to the hosted store over its REST interfaces:
// PostgREST for the blog tables and the storage API for the image bucket.
package supabase

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/northpoint/website/content"
)

var (
	// ErrNotConfigured is returned when the URL or key is missing.
	ErrNotConfigured = errors.New("supabase: url and anon key are required")
	// ErrInvalidURL is returned for a URL that is not absolute http(s).
	ErrInvalidURL = errors.New("supabase: invalid project url")
	// ErrPrivilegedKey is returned when a service-role key is passed where the public key belongs.
	ErrPrivilegedKey = errors.New("supabase: refusing to use a privileged service key as the public key")
)

// Config holds the project credentials.
type Config struct {
	URL        string
	AnonKey    string
	HTTPClient *http.Client
}

// Client is an authenticated REST client scoped to one project and key.
type Client struct {
	base   *url.URL
	key    string
	http   *http.Client
	bucket string
}

// New validates cfg and returns a Client that uses the public key.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" || strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, ErrNotConfigured
	}
	if IsPrivilegedKey(cfg.AnonKey) {
		return nil, ErrPrivilegedKey
	}
	return newClient(cfg.URL, cfg.AnonKey, cfg.HTTPClient)
}

func newClient(rawURL, key string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(rawURL), "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: u, key: strings.TrimSpace(key), http: hc, bucket: content.ImageBucket}, nil
}

// IsPrivilegedKey reports whether key is a service-role key: either a
// secret-format key or a JWT whose role claim is service_role.
func IsPrivilegedKey(key string) bool {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "sb_secret_") {
		return true
	}
	parts := strings.Split(key, ".")
	if len(parts) != 3 {
		return false
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return false
	}
	var claims struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return false
	}
	return claims.Role == "service_role"
}

func (c *Client) endpoint(p string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + p
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    io.Reader
	headers map[string]string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), r.body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	if r.body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// decodeError turns an error response into a content.RawError. PostgREST
// sends {code,message,details,hint}; the storage API sends
// {statusCode,error,message}.
func decodeError(status int, body []byte) error {
	var payload struct {
		Code       json.RawMessage `json:"code"`
		Message    string          `json:"message"`
		Details    json.RawMessage `json:"details"`
		Hint       string          `json:"hint"`
		Error      string          `json:"error"`
		StatusCode json.RawMessage `json:"statusCode"`
	}
	raw := &content.RawError{Status: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		raw.Code = rawString(payload.Code)
		raw.Message = payload.Message
		raw.Details = rawString(payload.Details)
		raw.Hint = payload.Hint
		if raw.Message == "" {
			raw.Message = payload.Error
		}
	} else if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 512 {
		raw.Message = msg
	}
	if raw.Message == "" {
		raw.Message = http.StatusText(status)
	}
	return raw
}

// rawString accepts a JSON string or number.
func rawString(m json.RawMessage) string {
	if len(m) == 0 || string(m) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}
	return string(m)
}
