// Package localstore keeps uploaded images on the local filesystem, served
// by the site's static handler.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/northpoint/website/content"
)

// Dir is a content.ObjectStorage rooted at a directory.
type Dir struct {
	Root      string // filesystem directory, e.g. "public/uploads"
	URLPrefix string // public URL prefix, e.g. "/public/uploads/"
}

var _ content.ObjectStorage = Dir{}

// New returns a Dir storing files under root and serving them under prefix.
func New(root, prefix string) Dir {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return Dir{Root: root, URLPrefix: prefix}
}

func (d Dir) path(name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean != name || clean == "." || clean == ".." {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(d.Root, clean), nil
}

// Upload implements content.ObjectStorage. Existing objects are not overwritten.
func (d Dir) Upload(ctx context.Context, name, contentType string, body io.Reader) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &content.RawError{Code: content.CodeUniqueViolation, Message: "object already exists: " + name, Status: 409}
		}
		return fmt.Errorf("write image: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("write image: %w", err)
	}
	return f.Close()
}

// Remove implements content.ObjectStorage.
func (d Dir) Remove(ctx context.Context, names ...string) error {
	var errs []error
	for _, name := range names {
		p, err := d.path(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublicURL implements content.ObjectStorage.
func (d Dir) PublicURL(name string) string {
	return d.URLPrefix + url.PathEscape(name)
}

// ObjectName implements content.ObjectStorage.
func (d Dir) ObjectName(publicURL string) string {
	if u, err := url.Parse(publicURL); err == nil {
		publicURL = u.Path
	}
	if !strings.HasPrefix(publicURL, d.URLPrefix) {
		return ""
	}
	return path.Base(publicURL)
}
