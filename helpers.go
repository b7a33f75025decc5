package website

import (
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if len(pathSegments) > 0 {
		u.Path = path.Join(u.Path, path.Join(pathSegments...))
	}
	return u.String()
}

// SplitTags splits a comma-separated tag field, dropping empty entries.
func SplitTags(s string) []string {
	out := []string{}
	for _, v := range strings.Split(s, ",") {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SafeNext returns target if it is a local admin path, otherwise "/admin".
// It rejects absolute and protocol-relative URLs so login cannot be used as
// an open redirect.
func SafeNext(target string) string {
	const fallback = "/admin"
	if target == "" || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	if u.Path != "/admin" && !strings.HasPrefix(u.Path, "/admin/") {
		return fallback
	}
	return u.RequestURI()
}
