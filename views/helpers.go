package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/northpoint/website/content"
)

// buildURL joins path segments onto a base URL. An empty path becomes "/".
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// RelatedPosts returns up to limit posts sharing a tag with current.
func RelatedPosts(current content.BlogPost, posts []content.BlogPost, limit int) []content.BlogPost {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := strings.ToLower(strings.TrimSpace(t)); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []content.BlogPost
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[strings.ToLower(strings.TrimSpace(t))]; ok {
				related = append(related, p)
				break
			}
		}
		if len(related) == limit {
			break
		}
	}
	return related
}

// JoinTags formats a tag slice for a form field.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// OrganizationJsonLD produces a Schema.org ProfessionalService block for the business.
func OrganizationJsonLD(cfg SiteConfig) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "ProfessionalService",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
		"areaServed": map[string]string{
			"@type": "City",
			"name":  "Leeds",
		},
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.BlogPost) string {
	postURL := buildURL(cfg.URL, "blog", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.Date,
		"url":           postURL,
		"author": map[string]string{
			"@type": "Person",
			"name":  post.Author,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
