package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northpoint/website/content"
)

var today = time.Date(2024, 7, 9, 16, 0, 0, 0, time.UTC)

func newGenerator(src Source) *Generator {
	g := New("https://www.northpoint-it.co.uk/", src, nil)
	g.Now = func() time.Time { return today }
	return g
}

func parse(t *testing.T, doc []byte) urlSet {
	t.Helper()
	var set urlSet
	require.NoError(t, xml.Unmarshal(doc, &set))
	return set
}

func TestStaticOnlyWhenStoreUnreachable(t *testing.T) {
	g := newGenerator(SourceFunc(func(ctx context.Context) ([]Post, error) {
		return nil, errors.New("Failed to fetch")
	}))

	doc := g.Generate(context.Background())
	require.True(t, bytes.HasPrefix(doc, []byte(xml.Header)))

	set := parse(t, doc)
	assert.Equal(t, Namespace, set.XMLNS)
	require.Len(t, set.URLs, 9)

	wantPaths := []string{"/", "/services", "/services/it-support", "/services/cloud-solutions",
		"/services/cyber-security", "/services/web-development", "/contact", "/projects", "/leeds"}
	for i, u := range set.URLs {
		assert.Equal(t, "https://www.northpoint-it.co.uk"+wantPaths[i], u.Loc)
		assert.Equal(t, "2024-07-09", u.LastMod)
		assert.NotEmpty(t, u.ChangeFreq)
		assert.NotEmpty(t, u.Priority)
	}
	assert.NotContains(t, string(doc), "/blog/")
}

func TestPostsAppendedWithReformattedDates(t *testing.T) {
	g := newGenerator(SourceFunc(func(ctx context.Context) ([]Post, error) {
		return []Post{
			{Slug: "cloud-move", Date: "March 5, 2024"},
			{Slug: "iso-date", Date: "2023-11-30"},
			{Slug: "garbled", Date: "sometime last year"},
		}, nil
	}))

	set := parse(t, g.Generate(context.Background()))
	require.Len(t, set.URLs, 12)

	posts := set.URLs[9:]
	assert.Equal(t, "https://www.northpoint-it.co.uk/blog/cloud-move", posts[0].Loc)
	assert.Equal(t, "2024-03-05", posts[0].LastMod)
	assert.Equal(t, "2023-11-30", posts[1].LastMod)
	assert.Equal(t, "2024-07-09", posts[2].LastMod)
	for _, p := range posts {
		assert.Equal(t, "monthly", p.ChangeFreq)
		assert.Equal(t, "0.6", p.Priority)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	src := SourceFunc(func(ctx context.Context) ([]Post, error) {
		return []Post{{Slug: "a", Date: "January 2, 2024"}, {Slug: "b", Date: "February 3, 2024"}}, nil
	})
	g := newGenerator(src)

	first := g.Generate(context.Background())
	second := g.Generate(context.Background())
	assert.Equal(t, string(first), string(second))
}

func TestEscapesSlugs(t *testing.T) {
	g := newGenerator(SourceFunc(func(ctx context.Context) ([]Post, error) {
		return []Post{{Slug: "q&a", Date: "January 2, 2024"}}, nil
	}))
	doc := string(g.Generate(context.Background()))
	assert.True(t, strings.Contains(doc, "/blog/q&amp;a"))
}

type fakeLister struct {
	listing content.Listing[content.BlogPost]
}

func (f fakeLister) ListPublishedPosts(ctx context.Context) content.Listing[content.BlogPost] {
	return f.listing
}

func TestContentSource(t *testing.T) {
	src := ContentSource(fakeLister{listing: content.Listing[content.BlogPost]{
		Items: []content.BlogPost{{Slug: "x", Date: "May 1, 2024", Published: true}},
	}})
	posts, err := src.PublishedPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Post{{Slug: "x", Date: "May 1, 2024"}}, posts)

	degraded := ContentSource(fakeLister{listing: content.Listing[content.BlogPost]{
		Items:  []content.BlogPost{},
		Status: content.StatusDegraded,
		Err:    &content.Error{Kind: content.ConnectionFailed, Message: "down"},
	}})
	_, err = degraded.PublishedPosts(context.Background())
	assert.Error(t, err)
}
