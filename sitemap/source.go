package sitemap

import (
	"context"

	"github.com/northpoint/website/content"
)

// PostLister is the part of content.Service the sitemap reads.
type PostLister interface {
	ListPublishedPosts(ctx context.Context) content.Listing[content.BlogPost]
}

// ContentSource adapts the Content Access Layer to Source. A degraded
// listing is reported as an error.
func ContentSource(l PostLister) Source {
	return SourceFunc(func(ctx context.Context) ([]Post, error) {
		res := l.ListPublishedPosts(ctx)
		if res.Err != nil {
			return nil, res.Err
		}
		posts := make([]Post, 0, len(res.Items))
		for _, p := range res.Items {
			posts = append(posts, Post{Slug: p.Slug, Date: p.Date})
		}
		return posts, nil
	})
}
