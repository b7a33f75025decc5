package content

import (
	"context"
	"io"
)

// PostQuery selects posts. Results are ordered by creation time, newest first.
type PostQuery struct {
	PublishedOnly bool
}

// CommentQuery selects comments. PostSlug and ApprovedOnly are optional filters.
type CommentQuery struct {
	PostSlug     string
	ApprovedOnly bool
	Ascending    bool
}

// Backend is the hosted relational store as seen by the Content Access Layer.
// Implementations return *RawError (or a network error) on failure so the
// classifier sees one error shape regardless of transport.
type Backend interface {
	ListPosts(ctx context.Context, q PostQuery) ([]BlogPost, error)
	PostBySlug(ctx context.Context, slug string) (BlogPost, error)
	InsertPost(ctx context.Context, p BlogPost) (BlogPost, error)
	UpdatePost(ctx context.Context, id string, patch PostPatch) (BlogPost, error)
	DeletePost(ctx context.Context, id string) error

	ListImages(ctx context.Context) ([]UploadedImage, error)
	InsertImage(ctx context.Context, img UploadedImage) (UploadedImage, error)
	DeleteImage(ctx context.Context, id string) error

	ListComments(ctx context.Context, q CommentQuery) ([]BlogComment, error)
	InsertComment(ctx context.Context, c BlogComment) (BlogComment, error)
	SetCommentApproval(ctx context.Context, id string, approved bool) error
	DeleteComment(ctx context.Context, id string) error
}

// ObjectStorage is the bucket holding uploaded image files.
type ObjectStorage interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) error
	Remove(ctx context.Context, names ...string) error
	PublicURL(name string) string
	// ObjectName recovers the object name from a public URL.
	ObjectName(url string) string
}
