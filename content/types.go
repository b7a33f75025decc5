package content

import (
	"io"
	"time"
)

// Table and bucket names in the hosted store.
const (
	PostsTable    = "blog_posts"
	ImagesTable   = "uploaded_images"
	CommentsTable = "blog_comments"
	ImageBucket   = "blog-images"
)

// Defaults applied to new posts.
const (
	DefaultAuthor   = "Admin"
	DefaultReadTime = "5 min read"
	DisplayDate     = "January 2, 2006"
)

// BlogPost is a blog entry as stored in the blog_posts table.
type BlogPost struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Date      string    `json:"date"`
	ReadTime  string    `json:"read_time"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Link returns the site-relative path of the post.
func (p BlogPost) Link() string {
	return "/blog/" + p.Slug
}

// PostInput is the payload for creating a post.
type PostInput struct {
	Title     string
	Slug      string
	Excerpt   string
	Content   string
	Author    string
	Date      string
	ReadTime  string
	Tags      []string
	Published bool
}

// PostPatch is a partial update. Only non-nil fields are written.
type PostPatch struct {
	Title     *string   `json:"title,omitempty"`
	Slug      *string   `json:"slug,omitempty"`
	Excerpt   *string   `json:"excerpt,omitempty"`
	Content   *string   `json:"content,omitempty"`
	Author    *string   `json:"author,omitempty"`
	Date      *string   `json:"date,omitempty"`
	ReadTime  *string   `json:"read_time,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Published *bool     `json:"published,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Slug == nil && p.Excerpt == nil && p.Content == nil &&
		p.Author == nil && p.Date == nil && p.ReadTime == nil && p.Tags == nil && p.Published == nil
}

// Apply copies the patched fields onto post.
func (p PostPatch) Apply(post *BlogPost) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Slug != nil {
		post.Slug = *p.Slug
	}
	if p.Excerpt != nil {
		post.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Author != nil {
		post.Author = *p.Author
	}
	if p.Date != nil {
		post.Date = *p.Date
	}
	if p.ReadTime != nil {
		post.ReadTime = *p.ReadTime
	}
	if p.Tags != nil {
		post.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.Published != nil {
		post.Published = *p.Published
	}
}

// UploadedImage is the metadata row for an image in object storage.
type UploadedImage struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadDate string    `json:"upload_date"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// ImageUpload is a binary file handed to UploadImage.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// BlogComment is a visitor comment attached to a post by slug.
type BlogComment struct {
	ID        string    `json:"id,omitempty"`
	PostSlug  string    `json:"post_slug"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CommentInput is the public comment form payload.
type CommentInput struct {
	PostSlug string
	Name     string
	Email    string
	Comment  string
}
