// Package content is the data-access layer for blog posts, uploaded images
// and comments. Every operation is a single round trip to the hosted store;
// failures are classified into a fixed taxonomy and each operation applies
// its own policy: listings degrade to empty, lookups report a miss, writes
// return the classified error.
package content

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Status explains why a Listing holds what it holds.
type Status int

const (
	// StatusOK means the store answered; an empty listing is genuinely empty.
	StatusOK Status = iota
	// StatusDegraded means the store failed and the listing is empty because of it.
	StatusDegraded
	// StatusUnconfigured means no store is configured.
	StatusUnconfigured
)

// Listing is the result of a read that never fails.
type Listing[T any] struct {
	Items  []T
	Status Status
	Err    *Error
}

// Degraded reports whether the listing is empty because the store failed.
func (l Listing[T]) Degraded() bool { return l.Status == StatusDegraded }

// Lookup is the result of a single-entity read. A NOT_FOUND failure is a
// quiet miss (Found false, Err nil); any other failure is reported in Err.
type Lookup[T any] struct {
	Value T
	Found bool
	Err   *Error
}

// Service is the Content Access Layer.
type Service struct {
	backend    Backend
	storage    ObjectStorage
	classifier Classifier
	log        *zap.SugaredLogger
	now        func() time.Time
	onError    func(op string, kind Kind)

	unconfigured string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClassifier replaces the default RuleClassifier.
func WithClassifier(c Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithClock sets the time source used for default dates and object names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithErrorHook registers a callback invoked for every classified failure.
func WithErrorHook(fn func(op string, kind Kind)) Option {
	return func(s *Service) {
		s.onError = fn
	}
}

// NewService returns a configured Service. storage may be nil when image
// uploads are not needed.
func NewService(backend Backend, storage ObjectStorage, opts ...Option) *Service {
	s := newService(opts)
	s.backend = backend
	s.storage = storage
	return s
}

// Unconfigured returns a Service with no store behind it. Every operation is
// a logged no-op returning the operation's empty value.
func Unconfigured(reason string, opts ...Option) *Service {
	s := newService(opts)
	if reason == "" {
		reason = "content store not configured"
	}
	s.unconfigured = reason
	return s
}

func newService(opts []Option) *Service {
	s := &Service{
		classifier: RuleClassifier{},
		log:        zap.NewNop().Sugar(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether a store backs the service.
func (s *Service) Configured() bool { return s.unconfigured == "" }

// Reason returns why the service is unconfigured, or "".
func (s *Service) Reason() string { return s.unconfigured }

func (s *Service) skip(op string) bool {
	if s.Configured() {
		return false
	}
	s.log.Warnw("content store not configured; skipping", "op", op, "reason", s.unconfigured)
	return true
}

func (s *Service) classify(op string, err error) *Error {
	ce := s.classifier.Classify(err)
	s.log.Errorw("content store error", "op", op, "kind", ce.Kind, "message", ce.Message, "error", err)
	if s.onError != nil {
		s.onError(op, ce.Kind)
	}
	return ce
}

func listing[T any](s *Service, op string, items []T, err error) Listing[T] {
	if err != nil {
		return Listing[T]{Items: []T{}, Status: StatusDegraded, Err: s.classify(op, err)}
	}
	if items == nil {
		items = []T{}
	}
	return Listing[T]{Items: items, Status: StatusOK}
}

func unconfiguredListing[T any]() Listing[T] {
	return Listing[T]{Items: []T{}, Status: StatusUnconfigured}
}

// ListPublishedPosts returns published posts, newest first.
func (s *Service) ListPublishedPosts(ctx context.Context) Listing[BlogPost] {
	if s.skip("list published posts") {
		return unconfiguredListing[BlogPost]()
	}
	posts, err := s.backend.ListPosts(ctx, PostQuery{PublishedOnly: true})
	if err == nil {
		posts = publishedOnly(posts)
	}
	return listing(s, "list published posts", posts, err)
}

// ListAllPosts returns every post including drafts, newest first.
func (s *Service) ListAllPosts(ctx context.Context) Listing[BlogPost] {
	if s.skip("list all posts") {
		return unconfiguredListing[BlogPost]()
	}
	posts, err := s.backend.ListPosts(ctx, PostQuery{})
	return listing(s, "list all posts", posts, err)
}

// PostBySlug looks a post up by slug regardless of its published flag.
func (s *Service) PostBySlug(ctx context.Context, slug string) Lookup[BlogPost] {
	slug = strings.TrimSpace(slug)
	if slug == "" || s.skip("get post by slug") {
		return Lookup[BlogPost]{}
	}
	post, err := s.backend.PostBySlug(ctx, slug)
	if err != nil {
		ce := s.classify("get post by slug", err)
		if ce.Kind == NotFound {
			return Lookup[BlogPost]{}
		}
		return Lookup[BlogPost]{Err: ce}
	}
	return Lookup[BlogPost]{Value: post, Found: true}
}

// CreatePost validates and normalises in, then inserts it.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (BlogPost, error) {
	post := BlogPost{
		Title:     strings.TrimSpace(in.Title),
		Slug:      strings.TrimSpace(in.Slug),
		Excerpt:   strings.TrimSpace(in.Excerpt),
		Content:   strings.TrimSpace(in.Content),
		Author:    strings.TrimSpace(in.Author),
		Date:      strings.TrimSpace(in.Date),
		ReadTime:  strings.TrimSpace(in.ReadTime),
		Tags:      cleanTags(in.Tags),
		Published: in.Published,
	}
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"title", post.Title}, {"slug", post.Slug}, {"excerpt", post.Excerpt}, {"content", post.Content},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		ce := missingFields(missing)
		s.log.Warnw("rejected post", "op", "create post", "missing", missing)
		return BlogPost{}, ce
	}
	if post.Author == "" {
		post.Author = DefaultAuthor
	}
	if post.Date == "" {
		post.Date = s.now().Format(DisplayDate)
	}
	if post.ReadTime == "" {
		post.ReadTime = DefaultReadTime
	}
	if s.skip("create post") {
		return BlogPost{}, nil
	}

	s.log.Infow("creating post", "slug", post.Slug, "published", post.Published)
	created, err := s.backend.InsertPost(ctx, post)
	if err != nil {
		return BlogPost{}, s.classify("create post", err)
	}
	s.log.Infow("created post", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdatePost applies patch to the post with the given id.
func (s *Service) UpdatePost(ctx context.Context, id string, patch PostPatch) (BlogPost, error) {
	if patch.Empty() {
		return BlogPost{}, &Error{Kind: ValidationError, Message: "No fields to update."}
	}
	if missing := s.normalisePatch(&patch); len(missing) > 0 {
		s.log.Warnw("rejected post", "op", "update post", "id", id, "missing", missing)
		return BlogPost{}, missingFields(missing)
	}
	if s.skip("update post") {
		return BlogPost{}, nil
	}
	s.log.Infow("updating post", "id", id)
	updated, err := s.backend.UpdatePost(ctx, id, patch)
	if err != nil {
		return BlogPost{}, s.classify("update post", err)
	}
	s.log.Infow("updated post", "id", updated.ID, "slug", updated.Slug, "published", updated.Published)
	return updated, nil
}

// normalisePatch trims the patched strings the way CreatePost trims its
// input. A required field may not be blanked; a blanked optional field gets
// the default CreatePost would have used.
func (s *Service) normalisePatch(p *PostPatch) []string {
	fields := []struct {
		name     string
		val      **string
		fallback func() string
	}{
		{"title", &p.Title, nil},
		{"slug", &p.Slug, nil},
		{"excerpt", &p.Excerpt, nil},
		{"content", &p.Content, nil},
		{"author", &p.Author, func() string { return DefaultAuthor }},
		{"date", &p.Date, func() string { return s.now().Format(DisplayDate) }},
		{"read_time", &p.ReadTime, func() string { return DefaultReadTime }},
	}
	var missing []string
	for _, f := range fields {
		if *f.val == nil {
			continue
		}
		v := strings.TrimSpace(**f.val)
		if v == "" {
			if f.fallback == nil {
				missing = append(missing, f.name)
				continue
			}
			v = f.fallback()
		}
		*f.val = &v
	}
	if p.Tags != nil {
		tags := cleanTags(*p.Tags)
		p.Tags = &tags
	}
	return missing
}

// DeletePost removes the post with the given id.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	if s.skip("delete post") {
		return nil
	}
	if err := s.backend.DeletePost(ctx, id); err != nil {
		return s.classify("delete post", err)
	}
	return nil
}

// ListImages returns uploaded image metadata, newest first.
func (s *Service) ListImages(ctx context.Context) Listing[UploadedImage] {
	if s.skip("list images") {
		return unconfiguredListing[UploadedImage]()
	}
	images, err := s.backend.ListImages(ctx)
	return listing(s, "list images", images, err)
}

// UploadImage writes the file to object storage as {epoch-millis}-{filename}
// and records its metadata.
func (s *Service) UploadImage(ctx context.Context, up ImageUpload) (UploadedImage, error) {
	if s.skip("upload image") {
		return UploadedImage{}, nil
	}
	if s.storage == nil {
		return UploadedImage{}, s.classify("upload image", fmt.Errorf("object storage not configured"))
	}
	original := path.Base(strings.ReplaceAll(up.Filename, "\\", "/"))
	if original == "." || original == "/" || original == "" {
		return UploadedImage{}, missingFields([]string{"file"})
	}
	now := s.now()
	name := fmt.Sprintf("%d-%s", now.UnixMilli(), original)
	if err := s.storage.Upload(ctx, name, up.ContentType, up.Body); err != nil {
		return UploadedImage{}, s.classify("upload image", err)
	}

	img, err := s.backend.InsertImage(ctx, UploadedImage{
		Name:       original,
		URL:        s.storage.PublicURL(name),
		UploadDate: now.Format(DisplayDate),
	})
	if err != nil {
		ce := s.classify("save image metadata", err)
		return UploadedImage{}, &Error{
			Kind:    ce.Kind,
			Message: "Image uploaded but failed to save metadata: " + ce.Message,
			Err:     ce,
		}
	}
	return img, nil
}

// DeleteImage removes the stored object (best effort) and then the metadata row.
func (s *Service) DeleteImage(ctx context.Context, id, url string) error {
	if s.skip("delete image") {
		return nil
	}
	if s.storage != nil {
		if name := s.storage.ObjectName(url); name != "" {
			if err := s.storage.Remove(ctx, name); err != nil {
				s.log.Warnw("image storage removal failed; deleting metadata anyway", "id", id, "object", name, "error", err)
			}
		}
	}
	if err := s.backend.DeleteImage(ctx, id); err != nil {
		return s.classify("delete image", err)
	}
	return nil
}

// ApprovedComments returns approved comments for a post, oldest first.
func (s *Service) ApprovedComments(ctx context.Context, slug string) Listing[BlogComment] {
	if s.skip("list approved comments") {
		return unconfiguredListing[BlogComment]()
	}
	comments, err := s.backend.ListComments(ctx, CommentQuery{PostSlug: slug, ApprovedOnly: true, Ascending: true})
	if err == nil {
		kept := comments[:0]
		for _, c := range comments {
			if c.Approved && c.PostSlug == slug {
				kept = append(kept, c)
			}
		}
		comments = kept
	}
	return listing(s, "list approved comments", comments, err)
}

// CreateComment stores a visitor comment. Comments are approved on creation;
// there is no moderation queue.
func (s *Service) CreateComment(ctx context.Context, in CommentInput) (BlogComment, error) {
	c := BlogComment{
		PostSlug: strings.TrimSpace(in.PostSlug),
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Comment:  strings.TrimSpace(in.Comment),
		Approved: true,
	}
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"post_slug", c.PostSlug}, {"name", c.Name}, {"email", c.Email}, {"comment", c.Comment},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return BlogComment{}, missingFields(missing)
	}
	if s.skip("create comment") {
		return BlogComment{}, nil
	}
	created, err := s.backend.InsertComment(ctx, c)
	if err != nil {
		return BlogComment{}, s.classify("create comment", err)
	}
	return created, nil
}

// AllComments returns every comment, newest first.
func (s *Service) AllComments(ctx context.Context) Listing[BlogComment] {
	if s.skip("list all comments") {
		return unconfiguredListing[BlogComment]()
	}
	comments, err := s.backend.ListComments(ctx, CommentQuery{})
	return listing(s, "list all comments", comments, err)
}

// SetCommentApproval sets the approved flag of a comment.
func (s *Service) SetCommentApproval(ctx context.Context, id string, approved bool) error {
	if s.skip("set comment approval") {
		return nil
	}
	if err := s.backend.SetCommentApproval(ctx, id, approved); err != nil {
		return s.classify("set comment approval", err)
	}
	return nil
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	if s.skip("delete comment") {
		return nil
	}
	if err := s.backend.DeleteComment(ctx, id); err != nil {
		return s.classify("delete comment", err)
	}
	return nil
}

func publishedOnly(posts []BlogPost) []BlogPost {
	kept := posts[:0]
	for _, p := range posts {
		if p.Published {
			kept = append(kept, p)
		}
	}
	return kept
}

func cleanTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
