package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// fakeBackend is an in-memory Backend that behaves like the hosted store.
type fakeBackend struct {
	mu       sync.Mutex
	seq      int
	clock    time.Time
	posts    []BlogPost
	images   []UploadedImage
	comments []BlogComment
	calls    int

	failWith error // returned by every call when set
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{clock: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeBackend) next() (string, time.Time) {
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	return fmt.Sprintf("id-%d", f.seq), f.clock
}

func (f *fakeBackend) enter() error {
	f.calls++
	return f.failWith
}

func (f *fakeBackend) ListPosts(ctx context.Context, q PostQuery) ([]BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	var out []BlogPost
	for _, p := range f.posts {
		if q.PublishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBackend) PostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return BlogPost{}, err
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, &RawError{Code: CodeNoRows, Message: "JSON object requested, multiple (or no) rows returned", Status: 406}
}

func (f *fakeBackend) InsertPost(ctx context.Context, p BlogPost) (BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return BlogPost{}, err
	}
	for _, existing := range f.posts {
		if existing.Slug == p.Slug {
			return BlogPost{}, &RawError{Code: CodeUniqueViolation, Message: `duplicate key value violates unique constraint "blog_posts_slug_key"`, Status: 409}
		}
	}
	p.ID, p.CreatedAt = f.next()
	f.posts = append(f.posts, p)
	return p, nil
}

func (f *fakeBackend) UpdatePost(ctx context.Context, id string, patch PostPatch) (BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return BlogPost{}, err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			patch.Apply(&f.posts[i])
			return f.posts[i], nil
		}
	}
	return BlogPost{}, &RawError{Code: CodeNoRows, Message: "no rows", Status: 406}
}

func (f *fakeBackend) DeletePost(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) ListImages(ctx context.Context) ([]UploadedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	out := append([]UploadedImage(nil), f.images...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBackend) InsertImage(ctx context.Context, img UploadedImage) (UploadedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return UploadedImage{}, err
	}
	img.ID, img.CreatedAt = f.next()
	f.images = append(f.images, img)
	return img, nil
}

func (f *fakeBackend) DeleteImage(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return err
	}
	for i := range f.images {
		if f.images[i].ID == id {
			f.images = append(f.images[:i], f.images[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) ListComments(ctx context.Context, q CommentQuery) ([]BlogComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	var out []BlogComment
	for _, c := range f.comments {
		if q.PostSlug != "" && c.PostSlug != q.PostSlug {
			continue
		}
		if q.ApprovedOnly && !c.Approved {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeBackend) InsertComment(ctx context.Context, c BlogComment) (BlogComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return BlogComment{}, err
	}
	c.ID, c.CreatedAt = f.next()
	f.comments = append(f.comments, c)
	return c, nil
}

func (f *fakeBackend) SetCommentApproval(ctx context.Context, id string, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return err
	}
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments[i].Approved = approved
		}
	}
	return nil
}

func (f *fakeBackend) DeleteComment(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return err
	}
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			break
		}
	}
	return nil
}

// fakeStorage is an in-memory ObjectStorage.
type fakeStorage struct {
	objects   map[string]string
	removeErr error
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]string{}}
}

func (s *fakeStorage) Upload(ctx context.Context, name, contentType string, body io.Reader) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[name] = string(b)
	return nil
}

func (s *fakeStorage) Remove(ctx context.Context, names ...string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	for _, n := range names {
		if _, ok := s.objects[n]; !ok {
			return errors.New("object not found: " + n)
		}
		delete(s.objects, n)
	}
	return nil
}

func (s *fakeStorage) PublicURL(name string) string {
	return "https://cdn.example.test/blog-images/" + name
}

func (s *fakeStorage) ObjectName(url string) string {
	return strings.TrimPrefix(url, "https://cdn.example.test/blog-images/")
}
