package content

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeBackend, *fakeStorage) {
	t.Helper()
	b := newFakeBackend()
	st := newFakeStorage()
	svc := NewService(b, st,
		WithLogger(zaptest.NewLogger(t).Sugar()),
		WithClock(func() time.Time { return fixedNow }),
	)
	return svc, b, st
}

func validInput(slug string) PostInput {
	return PostInput{
		Title:   "  Moving to the cloud  ",
		Slug:    slug,
		Excerpt: "Why small firms should migrate",
		Content: "<p>Start with email.</p>",
	}
}

func TestCreatePostRejectsMissingFieldsBeforeCallingStore(t *testing.T) {
	svc, b, _ := newTestService(t)

	cases := []PostInput{
		{Slug: "a", Excerpt: "e", Content: "c"},
		{Title: "t", Slug: "   ", Excerpt: "e", Content: "c"},
		{Title: "t", Slug: "a", Excerpt: "", Content: "c"},
		{Title: "t", Slug: "a", Excerpt: "e", Content: "\n\t"},
		{},
	}
	for _, in := range cases {
		_, err := svc.CreatePost(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, ValidationError, KindOf(err))
		assert.True(t, strings.HasPrefix(err.Error(), "Missing required fields"), err.Error())
	}
	assert.Zero(t, b.calls, "no store call may happen for invalid payloads")
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	in := validInput(" cloud-move ")
	in.Tags = []string{" cloud ", "", "migration"}
	created, err := svc.CreatePost(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got := svc.PostBySlug(ctx, "cloud-move")
	require.True(t, got.Found)
	require.Nil(t, got.Err)

	p := got.Value
	assert.Equal(t, "Moving to the cloud", p.Title)
	assert.Equal(t, "cloud-move", p.Slug)
	assert.Equal(t, "Why small firms should migrate", p.Excerpt)
	assert.Equal(t, "<p>Start with email.</p>", p.Content)
	assert.Equal(t, DefaultAuthor, p.Author)
	assert.Equal(t, "June 3, 2024", p.Date)
	assert.Equal(t, DefaultReadTime, p.ReadTime)
	assert.Equal(t, []string{"cloud", "migration"}, p.Tags)
	assert.False(t, p.Published)
}

func TestPostBySlugMissIsQuiet(t *testing.T) {
	svc, b, _ := newTestService(t)

	got := svc.PostBySlug(context.Background(), "nope")
	assert.False(t, got.Found)
	assert.Nil(t, got.Err)

	b.failWith = errors.New("Failed to fetch")
	got = svc.PostBySlug(context.Background(), "nope")
	assert.False(t, got.Found)
	require.NotNil(t, got.Err)
	assert.Equal(t, ConnectionFailed, got.Err.Kind)
}

func TestPublishThenList(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.CreatePost(ctx, validInput("draft"))
	require.NoError(t, err)

	listed := svc.ListPublishedPosts(ctx)
	assert.Equal(t, StatusOK, listed.Status)
	assert.Empty(t, listed.Items)
	assert.Len(t, svc.ListAllPosts(ctx).Items, 1)

	published := true
	_, err = svc.UpdatePost(ctx, draft.ID, PostPatch{Published: &published})
	require.NoError(t, err)

	listed = svc.ListPublishedPosts(ctx)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, "draft", listed.Items[0].Slug)
}

func TestListingsDegradeOnStoreFailure(t *testing.T) {
	svc, b, _ := newTestService(t)
	b.failWith = &RawError{Status: 401, Message: "JWT expired"}
	ctx := context.Background()

	posts := svc.ListPublishedPosts(ctx)
	assert.True(t, posts.Degraded())
	assert.NotNil(t, posts.Items)
	assert.Empty(t, posts.Items)
	assert.Equal(t, Unauthorized, posts.Err.Kind)

	assert.True(t, svc.ListAllPosts(ctx).Degraded())
	assert.True(t, svc.ListImages(ctx).Degraded())
	assert.True(t, svc.ApprovedComments(ctx, "x").Degraded())
	assert.True(t, svc.AllComments(ctx).Degraded())
}

func TestWritesReturnClassifiedMessage(t *testing.T) {
	svc, b, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, validInput("dup"))
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, validInput("dup"))
	require.Error(t, err)
	assert.Equal(t, ValidationError, KindOf(err))
	assert.Equal(t, msgValidation, err.Error())

	b.failWith = errors.New("Failed to fetch")
	err = svc.DeletePost(ctx, "id-1")
	assert.Equal(t, msgConnection, err.Error())
	assert.Error(t, svc.DeleteComment(ctx, "id-1"))
	assert.Error(t, svc.SetCommentApproval(ctx, "id-1", false))
}

func TestUpdatePostRequiresAField(t *testing.T) {
	svc, b, _ := newTestService(t)

	_, err := svc.UpdatePost(context.Background(), "id-1", PostPatch{})
	assert.Equal(t, ValidationError, KindOf(err))
	assert.Zero(t, b.calls)
}

func TestUpdatePostNormalisesLikeCreate(t *testing.T) {
	svc, b, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, validInput("cloud-move"))
	require.NoError(t, err)
	calls := b.calls

	blank, empty, spaces := "   ", "", "\n\t"
	_, err = svc.UpdatePost(ctx, created.ID, PostPatch{Title: &blank, Excerpt: &empty, Content: &spaces})
	require.Error(t, err)
	assert.Equal(t, ValidationError, KindOf(err))
	assert.Equal(t, "Missing required fields: title, excerpt, content", err.Error())
	assert.Equal(t, calls, b.calls, "no store call may happen for invalid patches")

	title, slug, author, date, readTime := "  Cloud, revisited ", " cloud-move ", " ", "", "  "
	tags := []string{" cloud ", ""}
	updated, err := svc.UpdatePost(ctx, created.ID, PostPatch{
		Title: &title, Slug: &slug, Author: &author, Date: &date, ReadTime: &readTime, Tags: &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cloud, revisited", updated.Title)
	assert.Equal(t, "cloud-move", updated.Slug)
	assert.Equal(t, DefaultAuthor, updated.Author)
	assert.Equal(t, "June 3, 2024", updated.Date)
	assert.Equal(t, DefaultReadTime, updated.ReadTime)
	assert.Equal(t, []string{"cloud"}, updated.Tags)
	assert.Equal(t, "Why small firms should migrate", updated.Excerpt)
	assert.Equal(t, " cloud-move ", slug, "caller's values are left alone")
}

func TestApprovedCommentsNeverIncludeUnapproved(t *testing.T) {
	svc, b, _ := newTestService(t)
	ctx := context.Background()

	for i, approved := range []bool{true, false, true, false, false, true} {
		b.comments = append(b.comments, BlogComment{
			ID: string(rune('a' + i)), PostSlug: "post", Name: "n", Email: "e@x.io", Comment: "c",
			Approved: approved, CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		})
	}
	// A backend that ignores the approval filter must not leak unapproved rows.
	leaky := &leakyBackend{fakeBackend: b}
	svc.backend = leaky

	got := svc.ApprovedComments(ctx, "post")
	require.Len(t, got.Items, 3)
	for i, c := range got.Items {
		assert.True(t, c.Approved)
		if i > 0 {
			assert.True(t, got.Items[i-1].CreatedAt.Before(c.CreatedAt), "oldest first")
		}
	}
}

type leakyBackend struct {
	*fakeBackend
}

func (l *leakyBackend) ListComments(ctx context.Context, q CommentQuery) ([]BlogComment, error) {
	q.ApprovedOnly = false
	return l.fakeBackend.ListComments(ctx, q)
}

func TestCreateCommentIsAutoApproved(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateComment(ctx, CommentInput{PostSlug: "post", Name: "Sam", Email: "sam@example.com", Comment: "Helpful!"})
	require.NoError(t, err)
	assert.True(t, c.Approved)

	_, err = svc.CreateComment(ctx, CommentInput{PostSlug: "post", Name: "Sam"})
	assert.Equal(t, ValidationError, KindOf(err))

	assert.Len(t, svc.ApprovedComments(ctx, "post").Items, 1)
	all := svc.AllComments(ctx)
	require.Len(t, all.Items, 1)

	require.NoError(t, svc.SetCommentApproval(ctx, c.ID, false))
	assert.Empty(t, svc.ApprovedComments(ctx, "post").Items)
	require.NoError(t, svc.DeleteComment(ctx, c.ID))
	assert.Empty(t, svc.AllComments(ctx).Items)
}

func TestUploadImageNamesObjectWithTimestamp(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	img, err := svc.UploadImage(ctx, ImageUpload{Filename: `C:\photos\server-rack.jpg`, ContentType: "image/jpeg", Body: strings.NewReader("jpeg")})
	require.NoError(t, err)

	name := "1717425000000-server-rack.jpg"
	assert.Equal(t, "jpeg", st.objects[name])
	assert.Equal(t, "server-rack.jpg", img.Name)
	assert.Equal(t, st.PublicURL(name), img.URL)
	assert.Equal(t, "June 3, 2024", img.UploadDate)

	listed := svc.ListImages(ctx)
	require.Len(t, listed.Items, 1)
}

func TestUploadImageFailures(t *testing.T) {
	svc, b, st := newTestService(t)
	ctx := context.Background()

	st.uploadErr = errors.New("Failed to fetch")
	_, err := svc.UploadImage(ctx, ImageUpload{Filename: "a.png", Body: strings.NewReader("x")})
	assert.Equal(t, ConnectionFailed, KindOf(err))
	assert.Zero(t, b.calls)

	st.uploadErr = nil
	b.failWith = &RawError{Code: "42501", Message: "new row violates row-level security policy"}
	_, err = svc.UploadImage(ctx, ImageUpload{Filename: "a.png", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Image uploaded but failed to save metadata"), err.Error())
}

func TestDeleteImageIgnoresStorageFailure(t *testing.T) {
	svc, b, st := newTestService(t)
	ctx := context.Background()

	img, err := svc.UploadImage(ctx, ImageUpload{Filename: "a.png", Body: strings.NewReader("x")})
	require.NoError(t, err)

	st.removeErr = errors.New("storage unavailable")
	require.NoError(t, svc.DeleteImage(ctx, img.ID, img.URL))
	assert.Empty(t, b.images, "metadata row must be removed even when storage removal fails")

	b.failWith = &RawError{Status: 401}
	assert.Equal(t, Unauthorized, KindOf(svc.DeleteImage(ctx, img.ID, img.URL)))
}

func TestUnconfiguredServiceIsNoOp(t *testing.T) {
	svc := Unconfigured("missing credentials", WithLogger(zaptest.NewLogger(t).Sugar()))
	ctx := context.Background()

	assert.False(t, svc.Configured())
	assert.Equal(t, "missing credentials", svc.Reason())

	for _, l := range []Listing[BlogPost]{svc.ListPublishedPosts(ctx), svc.ListAllPosts(ctx)} {
		assert.Equal(t, StatusUnconfigured, l.Status)
		assert.NotNil(t, l.Items)
		assert.Empty(t, l.Items)
	}
	assert.Empty(t, svc.ListImages(ctx).Items)
	assert.Empty(t, svc.ApprovedComments(ctx, "x").Items)
	assert.Empty(t, svc.AllComments(ctx).Items)

	got := svc.PostBySlug(ctx, "x")
	assert.False(t, got.Found)
	assert.Nil(t, got.Err)

	_, err := svc.CreatePost(ctx, validInput("x"))
	assert.NoError(t, err)
	published := true
	_, err = svc.UpdatePost(ctx, "id", PostPatch{Published: &published})
	assert.NoError(t, err)
	assert.NoError(t, svc.DeletePost(ctx, "id"))
	_, err = svc.UploadImage(ctx, ImageUpload{Filename: "a.png", Body: strings.NewReader("x")})
	assert.NoError(t, err)
	assert.NoError(t, svc.DeleteImage(ctx, "id", "url"))
	_, err = svc.CreateComment(ctx, CommentInput{PostSlug: "p", Name: "n", Email: "e", Comment: "c"})
	assert.NoError(t, err)
	assert.NoError(t, svc.SetCommentApproval(ctx, "id", true))
	assert.NoError(t, svc.DeleteComment(ctx, "id"))
}

func TestErrorHookSeesKinds(t *testing.T) {
	var seen []Kind
	b := newFakeBackend()
	b.failWith = errors.New("Failed to fetch")
	svc := NewService(b, nil, WithErrorHook(func(op string, kind Kind) { seen = append(seen, kind) }))

	svc.ListPublishedPosts(context.Background())
	assert.Equal(t, []Kind{ConnectionFailed}, seen)
}
