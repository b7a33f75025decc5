package website

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/northpoint/website/content"
	"github.com/northpoint/website/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(a.site(), CsrfToken(c), SafeNext(c.QueryParam("next")), false))
	}
	return a.renderAdminDashboard(c, http.StatusOK, flashFromQuery(c))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.Log.Warnw("login rate limited", "ip", ip)
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	next := SafeNext(c.FormValue("next"))
	user := strings.TrimSpace(c.FormValue("username"))
	if !a.checkCredentials(user, c.FormValue("password")) {
		a.loginLimiter.Record(ip)
		a.Log.Warnw("login failed", "ip", ip, "user", user)
		return RenderStatus(c, http.StatusUnauthorized, views.AdminLogin(a.site(), CsrfToken(c), next, true))
	}
	a.loginLimiter.Reset(ip)
	if err := setAdminSession(c, user); err != nil {
		return err
	}
	a.Log.Infow("admin signed in", "ip", ip, "user", user)
	return c.Redirect(http.StatusSeeOther, next)
}

// checkCredentials prefers the bcrypt hash when one is configured.
func (a *App) checkCredentials(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.Config.AdminUser)) == 1
	var passOK bool
	switch {
	case a.Config.AdminPasswordHash != "":
		passOK = bcrypt.CompareHashAndPassword([]byte(a.Config.AdminPasswordHash), []byte(pass)) == nil
	case a.Config.AdminPassword != "":
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1
	}
	return userOK && passOK
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (a *App) renderAdminDashboard(c echo.Context, code int, flash views.Flash) error {
	posts := a.Content.ListAllPosts(c.Request().Context())
	return RenderStatus(c, code, views.AdminDashboard(a.site(), posts, CsrfToken(c), flash))
}

// notices maps the msg codes admin redirects carry to the text shown.
var notices = map[string]string{
	"post-created":     "Post created.",
	"post-saved":       "Post saved.",
	"post-published":   "Post published.",
	"post-unpublished": "Post unpublished.",
	"post-deleted":     "Post deleted.",
	"comment-updated":  "Comment updated.",
	"comment-deleted":  "Comment deleted.",
	"image-uploaded":   "Image uploaded.",
	"image-deleted":    "Image deleted.",
}

func flashFromQuery(c echo.Context) views.Flash {
	return views.Flash{Text: notices[c.QueryParam("msg")]}
}

func (a *App) handleAdminNewPost(c echo.Context) error {
	return Render(c, views.AdminPostForm(a.site(), content.BlogPost{}, CsrfToken(c), views.Flash{}))
}

func (a *App) handleAdminEditPost(c echo.Context) error {
	res := a.Content.PostBySlug(c.Request().Context(), c.Param("slug"))
	if res.Err != nil {
		return a.renderAdminDashboard(c, StatusFor(res.Err), views.Flash{Error: true, Text: res.Err.Message})
	}
	if !res.Found {
		return a.renderAdminDashboard(c, http.StatusNotFound, views.Flash{Error: true, Text: "Post not found."})
	}
	return Render(c, views.AdminPostForm(a.site(), res.Value, CsrfToken(c), views.Flash{}))
}

// postForm reads the editor fields. An empty slug is derived from the title.
func postForm(c echo.Context) content.PostInput {
	in := content.PostInput{
		Title:     c.FormValue("title"),
		Slug:      strings.TrimSpace(c.FormValue("slug")),
		Excerpt:   c.FormValue("excerpt"),
		Content:   c.FormValue("content"),
		Author:    c.FormValue("author"),
		Date:      c.FormValue("date"),
		ReadTime:  c.FormValue("read_time"),
		Tags:      SplitTags(c.FormValue("tags")),
		Published: c.FormValue("published") == "true",
	}
	if in.Slug == "" {
		in.Slug = Slugify(in.Title)
	}
	return in
}

func (a *App) handleAdminCreatePost(c echo.Context) error {
	in := postForm(c)
	post, err := a.Content.CreatePost(c.Request().Context(), in)
	if err != nil {
		draft := content.BlogPost{
			Title: in.Title, Slug: in.Slug, Excerpt: in.Excerpt, Content: in.Content, Author: in.Author,
			Date: in.Date, ReadTime: in.ReadTime, Tags: in.Tags, Published: in.Published,
		}
		return RenderStatus(c, StatusFor(err), views.AdminPostForm(a.site(), draft, CsrfToken(c), views.Flash{Error: true, Text: errorMessage(err)}))
	}
	if !a.Content.Configured() {
		return a.renderAdminDashboard(c, http.StatusServiceUnavailable, views.Flash{Error: true, Text: "Not saved: the content store is not configured."})
	}
	a.Log.Infow("post created", "slug", post.Slug)
	return c.Redirect(http.StatusSeeOther, "/admin?msg=post-created")
}

func (a *App) handleAdminUpdatePost(c echo.Context) error {
	id := c.Param("id")
	in := postForm(c)
	patch := content.PostPatch{
		Title:     &in.Title,
		Slug:      &in.Slug,
		Excerpt:   &in.Excerpt,
		Content:   &in.Content,
		Author:    &in.Author,
		Date:      &in.Date,
		ReadTime:  &in.ReadTime,
		Tags:      &in.Tags,
		Published: &in.Published,
	}
	if _, err := a.Content.UpdatePost(c.Request().Context(), id, patch); err != nil {
		draft := content.BlogPost{ID: id}
		patch.Apply(&draft)
		return RenderStatus(c, StatusFor(err), views.AdminPostForm(a.site(), draft, CsrfToken(c), views.Flash{Error: true, Text: errorMessage(err)}))
	}
	return c.Redirect(http.StatusSeeOther, "/admin?msg=post-saved")
}

func (a *App) handleAdminPublish(c echo.Context) error {
	published := c.FormValue("published") == "true"
	if _, err := a.Content.UpdatePost(c.Request().Context(), c.Param("id"), content.PostPatch{Published: &published}); err != nil {
		return a.renderAdminDashboard(c, StatusFor(err), views.Flash{Error: true, Text: errorMessage(err)})
	}
	msg := "post-unpublished"
	if published {
		msg = "post-published"
	}
	return c.Redirect(http.StatusSeeOther, "/admin?msg="+msg)
}

func (a *App) handleAdminDeletePost(c echo.Context) error {
	if err := a.Content.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return a.renderAdminDashboard(c, StatusFor(err), views.Flash{Error: true, Text: errorMessage(err)})
	}
	return c.Redirect(http.StatusSeeOther, "/admin?msg=post-deleted")
}

func (a *App) handleCommentList(c echo.Context) error {
	return a.renderComments(c, http.StatusOK, flashFromQuery(c))
}

func (a *App) renderComments(c echo.Context, code int, flash views.Flash) error {
	comments := a.Content.AllComments(c.Request().Context())
	return RenderStatus(c, code, views.AdminComments(a.site(), comments, CsrfToken(c), flash))
}

func (a *App) handleCommentApproval(c echo.Context) error {
	approved := c.FormValue("approved") == "true"
	if err := a.Content.SetCommentApproval(c.Request().Context(), c.Param("id"), approved); err != nil {
		return a.renderComments(c, StatusFor(err), views.Flash{Error: true, Text: errorMessage(err)})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/comments?msg=comment-updated")
}

func (a *App) handleCommentDelete(c echo.Context) error {
	if err := a.Content.DeleteComment(c.Request().Context(), c.Param("id")); err != nil {
		return a.renderComments(c, StatusFor(err), views.Flash{Error: true, Text: errorMessage(err)})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/comments?msg=comment-deleted")
}
