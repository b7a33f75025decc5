package website

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/northpoint/website/content"
	"github.com/northpoint/website/mail"
	"github.com/northpoint/website/views"
)

const homeLatestPosts = 3

func (a *App) handleHome(c echo.Context) error {
	posts := a.Content.ListPublishedPosts(c.Request().Context()).Items
	if len(posts) > homeLatestPosts {
		posts = posts[:homeLatestPosts]
	}
	return Render(c, views.Home(a.site(), posts))
}

func (a *App) handleServices(c echo.Context) error {
	return Render(c, views.ServicesIndex(a.site()))
}

func (a *App) handleService(c echo.Context) error {
	s, ok := views.ServiceBySlug(c.Param("service"))
	if !ok {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site(), "We don't offer that service."))
	}
	return Render(c, views.ServiceDetail(a.site(), s))
}

func (a *App) handleProjects(c echo.Context) error {
	return Render(c, views.ProjectsPage(a.site()))
}

func (a *App) handleLeeds(c echo.Context) error {
	return Render(c, views.LeedsPage(a.site()))
}

func (a *App) handleContactPage(c echo.Context) error {
	return Render(c, views.ContactPage(a.site(), "", views.FormState{
		CSRF:    CsrfToken(c),
		Service: c.QueryParam("service"),
	}))
}

// handleEnquiry relays a contact or consultation form through the mail client.
func (a *App) handleEnquiry(form mail.Form) echo.HandlerFunc {
	return func(c echo.Context) error {
		st := views.FormState{
			CSRF:    CsrfToken(c),
			Name:    c.FormValue("name"),
			Email:   c.FormValue("email"),
			Phone:   c.FormValue("phone"),
			Service: c.FormValue("service"),
			Message: c.FormValue("message"),
		}
		active := string(form)
		if !a.formLimiter.Allow(c.RealIP()) {
			st.Flash = views.Flash{Error: true, Text: "Too many submissions. Please try again later."}
			a.recordForm(form, "limited")
			return RenderStatus(c, http.StatusTooManyRequests, views.ContactPage(a.site(), active, st))
		}

		msg := mail.Message{
			Form:    form,
			Name:    st.Name,
			Email:   st.Email,
			Phone:   st.Phone,
			Service: st.Service,
			Body:    st.Message,
		}
		err := a.Mail.Send(c.Request().Context(), msg)
		var verr *mail.ValidationError
		switch {
		case err == nil:
			st.Sent = true
			a.recordForm(form, "sent")
			a.Log.Infow("enquiry sent", "form", form, "service", st.Service)
			return Render(c, views.ContactPage(a.site(), active, st))
		case errors.As(err, &verr):
			st.Flash = views.Flash{Error: true, Text: verr.Error()}
			a.recordForm(form, "invalid")
			return RenderStatus(c, http.StatusUnprocessableEntity, views.ContactPage(a.site(), active, st))
		case errors.Is(err, mail.ErrNotConfigured):
			st.Flash = views.Flash{Error: true, Text: "Online enquiries are unavailable right now. Please call or email us instead."}
			a.recordForm(form, "unconfigured")
			a.Log.Warnw("enquiry dropped; mail relay not configured", "form", form)
			return RenderStatus(c, http.StatusServiceUnavailable, views.ContactPage(a.site(), active, st))
		default:
			st.Flash = views.Flash{Error: true, Text: "Sorry, your message could not be sent. Please try again."}
			a.recordForm(form, "failed")
			a.Log.Errorw("enquiry send failed", "form", form, "error", err)
			return RenderStatus(c, http.StatusBadGateway, views.ContactPage(a.site(), active, st))
		}
	}
}

func (a *App) recordForm(form mail.Form, outcome string) {
	if a.Metrics != nil {
		a.Metrics.RecordForm(string(form), outcome)
	}
}

func (a *App) handleBlog(c echo.Context) error {
	return Render(c, views.BlogIndex(a.site(), a.Content.ListPublishedPosts(c.Request().Context()).Items))
}

// handlePost distinguishes a missing post (404) from a store failure.
// Drafts are only visible to a signed-in admin.
func (a *App) handlePost(c echo.Context) error {
	res := a.Content.PostBySlug(c.Request().Context(), c.Param("slug"))
	if res.Err != nil {
		return RenderStatus(c, StatusFor(res.Err), views.ErrorLoading(a.site(), ""))
	}
	if !res.Found || (!res.Value.Published && !IsAdmin(c)) {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site(), "That article could not be found."))
	}
	var flash views.Flash
	if c.QueryParam("comment") == "posted" {
		flash = views.Flash{Text: "Thanks, your comment has been posted."}
	}
	return a.renderPost(c, http.StatusOK, res.Value, flash)
}

func (a *App) renderPost(c echo.Context, code int, post content.BlogPost, flash views.Flash) error {
	ctx := c.Request().Context()
	v := views.PostView{
		Post:     post,
		Comments: a.Content.ApprovedComments(ctx, post.Slug).Items,
		Related:  views.RelatedPosts(post, a.Content.ListPublishedPosts(ctx).Items, 3),
		CSRF:     CsrfToken(c),
		Flash:    flash,
	}
	return RenderStatus(c, code, views.PostPage(a.site(), v))
}

// handleCreateComment re-renders the post with the problem on failure and
// redirects back to it on success.
func (a *App) handleCreateComment(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	res := a.Content.PostBySlug(ctx, slug)
	if res.Err != nil {
		return RenderStatus(c, StatusFor(res.Err), views.ErrorLoading(a.site(), ""))
	}
	if !res.Found || !res.Value.Published {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site(), "That article could not be found."))
	}
	if !a.formLimiter.Allow(c.RealIP()) {
		return a.renderPost(c, http.StatusTooManyRequests, res.Value,
			views.Flash{Error: true, Text: "Too many comments. Please try again later."})
	}
	_, err := a.Content.CreateComment(ctx, content.CommentInput{
		PostSlug: slug,
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Comment:  c.FormValue("comment"),
	})
	if err != nil {
		return a.renderPost(c, StatusFor(err), res.Value, views.Flash{Error: true, Text: errorMessage(err)})
	}
	return c.Redirect(http.StatusSeeOther, "/blog/"+url.PathEscape(slug)+"?comment=posted#comments")
}

func (a *App) handleRobots(c echo.Context) error {
	body := strings.Join([]string{
		"User-agent: *",
		"Disallow: /admin",
		"Allow: /",
		"",
		fmt.Sprintf("Sitemap: %s/sitemap.xml", strings.TrimRight(a.Config.URL, "/")),
		"",
	}, "\n")
	return c.String(http.StatusOK, body)
}

func (a *App) handleHealth(c echo.Context) error {
	status := map[string]any{"status": "ok", "content_configured": a.Content.Configured()}
	if !a.Content.Configured() {
		status["content_reason"] = a.Content.Reason()
	}
	return c.JSON(http.StatusOK, status)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site(), ""))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Errorw("server error", "uri", c.Request().RequestURI, "error", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
