package views

import (
	"github.com/a-h/templ"

	"github.com/northpoint/website/content"
)

func adminPage(cfg SiteConfig, title, csrf string, body templ.Component) templ.Component {
	shell := component(func(h *html) {
		h.raw(`<nav class="admin-nav"><a href="/admin">Posts</a> <a href="/admin/images">Images</a> <a href="/admin/comments">Comments</a>`)
		h.raw(`<form method="post" action="/admin/logout" class="inline" id="logout">`)
		h.csrf(csrf)
		h.raw(`<button type="submit">Log out</button></form></nav>`)
		h.render(body)
	})
	return Page(cfg, PageMeta{Title: title, Path: "/admin", NoIndex: true}, shell)
}

// AdminLogin is the sign-in form. next is the path to return to afterwards.
func AdminLogin(cfg SiteConfig, csrf, next string, failed bool) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Sign in</h1>`)
		if failed {
			h.flash(Flash{Error: true, Text: "Invalid username or password."})
		}
		h.raw(`<form method="post" action="/admin/login">`)
		h.csrf(csrf)
		h.printf(`<input type="hidden" name="next" value="%s">`, next)
		h.raw(`<label>Username <input name="username" autocomplete="username" required></label>`)
		h.raw(`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`)
		h.raw(`<button type="submit">Sign in</button></form>`)
	})
	return Page(cfg, PageMeta{Title: "Sign in", Path: "/admin", NoIndex: true}, body)
}

// AdminDashboard lists every post with publish and delete controls.
func AdminDashboard(cfg SiteConfig, posts content.Listing[content.BlogPost], csrf string, flash Flash) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Posts</h1><p><a class="button" href="/admin/posts/new">New post</a></p>`)
		h.flash(flash)
		listingNotice(h, posts.Status, posts.Err)
		h.raw(`<table><thead><tr><th>Title</th><th>Date</th><th>Status</th><th></th></tr></thead><tbody>`)
		for _, p := range posts.Items {
			status, toggle, label := "Draft", "true", "Publish"
			if p.Published {
				status, toggle, label = "Published", "false", "Unpublish"
			}
			h.printf(`<tr><td><a href="/admin/edit/%s">%s</a></td><td>%s</td><td>%s</td><td>`, p.Slug, p.Title, p.Date, status)
			h.printf(`<form method="post" action="/admin/posts/%s/publish" class="inline">`, p.ID)
			h.csrf(csrf)
			h.printf(`<input type="hidden" name="published" value="%s"><button type="submit">%s</button></form>`, toggle, label)
			h.printf(`<form method="post" action="/admin/posts/%s" class="inline">`, p.ID)
			h.csrf(csrf)
			h.raw(`<input type="hidden" name="_method" value="DELETE"><button type="submit">Delete</button></form></td></tr>`)
		}
		h.raw(`</tbody></table>`)
	})
	return adminPage(cfg, "Posts", csrf, body)
}

// AdminPostForm creates a post when post.ID is empty and edits it otherwise.
func AdminPostForm(cfg SiteConfig, post content.BlogPost, csrf string, flash Flash) templ.Component {
	body := component(func(h *html) {
		action := "/admin/posts"
		if post.ID == "" {
			h.raw(`<h1>New post</h1>`)
		} else {
			h.printf(`<h1>Edit %s</h1>`, post.Title)
			action = "/admin/posts/" + post.ID
		}
		h.flash(flash)
		h.printf(`<form method="post" action="%s">`, action)
		h.csrf(csrf)
		h.printf(`<label>Title <input name="title" required value="%s"></label>`, post.Title)
		h.printf(`<label>Slug <input name="slug" value="%s" placeholder="generated from the title"></label>`, post.Slug)
		h.printf(`<label>Excerpt <textarea name="excerpt" required>%s</textarea></label>`, post.Excerpt)
		h.printf(`<label>Content (HTML) <textarea name="content" rows="20" required>%s</textarea></label>`, post.Content)
		h.printf(`<label>Author <input name="author" value="%s" placeholder="%s"></label>`, post.Author, content.DefaultAuthor)
		h.printf(`<label>Date <input name="date" value="%s" placeholder="January 2, 2006"></label>`, post.Date)
		h.printf(`<label>Read time <input name="read_time" value="%s" placeholder="%s"></label>`, post.ReadTime, content.DefaultReadTime)
		h.printf(`<label>Tags <input name="tags" value="%s" placeholder="comma separated"></label>`, JoinTags(post.Tags))
		checked := ""
		if post.Published {
			checked = " checked"
		}
		h.printf(`<label><input type="checkbox" name="published" value="true"%s> Published</label>`, checked)
		h.raw(`<button type="submit">Save</button></form>`)
	})
	title := "New post"
	if post.ID != "" {
		title = "Edit post"
	}
	return adminPage(cfg, title, csrf, body)
}

// AdminImages is the image library with an upload form.
func AdminImages(cfg SiteConfig, images content.Listing[content.UploadedImage], csrf string, flash Flash) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Images</h1>`)
		h.flash(flash)
		listingNotice(h, images.Status, images.Err)
		h.raw(`<form method="post" action="/admin/images" enctype="multipart/form-data">`)
		h.csrf(csrf)
		h.raw(`<input type="file" name="image" accept="image/jpeg,image/png,image/gif,image/webp" required>`)
		h.raw(`<button type="submit">Upload</button></form><ul class="images">`)
		for _, img := range images.Items {
			h.printf(`<li><img src="%s" alt="%s" loading="lazy"><p>%s · %s</p><input readonly value="%s">`,
				href(img.URL), img.Name, img.Name, img.UploadDate, img.URL)
			h.printf(`<form method="post" action="/admin/images/%s">`, img.ID)
			h.csrf(csrf)
			h.printf(`<input type="hidden" name="_method" value="DELETE"><input type="hidden" name="url" value="%s">`, img.URL)
			h.raw(`<button type="submit">Delete</button></form></li>`)
		}
		h.raw(`</ul>`)
	})
	return adminPage(cfg, "Images", csrf, body)
}

// AdminComments lists every comment with moderation controls.
func AdminComments(cfg SiteConfig, comments content.Listing[content.BlogComment], csrf string, flash Flash) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Comments</h1>`)
		h.flash(flash)
		listingNotice(h, comments.Status, comments.Err)
		h.raw(`<table><thead><tr><th>Post</th><th>Name</th><th>Comment</th><th>Status</th><th></th></tr></thead><tbody>`)
		for _, c := range comments.Items {
			status, toggle, label := "Hidden", "true", "Approve"
			if c.Approved {
				status, toggle, label = "Visible", "false", "Hide"
			}
			h.printf(`<tr><td><a href="/blog/%s">%s</a></td><td>%s<br><small>%s</small></td><td>%s</td><td>%s</td><td>`,
				c.PostSlug, c.PostSlug, c.Name, c.Email, c.Comment, status)
			h.printf(`<form method="post" action="/admin/comments/%s/approval" class="inline">`, c.ID)
			h.csrf(csrf)
			h.printf(`<input type="hidden" name="approved" value="%s"><button type="submit">%s</button></form>`, toggle, label)
			h.printf(`<form method="post" action="/admin/comments/%s" class="inline">`, c.ID)
			h.csrf(csrf)
			h.raw(`<input type="hidden" name="_method" value="DELETE"><button type="submit">Delete</button></form></td></tr>`)
		}
		h.raw(`</tbody></table>`)
	})
	return adminPage(cfg, "Comments", csrf, body)
}

func listingNotice(h *html, status content.Status, err *content.Error) {
	switch status {
	case content.StatusUnconfigured:
		h.flash(Flash{Error: true, Text: "The content store is not configured. Nothing can be loaded or saved."})
	case content.StatusDegraded:
		msg := "The content store could not be reached."
		if err != nil {
			msg = err.Message
		}
		h.flash(Flash{Error: true, Text: msg})
	}
}
