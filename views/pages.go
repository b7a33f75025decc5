package views

import (
	"github.com/a-h/templ"

	"github.com/northpoint/website/content"
)

// Home is the landing page with the latest articles.
func Home(cfg SiteConfig, latest []content.BlogPost) templ.Component {
	body := component(func(h *html) {
		h.raw(`<section class="hero"><h1>IT that just works, for Leeds businesses</h1>`)
		h.printf(`<p>%s</p>`, cfg.Description)
		h.raw(`<p><a class="button" href="/contact#consultation">Book a free consultation</a></p></section>`)

		h.raw(`<section><h2>What we do</h2><ul class="cards">`)
		for _, s := range Services {
			h.printf(`<li><a href="/services/%s"><h3>%s</h3><p>%s</p></a></li>`, s.Slug, s.Title, s.Summary)
		}
		h.raw(`</ul></section>`)

		if len(latest) > 0 {
			h.raw(`<section><h2>Latest from the blog</h2>`)
			postCards(h, latest)
			h.raw(`</section>`)
		}
		h.render(JSONLD(OrganizationJsonLD(cfg)))
	})
	return Page(cfg, PageMeta{Path: "/"}, body)
}

// ServicesIndex lists every service.
func ServicesIndex(cfg SiteConfig) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Services</h1><ul class="cards">`)
		for _, s := range Services {
			h.printf(`<li><a href="/services/%s"><h2>%s</h2><p>%s</p></a></li>`, s.Slug, s.Title, s.Summary)
		}
		h.raw(`</ul>`)
	})
	return Page(cfg, PageMeta{Title: "Services", Path: "/services"}, body)
}

// ServiceDetail is a single service page.
func ServiceDetail(cfg SiteConfig, s Service) templ.Component {
	body := component(func(h *html) {
		h.printf(`<h1>%s</h1><p class="lead">%s</p><ul>`, s.Title, s.Summary)
		for _, f := range s.Features {
			h.printf(`<li>%s</li>`, f)
		}
		h.raw(`</ul>`)
		h.printf(`<p><a class="button" href="/contact?service=%s#consultation">Talk to us about %s</a></p>`, s.Slug, s.Title)
	})
	return Page(cfg, PageMeta{Title: s.Title, Description: s.Summary, Path: "/services/" + s.Slug}, body)
}

// ProjectsPage shows the case studies.
func ProjectsPage(cfg SiteConfig) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Projects</h1><ul class="cards">`)
		for _, p := range Projects {
			title := p.Service
			if s, ok := ServiceBySlug(p.Service); ok {
				title = s.Title
			}
			h.printf(`<li><h2>%s</h2><p class="meta">%s · %s</p><p>%s</p></li>`, p.Title, p.Client, title, p.Outcome)
		}
		h.raw(`</ul>`)
	})
	return Page(cfg, PageMeta{Title: "Projects", Path: "/projects"}, body)
}

// LeedsPage is the local landing page.
func LeedsPage(cfg SiteConfig) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>IT support in Leeds</h1>`)
		h.raw(`<p>We are based in Leeds and support businesses across West Yorkshire, from the city centre to Wakefield, Bradford and Harrogate.</p>`)
		h.raw(`<p>On-site visits are usually same or next day within the Leeds ring road.</p>`)
		h.raw(`<p><a class="button" href="/contact">Arrange a visit</a></p>`)
	})
	return Page(cfg, PageMeta{Title: "IT Support Leeds", Path: "/leeds"}, body)
}

// ContactPage renders the contact and consultation forms. Only the form
// named by active shows the submitted values and flash.
func ContactPage(cfg SiteConfig, active string, st FormState) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Contact us</h1>`)
		contact, consult := FormState{CSRF: st.CSRF}, FormState{CSRF: st.CSRF, Service: st.Service}
		if active == "consultation" {
			consult = st
		} else {
			contact = st
		}
		h.raw(`<section id="contact"><h2>Send a message</h2>`)
		enquiryForm(h, "/contact", contact, false)
		h.raw(`</section><section id="consultation"><h2>Book a free consultation</h2>`)
		enquiryForm(h, "/consultation", consult, true)
		h.raw(`</section>`)
	})
	return Page(cfg, PageMeta{Title: "Contact", Path: "/contact"}, body)
}

func enquiryForm(h *html, action string, st FormState, withService bool) {
	h.flash(st.Flash)
	if st.Sent {
		h.raw(`<p class="sent">Thanks, we will be in touch within one working day.</p>`)
		return
	}
	h.printf(`<form method="post" action="%s">`, action)
	h.csrf(st.CSRF)
	h.printf(`<label>Name <input name="name" required value="%s"></label>`, st.Name)
	h.printf(`<label>Email <input type="email" name="email" required value="%s"></label>`, st.Email)
	h.printf(`<label>Phone <input type="tel" name="phone" value="%s"></label>`, st.Phone)
	if withService {
		h.raw(`<label>Service <select name="service"><option value="">Not sure yet</option>`)
		for _, s := range Services {
			selected := ""
			if s.Slug == st.Service {
				selected = " selected"
			}
			h.printf(`<option value="%s"%s>%s</option>`, s.Slug, selected, s.Title)
		}
		h.raw(`</select></label>`)
	}
	h.printf(`<label>Message <textarea name="message" required>%s</textarea></label>`, st.Message)
	h.raw(`<button type="submit">Send</button></form>`)
}
