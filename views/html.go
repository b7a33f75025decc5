package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// html accumulates the first write error so components read top to bottom.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// safe is markup or an already escaped value that printf writes as is.
type safe string

// printf formats into the output. String arguments are HTML escaped; wrap
// trusted markup in safe.
func (h *html) printf(format string, args ...any) {
	if h.err != nil {
		return
	}
	for i, a := range args {
		switch v := a.(type) {
		case string:
			args[i] = templ.EscapeString(v)
		case safe:
			args[i] = string(v)
		}
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func (h *html) csrf(token string) {
	h.printf(`<input type="hidden" name="_csrf" value="%s">`, token)
}

func (h *html) flash(f Flash) {
	if f.Text == "" {
		return
	}
	class := "flash"
	if f.Error {
		class = "flash flash-error"
	}
	h.printf(`<p class="%s" role="status">%s</p>`, class, f.Text)
}

// href sanitizes a URL for an attribute value.
func href(s string) safe {
	return safe(templ.EscapeString(string(templ.URL(s))))
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		fn(h)
		return h.err
	})
}
