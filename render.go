package website

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/northpoint/website/content"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// StatusFor maps a classified content error onto an HTTP status.
func StatusFor(err error) int {
	var ce *content.Error
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError
	}
	switch ce.Kind {
	case content.ValidationError:
		return http.StatusUnprocessableEntity
	case content.NotFound:
		return http.StatusNotFound
	case content.ConnectionFailed:
		return http.StatusServiceUnavailable
	case content.Unauthorized:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the user-facing text of a write error.
func errorMessage(err error) string {
	var ce *content.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return "Something went wrong. Please try again."
}
