package website

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/northpoint/website/content"
	"github.com/northpoint/website/views"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes src, scales it down to maxImageWidth if wider, and
// re-encodes it as JPEG under a slugified name.
func processImage(src io.Reader, originalName string) (content.ImageUpload, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return content.ImageUpload{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return content.ImageUpload{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return content.ImageUpload{
		Filename:    uploadFilename(originalName),
		ContentType: "image/jpeg",
		Body:        &buf,
	}, nil
}

// uploadFilename reduces a client filename to a slug with a .jpg extension.
func uploadFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base := Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}

func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return a.renderImageList(c, http.StatusBadRequest, views.Flash{Error: true, Text: "No image file provided."})
	}
	if file.Size > maxUploadSize {
		return a.renderImageList(c, http.StatusRequestEntityTooLarge, views.Flash{Error: true, Text: "File too large (max 10MB)."})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	up, err := processImage(src, file.Filename)
	if err != nil {
		return a.renderImageList(c, http.StatusBadRequest, views.Flash{Error: true, Text: "Invalid image: " + err.Error()})
	}

	img, err := a.Content.UploadImage(c.Request().Context(), up)
	if err != nil {
		return a.renderImageList(c, StatusFor(err), views.Flash{Error: true, Text: errorMessage(err)})
	}
	a.Log.Infow("image uploaded", "name", img.Name, "url", img.URL)
	return c.Redirect(http.StatusSeeOther, "/admin/images?msg=image-uploaded")
}

func (a *App) handleImageDelete(c echo.Context) error {
	if err := a.Content.DeleteImage(c.Request().Context(), c.Param("id"), c.FormValue("url")); err != nil {
		return a.renderImageList(c, StatusFor(err), views.Flash{Error: true, Text: errorMessage(err)})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/images?msg=image-deleted")
}

func (a *App) handleImageList(c echo.Context) error {
	return a.renderImageList(c, http.StatusOK, flashFromQuery(c))
}

func (a *App) renderImageList(c echo.Context, code int, flash views.Flash) error {
	images := a.Content.ListImages(c.Request().Context())
	return RenderStatus(c, code, views.AdminImages(a.site(), images, CsrfToken(c), flash))
}
