package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northpoint/website/content"
)

func TestRecordContentError(t *testing.T) {
	m := New("site")
	m.RecordContentError("list published posts", content.ConnectionFailed)
	m.RecordContentError("list published posts", content.ConnectionFailed)
	m.RecordContentError("create post", content.ValidationError)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ContentErrors.WithLabelValues("list published posts", "CONNECTION_FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContentErrors.WithLabelValues("create post", "VALIDATION_ERROR")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New("site")
	m.RecordHTTPRequest("GET", "/blog/:slug/", 200, 15*time.Millisecond)
	m.RecordForm("contact", "sent")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `site_http_requests_total{method="GET",route="/blog/:slug/",status="200"} 1`)
	assert.Contains(t, string(body), `site_form_submissions_total{form="contact",outcome="sent"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
