package website

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Moving to the Cloud: A Guide": "moving-to-the-cloud-a-guide",
		"  Cyber Essentials 2024!  ":   "cyber-essentials-2024",
		"---":                          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://example.com/blog/a-post", BuildURL("https://example.com", "blog", "a-post"))
	assert.Equal(t, "https://example.com", BuildURL("https://example.com"))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"cloud", "security"}, SplitTags(" cloud, ,security ,"))
	assert.Equal(t, []string{}, SplitTags(""))
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                    "/admin",
		"/admin":              "/admin",
		"/admin/images":       "/admin/images",
		"/admin/edit/x?a=1":   "/admin/edit/x?a=1",
		"/administrator":      "/admin",
		"https://evil.test/":  "/admin",
		"//evil.test/admin":   "/admin",
		"/blog":               "/admin",
		`/\evil.test`:         "/admin",
		"javascript:alert(1)": "/admin",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeNext(in), in)
	}
}
