package localstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRemove(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	d := New(root, "/public/uploads")
	ctx := context.Background()

	require.NoError(t, d.Upload(ctx, "1700000000000-logo.png", "image/png", strings.NewReader("data")))
	b, err := os.ReadFile(filepath.Join(root, "1700000000000-logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	// Names are unique; a second write with the same name is refused.
	assert.Error(t, d.Upload(ctx, "1700000000000-logo.png", "image/png", strings.NewReader("other")))

	url := d.PublicURL("1700000000000-logo.png")
	assert.Equal(t, "/public/uploads/1700000000000-logo.png", url)
	assert.Equal(t, "1700000000000-logo.png", d.ObjectName(url))

	require.NoError(t, d.Remove(ctx, d.ObjectName(url)))
	_, err = os.Stat(filepath.Join(root, "1700000000000-logo.png"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, d.Remove(ctx, "1700000000000-logo.png"), "removing a missing object reports an error")
}

func TestRejectsPathTraversal(t *testing.T) {
	d := New(t.TempDir(), "/public/uploads/")
	assert.Error(t, d.Upload(context.Background(), "../escape.png", "image/png", strings.NewReader("x")))
	assert.Equal(t, "", d.ObjectName("https://cdn.example.com/other/thing.png"))
}
