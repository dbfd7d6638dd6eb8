package tkb

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemCache(t *testing.T) {
	c := NewFilesystemCache(t.TempDir())

	_, err := c.Get("math/0101001.pdf")
	assert.True(t, IsNotFound(err))

	err = c.Put("math/0101001.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	r, err := c.Get("math/0101001.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	r.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, c.Delete("math/0101001.pdf"))
	_, err = c.Get("math/0101001.pdf")
	assert.True(t, IsNotFound(err))

	// deleting a missing entry is not an error
	assert.NoError(t, c.Delete("math/0101001.pdf"))
}
