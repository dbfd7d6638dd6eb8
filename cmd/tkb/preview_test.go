package main

import (
	"context"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewName(t *testing.T) {
	assert.Equal(t, "2101.00001-p3.png", previewName("2101.00001", 3))
	assert.Equal(t, "hep-th_9901001-p1.png", previewName("hep-th/9901001", 1))
}

func TestPreview(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("GET", testBase+"/papers/P1",
		httpmock.NewStringResponder(http.StatusOK, `{"id":"P1","title":"A paper"}`))
	httpmock.RegisterResponder("GET", testBase+"/papers/P1/layers/L1",
		httpmock.NewStringResponder(http.StatusOK, `{"id":"L1","paperId":"P1","class":"results","name":"first"}`))
	httpmock.RegisterResponder("GET", testBase+"/papers/P1/layers/L1/bbx/",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"id":"B1","label":"cat","pageNum":1,"minH":10,"minV":10,"maxH":100,"maxV":50}
		]`))

	t.Setenv("TMPDIR", t.TempDir())
	out := filepath.Join(t.TempDir(), "preview.png")
	s := settings{url: testBase, timeout: defaultTimeout, cacheTTL: defaultTTL}
	err := doPreview(context.Background(), s, "P1", []string{"L1"}, previewOptions{
		page:  1,
		width: 300,
		out:   out,
	})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
}

func TestPreviewInvalidPage(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("GET", testBase+"/papers/P1",
		httpmock.NewStringResponder(http.StatusOK, `{"id":"P1"}`))
	httpmock.RegisterResponder("GET", testBase+"/papers/P1/layers/",
		httpmock.NewStringResponder(http.StatusOK, `[]`))

	out := filepath.Join(t.TempDir(), "preview.png")
	s := settings{url: testBase, timeout: defaultTimeout, cacheTTL: defaultTTL}
	err := doPreview(context.Background(), s, "P1", nil, previewOptions{page: 0, out: out})
	assert.Error(t, err)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
