package main

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRmLayers(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("DELETE", testBase+"/papers/P1/layers/L1",
		httpmock.NewStringResponder(http.StatusNoContent, ""))
	httpmock.RegisterResponder("DELETE", testBase+"/papers/P1/layers/L2",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	s := settings{url: testBase, timeout: defaultTimeout, cacheTTL: defaultTTL}
	err := doRm(context.Background(), s, "P1", []string{"L1", "L2"}, false)
	require.NoError(t, err)

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["DELETE "+testBase+"/papers/P1/layers/L1"])
	assert.Equal(t, 1, info["DELETE "+testBase+"/papers/P1/layers/L2"])
}

func TestRmLayerFails(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("DELETE", testBase+"/papers/P1/layers/L1",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"no layer L1"}`))

	s := settings{url: testBase, timeout: defaultTimeout, cacheTTL: defaultTTL}
	err := doRm(context.Background(), s, "P1", []string{"L1"}, false)
	assert.Error(t, err)
}

func TestRmPaper(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("DELETE", testBase+"/papers/P1",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	s := settings{url: testBase, timeout: defaultTimeout, cacheTTL: defaultTTL,
		cacheDir: filepath.Join(t.TempDir(), "cache")}

	err := doRm(context.Background(), s, "P1", nil, false)
	require.Error(t, err)
	assert.Equal(t, 0, httpmock.GetTotalCallCount(), "no request without --force")

	err = doRm(context.Background(), s, "P1", nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
