package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/tkb"
)

const testBase = "http://tkb.test"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func TestDoDecodesResponse(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder("GET", testBase+"/papers/P1/layers/",
		httpmock.NewStringResponder(http.StatusOK, `[{"id":"L1","paperId":"P1","class":"results","name":"gold"}]`))

	c := NewClient(testBase, time.Second)
	var layers []tkb.Layer
	err := c.Get(context.Background(), testBase+"/papers/P1/layers/", &layers)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, "P1-L1", layers[0].PK())
}

func TestDoSendsJSON(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder("POST", testBase+"/papers/P1/layers/",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, userAgent, req.Header.Get("User-Agent"))
			body, _ := io.ReadAll(req.Body)
			assert.JSONEq(t, `{"class":"results","name":"Untitled"}`, string(body))
			return httpmock.NewStringResponse(http.StatusCreated, `{"id":"L9","paperId":"P1","class":"results","name":"Untitled"}`), nil
		})

	c := NewClient(testBase, time.Second)
	var l tkb.Layer
	err := c.Post(context.Background(), testBase+"/papers/P1/layers/",
		tkb.NewLayer{PaperID: "P1", Class: "results", Name: "Untitled"}, &l)
	require.NoError(t, err)
	assert.Equal(t, "L9", l.ID)
}

func TestDoErrorMessage(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder("POST", testBase+"/papers/P1/layers/",
		httpmock.NewStringResponder(http.StatusBadRequest, `{"message":"extractor results.crf is not trained"}`))
	httpmock.RegisterResponder("GET", testBase+"/papers/nope",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"PaperNotFound"}`))

	c := NewClient(testBase, time.Second)
	err := c.Post(context.Background(), testBase+"/papers/P1/layers/", map[string]string{"from": "results.crf"}, nil)
	require.Error(t, err)
	assert.Equal(t, "extractor results.crf is not trained", tkb.ErrorMessage(err))

	err = c.Get(context.Background(), testBase+"/papers/nope", nil)
	assert.True(t, tkb.IsNotFound(err))
}

func TestFetchPDFCached(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder("GET", testBase+"/papers/P1/pdf",
		httpmock.NewBytesResponder(http.StatusOK, []byte("%PDF-1.4 test")))

	c := NewClient(testBase, time.Second)
	c.SetCache(tkb.NewFilesystemCache(t.TempDir()))

	for i := 0; i < 3; i++ {
		var buf bytes.Buffer
		err := c.FetchPDF(context.Background(), "P1", &buf)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 test", buf.String())
	}

	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "cached after first download")

	err := c.FetchPDF(context.Background(), "", io.Discard)
	assert.True(t, tkb.IsMissingParam(err))

	require.NoError(t, c.ForgetPDF("P1"))
	require.NoError(t, c.FetchPDF(context.Background(), "P1", io.Discard))
	assert.Equal(t, 2, httpmock.GetTotalCallCount(), "downloaded again after ForgetPDF")
}

func TestDelete(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder("DELETE", testBase+"/papers/P1",
		httpmock.NewStringResponder(http.StatusNoContent, ""))
	httpmock.RegisterResponder("DELETE", testBase+"/papers/P2",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"no paper P2"}`))

	c := NewClient(testBase, time.Second)
	require.NoError(t, c.Delete(context.Background(), testBase+"/papers/P1"))

	err := c.Delete(context.Background(), testBase+"/papers/P2")
	require.Error(t, err)
	assert.True(t, tkb.IsNotFound(err))
	assert.Equal(t, "no paper P2", tkb.ErrorMessage(err))

	// without a cache, there is nothing to forget
	assert.NoError(t, c.ForgetPDF("P1"))
}

func TestUploadPaper(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder("POST", testBase+"/papers/",
		func(req *http.Request) (*http.Response, error) {
			assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))
			err := req.ParseMultipartForm(1 << 20)
			require.NoError(t, err)
			assert.Equal(t, "2101.00001", req.FormValue("id"))
			f, hdr, err := req.FormFile("pdf")
			require.NoError(t, err)
			defer f.Close()
			assert.Equal(t, "paper.pdf", hdr.Filename)
			return httpmock.NewStringResponse(http.StatusOK, `{"id":"2101.00001","pdf":"/papers/2101.00001/pdf"}`), nil
		})

	c := NewClient(testBase, time.Second)
	p, err := c.UploadPaper(context.Background(), "2101.00001", "paper.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/papers/2101.00001/pdf", p.PDF)

	_, err = c.UploadPaper(context.Background(), "", "paper.pdf", strings.NewReader(""))
	assert.Error(t, err)
}

func TestWsURL(t *testing.T) {
	u, err := wsURL("http://localhost:8000", epNotifications)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8000/notifications", u)

	u, err = wsURL("https://tkb.example.org/", epNotifications)
	require.NoError(t, err)
	assert.Equal(t, "wss://tkb.example.org/notifications", u)

	_, err = wsURL("ftp://tkb.example.org", epNotifications)
	assert.Error(t, err)
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, tkb.DefaultURL, NewClient("", 0).BaseURL())
}
