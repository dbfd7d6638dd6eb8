package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/internal/errors"
	"github.com/akeil/tkb/internal/logging"
)

// API endpoints that are not covered by a tkb.Resource.
const (
	epPDF           = "/papers/%v/pdf"
	epNotifications = "/notifications"
)

const userAgent = "tkb"

// Client represents the ReST API for the annotation service.
//
// Client implements tkb.Transport.
type Client struct {
	base   string
	client *http.Client
	cache  tkb.Cache
}

// NewClient sets up an API client for the service at the given base URL.
// An empty base URL selects tkb.DefaultURL.
func NewClient(base string, timeout time.Duration) *Client {
	if base == "" {
		base = tkb.DefaultURL
	}
	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

// SetCache sets a cache for downloaded PDF documents.
func (c *Client) SetCache(cache tkb.Cache) {
	c.cache = cache
}

// BaseURL is the URL of the annotation service.
func (c *Client) BaseURL() string {
	return c.base
}

// Do sends a JSON request to the given URL.
//
// The payload (if not nil) is encoded to JSON. The response is decoded into
// dst if dst is not nil. Non-2xx responses return an *errors.APIError with
// the message from the response body.
func (c *Client) Do(ctx context.Context, method, url string, payload, dst interface{}) error {
	logging.Debug("API %v %v", method, url)
	req, err := newRequest(ctx, method, url, payload)
	if err != nil {
		return fmt.Errorf("could not prepare API request: %v", err)
	}

	return c.send(req, dst)
}

// Get is a shortcut for a GET request.
func (c *Client) Get(ctx context.Context, url string, dst interface{}) error {
	return c.Do(ctx, http.MethodGet, url, nil, dst)
}

// Post is a shortcut for a POST request.
func (c *Client) Post(ctx context.Context, url string, payload, dst interface{}) error {
	return c.Do(ctx, http.MethodPost, url, payload, dst)
}

// Patch is a shortcut for a PATCH request.
func (c *Client) Patch(ctx context.Context, url string, payload, dst interface{}) error {
	return c.Do(ctx, http.MethodPatch, url, payload, dst)
}

// Delete is a shortcut for a DELETE request.
func (c *Client) Delete(ctx context.Context, url string) error {
	return c.Do(ctx, http.MethodDelete, url, nil, nil)
}

func (c *Client) send(req *http.Request, dst interface{}) error {
	// log the request body
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err == nil {
			logging.Debug("Request body: %v", string(data))
			req.Body = io.NopCloser(bytes.NewBuffer(data))
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request %v %v failed", req.Method, req.URL)
	}
	defer res.Body.Close()
	// must read body to end
	// https://golang.org/pkg/net/http/#Client.Do
	resData, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	logging.Debug("API request %v %v returned status %v", req.Method, req.URL, res.StatusCode)
	logging.Debug("Response body: %v", string(resData))

	err = errors.FromResponse(res, resData)
	if err != nil {
		return err
	}

	if dst != nil && len(resData) > 0 {
		err = json.Unmarshal(resData, dst)
		if err != nil {
			return fmt.Errorf("failed to read API response: %v", err)
		}
	}

	return nil
}

// FetchPDF downloads the PDF document for a paper and writes it to w.
//
// If a cache is set, the document is read from the cache and downloaded
// only on a cache miss.
func (c *Client) FetchPDF(ctx context.Context, paperID string, w io.Writer) error {
	if paperID == "" {
		return &errors.MissingParamError{Resource: "pdf", Param: "paperId"}
	}
	key := paperID + ".pdf"

	if c.cache != nil {
		r, err := c.cache.Get(key)
		if err == nil {
			defer r.Close()
			_, err = io.Copy(w, r)
			return err
		} else if !errors.IsNotFound(err) {
			return err
		}
	}

	url, err := resolve(c.base, fmt.Sprintf(epPDF, escape(paperID)))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/pdf")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(res.Body)
		return errors.FromResponse(res, data)
	}

	if c.cache == nil {
		_, err = io.Copy(w, res.Body)
		return err
	}

	var buf bytes.Buffer
	_, err = io.Copy(&buf, res.Body)
	if err != nil {
		return err
	}
	err = c.cache.Put(key, bytes.NewReader(buf.Bytes()))
	if err != nil {
		logging.Warning("Failed to cache PDF for paper %q: %v", paperID, err)
	}
	_, err = io.Copy(w, &buf)
	return err
}

// ForgetPDF drops the cached PDF document for a paper, if there is a cache.
func (c *Client) ForgetPDF(paperID string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(paperID + ".pdf")
}

// UploadPaper adds a new paper with the given id.
// The PDF document is read from src and sent as multipart form data.
func (c *Client) UploadPaper(ctx context.Context, id, filename string, src io.Reader) (tkb.Paper, error) {
	var paper tkb.Paper
	if id == "" {
		return paper, fmt.Errorf("id must not be empty")
	}

	url, err := tkb.PaperResource.ListURL(c.base, nil)
	if err != nil {
		return paper, err
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	err = mw.WriteField("id", id)
	if err != nil {
		return paper, err
	}
	fw, err := mw.CreateFormFile("pdf", filename)
	if err != nil {
		return paper, err
	}
	_, err = io.Copy(fw, src)
	if err != nil {
		return paper, err
	}
	err = mw.Close()
	if err != nil {
		return paper, err
	}

	logging.Debug("Upload paper %q (%d bytes)", id, body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return paper, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return paper, errors.Wrap(err, "upload failed")
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return paper, err
	}

	err = errors.FromResponse(res, data)
	if err != nil {
		return paper, err
	}

	err = json.Unmarshal(data, &paper)
	if err != nil {
		return paper, fmt.Errorf("failed to read API response: %v", err)
	}
	return paper, nil
}

// NewNotifications sets up a client for the notification feed of the
// service.
func (c *Client) NewNotifications() (*Notifications, error) {
	url, err := wsURL(c.base, epNotifications)
	if err != nil {
		return nil, err
	}
	return NewNotifications(url), nil
}
