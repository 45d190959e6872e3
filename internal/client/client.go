// Package client talks to the content API: collections, single items and
// the photo asset store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/daniilsolovey/tourism-portal/internal/asset"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

const defaultHTTPTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API at baseURL, e.g. http://localhost:8080.
// A nil httpClient gets a default one with a timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: httpClient,
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	success     []int
}

// do runs the request and returns the body of a successful response. Failures
// map to portal.ErrNotFound, *portal.ValidationError or *portal.FetchError.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &portal.FetchError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &portal.FetchError{Op: r.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	for _, code := range r.success {
		if resp.StatusCode == code {
			return respBody, nil
		}
	}

	var errResp errorResponse
	_ = json.Unmarshal(respBody, &errResp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", r.op, portal.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest && len(errResp.Fields) > 0:
		return nil, &portal.ValidationError{Fields: errResp.Fields}
	case resp.StatusCode == http.StatusMethodNotAllowed:
		return nil, fmt.Errorf("%s: %w", r.op, portal.ErrReadOnly)
	}

	msg := errResp.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return nil, &portal.FetchError{Op: r.op, StatusCode: resp.StatusCode, Err: errors.New(msg)}
}

func doJSON[T any](ctx context.Context, c *Client, r request) (*T, error) {
	body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &portal.FetchError{Op: r.op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return &result, nil
}

func jsonBody(v any) (io.Reader, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(body), nil
}

// Collection returns the remote content source of one collection.
func (c *Client) Collection(name portal.Collection) *Collection {
	return &Collection{client: c, name: name}
}

// Collection lists and edits the items of one collection on the server. The
// server runs the whole listing pipeline; results are used as returned.
type Collection struct {
	client *Client
	name   portal.Collection
}

func (c *Collection) path(elem ...string) string {
	return "/" + strings.Join(append([]string{string(c.name)}, elem...), "/")
}

func (c *Collection) Fetch(ctx context.Context, q portal.ListQuery) (portal.ListResult, error) {
	res, err := doJSON[portal.ListResult](ctx, c.client, request{
		op:      "list " + string(c.name),
		method:  http.MethodGet,
		path:    c.path(),
		query:   q.Values(),
		success: []int{http.StatusOK},
	})
	if err != nil {
		return portal.ListResult{}, err
	}
	if res.Items == nil {
		res.Items = []portal.Item{}
	}
	return *res, nil
}

func (c *Collection) ByID(ctx context.Context, itemID int) (*portal.Item, error) {
	return doJSON[portal.Item](ctx, c.client, request{
		op:      "get " + string(c.name),
		method:  http.MethodGet,
		path:    c.path(strconv.Itoa(itemID)),
		success: []int{http.StatusOK},
	})
}

func (c *Collection) BySlug(ctx context.Context, slug string) (*portal.Item, error) {
	return doJSON[portal.Item](ctx, c.client, request{
		op:      "get " + string(c.name),
		method:  http.MethodGet,
		path:    c.path("slug", url.PathEscape(slug)),
		success: []int{http.StatusOK},
	})
}

func (c *Collection) Categories(ctx context.Context) ([]string, error) {
	res, err := doJSON[[]string](ctx, c.client, request{
		op:      "categories " + string(c.name),
		method:  http.MethodGet,
		path:    c.path("categories"),
		success: []int{http.StatusOK},
	})
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *Collection) Create(ctx context.Context, item portal.Item) (*portal.Item, error) {
	body, err := jsonBody(item)
	if err != nil {
		return nil, err
	}

	return doJSON[portal.Item](ctx, c.client, request{
		op:          "create " + string(c.name),
		method:      http.MethodPost,
		path:        c.path(),
		body:        body,
		contentType: "application/json",
		success:     []int{http.StatusCreated, http.StatusOK},
	})
}

// Update replaces every editable field of the item.
func (c *Collection) Update(ctx context.Context, itemID int, item portal.Item) (*portal.Item, error) {
	body, err := jsonBody(item)
	if err != nil {
		return nil, err
	}

	return doJSON[portal.Item](ctx, c.client, request{
		op:          "update " + string(c.name),
		method:      http.MethodPut,
		path:        c.path(strconv.Itoa(itemID)),
		body:        body,
		contentType: "application/json",
		success:     []int{http.StatusOK},
	})
}

// Delete removes the item. Deleting a missing item succeeds.
func (c *Collection) Delete(ctx context.Context, itemID int) error {
	_, err := c.client.do(ctx, request{
		op:      "delete " + string(c.name),
		method:  http.MethodDelete,
		path:    c.path(strconv.Itoa(itemID)),
		success: []int{http.StatusNoContent, http.StatusOK, http.StatusNotFound},
	})
	return err
}

type uploadResponse struct {
	FilePath string `json:"file_path"`
}

// Upload sends an image to the asset store and returns its file path. Files
// failing asset.Validate are rejected without a request.
func (c *Client) Upload(ctx context.Context, f asset.File) (string, error) {
	if err := asset.Validate(f); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", f.Title); err != nil {
		return "", fmt.Errorf("failed to write title: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, f.Name))
	h.Set("Content-Type", asset.TypeOf(f))
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to create part: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(f.Body, asset.MaxUploadSize+1)); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	res, err := doJSON[uploadResponse](ctx, c, request{
		op:          "upload photo",
		method:      http.MethodPost,
		path:        "/photos",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		success:     []int{http.StatusCreated, http.StatusOK},
	})
	if err != nil {
		return "", err
	}
	return res.FilePath, nil
}

func (c *Client) Photos(ctx context.Context) ([]portal.Photo, error) {
	res, err := doJSON[[]portal.Photo](ctx, c, request{
		op:      "list photos",
		method:  http.MethodGet,
		path:    "/photos",
		success: []int{http.StatusOK},
	})
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *Client) DeletePhoto(ctx context.Context, photoID int) error {
	_, err := c.do(ctx, request{
		op:      "delete photo",
		method:  http.MethodDelete,
		path:    "/photos/" + strconv.Itoa(photoID),
		success: []int{http.StatusNoContent, http.StatusOK},
	})
	return err
}
