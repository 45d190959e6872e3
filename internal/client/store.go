package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

// Store returns the server-side key-value store. It satisfies kvstore.Store,
// so drafts and the language preference survive across devices.
func (c *Client) Store() *Store {
	return &Store{client: c}
}

type Store struct {
	client *Client
}

type kvValue struct {
	Value string `json:"value"`
}

func kvPath(key string) string {
	return "/kv/" + url.PathEscape(key)
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := doJSON[kvValue](ctx, s.client, request{
		op:      "get " + key,
		method:  http.MethodGet,
		path:    kvPath(key),
		success: []int{http.StatusOK},
	})
	if errors.Is(err, portal.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return res.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	body, err := jsonBody(kvValue{Value: value})
	if err != nil {
		return err
	}

	_, err = s.client.do(ctx, request{
		op:          "set " + key,
		method:      http.MethodPut,
		path:        kvPath(key),
		body:        body,
		contentType: "application/json",
		success:     []int{http.StatusNoContent, http.StatusOK},
	})
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.do(ctx, request{
		op:      "delete " + key,
		method:  http.MethodDelete,
		path:    kvPath(key),
		success: []int{http.StatusNoContent, http.StatusOK, http.StatusNotFound},
	})
	return err
}
