package rpc

import (
	"context"
	"errors"
	"net/http"

	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/tourism-portal/internal/i18n"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

//go:generate zenrpc

// ContentService provides read-only RPC methods over the content collections.
type ContentService struct {
	zenrpc.Service
	readers map[portal.Collection]portal.Reader
}

func NewContentService(readers map[portal.Collection]portal.Reader) *ContentService {
	return &ContentService{readers: readers}
}

func (s *ContentService) reader(collection string) (portal.Reader, error) {
	c, err := portal.ParseCollection(collection)
	if err != nil {
		return nil, zenrpc.NewStringError(http.StatusNotFound, "unknown collection")
	}

	r, ok := s.readers[c]
	if !ok {
		return nil, zenrpc.NewStringError(http.StatusNotFound, "unknown collection")
	}
	return r, nil
}

// newError maps errors of the content layer to RPC errors.
func newError(err error) error {
	var verr *portal.ValidationError
	switch {
	case errors.As(err, &verr):
		return &zenrpc.Error{Code: http.StatusBadRequest, Message: "validation failed", Data: verr.Fields}
	case errors.Is(err, portal.ErrNotFound):
		return zenrpc.NewStringError(http.StatusNotFound, "item not found")
	}
	return err
}

// List filters, sorts and paginates a collection. Items come without content;
// the first featured item of the page is repeated in featured.
//
//zenrpc:collection blog, events or hotels
//zenrpc:filter optional filter, sort and page
//zenrpc:return one page of item summaries
//zenrpc:400 invalid filter
//zenrpc:404 unknown collection
//zenrpc:500 internal server error
func (s *ContentService) List(ctx context.Context, collection string, filter *ListFilter) (*ListResult, error) {
	r, err := s.reader(collection)
	if err != nil {
		return nil, err
	}

	var f ListFilter
	if filter != nil {
		f = *filter
	}

	q, lang, err := f.ToQuery()
	if err != nil {
		return nil, newError(err)
	}

	res, err := r.List(ctx, q)
	if err != nil {
		return nil, newError(err)
	}

	list := NewListResult(res, lang)
	return &list, nil
}

// ByID retrieves a single item with full content.
//
//zenrpc:collection blog, events or hotels
//zenrpc:id item numeric ID
//zenrpc:lang display language, id or en
//zenrpc:return item with full content
//zenrpc:400 id must be positive
//zenrpc:404 item not found
//zenrpc:500 internal server error
func (s *ContentService) ByID(ctx context.Context, collection string, id int, lang *string) (*Item, error) {
	if id <= 0 {
		return nil, zenrpc.NewStringError(http.StatusBadRequest, "id must be positive")
	}

	r, err := s.reader(collection)
	if err != nil {
		return nil, err
	}

	l, err := parseLang(lang)
	if err != nil {
		return nil, zenrpc.NewStringError(http.StatusBadRequest, "lang must be id or en")
	}

	item, err := r.ByID(ctx, id)
	if err != nil {
		return nil, newError(err)
	}

	res := NewItem(*item, l)
	return &res, nil
}

// BySlug retrieves a single item by its slug.
//
//zenrpc:collection blog, events or hotels
//zenrpc:slug item slug
//zenrpc:lang display language, id or en
//zenrpc:return item with full content
//zenrpc:404 item not found
//zenrpc:500 internal server error
func (s *ContentService) BySlug(ctx context.Context, collection, slug string, lang *string) (*Item, error) {
	r, err := s.reader(collection)
	if err != nil {
		return nil, err
	}

	l, err := parseLang(lang)
	if err != nil {
		return nil, zenrpc.NewStringError(http.StatusBadRequest, "lang must be id or en")
	}

	item, err := r.BySlug(ctx, slug)
	if err != nil {
		return nil, newError(err)
	}

	res := NewItem(*item, l)
	return &res, nil
}

// Categories returns the distinct categories of a collection in ascending order.
//
//zenrpc:collection blog, events or hotels
//zenrpc:return list of categories
//zenrpc:404 unknown collection
//zenrpc:500 internal server error
func (s *ContentService) Categories(ctx context.Context, collection string) ([]string, error) {
	r, err := s.reader(collection)
	if err != nil {
		return nil, err
	}

	return r.Categories(ctx)
}

// Languages returns the supported display languages, the default first.
//
//zenrpc:return language codes
func (s *ContentService) Languages() []string {
	return []string{string(i18n.Indonesian), string(i18n.English)}
}
