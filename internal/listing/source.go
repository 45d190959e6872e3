package listing

import (
	"context"
	"slices"
	"sort"

	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

// Source answers listing queries for one collection.
type Source interface {
	Fetch(ctx context.Context, q portal.ListQuery) (portal.ListResult, error)
}

type SourceFunc func(ctx context.Context, q portal.ListQuery) (portal.ListResult, error)

func (f SourceFunc) Fetch(ctx context.Context, q portal.ListQuery) (portal.ListResult, error) {
	return f(ctx, q)
}

// Local keeps a whole collection resident and runs the pipeline in memory.
type Local struct {
	collection portal.Collection
	items      []portal.Item
}

func NewLocal(c portal.Collection, items []portal.Item) *Local {
	return &Local{
		collection: c,
		items:      slices.Clone(items),
	}
}

func (l *Local) Collection() portal.Collection {
	return l.collection
}

func (l *Local) Fetch(_ context.Context, q portal.ListQuery) (portal.ListResult, error) {
	q, err := q.Normalize(l.collection)
	if err != nil {
		return portal.ListResult{}, err
	}

	return Run(l.items, q), nil
}

// List is Fetch under the name portal.Reader uses.
func (l *Local) List(ctx context.Context, q portal.ListQuery) (portal.ListResult, error) {
	return l.Fetch(ctx, q)
}

func (l *Local) ByID(_ context.Context, itemID int) (*portal.Item, error) {
	for i := range l.items {
		if l.items[i].ID == itemID {
			it := l.items[i]
			return &it, nil
		}
	}
	return nil, portal.ErrNotFound
}

func (l *Local) BySlug(_ context.Context, slug string) (*portal.Item, error) {
	for i := range l.items {
		if l.items[i].Slug == slug {
			it := l.items[i]
			return &it, nil
		}
	}
	return nil, portal.ErrNotFound
}

func (l *Local) Categories(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	categories := []string{}
	for _, it := range l.items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		categories = append(categories, it.Category)
	}
	sort.Strings(categories)

	return categories, nil
}

// Items returns a copy of the resident collection.
func (l *Local) Items() []portal.Item {
	return slices.Clone(l.items)
}
