// Package listing filters, sorts and paginates collections and drives the
// listing view on top of a content source.
package listing

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/daniilsolovey/tourism-portal/internal/i18n"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

// ApplyFilters keeps the items matching every active filter. Within the
// category filter any listed category matches.
func ApplyFilters(items []portal.Item, q portal.ListQuery) []portal.Item {
	search := strings.ToLower(q.Search)

	var categories map[string]struct{}
	if len(q.Categories) > 0 {
		categories = make(map[string]struct{}, len(q.Categories))
		for _, c := range q.Categories {
			categories[c] = struct{}{}
		}
	}

	var until time.Time
	if q.To != nil {
		// the upper bound covers the whole calendar day
		until = portal.NextDay(*q.To)
	}

	out := make([]portal.Item, 0, len(items))
	for _, it := range items {
		if search != "" && !matchesSearch(it, search, q.Language) {
			continue
		}
		if categories != nil {
			if _, ok := categories[it.Category]; !ok {
				continue
			}
		}
		if q.From != nil && it.Date.Before(*q.From) {
			continue
		}
		if q.To != nil && !it.Date.Before(until) {
			continue
		}
		out = append(out, it)
	}

	return out
}

func matchesSearch(it portal.Item, needle string, lang i18n.Language) bool {
	var fields []string
	switch lang {
	case i18n.Indonesian:
		fields = []string{it.Title, it.Excerpt}
	case i18n.English:
		fields = []string{it.EnglishTitle, it.EnglishExcerpt}
	default:
		fields = []string{it.Title, it.Excerpt, it.EnglishTitle, it.EnglishExcerpt}
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// ApplySort returns a sorted copy. The sort is stable and descending order
// only negates the comparison, so items with equal keys keep their input
// order in both directions.
func ApplySort(items []portal.Item, field portal.SortField, dir portal.SortDirection) []portal.Item {
	out := slices.Clone(items)
	compare := comparator(field)

	sign := 1
	if dir == portal.Desc {
		sign = -1
	}

	slices.SortStableFunc(out, func(a, b portal.Item) int {
		return sign * compare(a, b)
	})
	return out
}

func comparator(field portal.SortField) func(a, b portal.Item) int {
	switch field {
	case portal.SortTitle:
		// collate.Collator keeps scratch buffers, one per sort call
		c := collate.New(language.Indonesian, collate.IgnoreCase)
		return func(a, b portal.Item) int {
			return c.CompareString(a.Title, b.Title)
		}
	case portal.SortViews:
		return func(a, b portal.Item) int { return cmp.Compare(a.Views, b.Views) }
	case portal.SortComments:
		return func(a, b portal.Item) int { return cmp.Compare(a.Comments, b.Comments) }
	default:
		return func(a, b portal.Item) int { return a.Date.Compare(b.Date) }
	}
}

// Paginate returns the page-th window of size pageSize. Pages outside the
// range yield an empty slice.
func Paginate(items []portal.Item, page, pageSize int) []portal.Item {
	if page < 1 || pageSize < 1 {
		return []portal.Item{}
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []portal.Item{}
	}
	end := min(start+pageSize, len(items))

	return slices.Clone(items[start:end])
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	return max(1, min(page, max(totalPages, 1)))
}

// Run applies filters, sort and pagination of a normalized query.
func Run(items []portal.Item, q portal.ListQuery) portal.ListResult {
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = portal.DefaultPageSize
	}
	page := max(q.Page, 1)

	matched := ApplySort(ApplyFilters(items, q), q.SortField, q.SortDirection)
	return portal.NewListResult(Paginate(matched, page, pageSize), len(matched), page, pageSize)
}

// SortState is the sort selection of a listing view.
type SortState struct {
	Field     portal.SortField
	Direction portal.SortDirection
}

// Select picks field: selecting the active field toggles the direction, a
// new field starts ascending.
func (s SortState) Select(field portal.SortField) SortState {
	if s.Field == field {
		return SortState{Field: field, Direction: s.Direction.Toggle()}
	}
	return SortState{Field: field, Direction: portal.Asc}
}
