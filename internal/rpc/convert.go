package rpc

import (
	"fmt"
	"time"

	"github.com/daniilsolovey/tourism-portal/internal/i18n"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

func NewDisplay(d portal.Display) Display {
	return Display{
		Title:   d.Title,
		Excerpt: d.Excerpt,
		Content: d.Content,
	}
}

func NewItem(in portal.Item, lang i18n.Language) Item {
	return Item{
		ItemID:         in.ID,
		Collection:     string(in.Collection),
		Slug:           in.Slug,
		Title:          in.Title,
		EnglishTitle:   in.EnglishTitle,
		Excerpt:        in.Excerpt,
		EnglishExcerpt: in.EnglishExcerpt,
		Category:       in.Category,
		Date:           in.Date,
		Content:        in.Content,
		EnglishContent: in.EnglishContent,
		Featured:       in.Featured,
		Views:          in.Views,
		Comments:       in.Comments,
		ImageURL:       in.ImageURL,
		Location:       in.Location,
		Stars:          in.Stars,
		Display:        NewDisplay(portal.NewDisplay(in, lang)),
	}
}

func NewItemSummary(in portal.Item, lang i18n.Language) ItemSummary {
	d := portal.NewDisplay(in, lang)
	d.Content = ""

	return ItemSummary{
		ItemID:     in.ID,
		Collection: string(in.Collection),
		Slug:       in.Slug,
		Category:   in.Category,
		Date:       in.Date,
		Featured:   in.Featured,
		Views:      in.Views,
		Comments:   in.Comments,
		ImageURL:   in.ImageURL,
		Location:   in.Location,
		Stars:      in.Stars,
		Display:    NewDisplay(d),
	}
}

func NewListResult(res portal.ListResult, lang i18n.Language) ListResult {
	out := ListResult{
		Items:      NewItemSummaries(res.Items, lang),
		Total:      res.TotalCount,
		Page:       res.Page,
		TotalPages: res.TotalPages,
	}
	if f := portal.Featured(res.Items); f != nil {
		s := NewItemSummary(*f, lang)
		out.Featured = &s
	}

	return out
}

// ToQuery converts the filter and returns the display language. Malformed
// dates and languages are reported as field issues.
func (f ListFilter) ToQuery() (portal.ListQuery, i18n.Language, error) {
	q := portal.ListQuery{
		Search:        deref(f.Search),
		Categories:    f.Categories,
		SortField:     portal.SortField(deref(f.SortBy)),
		SortDirection: portal.SortDirection(deref(f.SortOrder)),
		Page:          deref(f.Page),
		PageSize:      deref(f.PageSize),
	}

	issues := map[string]string{}
	var err error
	if q.From, err = parseDate(f.From); err != nil {
		issues["from"] = err.Error()
	}
	if q.To, err = parseDate(f.To); err != nil {
		issues["to"] = err.Error()
	}

	lang, err := parseLang(f.Lang)
	if err != nil {
		issues["lang"] = "must be id or en"
	} else if f.Lang != nil {
		q.Language = lang
	}

	if len(issues) > 0 {
		return q, lang, &portal.ValidationError{Fields: issues}
	}
	return q, lang, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(portal.DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("must be a %s date", portal.DateLayout)
	}
	return &t, nil
}

func parseLang(s *string) (i18n.Language, error) {
	if s == nil || *s == "" {
		return i18n.Default, nil
	}
	return i18n.Parse(*s)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
