package rest

import (
	"fmt"
	"time"

	"github.com/daniilsolovey/tourism-portal/internal/asset"
	"github.com/daniilsolovey/tourism-portal/internal/i18n"
	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

func NewItem(in portal.Item, lang i18n.Language) Item {
	d := portal.NewDisplay(in, lang)

	return Item{
		ID:             in.ID,
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
		Image:          in.ImageURL,
		Location:       in.Location,
		Stars:          in.Stars,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
		Display: Display{
			Title:   d.Title,
			Excerpt: d.Excerpt,
			Content: d.Content,
		},
	}
}

func NewItems(in []portal.Item, lang i18n.Language) []Item {
	return portal.Map(in, func(it *portal.Item) Item { return NewItem(*it, lang) })
}

func NewListResponse(res portal.ListResult, lang i18n.Language) ListResponse {
	return ListResponse{
		Data:       NewItems(res.Items, lang),
		Total:      res.TotalCount,
		Page:       res.Page,
		TotalPages: res.TotalPages,
	}
}

func (in ItemInput) ToPortal() portal.Item {
	return portal.Item{
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
		ImageURL:       in.Image,
		Location:       in.Location,
		Stars:          in.Stars,
	}
}

// ToQuery converts the raw parameters. Malformed dates and languages become
// field issues; the rest is checked by ListQuery.Normalize.
func (r ListRequest) ToQuery() (portal.ListQuery, error) {
	q := portal.ListQuery{
		Search:        r.Search,
		Categories:    r.Category,
		SortField:     portal.SortField(r.SortBy),
		SortDirection: portal.SortDirection(r.SortOrder),
		Page:          r.Page,
		PageSize:      r.Limit,
	}

	issues := map[string]string{}
	var err error
	if q.From, err = parseDate(r.From); err != nil {
		issues["from"] = err.Error()
	}
	if q.To, err = parseDate(r.To); err != nil {
		issues["to"] = err.Error()
	}
	if r.Lang != "" {
		if q.Language, err = i18n.Parse(r.Lang); err != nil {
			issues["lang"] = "must be id or en"
		}
	}

	if len(issues) > 0 {
		return q, &portal.ValidationError{Fields: issues}
	}
	return q, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(portal.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("must be a %s date", portal.DateLayout)
	}
	return &t, nil
}

func NewPhoto(in portal.Photo, baseURL string) Photo {
	return Photo{
		ID:        in.ID,
		Title:     in.Title,
		FilePath:  in.FilePath,
		URL:       asset.URL(baseURL, in.FilePath),
		CreatedAt: in.CreatedAt,
	}
}

func NewPhotos(in []portal.Photo, baseURL string) []Photo {
	return portal.Map(in, func(p *portal.Photo) Photo { return NewPhoto(*p, baseURL) })
}
