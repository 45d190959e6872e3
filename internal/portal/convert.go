package portal

import (
	"github.com/daniilsolovey/tourism-portal/internal/db"
)

func NewItem(in *db.Item) Item {
	item := Item{
		ID:             in.ID,
		Collection:     Collection(in.Collection),
		Slug:           in.Slug,
		Title:          in.Title,
		EnglishTitle:   in.EnglishTitle,
		Excerpt:        in.Excerpt,
		EnglishExcerpt: in.EnglishExcerpt,
		Category:       in.Category,
		Date:           in.Date,
		Featured:       in.Featured,
		Views:          in.Views,
		Comments:       in.Comments,
		Stars:          in.Stars,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
	}

	if in.Content != nil {
		item.Content = *in.Content
	}
	if in.EnglishContent != nil {
		item.EnglishContent = *in.EnglishContent
	}
	if in.ImageURL != nil {
		item.ImageURL = *in.ImageURL
	}
	if in.Location != nil {
		item.Location = *in.Location
	}

	return item
}

// ToDB converts an item into its row. Empty optional text becomes NULL.
func (i Item) ToDB() *db.Item {
	return &db.Item{
		ID:             i.ID,
		Collection:     string(i.Collection),
		Slug:           i.Slug,
		Title:          i.Title,
		EnglishTitle:   i.EnglishTitle,
		Excerpt:        i.Excerpt,
		EnglishExcerpt: i.EnglishExcerpt,
		Category:       i.Category,
		Date:           i.Date,
		Content:        nullable(i.Content),
		EnglishContent: nullable(i.EnglishContent),
		Featured:       i.Featured,
		Views:          i.Views,
		Comments:       i.Comments,
		ImageURL:       nullable(i.ImageURL),
		Location:       nullable(i.Location),
		Stars:          i.Stars,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func NewPhoto(in *db.Photo) Photo {
	return Photo{
		ID:        in.ID,
		Title:     in.Title,
		FilePath:  in.FilePath,
		CreatedAt: in.CreatedAt,
	}
}

var sortColumns = map[SortField]string{
	SortTitle:    db.Columns.Item.Title,
	SortDate:     db.Columns.Item.Date,
	SortViews:    db.Columns.Item.Views,
	SortComments: db.Columns.Item.Comments,
}

// ToFilter converts a normalized query into the repository filter.
func (q ListQuery) ToFilter(c Collection) db.ItemFilter {
	return db.ItemFilter{
		Collection: string(c),
		Search:     q.Search,
		Language:   string(q.Language),
		Categories: q.Categories,
		From:       q.From,
		To:         q.To,
		SortColumn: sortColumns[q.SortField],
		SortDesc:   q.SortDirection == Desc,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
