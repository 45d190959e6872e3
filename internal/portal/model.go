package portal

import (
	"fmt"
	"time"

	"github.com/daniilsolovey/tourism-portal/internal/i18n"
)

type Collection string

const (
	Blog   Collection = "blog"
	Events Collection = "events"
	Hotels Collection = "hotels"
)

// Strategy tells where a collection's listing pipeline runs.
type Strategy int

const (
	// Remote collections are filtered, sorted and paginated by the store.
	Remote Strategy = iota
	// Local collections are resident in memory and run the pipeline there.
	Local
)

type collectionInfo struct {
	sortFields []SortField
	strategy   Strategy
	readOnly   bool
}

var collections = map[Collection]collectionInfo{
	Blog:   {sortFields: []SortField{SortTitle, SortDate, SortViews, SortComments}, strategy: Remote},
	Events: {sortFields: []SortField{SortTitle, SortDate}, strategy: Remote},
	Hotels: {sortFields: []SortField{SortTitle, SortDate}, strategy: Local, readOnly: true},
}

func Collections() []Collection {
	return []Collection{Blog, Events, Hotels}
}

func ParseCollection(s string) (Collection, error) {
	c := Collection(s)
	if _, ok := collections[c]; !ok {
		return "", fmt.Errorf("unknown collection %q: %w", s, ErrNotFound)
	}
	return c, nil
}

func (c Collection) SortFields() []SortField {
	return collections[c].sortFields
}

func (c Collection) Sortable(f SortField) bool {
	for _, sf := range collections[c].sortFields {
		if sf == f {
			return true
		}
	}
	return false
}

func (c Collection) Strategy() Strategy {
	return collections[c].strategy
}

// ReadOnly collections are static listings without admin submissions.
func (c Collection) ReadOnly() bool {
	return collections[c].readOnly
}

// Item is a blog post, event or hotel. Text fields come in an Indonesian and
// an English variant; use Localize to pick one.
type Item struct {
	ID             int        `json:"id"`
	Collection     Collection `json:"collection"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	EnglishTitle   string     `json:"english_title"`
	Excerpt        string     `json:"excerpt"`
	EnglishExcerpt string     `json:"english_excerpt"`
	Category       string     `json:"category"`
	Date           time.Time  `json:"date"`
	Content        string     `json:"content"`
	EnglishContent string     `json:"englishcontent"`
	Featured       bool       `json:"featured"`
	Views          int        `json:"views"`
	Comments       int        `json:"comments"`
	ImageURL       string     `json:"image,omitempty"`
	Location       string     `json:"location,omitempty"`
	Stars          int        `json:"stars,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type Field int

const (
	FieldTitle Field = iota
	FieldExcerpt
	FieldContent
)

// Localize returns the variant of field for lang. An empty English variant
// falls back to the Indonesian one; the two are never combined.
func Localize(item Item, field Field, lang i18n.Language) string {
	var id, en string
	switch field {
	case FieldTitle:
		id, en = item.Title, item.EnglishTitle
	case FieldExcerpt:
		id, en = item.Excerpt, item.EnglishExcerpt
	case FieldContent:
		id, en = item.Content, item.EnglishContent
	}

	if lang == i18n.English && en != "" {
		return en
	}
	return id
}

// Display is an item's text in a single language.
type Display struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content,omitempty"`
}

func NewDisplay(item Item, lang i18n.Language) Display {
	return Display{
		Title:   Localize(item, FieldTitle, lang),
		Excerpt: Localize(item, FieldExcerpt, lang),
		Content: Localize(item, FieldContent, lang),
	}
}

// Featured returns the first featured item, nil when none is flagged.
func Featured(items []Item) *Item {
	for i := range items {
		if items[i].Featured {
			return &items[i]
		}
	}
	return nil
}

type Photo struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	FilePath  string    `json:"file_path"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
