package portal

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
)

var isSlug = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" || slug.IsValid(s) {
		return nil
	}
	return errors.New("must be lowercase words separated by hyphens")
})

// Validate checks an admin submission. Field names in the returned error
// match the JSON names.
func (i Item) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required, validation.Length(3, 255)),
		validation.Field(&i.EnglishTitle, validation.Length(0, 255)),
		validation.Field(&i.Slug, validation.Length(0, 255), isSlug),
		validation.Field(&i.Excerpt, validation.Length(0, 1000)),
		validation.Field(&i.EnglishExcerpt, validation.Length(0, 1000)),
		validation.Field(&i.Category, validation.Required, validation.Length(1, 64)),
		validation.Field(&i.Date, validation.Required),
		validation.Field(&i.Views, validation.Min(0)),
		validation.Field(&i.Comments, validation.Min(0)),
		validation.Field(&i.Stars, validation.Min(0), validation.Max(5)),
		validation.Field(&i.Location, validation.Length(0, 255)),
	)
	if err != nil {
		return newValidationError(err)
	}
	return nil
}

// SlugFor derives the slug of an item, preferring an explicit one.
func SlugFor(item Item) (string, error) {
	source := item.Slug
	if source == "" {
		source = item.Title
	}
	return slug.Normalize(strings.TrimSpace(source))
}
