package portal

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
)

type hotelRecord struct {
	ID          int       `toml:"id"`
	Slug        string    `toml:"slug"`
	Name        string    `toml:"name"`
	EnglishName string    `toml:"english_name"`
	Description string    `toml:"description"`
	EnglishDesc string    `toml:"english_description"`
	Category    string    `toml:"category"`
	Listed      time.Time `toml:"listed"`
	Location    string    `toml:"location"`
	Stars       int       `toml:"stars"`
	Image       string    `toml:"image"`
	Featured    bool      `toml:"featured"`
}

type hotelFile struct {
	Hotels []hotelRecord `toml:"hotel"`
}

// DecodeHotels reads the static hotel listing. Records without an id are
// numbered in file order.
func DecodeHotels(r io.Reader) ([]Item, error) {
	var file hotelFile
	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode hotels: %w", err)
	}

	items := make([]Item, 0, len(file.Hotels))
	seen := make(map[int]struct{}, len(file.Hotels))
	for i, h := range file.Hotels {
		id := h.ID
		if id == 0 {
			id = i + 1
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("decode hotels: duplicate id %d", id)
		}
		seen[id] = struct{}{}

		item := Item{
			ID:             id,
			Collection:     Hotels,
			Slug:           h.Slug,
			Title:          h.Name,
			EnglishTitle:   h.EnglishName,
			Excerpt:        h.Description,
			EnglishExcerpt: h.EnglishDesc,
			Category:       h.Category,
			Date:           h.Listed,
			Location:       h.Location,
			Stars:          h.Stars,
			ImageURL:       h.Image,
			Featured:       h.Featured,
		}
		if item.Slug == "" {
			slug, err := SlugFor(item)
			if err != nil {
				return nil, fmt.Errorf("decode hotels: slug for %q: %w", h.Name, err)
			}
			item.Slug = slug
		}
		items = append(items, item)
	}

	return items, nil
}
