package portal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/tourism-portal/internal/i18n"
)

func TestLocalize(t *testing.T) {
	item := Item{
		Title: "Pantai Kuta", EnglishTitle: "Kuta Beach",
		Excerpt: "Ringkasan", EnglishExcerpt: "",
		Content: "<p>isi</p>", EnglishContent: "<p>body</p>",
	}

	assert.Equal(t, "Pantai Kuta", Localize(item, FieldTitle, i18n.Indonesian))
	assert.Equal(t, "Kuta Beach", Localize(item, FieldTitle, i18n.English))
	assert.Equal(t, "<p>body</p>", Localize(item, FieldContent, i18n.English))
	assert.Equal(t, "Ringkasan", Localize(item, FieldExcerpt, i18n.English), "empty english falls back")

	d := NewDisplay(item, i18n.English)
	assert.Equal(t, Display{Title: "Kuta Beach", Excerpt: "Ringkasan", Content: "<p>body</p>"}, d)
}

func TestFeatured(t *testing.T) {
	assert.Nil(t, Featured(nil))
	assert.Nil(t, Featured([]Item{{ID: 1}, {ID: 2}}))

	f := Featured([]Item{{ID: 1}, {ID: 2, Featured: true}, {ID: 3, Featured: true}})
	require.NotNil(t, f)
	assert.Equal(t, 2, f.ID)
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("events")
	require.NoError(t, err)
	assert.Equal(t, Events, c)

	_, err = ParseCollection("users")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, Local, Hotels.Strategy())
	assert.Equal(t, Remote, Blog.Strategy())
	assert.True(t, Hotels.ReadOnly())
	assert.True(t, Blog.Sortable(SortComments))
	assert.False(t, Events.Sortable(SortViews))
}

func TestListQuery_WithResetsPage(t *testing.T) {
	q := ListQuery{Page: 4}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, q.WithSearch("kuta").Page)
	assert.Equal(t, 1, q.WithCategories("beach").Page)
	assert.Equal(t, 1, q.WithDateRange(&from, nil).Page)
	assert.Equal(t, 1, q.WithSort(SortTitle, Asc).Page)
	assert.Equal(t, 1, q.WithLanguage(i18n.English).Page)
	assert.Equal(t, 7, q.WithPage(7).Page)
	assert.Equal(t, 4, q.Page, "original query is unchanged")

	cats := []string{"beach"}
	q2 := q.WithCategories(cats...)
	cats[0] = "art"
	assert.Equal(t, []string{"beach"}, q2.Categories)
}

func TestListQuery_Normalize(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		q, err := ListQuery{}.Normalize(Blog)
		require.NoError(t, err)
		assert.Equal(t, 1, q.Page)
		assert.Equal(t, DefaultPageSize, q.PageSize)
		assert.Equal(t, SortDate, q.SortField)
		assert.Equal(t, Desc, q.SortDirection)
	})

	t.Run("NewFieldDefaultsToAscending", func(t *testing.T) {
		q, err := ListQuery{SortField: SortTitle}.Normalize(Blog)
		require.NoError(t, err)
		assert.Equal(t, Asc, q.SortDirection)
	})

	t.Run("ClampsPageSize", func(t *testing.T) {
		q, err := ListQuery{PageSize: 500}.Normalize(Blog)
		require.NoError(t, err)
		assert.Equal(t, MaxPageSize, q.PageSize)
	})

	t.Run("CompactsCategories", func(t *testing.T) {
		q, err := ListQuery{Categories: []string{"art", "", "art", "music"}}.Normalize(Events)
		require.NoError(t, err)
		assert.Equal(t, []string{"art", "music"}, q.Categories)
	})

	t.Run("ToCoversItsWholeDay", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		_, err := ListQuery{From: &from, To: &to}.Normalize(Blog)
		assert.NoError(t, err)
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := ListQuery{
			SortField: SortViews, SortDirection: "sideways", Page: -1,
			Language: "fr", From: &from, To: &to,
		}.Normalize(Events)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "sortBy")
		assert.Contains(t, verr.Fields, "sortOrder")
		assert.Contains(t, verr.Fields, "page")
		assert.Contains(t, verr.Fields, "lang")
		assert.Contains(t, verr.Fields, "to")
	})
}

func TestListQuery_Values(t *testing.T) {
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	q := ListQuery{
		Search: "kuta", Categories: []string{"beach", "nature"}, From: &from,
		SortField: SortViews, SortDirection: Desc, Page: 2, PageSize: 20,
	}

	v := q.Values()
	assert.Equal(t, "kuta", v.Get("search"))
	assert.Equal(t, []string{"beach", "nature"}, v["category"])
	assert.Equal(t, "2024-03-05", v.Get("from"))
	assert.Empty(t, v.Get("to"))
	assert.Equal(t, "views", v.Get("sortBy"))
	assert.Equal(t, "desc", v.Get("sortOrder"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "20", v.Get("limit"))
	assert.Empty(t, ListQuery{}.Values())
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}

	r := NewListResult(nil, 0, 1, 10)
	assert.NotNil(t, r.Items)
	assert.Equal(t, 1, r.TotalPages)
}

func TestNextDay(t *testing.T) {
	wita := time.FixedZone("WITA", 8*60*60)

	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), NextDay(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), NextDay(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, wita), NextDay(time.Date(2024, 6, 30, 23, 59, 0, 0, wita)))
}

func TestItem_Validate(t *testing.T) {
	valid := Item{Title: "Pantai Kuta", Category: "beach", Date: time.Now()}
	require.NoError(t, valid.Validate())

	invalid := Item{Title: "ab", Stars: 9, Views: -1}
	err := invalid.Validate()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "category")
	assert.Contains(t, verr.Fields, "date")
	assert.Contains(t, verr.Fields, "stars")
	assert.Contains(t, verr.Fields, "views")
	assert.True(t, strings.HasPrefix(err.Error(), "validation failed: "))
}

func TestDecodeHotels(t *testing.T) {
	data := `
[[hotel]]
slug = "villa-ubud"
name = "Villa Ubud"
english_name = "Ubud Villa"
category = "villa"
listed = 2024-01-10T00:00:00Z
stars = 4
featured = true

[[hotel]]
slug = "hotel-sanur"
name = "Hotel Sanur"
category = "hotel"
listed = 2024-02-01T00:00:00Z
`
	items, err := DecodeHotels(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 2, items[1].ID)
	assert.Equal(t, Hotels, items[0].Collection)
	assert.Equal(t, "Ubud Villa", items[0].EnglishTitle)
	assert.Equal(t, 4, items[0].Stars)
	assert.True(t, items[0].Featured)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), items[1].Date.UTC())

	_, err = DecodeHotels(strings.NewReader("[[hotel]]\nid = 1\nslug = \"a\"\n[[hotel]]\nid = 1\nslug = \"b\"\n"))
	assert.Error(t, err)
}
