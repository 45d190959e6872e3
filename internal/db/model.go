// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Columns = struct {
	Item struct {
		ID, Collection, Slug, Title, EnglishTitle, Excerpt, EnglishExcerpt, Category, Date, Content, EnglishContent, Featured, Views, Comments, ImageURL, Location, Stars, CreatedAt, UpdatedAt string
	}
	Photo struct {
		ID, Title, FilePath, CreatedAt string
	}
	Draft struct {
		Key, Value, UpdatedAt string
	}
	GooseDbVersion struct {
		ID, VersionID, IsApplied, Tstamp string
	}
}{
	Item: struct {
		ID, Collection, Slug, Title, EnglishTitle, Excerpt, EnglishExcerpt, Category, Date, Content, EnglishContent, Featured, Views, Comments, ImageURL, Location, Stars, CreatedAt, UpdatedAt string
	}{
		ID:             "itemId",
		Collection:     "collection",
		Slug:           "slug",
		Title:          "title",
		EnglishTitle:   "englishTitle",
		Excerpt:        "excerpt",
		EnglishExcerpt: "englishExcerpt",
		Category:       "category",
		Date:           "date",
		Content:        "content",
		EnglishContent: "englishContent",
		Featured:       "featured",
		Views:          "views",
		Comments:       "comments",
		ImageURL:       "imageUrl",
		Location:       "location",
		Stars:          "stars",
		CreatedAt:      "createdAt",
		UpdatedAt:      "updatedAt",
	},
	Photo: struct {
		ID, Title, FilePath, CreatedAt string
	}{
		ID:        "photoId",
		Title:     "title",
		FilePath:  "filePath",
		CreatedAt: "createdAt",
	},
	Draft: struct {
		Key, Value, UpdatedAt string
	}{
		Key:       "key",
		Value:     "value",
		UpdatedAt: "updatedAt",
	},
	GooseDbVersion: struct {
		ID, VersionID, IsApplied, Tstamp string
	}{
		ID:        "id",
		VersionID: "version_id",
		IsApplied: "is_applied",
		Tstamp:    "tstamp",
	},
}

var Tables = struct {
	Item struct {
		Name, Alias string
	}
	Photo struct {
		Name, Alias string
	}
	Draft struct {
		Name, Alias string
	}
	GooseDbVersion struct {
		Name, Alias string
	}
}{
	Item: struct {
		Name, Alias string
	}{
		Name:  "items",
		Alias: "t",
	},
	Photo: struct {
		Name, Alias string
	}{
		Name:  "photos",
		Alias: "t",
	},
	Draft: struct {
		Name, Alias string
	}{
		Name:  "drafts",
		Alias: "t",
	},
	GooseDbVersion: struct {
		Name, Alias string
	}{
		Name:  "goose_db_version",
		Alias: "t",
	},
}

type Item struct {
	tableName struct{} `pg:"items,alias:t,discard_unknown_columns"`

	ID             int        `pg:"itemId,pk"`
	Collection     string     `pg:"collection,use_zero"`
	Slug           string     `pg:"slug,use_zero"`
	Title          string     `pg:"title,use_zero"`
	EnglishTitle   string     `pg:"englishTitle,use_zero"`
	Excerpt        string     `pg:"excerpt,use_zero"`
	EnglishExcerpt string     `pg:"englishExcerpt,use_zero"`
	Category       string     `pg:"category,use_zero"`
	Date           time.Time  `pg:"date,use_zero"`
	Content        *string    `pg:"content"`
	EnglishContent *string    `pg:"englishContent"`
	Featured       bool       `pg:"featured,use_zero"`
	Views          int        `pg:"views,use_zero"`
	Comments       int        `pg:"comments,use_zero"`
	ImageURL       *string    `pg:"imageUrl"`
	Location       *string    `pg:"location"`
	Stars          int        `pg:"stars,use_zero"`
	CreatedAt      time.Time  `pg:"createdAt,use_zero"`
	UpdatedAt      *time.Time `pg:"updatedAt"`
}

type Photo struct {
	tableName struct{} `pg:"photos,alias:t,discard_unknown_columns"`

	ID        int       `pg:"photoId,pk"`
	Title     string    `pg:"title,use_zero"`
	FilePath  string    `pg:"filePath,use_zero"`
	CreatedAt time.Time `pg:"createdAt,use_zero"`
}

type Draft struct {
	tableName struct{} `pg:"drafts,alias:t,discard_unknown_columns"`

	Key       string    `pg:"key,pk"`
	Value     string    `pg:"value,use_zero"`
	UpdatedAt time.Time `pg:"updatedAt,use_zero"`
}

type GooseDbVersion struct {
	tableName struct{} `pg:"goose_db_version,alias:t,discard_unknown_columns"`

	ID        int       `pg:"id,pk"`
	VersionID int64     `pg:"version_id,use_zero"`
	IsApplied bool      `pg:"is_applied,use_zero"`
	Tstamp    time.Time `pg:"tstamp,use_zero"`
}
