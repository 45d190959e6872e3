package rest

import "time"

// ListRequest holds the list query parameters, decoded with urlstruct.
type ListRequest struct {
	Search    string   `urlstruct:"search"`
	Category  []string `urlstruct:"category"`
	From      string   `urlstruct:"from"`
	To        string   `urlstruct:"to"`
	SortBy    string   `urlstruct:"sortBy"`
	SortOrder string   `urlstruct:"sortOrder"`
	Page      int      `urlstruct:"page"`
	Limit     int      `urlstruct:"limit"`
	Lang      string   `urlstruct:"lang"`
}

type Display struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content,omitempty"`
}

type Item struct {
	ID             int        `json:"id"`
	Collection     string     `json:"collection"`
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
	Image          string     `json:"image,omitempty"`
	Location       string     `json:"location,omitempty"`
	Stars          int        `json:"stars,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
	Display        Display    `json:"display"`
}

// ItemInput is the body of create and update requests. Update replaces every
// field, omitted ones become empty.
type ItemInput struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	EnglishTitle   string    `json:"english_title"`
	Excerpt        string    `json:"excerpt"`
	EnglishExcerpt string    `json:"english_excerpt"`
	Category       string    `json:"category"`
	Date           time.Time `json:"date"`
	Content        string    `json:"content"`
	EnglishContent string    `json:"englishcontent"`
	Featured       bool      `json:"featured"`
	Views          int       `json:"views"`
	Comments       int       `json:"comments"`
	Image          string    `json:"image"`
	Location       string    `json:"location"`
	Stars          int       `json:"stars"`
}

type ListResponse struct {
	Data       []Item `json:"data"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
}

type Photo struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	FilePath  string    `json:"file_path"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

