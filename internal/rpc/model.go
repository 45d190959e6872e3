package rpc

import "time"

type ListFilter struct {
	//search case-insensitive text in title or excerpt
	Search *string `json:"search,omitempty"`
	//categories any of the given categories
	Categories []string `json:"categories,omitempty"`
	//from first date, YYYY-MM-DD
	From *string `json:"from,omitempty"`
	//to last date, YYYY-MM-DD, inclusive
	To *string `json:"to,omitempty"`
	//sortBy=date title, date, views or comments
	SortBy *string `json:"sortBy,omitempty"`
	//sortOrder asc or desc
	SortOrder *string `json:"sortOrder,omitempty"`
	//page=1 page number (1-based)
	Page *int `json:"page,omitempty"`
	//pageSize=10 items per page
	PageSize *int `json:"pageSize,omitempty"`
	//lang restricts the search and picks the display language: id or en
	Lang *string `json:"lang,omitempty"`
}

type Display struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content,omitempty"`
}

type Item struct {
	ItemID         int       `json:"itemId"`
	Collection     string    `json:"collection"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	EnglishTitle   string    `json:"englishTitle"`
	Excerpt        string    `json:"excerpt"`
	EnglishExcerpt string    `json:"englishExcerpt"`
	Category       string    `json:"category"`
	Date           time.Time `json:"date"`
	Content        string    `json:"content"`
	EnglishContent string    `json:"englishContent"`
	Featured       bool      `json:"featured"`
	Views          int       `json:"views"`
	Comments       int       `json:"comments"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Location       string    `json:"location,omitempty"`
	Stars          int       `json:"stars,omitempty"`
	Display        Display   `json:"display"`
}

// ItemSummary is an Item without its content, used in listings.
type ItemSummary struct {
	ItemID     int       `json:"itemId"`
	Collection string    `json:"collection"`
	Slug       string    `json:"slug"`
	Category   string    `json:"category"`
	Date       time.Time `json:"date"`
	Featured   bool      `json:"featured"`
	Views      int       `json:"views"`
	Comments   int       `json:"comments"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	Location   string    `json:"location,omitempty"`
	Stars      int       `json:"stars,omitempty"`
	Display    Display   `json:"display"`
}

type ItemSummaries []ItemSummary

type ListResult struct {
	Items      ItemSummaries `json:"items"`
	Featured   *ItemSummary  `json:"featured,omitempty"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}
