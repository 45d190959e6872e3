package portal

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/daniilsolovey/tourism-portal/internal/i18n"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// DateLayout is the wire format of the from/to range bounds.
	DateLayout = "2006-01-02"
)

type SortField string

const (
	SortTitle    SortField = "title"
	SortDate     SortField = "date"
	SortViews    SortField = "views"
	SortComments SortField = "comments"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

func (d SortDirection) Toggle() SortDirection {
	if d == Desc {
		return Asc
	}
	return Desc
}

// ListQuery describes one listing request. It is a value: the With methods
// return modified copies, and every filter or sort change resets Page to 1.
type ListQuery struct {
	Search        string
	Categories    []string
	From, To      *time.Time
	SortField     SortField
	SortDirection SortDirection
	Page          int
	PageSize      int
	// Language restricts the text search to one variant; empty searches both.
	Language i18n.Language
}

// NextDay returns the midnight following t's calendar day, in t's location.
// It is the exclusive upper bound of a To filter.
func NextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func (q ListQuery) WithSearch(s string) ListQuery {
	q.Search = s
	q.Page = 1
	return q
}

func (q ListQuery) WithCategories(categories ...string) ListQuery {
	q.Categories = append([]string(nil), categories...)
	q.Page = 1
	return q
}

func (q ListQuery) WithDateRange(from, to *time.Time) ListQuery {
	q.From, q.To = from, to
	q.Page = 1
	return q
}

func (q ListQuery) WithSort(field SortField, dir SortDirection) ListQuery {
	q.SortField, q.SortDirection = field, dir
	q.Page = 1
	return q
}

func (q ListQuery) WithLanguage(l i18n.Language) ListQuery {
	q.Language = l
	q.Page = 1
	return q
}

func (q ListQuery) WithPage(page int) ListQuery {
	q.Page = page
	return q
}

// Normalize fills defaults and checks the query against the collection.
func (q ListQuery) Normalize(c Collection) (ListQuery, error) {
	issues := map[string]string{}

	if q.Page == 0 {
		q.Page = 1
	} else if q.Page < 0 {
		issues["page"] = "must be positive"
	}

	switch {
	case q.PageSize == 0:
		q.PageSize = DefaultPageSize
	case q.PageSize < 0:
		issues["limit"] = "must be positive"
	case q.PageSize > MaxPageSize:
		q.PageSize = MaxPageSize
	}

	if q.SortField == "" {
		q.SortField = SortDate
		if q.SortDirection == "" {
			q.SortDirection = Desc
		}
	} else if !c.Sortable(q.SortField) {
		issues["sortBy"] = fmt.Sprintf("cannot sort %s by %q", c, q.SortField)
	}

	switch q.SortDirection {
	case "":
		q.SortDirection = Asc
	case Asc, Desc:
	default:
		issues["sortOrder"] = "must be asc or desc"
	}

	if q.Language != "" && !q.Language.Valid() {
		issues["lang"] = "must be id or en"
	}

	if q.From != nil && q.To != nil && !NextDay(*q.To).After(*q.From) {
		issues["to"] = "must not be before from"
	}

	if len(issues) > 0 {
		return q, &ValidationError{Fields: issues}
	}

	q.Categories = compactCategories(q.Categories)
	return q, nil
}

// Values encodes the query as request parameters. Zero values are omitted:
// an absent parameter means no constraint.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for _, c := range q.Categories {
		v.Add("category", c)
	}
	if q.From != nil {
		v.Set("from", q.From.Format(DateLayout))
	}
	if q.To != nil {
		v.Set("to", q.To.Format(DateLayout))
	}
	if q.SortField != "" {
		v.Set("sortBy", string(q.SortField))
	}
	if q.SortDirection != "" {
		v.Set("sortOrder", string(q.SortDirection))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("limit", strconv.Itoa(q.PageSize))
	}
	if q.Language != "" {
		v.Set("lang", string(q.Language))
	}
	return v
}

func compactCategories(categories []string) []string {
	if len(categories) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ListResult is one page of a listing. It is also the wire format of the
// list endpoint.
type ListResult struct {
	Items      []Item `json:"data"`
	TotalCount int    `json:"total"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	// Degraded marks sample data served after a failed fetch.
	Degraded bool `json:"degraded,omitempty"`
}

// TotalPages is ceil(total/pageSize) and never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func NewListResult(items []Item, total, page, pageSize int) ListResult {
	if items == nil {
		items = []Item{}
	}
	return ListResult{
		Items:      items,
		TotalCount: total,
		Page:       page,
		TotalPages: TotalPages(total, pageSize),
	}
}
