// internal/pkg/pagination/pagination.go
package pagination

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a search term into an ILIKE substring pattern,
// escaping the wildcards the term itself carries.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Query is the page/limit pair as sent by a client. Limit stays nil when the
// parameter is absent so that an explicit limit=0 is not mistaken for it.
type Query struct {
	Page  int  `form:"page"`
	Limit *int `form:"limit"`
}

// Params is a normalized page/limit pair
type Params struct {
	Page  int
	Limit int
}

// Page is the paginated list envelope returned to clients
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Normalize clamps page to >= 1 and limit to [1, max], using def when absent
func (q Query) Normalize(def, max int) Params {
	p := Params{Page: q.Page, Limit: def}
	if p.Page < 1 {
		p.Page = 1
	}
	if q.Limit != nil {
		p.Limit = *q.Limit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > max {
		p.Limit = max
	}
	return p
}

// Offset returns the number of rows to skip
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit)
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// New builds a Page, never returning a nil Data slice
func New[T any](items []T, total int64, p Params) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data:       items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}
}
