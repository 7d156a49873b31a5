package models

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page selects a window of rows using a plain integer offset as cursor.
type Page struct {
	Cursor int `query:"cursor" json:"cursor" validate:"gte=0"`
	Limit  int `query:"limit" json:"limit" validate:"gte=1,lte=100"`
}

// DefaultPage returns the first page with the default limit.
func DefaultPage() Page {
	return Page{Cursor: 0, Limit: DefaultPageLimit}
}

// Valid reports whether the cursor is not negative and the limit is within
// 1..MaxPageLimit.
func (p Page) Valid() bool {
	return p.Cursor >= 0 && p.Limit >= 1 && p.Limit <= MaxPageLimit
}

// PageResult is one page of items plus the cursor of the next page, if any.
type PageResult[T any] struct {
	Items      []T  `json:"items"`
	NextCursor *int `json:"next_cursor"`
}

// NewPageResult trims rows fetched with Limit+1 down to the page and computes
// the next cursor. A negative cursor or a page with no room yields no items
// and no next cursor.
func NewPageResult[T any](rows []T, page Page) PageResult[T] {
	if page.Cursor < 0 || page.Limit < 1 {
		return PageResult[T]{Items: []T{}}
	}
	hasMore := len(rows) > page.Limit
	if hasMore {
		rows = rows[:page.Limit]
	}
	if rows == nil {
		rows = []T{}
	}
	result := PageResult[T]{Items: rows}
	if hasMore {
		next := page.Cursor + page.Limit
		result.NextCursor = &next
	}
	return result
}
