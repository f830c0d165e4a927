// Package pagination holds the page/limit arithmetic shared by list endpoints.
package pagination

import "math"

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxOffset bounds Offset so huge page numbers cannot overflow.
	MaxOffset = math.MaxInt32
)

// Page is a normalized page request.
type Page struct {
	Number int
	Limit  int
}

// New normalizes a 1-based page number and limit. Values below 1 fall back
// to the first page and defaultLimit; limits are capped at MaxLimit and page
// numbers at the last page whose offset fits in MaxOffset.
func New(number, limit, defaultLimit int) Page {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if maxPage := MaxOffset/limit + 1; number > maxPage {
		number = maxPage
	}
	return Page{Number: number, Limit: limit}
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages returns ceil(total / limit).
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// Next returns the next page number when a full page was returned, or nil.
// Callers fetch Limit+1 rows and pass the raw count so the check is exact.
func (p Page) Next(fetched int) *int {
	if fetched <= p.Limit {
		return nil
	}
	n := p.Number + 1
	return &n
}
