package pagination

import "errors"

// MaxLimit bounds every paginated read.
const MaxLimit = 100

var (
	ErrInvalidLimit  = errors.New("invalid_limit")
	ErrInvalidOffset = errors.New("invalid_offset")
)

// Page is an offset window over an ordered result set.
type Page struct {
	Limit  int
	Offset int
}

// PageInfo describes the window returned alongside the items.
// Total counts every matching row, independent of Limit and Offset.
type PageInfo struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// Resolve applies defaultLimit when limit is absent and validates the window.
func Resolve(limit *int, offset *int, defaultLimit int) (Page, error) {
	page := Page{Limit: defaultLimit}
	if limit != nil {
		page.Limit = *limit
	}
	if offset != nil {
		page.Offset = *offset
	}
	if err := page.Validate(); err != nil {
		return Page{}, err
	}
	return page, nil
}

func (p Page) Validate() error {
	if p.Limit < 1 || p.Limit > MaxLimit {
		return ErrInvalidLimit
	}
	if p.Offset < 0 {
		return ErrInvalidOffset
	}
	return nil
}

func (p Page) Info(total int64) PageInfo {
	return PageInfo{Total: total, Limit: p.Limit, Offset: p.Offset}
}
