// Package pagination translates page/limit query parameters into
// offsets and response metadata for list endpoints.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is the sanitized pagination input for a list query.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Meta is the pagination block included in list responses.
type Meta struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	Total           int64 `json:"total"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Parse reads page and limit from query values, clamping page to >= 1
// and limit to 1..MaxLimit. Unparseable values fall back to defaults.
func Parse(query url.Values) Params {
	page := DefaultPage
	if s := query.Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}

	limit := DefaultLimit
	if s := query.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// NewMeta builds response metadata from the page actually served and the
// total row count.
func NewMeta(page, limit int, total int64) Meta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Meta{
		Page:            page,
		Limit:           limit,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
