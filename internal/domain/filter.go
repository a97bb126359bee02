package domain

import (
	"fmt"
	"strings"
)

// Dimension names a product attribute that can constrain results
type Dimension string

const (
	DimensionType   Dimension = "type"
	DimensionOrigin Dimension = "origin"
	DimensionColor  Dimension = "color"
)

// FilterState maps a dimension to its accepted values. An empty value list
// places no constraint on that dimension.
type FilterState map[Dimension][]string

// Active returns true when at least one dimension has accepted values
func (f FilterState) Active() bool {
	for _, values := range f {
		if len(values) > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate without aliasing
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for dim, values := range f {
		out[dim] = append([]string(nil), values...)
	}
	return out
}

// ViewMode selects how the display layer lays out products
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseViewMode parses a view flag. An empty string defaults to grid.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewGrid:
		return ViewGrid, nil
	case ViewList:
		return ViewList, nil
	}
	return "", fmt.Errorf("%w: unknown view mode %q", ErrInvalidRequest, s)
}

// BrowseRequest is one evaluation of the homepage search and filters
type BrowseRequest struct {
	Query   string
	Filters FilterState
	View    ViewMode
	Limit   int
	Offset  int
}

// BrowseResult is the filtered view handed to the display layer
type BrowseResult struct {
	Products       []ProductCard `json:"products"`
	Total          int           `json:"total"`
	Limit          int           `json:"limit"`
	Offset         int           `json:"offset"`
	View           ViewMode      `json:"view"`
	IgnoredFilters []string      `json:"ignoredFilters,omitempty"`
	Suggestion     string        `json:"suggestion,omitempty"` // corrected query when nothing matched
}

// FacetValue is one selectable value in the filter sidebar
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// PriceRange is the lowest and highest list price in the catalog
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Facets lists the filter options available for a catalog
type Facets struct {
	Dimensions map[Dimension][]FacetValue `json:"dimensions"`
	PriceRange PriceRange                 `json:"priceRange"`
}
