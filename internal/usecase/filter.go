package usecase

import (
	"sort"
	"strings"

	"github.com/ceylonhoney/storefront/internal/domain"
)

// attributeAccessor reads the value a product holds for a filter dimension.
// The bool is false when the product has no value for it.
type attributeAccessor func(p *domain.Product) (string, bool)

// dimensionAccessors is the closed set of dimensions the engine understands.
// Dimensions not listed here are ignored by FilterProducts.
var dimensionAccessors = map[domain.Dimension]attributeAccessor{
	domain.DimensionType: func(p *domain.Product) (string, bool) {
		return p.Type, p.Type != ""
	},
	domain.DimensionOrigin: func(p *domain.Product) (string, bool) {
		return p.Origin, p.Origin != ""
	},
	domain.DimensionColor: func(p *domain.Product) (string, bool) {
		return p.QualityMetrics.Color, p.QualityMetrics.Color != ""
	},
}

// KnownDimensions returns the supported filter dimensions in stable order
func KnownDimensions() []domain.Dimension {
	return []domain.Dimension{domain.DimensionType, domain.DimensionOrigin, domain.DimensionColor}
}

// IsKnownDimension reports whether the engine can filter on dim
func IsKnownDimension(dim domain.Dimension) bool {
	_, ok := dimensionAccessors[dim]
	return ok
}

// UnknownDimensions lists the constrained dimensions the engine will ignore,
// sorted by name.
func UnknownDimensions(filters domain.FilterState) []string {
	var unknown []string
	for dim, values := range filters {
		if len(values) == 0 || IsKnownDimension(dim) {
			continue
		}
		unknown = append(unknown, string(dim))
	}
	sort.Strings(unknown)
	return unknown
}

// FilterProducts returns the products matching the search query and every
// active filter dimension, in catalog order. The catalog slice is never
// modified and the result never contains a product absent from it.
//
// The query matches case-insensitively as a substring of name, description
// or type. Within a dimension accepted values are OR-ed, across dimensions
// they are AND-ed.
func FilterProducts(catalog []domain.Product, query string, filters domain.FilterState) []domain.Product {
	needle := strings.ToLower(query)
	constraints := compileConstraints(filters)

	result := make([]domain.Product, 0, len(catalog))
	for i := range catalog {
		p := &catalog[i]
		if needle != "" && !matchesQuery(p, needle) {
			continue
		}
		if !matchesConstraints(p, constraints) {
			continue
		}
		result = append(result, *p)
	}
	return result
}

// constraint is a compiled filter dimension: accessor plus accepted set
type constraint struct {
	get      attributeAccessor
	accepted map[string]struct{}
}

func compileConstraints(filters domain.FilterState) []constraint {
	var out []constraint
	for _, dim := range KnownDimensions() {
		values := filters[dim]
		if len(values) == 0 {
			continue
		}
		accepted := make(map[string]struct{}, len(values))
		for _, v := range values {
			accepted[v] = struct{}{}
		}
		out = append(out, constraint{get: dimensionAccessors[dim], accepted: accepted})
	}
	return out
}

func matchesQuery(p *domain.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Type), needle)
}

func matchesConstraints(p *domain.Product, constraints []constraint) bool {
	for _, c := range constraints {
		value, ok := c.get(p)
		if !ok {
			return false
		}
		if _, accepted := c.accepted[value]; !accepted {
			return false
		}
	}
	return true
}
