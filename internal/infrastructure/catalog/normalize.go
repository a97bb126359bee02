package catalog

import (
	"fmt"
	"strings"

	"github.com/ceylonhoney/storefront/internal/domain"
)

// Rejection records why a source record was dropped
type Rejection struct {
	Index int
	ID    string
	Err   error
}

// Normalize trims text fields and validates every record, returning the
// valid products in source order and the rejected ones. A record is
// rejected when its ID is empty or repeated, its price is negative, its
// discount lies outside 0-100, or it has no image.
func Normalize(raw []domain.Product) ([]domain.Product, []Rejection) {
	products := make([]domain.Product, 0, len(raw))
	var rejected []Rejection
	seen := make(map[string]bool, len(raw))

	for i, p := range raw {
		p = trimProduct(p)

		err := validateProduct(p)
		if err == nil && seen[p.ID] {
			err = fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidProduct, p.ID)
		}
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, ID: p.ID, Err: err})
			continue
		}

		seen[p.ID] = true
		products = append(products, p)
	}

	return products, rejected
}

func validateProduct(p domain.Product) error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: %s has negative price %.2f", domain.ErrInvalidProduct, p.ID, p.Price)
	}
	if p.Discount != nil && (*p.Discount < 0 || *p.Discount > 100) {
		return fmt.Errorf("%w: %s has discount %.2f outside 0-100", domain.ErrInvalidProduct, p.ID, *p.Discount)
	}
	if len(p.Images) == 0 {
		return fmt.Errorf("%w: %s has no images", domain.ErrInvalidProduct, p.ID)
	}
	return nil
}

// trimProduct strips surrounding whitespace and empty image entries
func trimProduct(p domain.Product) domain.Product {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Type = strings.TrimSpace(p.Type)
	p.Origin = strings.TrimSpace(p.Origin)
	p.QualityMetrics.Color = strings.TrimSpace(p.QualityMetrics.Color)

	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	p.Images = images

	if p.Discount != nil {
		d := *p.Discount
		p.Discount = &d
	}

	return p
}
