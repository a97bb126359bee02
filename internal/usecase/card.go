package usecase

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ceylonhoney/storefront/internal/domain"
)

const bestSellerBadge = "Best Seller"

// DiscountedPrice returns the price after the product discount, rounded to
// cents. Products without a positive discount keep their list price.
func DiscountedPrice(p domain.Product) float64 {
	if !p.HasDiscount() {
		return p.Price
	}
	return roundCents(p.Price - p.Price*(*p.Discount)/100)
}

// Badge returns the corner label for a product card. A discount takes
// precedence over the best seller label.
func Badge(p domain.Product) string {
	if p.HasDiscount() {
		return strconv.FormatFloat(*p.Discount, 'f', -1, 64) + "% OFF"
	}
	if p.BestSeller {
		return bestSellerBadge
	}
	return ""
}

// NewProductCard builds the display model for one product. Featured cards
// also carry the purity and color chips.
func NewProductCard(p domain.Product, featured bool) domain.ProductCard {
	card := domain.ProductCard{
		ID:              p.ID,
		Name:            p.Name,
		Subtitle:        fmt.Sprintf("%s • %s", p.Type, p.Origin),
		Type:            p.Type,
		Origin:          p.Origin,
		Link:            "/product/" + p.ID,
		Price:           p.Price,
		DiscountedPrice: DiscountedPrice(p),
		Badge:           Badge(p),
		Featured:        featured,
	}
	if len(p.Images) > 0 {
		card.Image = p.Images[0]
	}
	if p.HasDiscount() {
		d := *p.Discount
		card.Discount = &d
	}
	if featured {
		purity := p.QualityMetrics.Purity
		card.Purity = &purity
		card.Color = p.QualityMetrics.Color
	}
	return card
}

// NewProductCards maps products to cards, preserving order
func NewProductCards(products []domain.Product, featured bool) []domain.ProductCard {
	cards := make([]domain.ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, NewProductCard(p, featured))
	}
	return cards
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
