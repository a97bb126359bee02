package domain

// QualityMetrics holds lab measurements published for a honey batch
type QualityMetrics struct {
	Color    string  `json:"color"`
	Purity   float64 `json:"purity"`             // percent
	Moisture float64 `json:"moisture,omitempty"` // percent
}

// Product is a single catalog entry. Products are treated as immutable once
// the catalog has been loaded.
type Product struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Type           string         `json:"type"`
	Origin         string         `json:"origin"`
	QualityMetrics QualityMetrics `json:"qualityMetrics"`
	Price          float64        `json:"price"`
	Discount       *float64       `json:"discount,omitempty"` // percent, 0-100
	BestSeller     bool           `json:"bestSeller,omitempty"`
	Images         []string       `json:"images"`
}

// HasDiscount reports whether a positive discount applies to the product
func (p Product) HasDiscount() bool {
	return p.Discount != nil && *p.Discount > 0
}

// ProductCard is the display model for a product tile in the grid or list
type ProductCard struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Subtitle        string   `json:"subtitle"` // "<type> • <origin>"
	Type            string   `json:"type"`
	Origin          string   `json:"origin"`
	Image           string   `json:"image"`
	Link            string   `json:"link"`
	Price           float64  `json:"price"`
	DiscountedPrice float64  `json:"discountedPrice"`
	Discount        *float64 `json:"discount,omitempty"`
	Badge           string   `json:"badge,omitempty"`
	Featured        bool     `json:"featured,omitempty"`
	Purity          *float64 `json:"purity,omitempty"` // featured cards only
	Color           string   `json:"color,omitempty"`  // featured cards only
}
