package usecase

import (
	"fmt"
	"testing"

	"github.com/ceylonhoney/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

// sampleCatalog mirrors the storefront mock data
func sampleCatalog() []domain.Product {
	return []domain.Product{
		{
			ID: "p1", Name: "Wild Forest Honey", Description: "Raw honey from the central hills",
			Type: "Wild", Origin: "Kandy", QualityMetrics: domain.QualityMetrics{Color: "Amber", Purity: 99},
			Price: 24.5, BestSeller: true, Images: []string{"/img/p1.jpg"},
		},
		{
			ID: "p2", Name: "Kithul Treacle", Description: "Palm syrup, thick and smoky",
			Type: "Syrup", Origin: "Galle", QualityMetrics: domain.QualityMetrics{Color: "Dark", Purity: 97},
			Price: 12, Images: []string{"/img/p2.jpg"},
		},
		{
			ID: "p3", Name: "Cinnamon Blossom", Description: "Light floral HONEY from cinnamon gardens",
			Type: "Floral", Origin: "Galle", QualityMetrics: domain.QualityMetrics{Color: "Light", Purity: 98},
			Price: 18, Discount: floatPtr(10), Images: []string{"/img/p3.jpg"},
		},
		{
			ID: "p4", Name: "Mountain Wildflower", Description: "Collected above the tea line",
			Type: "Wild", Origin: "Nuwara Eliya", QualityMetrics: domain.QualityMetrics{Color: "Dark", Purity: 96},
			Price: 30, Images: []string{"/img/p4.jpg"},
		},
		{
			ID: "p5", Name: "Mystery Jar", Description: "Unlabelled batch",
			Type: "Wild", Price: 5, Images: []string{"/img/p5.jpg"},
		},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterProducts_Identity(t *testing.T) {
	catalog := sampleCatalog()

	assert.Equal(t, catalog, FilterProducts(catalog, "", nil))
	assert.Equal(t, catalog, FilterProducts(catalog, "", domain.FilterState{}))
	assert.Equal(t, catalog, FilterProducts(catalog, "", domain.FilterState{
		domain.DimensionType:   {},
		domain.DimensionOrigin: nil,
	}))
}

func TestFilterProducts_EmptyCatalog(t *testing.T) {
	got := FilterProducts(nil, "honey", domain.FilterState{domain.DimensionType: {"Wild"}})
	assert.Empty(t, got)
}

func TestFilterProducts_Search(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"matches name", "forest", []string{"p1"}},
		{"case insensitive", "HONEY", []string{"p1", "p3"}},
		{"matches description", "tea line", []string{"p4"}},
		{"matches type", "syrup", []string{"p2"}},
		{"no match", "mead", []string{}},
		{"origin is not searched", "kandy", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProducts(sampleCatalog(), tt.query, nil)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterProducts_Dimensions(t *testing.T) {
	tests := []struct {
		name    string
		filters domain.FilterState
		want    []string
	}{
		{
			name:    "single type",
			filters: domain.FilterState{domain.DimensionType: {"Wild"}},
			want:    []string{"p1", "p4", "p5"},
		},
		{
			name:    "color reads quality metrics",
			filters: domain.FilterState{domain.DimensionColor: {"Amber", "Dark"}},
			want:    []string{"p1", "p2", "p4"},
		},
		{
			name: "AND across dimensions",
			filters: domain.FilterState{
				domain.DimensionType:   {"Wild"},
				domain.DimensionOrigin: {"Kandy"},
			},
			want: []string{"p1"},
		},
		{
			name:    "missing attribute is excluded",
			filters: domain.FilterState{domain.DimensionOrigin: {""}},
			want:    []string{},
		},
		{
			name:    "unknown dimension is ignored",
			filters: domain.FilterState{"flavor": {"Smoky"}},
			want:    []string{"p1", "p2", "p3", "p4", "p5"},
		},
		{
			name:    "values match exactly",
			filters: domain.FilterState{domain.DimensionType: {"wild"}},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProducts(sampleCatalog(), "", tt.filters)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterProducts_AndEqualsComposition(t *testing.T) {
	catalog := sampleCatalog()

	combined := FilterProducts(catalog, "", domain.FilterState{
		domain.DimensionType:   {"Wild"},
		domain.DimensionOrigin: {"Kandy"},
	})
	composed := FilterProducts(
		FilterProducts(catalog, "", domain.FilterState{domain.DimensionType: {"Wild"}}),
		"",
		domain.FilterState{domain.DimensionOrigin: {"Kandy"}},
	)

	assert.Equal(t, composed, combined)
}

func TestFilterProducts_OrWithinDimension(t *testing.T) {
	catalog := sampleCatalog()

	amber := FilterProducts(catalog, "", domain.FilterState{domain.DimensionColor: {"Amber"}})
	dark := FilterProducts(catalog, "", domain.FilterState{domain.DimensionColor: {"Dark"}})
	both := FilterProducts(catalog, "", domain.FilterState{domain.DimensionColor: {"Amber", "Dark"}})

	assert.ElementsMatch(t, append(ids(amber), ids(dark)...), ids(both))
}

func TestFilterProducts_SubsetAndStable(t *testing.T) {
	catalog := sampleCatalog()
	position := make(map[string]int, len(catalog))
	for i, p := range catalog {
		position[p.ID] = i
	}

	queries := []string{"", "honey", "wild", "a"}
	filterSets := []domain.FilterState{
		nil,
		{domain.DimensionType: {"Wild", "Floral"}},
		{domain.DimensionOrigin: {"Galle"}, domain.DimensionColor: {"Dark", "Light"}},
	}

	for _, q := range queries {
		for i, f := range filterSets {
			t.Run(fmt.Sprintf("%q/%d", q, i), func(t *testing.T) {
				got := FilterProducts(catalog, q, f)
				last := -1
				for _, p := range got {
					idx, ok := position[p.ID]
					require.True(t, ok, "product %s not in catalog", p.ID)
					assert.Equal(t, catalog[idx], p)
					assert.Greater(t, idx, last, "order not preserved")
					last = idx
				}
			})
		}
	}
}

func TestFilterProducts_DoesNotMutateInput(t *testing.T) {
	catalog := sampleCatalog()
	before := sampleCatalog()

	_ = FilterProducts(catalog, "honey", domain.FilterState{domain.DimensionType: {"Wild"}})

	assert.Equal(t, before, catalog)
}

func TestFilterProducts_HoneyScenario(t *testing.T) {
	catalog := []domain.Product{
		{Name: "Wild Forest Honey", Type: "Wild", Origin: "Kandy", QualityMetrics: domain.QualityMetrics{Color: "Amber"}},
		{Name: "Kithul Treacle", Type: "Syrup", Origin: "Galle", QualityMetrics: domain.QualityMetrics{Color: "Dark"}},
	}

	got := FilterProducts(catalog, "honey", domain.FilterState{})

	require.Len(t, got, 1)
	assert.Equal(t, "Wild Forest Honey", got[0].Name)
}

func TestUnknownDimensions(t *testing.T) {
	filters := domain.FilterState{
		domain.DimensionType: {"Wild"},
		"flavor":             {"Smoky"},
		"brand":              {"Acme"},
		"empty":              {},
	}

	assert.Equal(t, []string{"brand", "flavor"}, UnknownDimensions(filters))
	assert.Nil(t, UnknownDimensions(domain.FilterState{domain.DimensionColor: {"Dark"}}))
}

func BenchmarkFilterProducts(b *testing.B) {
	base := sampleCatalog()
	catalog := make([]domain.Product, 0, 5000)
	for i := 0; len(catalog) < cap(catalog); i++ {
		p := base[i%len(base)]
		p.ID = fmt.Sprintf("p%d", i)
		catalog = append(catalog, p)
	}
	filters := domain.FilterState{domain.DimensionType: {"Wild"}, domain.DimensionColor: {"Dark", "Amber"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FilterProducts(catalog, "honey", filters)
	}
}
