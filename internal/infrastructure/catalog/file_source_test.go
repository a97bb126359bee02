package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ceylonhoney/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIDs []string
	}{
		{
			name: "bare array",
			content: `[
				{"id":"p1","name":"Wild Forest Honey","type":"Wild","origin":"Kandy",
				 "qualityMetrics":{"color":"Amber","purity":99},"price":24.5,"bestSeller":true,
				 "images":["/img/p1.jpg"]},
				{"id":"p2","name":"Kithul Treacle","price":12,"discount":15,"images":["/img/p2.jpg"]}
			]`,
			wantIDs: []string{"p1", "p2"},
		},
		{
			name:    "envelope",
			content: `{"products":[{"id":"p9","price":1,"images":["/a.jpg"]}]}`,
			wantIDs: []string{"p9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(writeFile(t, tt.content))

			products, err := src.Fetch(context.Background())
			require.NoError(t, err)

			got := make([]string, 0, len(products))
			for _, p := range products {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestFileSource_DecodesFields(t *testing.T) {
	src := NewFileSource(writeFile(t, `[{"id":"p2","name":"Kithul Treacle","type":"Syrup","origin":"Galle",
		"qualityMetrics":{"color":"Dark","purity":97,"moisture":18.5},"price":12,"discount":15,"images":["/img/p2.jpg"]}]`))

	products, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Syrup", p.Type)
	assert.Equal(t, "Dark", p.QualityMetrics.Color)
	assert.Equal(t, 18.5, p.QualityMetrics.Moisture)
	require.NotNil(t, p.Discount)
	assert.Equal(t, 15.0, *p.Discount)
	assert.False(t, p.BestSeller)
}

func TestFileSource_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Fetch(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, err = NewFileSource(writeFile(t, "   ")).Fetch(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, err = NewFileSource(writeFile(t, `[{"id":`)).Fetch(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewFileSource(writeFile(t, `[]`)).Fetch(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
