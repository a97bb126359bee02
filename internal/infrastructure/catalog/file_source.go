package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ceylonhoney/storefront/internal/domain"
)

// FileSource reads the catalog from a JSON file. The file holds either a
// bare array of products or an object with a "products" array.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the JSON file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the catalog file
func (s *FileSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	products, err := decodeCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCatalogUnavailable, s.path, err)
	}
	return products, nil
}

// catalogEnvelope is the wrapped document form
type catalogEnvelope struct {
	Products []domain.Product `json:"products"`
}

// decodeCatalog accepts both document forms
func decodeCatalog(data []byte) ([]domain.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty catalog document")
	}

	if trimmed[0] == '[' {
		var products []domain.Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		return products, nil
	}

	var env catalogEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return env.Products, nil
}
