package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ceylonhoney/storefront/internal/domain"
)

const (
	defaultBrowseLimit   = 24
	defaultMaxLimit      = 100
	defaultFeaturedCount = 4
	defaultCacheTTL      = 10 * time.Minute
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL           time.Duration
	DefaultLimit       int
	MaxLimit           int
	EnableDebugLogging bool
}

// VersionedCatalog is a catalog repository that bumps a version on reload,
// so cached results from an older snapshot are never served.
type VersionedCatalog interface {
	domain.CatalogRepository
	Version() uint64
}

// CatalogService answers storefront browse requests over the loaded catalog
type CatalogService struct {
	catalog      VersionedCatalog
	cache        domain.CacheRepository
	cacheTTL     time.Duration
	defaultLimit int
	maxLimit     int
	debug        bool
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	catalog VersionedCatalog,
	cache domain.CacheRepository,
	config CatalogServiceConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = defaultMaxLimit
	}

	limit := config.DefaultLimit
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return &CatalogService{
		catalog:      catalog,
		cache:        cache,
		cacheTTL:     cacheTTL,
		defaultLimit: limit,
		maxLimit:     maxLimit,
		debug:        config.EnableDebugLogging,
	}
}

// Browse runs the search and filters over the catalog and returns one page
// of product cards. Flow: check cache -> filter catalog -> cache IDs -> page.
func (s *CatalogService) Browse(ctx context.Context, request *domain.BrowseRequest) (*domain.BrowseResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if request.Limit < 0 || request.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidRequest)
	}

	view := request.View
	if view == "" {
		view = domain.ViewGrid
	}

	limit := request.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	matched, err := s.matchingProducts(ctx, request.Query, request.Filters)
	if err != nil {
		return nil, err
	}

	total := len(matched)
	start := min(request.Offset, total)
	end := min(start+limit, total)

	result := &domain.BrowseResult{
		Products:       NewProductCards(matched[start:end], false),
		Total:          total,
		Limit:          limit,
		Offset:         request.Offset,
		View:           view,
		IgnoredFilters: UnknownDimensions(request.Filters),
	}

	if total == 0 && strings.TrimSpace(request.Query) != "" {
		if products, err := s.catalog.All(ctx); err == nil {
			result.Suggestion = Suggest(products, request.Query, request.Filters)
		}
	}

	if s.debug {
		log.Printf("[BROWSE] query=%q filters=%v -> %d matches (page %d-%d)",
			request.Query, request.Filters, total, start, end)
	}

	return result, nil
}

// GetProduct returns a single product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.catalog.GetByID(ctx, id)
}

// Featured returns up to n cards for the homepage strip: best sellers first,
// then discounted products, each group in catalog order.
func (s *CatalogService) Featured(ctx context.Context, n int) ([]domain.ProductCard, error) {
	if n < 0 {
		return nil, domain.ErrInvalidRequest
	}
	if n == 0 {
		n = defaultFeaturedCount
	}

	products, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	var bestSellers, discounted []domain.Product
	for _, p := range products {
		switch {
		case p.BestSeller:
			bestSellers = append(bestSellers, p)
		case p.HasDiscount():
			discounted = append(discounted, p)
		}
	}

	picked := append(bestSellers, discounted...)
	if len(picked) > n {
		picked = picked[:n]
	}
	return NewProductCards(picked, true), nil
}

// Facets lists every filter value present in the catalog with its product
// count, plus the list price range.
func (s *CatalogService) Facets(ctx context.Context) (*domain.Facets, error) {
	products, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	facets := &domain.Facets{Dimensions: make(map[domain.Dimension][]domain.FacetValue)}
	for _, dim := range KnownDimensions() {
		get := dimensionAccessors[dim]
		counts := make(map[string]int)
		for i := range products {
			if v, ok := get(&products[i]); ok {
				counts[v]++
			}
		}

		values := make([]domain.FacetValue, 0, len(counts))
		for v, c := range counts {
			values = append(values, domain.FacetValue{Value: v, Count: c})
		}
		sort.Slice(values, func(i, j int) bool { return values[i].Value < values[j].Value })
		facets.Dimensions[dim] = values
	}

	for i, p := range products {
		if i == 0 || p.Price < facets.PriceRange.Min {
			facets.PriceRange.Min = p.Price
		}
		if p.Price > facets.PriceRange.Max {
			facets.PriceRange.Max = p.Price
		}
	}

	return facets, nil
}

// matchingProducts returns the full filtered list, using cached IDs when the
// same search was evaluated against the current catalog version.
func (s *CatalogService) matchingProducts(ctx context.Context, query string, filters domain.FilterState) ([]domain.Product, error) {
	cacheKey := s.generateCacheKey(query, filters)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		products, err := s.resolveIDs(ctx, cached)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}

		// The catalog was reloaded after the key was built and dropped a
		// cached product. Recompute and store under the current version.
		if s.debug {
			log.Printf("[BROWSE] stale cache entry %q: %v", cacheKey, err)
		}
		_ = s.cache.Delete(ctx, cacheKey)
		cacheKey = s.generateCacheKey(query, filters)
	}

	products, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	matched := FilterProducts(products, query, filters)

	ids := make([]string, 0, len(matched))
	for _, p := range matched {
		ids = append(ids, p.ID)
	}
	if err := s.cache.Set(ctx, cacheKey, ids, s.cacheTTL); err != nil && s.debug {
		log.Printf("[BROWSE] cache write failed for %q: %v", cacheKey, err)
	}

	return matched, nil
}

func (s *CatalogService) resolveIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.catalog.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

// getFromCache retrieves a cached ID list
func (s *CatalogService) getFromCache(ctx context.Context, key string) ([]string, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		// Stored through a JSON round trip
		ids := make([]string, 0, len(v))
		for _, item := range v {
			id, ok := item.(string)
			if !ok {
				return nil, domain.ErrCacheMiss
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return nil, domain.ErrCacheMiss
}

// generateCacheKey creates a normalized cache key for a search.
// Format: browse:v{version}:"{query}":dim="a"|"b";dim="c"
// Dimensions and values are sorted so equivalent selections share a key.
// The query is lowercased since matching is case-insensitive.
func (s *CatalogService) generateCacheKey(query string, filters domain.FilterState) string {
	dims := make([]string, 0, len(filters))
	for dim, values := range filters {
		if len(values) == 0 || !IsKnownDimension(dim) {
			continue
		}
		quoted := make([]string, 0, len(values))
		for _, v := range values {
			quoted = append(quoted, strconv.Quote(v))
		}
		sort.Strings(quoted)
		dims = append(dims, string(dim)+"="+strings.Join(quoted, "|"))
	}
	sort.Strings(dims)

	return fmt.Sprintf("browse:v%d:%q:%s", s.catalog.Version(), strings.ToLower(query), strings.Join(dims, ";"))
}
