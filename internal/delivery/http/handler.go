package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ceylonhoney/storefront/internal/domain"
	"github.com/ceylonhoney/storefront/internal/infrastructure/cache"
	"github.com/ceylonhoney/storefront/internal/usecase"
	"github.com/gin-gonic/gin"
)

// CatalogService is the storefront catalog as seen by the HTTP layer
type CatalogService interface {
	Browse(ctx context.Context, request *domain.BrowseRequest) (*domain.BrowseResult, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	Featured(ctx context.Context, n int) ([]domain.ProductCard, error)
	Facets(ctx context.Context) (*domain.Facets, error)
}

// CacheStats reports browse cache usage
type CacheStats interface {
	Stats() cache.Stats
}

// Query parameters that are not filter dimensions
var reservedParams = map[string]bool{
	"q":      true,
	"view":   true,
	"limit":  true,
	"offset": true,
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog CatalogService
	cache   CacheStats
}

// NewHandler creates a new HTTP handler. A nil catalog makes the product
// endpoints answer 503 while /health keeps working. cacheStats is optional.
func NewHandler(catalog CatalogService, cacheStats CacheStats) *Handler {
	return &Handler{catalog: catalog, cache: cacheStats}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "healthy",
		"service": "storefront-catalog",
		"version": "1.0.0",
	}
	if h.cache != nil {
		response["cache"] = h.cache.Stats()
	}
	c.JSON(http.StatusOK, response)
}

// ListProducts handles GET /api/v1/products. Every query parameter other
// than q, view, limit and offset is a filter dimension. A single value is
// split on commas; repeated parameters are taken literally so values that
// contain a comma can still be selected.
func (h *Handler) ListProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	request, err := parseBrowseRequest(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.catalog.Browse(c.Request.Context(), request)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// FeaturedProducts handles GET /api/v1/products/featured
func (h *Handler) FeaturedProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	n, err := parseNonNegative(c.Query("limit"), "limit")
	if err != nil {
		respondError(c, err)
		return
	}

	cards, err := h.catalog.Featured(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": cards})
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"card":    usecase.NewProductCard(*product, false),
	})
}

// Filters handles GET /api/v1/filters
func (h *Handler) Filters(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	facets, err := h.catalog.Facets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, facets)
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "catalog not configured",
		})
		return false
	}
	return true
}

// parseBrowseRequest turns URL query values into a browse request
func parseBrowseRequest(values url.Values) (*domain.BrowseRequest, error) {
	view, err := domain.ParseViewMode(values.Get("view"))
	if err != nil {
		return nil, err
	}

	limit, err := parseNonNegative(values.Get("limit"), "limit")
	if err != nil {
		return nil, err
	}

	offset, err := parseNonNegative(values.Get("offset"), "offset")
	if err != nil {
		return nil, err
	}

	filters := make(domain.FilterState)
	for key, raw := range values {
		name := strings.ToLower(strings.TrimSpace(key))
		if name == "" || reservedParams[name] {
			continue
		}
		dim := domain.Dimension(name)
		parts := raw
		if len(raw) == 1 {
			parts = strings.Split(raw[0], ",")
		}
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				filters[dim] = append(filters[dim], part)
			}
		}
	}

	return &domain.BrowseRequest{
		Query:   values.Get("q"),
		Filters: filters,
		View:    view,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

func parseNonNegative(s, name string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidRequest, name)
	}
	return n, nil
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		log.Printf("[HTTP] catalog unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
	default:
		log.Printf("[HTTP] internal error on %s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
