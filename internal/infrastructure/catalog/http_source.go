package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ceylonhoney/storefront/internal/domain"
	"golang.org/x/time/rate"
)

const (
	maxFetchAttempts = 3
	baseBackoff      = 500 * time.Millisecond
	maxCatalogBytes  = 32 << 20
)

// HTTPSource fetches the catalog document from an upstream HTTP endpoint
type HTTPSource struct {
	httpClient  *http.Client
	url         string
	rateLimiter *rate.Limiter
	debug       bool
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewHTTPSource creates a new upstream catalog client. requestsPerMinute
// bounds how often the upstream is hit across reloads and retries.
func NewHTTPSource(url string, requestsPerMinute int, timeout time.Duration) *HTTPSource {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), maxFetchAttempts)

	return &HTTPSource{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         url,
		rateLimiter: limiter,
		sleep:       sleepContext,
	}
}

// SetDebug enables verbose logging of upstream calls
func (s *HTTPSource) SetDebug(debug bool) {
	s.debug = debug
}

// Fetch downloads and decodes the catalog, retrying transient failures
// (network errors, 429 and 5xx) with exponential backoff.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		products, retry, err := s.fetchOnce(ctx)
		if err == nil {
			if s.debug {
				log.Printf("[UPSTREAM] Fetched %d products from %s", len(products), s.url)
			}
			return products, nil
		}

		log.Printf("[UPSTREAM] Fetch failed (attempt %d): %v", attempt, err)
		if !retry {
			return nil, err
		}
		lastErr = err

		if attempt < maxFetchAttempts {
			if err := s.sleep(ctx, exponentialBackoff(attempt)); err != nil {
				return nil, err
			}
		}
	}

	return nil, lastErr
}

// fetchOnce performs one request. retry reports whether the failure is
// worth another attempt.
func (s *HTTPSource) fetchOnce(ctx context.Context) (products []domain.Product, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "storefront-catalog/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, true, fmt.Errorf("%w: reading body: %v", domain.ErrCatalogUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	products, err = decodeCatalog(body)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return products, false, nil
}

// exponentialBackoff returns the wait before the next attempt: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	return baseBackoff * time.Duration(1<<(attempt-1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
