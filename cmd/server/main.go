package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceylonhoney/storefront/config"
	httpDelivery "github.com/ceylonhoney/storefront/internal/delivery/http"
	"github.com/ceylonhoney/storefront/internal/domain"
	"github.com/ceylonhoney/storefront/internal/infrastructure/cache"
	"github.com/ceylonhoney/storefront/internal/infrastructure/catalog"
	"github.com/ceylonhoney/storefront/internal/usecase"
)

func main() {
	sigCtx, stop := signalContext()
	defer stop()

	// Load configuration
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Storefront Catalog v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog source: %s", cfg.Catalog.Source)

	// Initialize infrastructure dependencies
	source, closeSource, err := createCatalogSource(sigCtx, cfg)
	if err != nil {
		log.Fatalf("Failed to create catalog source: %v", err)
	}
	defer closeSource()

	repo := catalog.NewRepository(source)
	if err := reloadCatalog(sigCtx, repo, cfg.Catalog.LoadTimeout); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	defer memoryCache.Close()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		repo,
		memoryCache,
		usecase.CatalogServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			DefaultLimit:       cfg.Browse.DefaultLimit,
			MaxLimit:           cfg.Browse.MaxLimit,
			EnableDebugLogging: cfg.IsDevelopment(),
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService, memoryCache)
	router := httpDelivery.SetupRouter(cfg, handler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go watchHangup(sigCtx, repo, memoryCache, cfg.Catalog.LoadTimeout)
	go runHTTPServer(httpServer)

	<-sigCtx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown http server gracefully: %v", err)
	}

	log.Printf("Server stopped")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
}

// createCatalogSource builds the configured source and a func releasing it
func createCatalogSource(ctx context.Context, cfg *config.Config) (domain.CatalogSource, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Source {
	case config.SourceFile:
		log.Printf("Catalog file: %s", cfg.Catalog.Path)
		return catalog.NewFileSource(cfg.Catalog.Path), noop, nil

	case config.SourceHTTP:
		src := catalog.NewHTTPSource(cfg.Catalog.URL, cfg.RateLimit.Upstream, cfg.Catalog.LoadTimeout)
		if cfg.IsDevelopment() {
			src.SetDebug(true)
			log.Printf("Catalog HTTP source debug mode enabled")
		}
		log.Printf("Catalog URL: %s (%d req/min)", cfg.Catalog.URL, cfg.RateLimit.Upstream)
		return src, noop, nil

	case config.SourcePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.LoadTimeout)
		defer cancel()

		src, err := catalog.NewPostgresSource(connectCtx, cfg.Catalog.DatabaseURL, cfg.Catalog.Table)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("Catalog table: %s", cfg.Catalog.Table)
		return src, src.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
}

func reloadCatalog(ctx context.Context, repo *catalog.Repository, timeout time.Duration) error {
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := repo.Reload(loadCtx)
	return err
}

// watchHangup reloads the catalog on SIGHUP. A failed reload keeps serving
// the previous snapshot. After a successful reload every cached browse
// result belongs to an older version, so the cache is emptied.
func watchHangup(ctx context.Context, repo *catalog.Repository, browseCache *cache.MemoryCache, timeout time.Duration) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			log.Printf("[CATALOG] SIGHUP received, reloading")
			if err := reloadCatalog(ctx, repo, timeout); err != nil {
				log.Printf("[CATALOG] reload failed, keeping version %d: %v", repo.Version(), err)
				continue
			}
			browseCache.Clear()
		}
	}
}

func runHTTPServer(s *http.Server) {
	log.Printf("Server listening on %s", s.Addr)

	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
