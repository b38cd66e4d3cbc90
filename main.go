package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"musicwordle/internal/cache"
	"musicwordle/internal/catalog"
	"musicwordle/internal/config"
	"musicwordle/internal/daily"
	"musicwordle/internal/store"
)

func main() {
	Execute()
}

// newApp connects the catalog, cache and game store selected by cfg.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	cat, err := newCatalog(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	responseCache, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gameStore, err := newStore(cfg, log)
	if err != nil {
		responseCache.Close()
		return nil, err
	}

	svc := daily.NewService(cat, responseCache, log.Named("daily"), daily.Options{
		Playlists:   cfg.Playlists(),
		SearchLimit: cfg.SearchLimit,
		TTL:         cfg.CacheTTL,
		Location:    loc,
	})

	app := &App{
		Songs:          svc,
		Store:          gameStore,
		Log:            log,
		Location:       loc,
		Now:            time.Now,
		IsProduction:   cfg.IsProduction(),
		CookieMaxAge:   cfg.CookieMaxAge,
		StartTime:      time.Now(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		LimiterMap:     make(map[string]*rate.Limiter),
		closers:        []io.Closer{responseCache, gameStore},
	}
	return app, nil
}

func newCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.Catalog, error) {
	switch cfg.CatalogProvider {
	case config.ProviderYouTube:
		return catalog.NewYouTube(ctx, cfg.YouTubeAPIKey, log.Named("youtube"))
	default:
		return catalog.NewSpotifyFromCredentials(ctx, cfg.SpotifyID, cfg.SpotifySecret, log.Named("spotify"))
	}
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.CacheBackend == config.CacheRedis {
		return cache.ConnectRedis(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return cache.NewMemory(cfg.CacheTTL, MemoryCacheCleanup), nil
}

func newStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.GameStore {
	case config.StoreFile:
		return store.NewFile(cfg.GameStorePath, cfg.SessionTimeout, log.Named("store"))
	case config.StoreSQLite:
		return store.OpenSQLite(cfg.GameStorePath, cfg.SessionTimeout)
	default:
		return store.NewMemory(cfg.SessionTimeout), nil
	}
}

// Close releases the cache and store connections.
func (app *App) Close() error {
	var errs []error
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// routes builds the gin engine with every route and middleware.
func (app *App) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), app.accessLogMiddleware())

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	production := app.IsProduction
	router.Use(func(c *gin.Context) {
		applyCacheHeaders(c, production)
	})

	router.GET(RouteHealth, app.healthHandler)
	router.GET(RouteDailySong, app.dailySongHandler)
	router.GET(RouteSearch, app.searchHandler)

	router.GET(RouteGame, app.gameStateHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.POST(RouteHint, app.rateLimitMiddleware(), app.hintHandler)
	router.POST(RouteReset, app.rateLimitMiddleware(), app.resetHandler)
	router.GET(RouteShare, app.shareHandler)

	return router
}

// runSessionCleanup drops expired sessions every interval until ctx ends.
func (app *App) runSessionCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := app.Store.Cleanup(ctx)
			if err != nil {
				logWarn("Session cleanup failed: %v", err)
				continue
			}
			if removed > 0 {
				logInfo("Session cleanup removed %d expired session%s", removed, plural(removed))
			}
		}
	}
}

func startServer(app *App, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go app.runSessionCleanup(cleanupCtx, SessionCleanupInterval)

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed to start: %w", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
	return nil
}
