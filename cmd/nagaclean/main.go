package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/adrian5517/nagaclean-client/internal/core/ports"
	"github.com/adrian5517/nagaclean-client/internal/core/service"
	"github.com/adrian5517/nagaclean-client/internal/infrastructure/api"
	"github.com/adrian5517/nagaclean-client/internal/infrastructure/geo"
	opshttp "github.com/adrian5517/nagaclean-client/internal/infrastructure/http"
	"github.com/adrian5517/nagaclean-client/internal/infrastructure/http/handlers"
	filestore "github.com/adrian5517/nagaclean-client/internal/infrastructure/storage/file"
	redisstore "github.com/adrian5517/nagaclean-client/internal/infrastructure/storage/redis"
	"github.com/adrian5517/nagaclean-client/internal/pkg/config"
	"github.com/adrian5517/nagaclean-client/pkg/logger"
)

// keyValuePinger is what the daemon needs from a storage backend: the session
// KeyValue contract plus a readiness ping.
type keyValuePinger interface {
	ports.KeyValue
	handlers.Pinger
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init failed")
	}

	// Auth endpoints are unauthenticated; everything else carries the
	// session token.
	authAPI := api.NewAuthClient(api.NewClient(cfg.API.BaseURL, nil, cfg.API.Timeout, log))
	sessions := service.NewSessionStore(authAPI, store, log)
	sessions.CheckAuth(ctx)

	backend := api.NewClient(cfg.API.BaseURL, sessions, cfg.API.Timeout, log)
	pickups := service.NewPickupService(api.NewPickupClient(backend), log)
	refresher := service.NewRefreshController(pickups, cfg.Refresh.Interval, log)

	news := api.NewNewsClient(cfg.News.BaseURL, cfg.News.APIKey, cfg.News.Query, cfg.News.Language, cfg.API.Timeout, log)
	locator := geo.NewFixedLocator(cfg.Geo.FixedLatitude, cfg.Geo.FixedLongitude, cfg.Geo.LocationGranted)
	routes := geo.NewDirectionsClient(cfg.Geo.DirectionsURL, cfg.Geo.DirectionsToken, cfg.API.Timeout, log)

	logNews(ctx, news, cfg.News.PageSize, log)

	refresher.Start(ctx)
	logNearestPickup(ctx, refresher, locator, routes, log)

	// Ops surface: health probes + /metrics.
	e := opshttp.NewRouter(store)
	go func() {
		if err := e.Start(":" + cfg.Ops.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ops server failed")
		}
	}()
	log.Info().Str("port", cfg.Ops.Port).Msg("ops server listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server shutdown failed")
	}
	log.Info().Msg("shut down")
}

func openStorage(ctx context.Context, cfg *config.Config) (keyValuePinger, error) {
	switch cfg.Storage.Backend {
	case "redis":
		store, err := redisstore.Open(ctx, redisstore.Config{
			Addr: cfg.Storage.Redis.Addr,
			DB:   cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "file":
		return filestore.Open(cfg.Storage.Path, cfg.Storage.SealKey)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// logNews surfaces the environmental headlines the home feed shows. The feed
// needing a key is common enough that a missing one only logs a debug line.
func logNews(ctx context.Context, news ports.NewsProvider, limit int, log zerolog.Logger) {
	stories, err := news.TopStories(ctx, limit)
	if err != nil {
		log.Debug().Err(err).Msg("news feed unavailable")
		return
	}
	for _, s := range stories {
		log.Info().Str("source", s.Source).Str("title", s.Title).Msg("environmental news")
	}
}

// logNearestPickup resolves a route from the configured position to the first
// pending pickup and logs distance and ETA, mirroring the map screen's info box.
func logNearestPickup(ctx context.Context, view ports.RefreshView, locator ports.Locator, routes ports.RouteProvider, log zerolog.Logger) {
	pending := view.Pending()
	if len(pending) == 0 {
		return
	}

	here, err := locator.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrPermissionDenied) {
			log.Warn().Msg("location permission denied")
		} else {
			log.Debug().Err(err).Msg("no current position")
		}
		return
	}

	target := pending[0]
	route, err := routes.Route(ctx, here, ports.Position{Latitude: target.Latitude, Longitude: target.Longitude})
	if err != nil {
		log.Debug().Err(err).Str("pickup", target.Name).Msg("route unavailable")
		return
	}

	log.Info().
		Str("pickup", target.Name).
		Float64("distance_km", route.DistanceMeters/1000).
		Float64("eta_min", route.DurationSeconds/60).
		Msg("nearest pending pickup")
}
