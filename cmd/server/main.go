package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path-route-service/internal/adapters/cache"
	"path-route-service/internal/adapters/distance"
	"path-route-service/internal/adapters/pathfile"
	"path-route-service/internal/adapters/repositories"
	"path-route-service/internal/adapters/routing"
	"path-route-service/internal/api"
	"path-route-service/internal/api/handlers"
	"path-route-service/internal/config"
	"path-route-service/internal/engine"
	"path-route-service/internal/platform/db"
	"path-route-service/internal/platform/obs"
	"path-route-service/internal/ports"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "server")

// main is the application composition root.
// It wires concrete adapters (SQLite, ORS, caches) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := obs.SetupLogging(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	if strings.TrimSpace(cfg.ORSAPIKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	sqliteDB, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer sqliteDB.Close()

	if err := repositories.InitSchema(ctx, sqliteDB); err != nil {
		return err
	}
	repo := repositories.NewSqlitePathRepository(sqliteDB)

	distanceCache, geocodeCache, closeCaches, err := openCaches(ctx, cfg, sqliteDB)
	if err != nil {
		return err
	}
	defer closeCaches()

	provider, err := distance.NewORSDistanceProvider(cfg.ORSAPIKey, distance.ORSOptions{
		BaseURL: cfg.ORSBaseURL,
		Profile: cfg.ORSProfile,
		Country: cfg.ORSCountry,
		Timeout: cfg.ORSTimeout,
	}, distanceCache, geocodeCache)
	if err != nil {
		return err
	}

	loop := engine.NewLoop()
	bridge := routing.NewProviderBridge(provider, loop.Sink(), cfg.LegWorkers)
	feed := handlers.NewEventFeed(handlers.DefaultFeedSize)
	eng := engine.New(bridge, feed, engine.WithSeparator(cfg.PathSeparator))

	// The loop is not running yet, so the engine may be used directly.
	if err := restorePaths(ctx, eng, repo, cfg.ImportPath); err != nil {
		return err
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(loopCtx, eng)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	router := api.NewRouter(api.Deps{
		Loop: loop,
		Repo: repo,
		Feed: feed,
		Sink: loop.Sink(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}

	return savePaths(shutdownCtx, loop, repo)
}

// openCaches picks the provider caches: postgres when DATABASE_URL is set,
// otherwise the local sqlite file. A redis address replaces the distance cache.
func openCaches(ctx context.Context, cfg config.Config, sqliteDB *sql.DB) (ports.DistanceCache, ports.GeocodeCache, func(), error) {
	var (
		distanceCache ports.DistanceCache = cache.NewSqliteDistanceCache(sqliteDB)
		geocodeCache  ports.GeocodeCache  = cache.NewSqliteGeocodeCache(sqliteDB)
		closers       []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, func() {}, err
		}
		closers = append(closers, func() { _ = pg.Close() })

		if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
			closeAll()
			return nil, nil, func() {}, err
		}
		distanceCache = cache.NewSQLDistanceCache(pg)
		geocodeCache = cache.NewSQLGeocodeCache(pg)
		log.Info("using postgres provider caches")
	}

	if strings.TrimSpace(cfg.RedisAddr) != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, func() { _ = client.Close() })

		if err := client.Ping(ctx).Err(); err != nil {
			closeAll()
			return nil, nil, func() {}, fmt.Errorf("connect redis %q: %w", cfg.RedisAddr, err)
		}
		distanceCache = cache.NewRedisDistanceCache(client, cfg.RedisTTL)
		log.WithField("addr", cfg.RedisAddr).Info("using redis distance cache")
	}

	return distanceCache, geocodeCache, closeAll, nil
}

// restorePaths loads the saved list, or the import file when nothing was saved.
func restorePaths(ctx context.Context, eng *engine.Engine, repo ports.PathRepository, importPath string) error {
	paths, err := repo.LoadPaths(ctx)
	if err != nil {
		return fmt.Errorf("restore paths: %w", err)
	}

	if len(paths) == 0 && strings.TrimSpace(importPath) != "" {
		paths, err = pathfile.ReadFile(importPath)
		if err != nil {
			return fmt.Errorf("restore paths: %w", err)
		}
	}

	eng.Import(paths)
	return nil
}

func savePaths(ctx context.Context, loop *engine.Loop, repo ports.PathRepository) error {
	var paths []string
	if err := loop.Do(ctx, func(e *engine.Engine) { paths = e.Export() }); err != nil {
		return fmt.Errorf("save paths: %w", err)
	}

	if err := repo.SavePaths(ctx, paths); err != nil {
		return err
	}
	log.WithField("paths", len(paths)).Info("path list saved")
	return nil
}
