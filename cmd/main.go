package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kosench/go-shortlink/internal/cache"
	"github.com/Kosench/go-shortlink/internal/config"
	"github.com/Kosench/go-shortlink/internal/database"
	"github.com/Kosench/go-shortlink/internal/handler"
	"github.com/Kosench/go-shortlink/internal/logger"
	"github.com/Kosench/go-shortlink/internal/repository"
	"github.com/Kosench/go-shortlink/internal/server"
	"github.com/Kosench/go-shortlink/internal/service"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, logCloser := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Environment: cfg.App.Environment,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	defer logCloser.Close()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.App.Environment,
			Release:          server.ServiceName + "@" + server.ServiceVersion,
			AttachStacktrace: true,
		}); err != nil {
			log.Warn().Err(err).Msg("sentry initialization failed, continuing without error reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
			log.Info().Msg("sentry enabled")
		}
	}

	db, dialect, err := database.Open(context.Background(), database.Options{
		Driver:     cfg.Database.Driver,
		SQLitePath: cfg.Database.Path,
		Postgres: database.PostgresConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Str("driver", string(dialect)).Msg("database ready")

	linkCache, err := cache.New(cfg.Cache.Driver, cfg.CacheTTL(), cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		CacheTTL:     cfg.Cache.TTL,
	})
	if err != nil {
		// keep serving without a cache
		log.Warn().Err(err).Str("driver", cfg.Cache.Driver).Msg("cache unavailable, running without cache")
		linkCache = cache.NewNullCache()
		cfg.Cache.Driver = cache.DriverNone
	}
	defer linkCache.Close()

	linkRepo := newLinkRepository(db, dialect, cfg.Cache.Driver, linkCache, log)

	allocator := service.NewAllocator(linkRepo, service.AllocatorConfig{
		CodeLength:  cfg.App.ShortCodeLength,
		MaxAttempts: cfg.App.MaxAttempts,
		Reserved:    server.ReservedCodes,
	}, log)
	linkService := service.NewLinkService(linkRepo, allocator, cfg.GetBaseURL(), log)
	linkHandler := handler.NewLinkHandler(linkService, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := server.NewRouter(cfg, server.Deps{
		DB:      db,
		Dialect: dialect,
		Cache:   linkCache,
		Links:   linkHandler,
		Log:     log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := server.NewHTTPServer(cfg.GetServerAddress(), router)

	go func() {
		log.Info().Str("addr", cfg.GetServerAddress()).Str("base_url", cfg.GetBaseURL()).Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server gracefully stopped")
}

// newLinkRepository puts the cache in front of storage unless caching is off.
func newLinkRepository(db *sql.DB, dialect database.Dialect, cacheDriver string, c cache.Cache, log zerolog.Logger) repository.LinkRepository {
	var repo repository.LinkRepository = repository.NewSQLLinkRepository(db, dialect)
	if cacheDriver == "" || cacheDriver == cache.DriverNone {
		return repo
	}

	log.Info().Str("driver", cacheDriver).Msg("link cache enabled")
	return repository.NewCachedLinkRepository(repo, c, cache.NewKeyBuilder(server.ServiceName), log)
}
