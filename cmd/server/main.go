package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/movable/backend/docs"
	"github.com/movable/backend/internal/application/movable"
	musicapp "github.com/movable/backend/internal/application/music"
	"github.com/movable/backend/internal/domain/music"
	"github.com/movable/backend/internal/infrastructure/cache"
	"github.com/movable/backend/internal/infrastructure/config"
	"github.com/movable/backend/internal/infrastructure/logger"
	"github.com/movable/backend/internal/infrastructure/persistence"
	"github.com/movable/backend/internal/infrastructure/persistence/models"
	"github.com/movable/backend/internal/infrastructure/provider"
	"github.com/movable/backend/internal/infrastructure/telemetry"
	"github.com/movable/backend/internal/interfaces/http/handler"
	"github.com/movable/backend/internal/interfaces/http/middleware"
	"github.com/movable/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

//go:generate go run github.com/swaggo/swag/v2/cmd/swag@latest init -g cmd/server/main.go -d ../../ -o ../../docs --parseInternal

//	@title			Movable Catalog API
//	@version		1.0
//	@description	Ordered music and song collections with validation events

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting movable backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = logs.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		if err := logs.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileTypes:    cfg.Telemetry.ProfilingTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.Enabled() {
		tp.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        cfg.Database.Driver,
	}, log)

	dbOpts := []persistence.Option{
		persistence.WithLogger(gormLog),
		persistence.WithRegistrar(tracing),
	}
	var dbMetrics *telemetry.DBMetrics
	var cacheMetrics *telemetry.CacheMetrics
	if mp.Enabled() {
		dbMetrics, err = telemetry.NewDBMetrics(mp.Meter(), telemetry.DBMetricsConfig{
			SlowQueryThresh:   cfg.Telemetry.DBSlowQueryThresh,
			PoolStatsInterval: cfg.Telemetry.DBPoolStatsInterval,
		}, log)
		if err != nil {
			log.Fatal("Failed to create database metrics", zap.Error(err))
		}
		dbOpts = append(dbOpts, persistence.WithRegistrar(dbMetrics))

		if cacheMetrics, err = telemetry.NewCacheMetrics(mp.Meter()); err != nil {
			log.Fatal("Failed to create cache metrics", zap.Error(err))
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database, dbOpts...)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))
	if dbMetrics != nil {
		dbMetrics.Start(ctx)
		defer dbMetrics.Stop()
	}

	// postgres schemas are owned by cmd/migrate
	if cfg.Database.Driver == config.DriverSQLite {
		if err := db.DB.AutoMigrate(models.All()...); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	caches, err := cache.NewFactory(ctx, cfg.Cache, cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize list cache", zap.Error(err))
	}
	defer func() {
		if err := caches.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	policy := movable.PositionIDOffset
	if cfg.Engine.PositionPolicy == config.PositionPolicyAppend {
		policy = movable.PositionAppendLast
	}
	catalog := musicapp.NewCatalog(
		musicapp.Stores{
			Music: persistence.NewMusicStore(db.DB),
			Songs: persistence.NewSongStore(db.DB),
		},
		musicapp.Caches{
			Music: telemetry.InstrumentListCache(cache.NewListCache[*music.Music](caches, musicapp.MusicKey), cacheMetrics, musicapp.MusicKey),
			Songs: telemetry.InstrumentListCache(cache.NewListCache[*music.Song](caches, musicapp.SongsKey), cacheMetrics, musicapp.SongsKey),
		},
		provider.NewContextAccountProvider(),
		provider.SystemClock{},
		musicapp.WithLogger(log),
		musicapp.WithPositionPolicy(policy),
		musicapp.WithAccountScope(cfg.Engine.AccountScope),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:     cfg.Telemetry.ServiceName,
		Logger:          log,
		CORS:            middleware.DefaultCORSConfig(),
		BodyLimit:       middleware.DefaultBodyLimit,
		TrustedProxies:  cfg.HTTP.TrustedProxies,
		ProfilingLabels: profiler.Enabled(),
	})
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	cacheBackend := config.CacheBackendMemory
	if caches.Redis() {
		cacheBackend = config.CacheBackendRedis
	}
	handler.NewHealthHandler(db, cacheBackend).RegisterRoutes(engine)
	if cfg.HTTP.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.NewRouter(engine, router.WithAPIMiddleware(middleware.Account())).
		Register(handler.NewMusicHandler(catalog)).
		Register(handler.NewSongHandler(catalog)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
