package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/noah-isme/army-personnel-api/api/swagger"
	"github.com/noah-isme/army-personnel-api/internal/handler"
	"github.com/noah-isme/army-personnel-api/internal/middleware"
	"github.com/noah-isme/army-personnel-api/internal/repository"
	"github.com/noah-isme/army-personnel-api/internal/service"
	"github.com/noah-isme/army-personnel-api/pkg/cache"
	"github.com/noah-isme/army-personnel-api/pkg/config"
	"github.com/noah-isme/army-personnel-api/pkg/database"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
	"github.com/noah-isme/army-personnel-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/army-personnel-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/army-personnel-api/pkg/middleware/requestid"
	"github.com/noah-isme/army-personnel-api/pkg/response"
	"github.com/noah-isme/army-personnel-api/pkg/tracing"
	"github.com/noah-isme/army-personnel-api/pkg/validation"
)

// @title Army Personnel API
// @version 1.0.0
// @description Personnel registry, weekly points ledger and promotions for a role-play army unit.
// @BasePath /api
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logr.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, db.DB, "up"); err != nil {
			return err
		}
		logr.Info("migrations applied")
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	validate := validation.New()
	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)

	adminRepo := repository.NewAdminUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)
	personnelRepo := repository.NewPersonnelRepository(db)

	reference := service.NewReferenceService(repository.NewRankRepository(db), repository.NewSpecialPositionRepository(db))
	authSvc := service.NewAuthService(adminRepo, sessionRepo, validate, logr, metrics, service.AuthConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	})
	setupSvc := service.NewSetupService(repository.NewSetupRepository(db), cacheSvc, validate, logr)
	personnelSvc := service.NewPersonnelService(personnelRepo, reference, cacheSvc, validate, logr)
	pointSvc := service.NewPointEntryService(repository.NewPointEntryRepository(db), cacheSvc, metrics, validate, logr)
	promotionSvc := service.NewPromotionService(repository.NewPromotionRepository(db), personnelSvc, reference, cacheSvc, metrics, validate, logr)
	dashboardSvc := service.NewDashboardService(repository.NewDashboardRepository(db), cacheSvc, logr, service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL})
	exportSvc := service.NewExportService(personnelSvc, pointSvc, logr)

	metricsHandler := handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
		"postgres": db,
		"redis": handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logr.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, ""))
		c.Abort()
	}))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth: handler.NewAuthHandler(authSvc, setupSvc, handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		}),
		Personnel:  handler.NewPersonnelHandler(personnelSvc, promotionSvc, exportSvc),
		Points:     handler.NewPointEntryHandler(pointSvc, exportSvc),
		Promotions: handler.NewPromotionHandler(promotionSvc),
		Reference:  handler.NewReferenceHandler(reference),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
	}, middleware.Session(authSvc, cfg.Session.CookieName))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      otelhttp.NewHandler(r, cfg.Tracing.ServiceName),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
