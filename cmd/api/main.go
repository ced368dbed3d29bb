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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tma-backend/docs"
	rcache "tma-backend/internal/cache/redis"
	"tma-backend/internal/common/config"
	apperrors "tma-backend/internal/common/errors"
	"tma-backend/internal/common/logger"
	"tma-backend/internal/common/middleware"
	"tma-backend/internal/common/response"
	authhttp "tma-backend/internal/features/auth/delivery/http"
	"tma-backend/internal/features/auth/initdata"
	authservice "tma-backend/internal/features/auth/service"
	healthhttp "tma-backend/internal/features/health/delivery/http"
	"tma-backend/internal/features/user/repository"
	userpg "tma-backend/internal/features/user/repository/postgres"
	userservice "tma-backend/internal/features/user/service"
	"tma-backend/internal/platform/postgres"
	"tma-backend/internal/platform/redis"
	"tma-backend/internal/platform/ton"
)

const (
	serviceName = "tma-backend"
	version     = "1.0.0"
)

// @title           TMA Backend API
// @version         1.0
// @description     Telegram Mini App authentication, referrals and TON wallet linking.
// @BasePath  /

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name Authorization
// @description "tma <initData>"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Debug, !cfg.IsProduction())
	logger.Info().
		Str("version", version).
		Str("env", cfg.Env).
		Bool("debug", cfg.Debug).
		Msg("Starting TMA backend")

	if cfg.Telegram.BotToken == "" {
		logger.Warn().Msg("BOT_TOKEN is not set, every signed init data will be rejected")
	}

	ctx := context.Background()
	checks := map[string]healthhttp.Checker{}

	// Без базы сервис работает в деградированном режиме
	var repo repository.UserRepository
	if cfg.Postgres.URL != "" {
		postgresClient, err := postgres.NewClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer postgresClient.Close()

		repo = userpg.NewPostgresRepository(postgresClient.Pool())
		checks["postgres"] = postgresClient.HealthCheck
	} else {
		logger.Warn().Msg("DATABASE_URL is not set, running in degraded mode without persistence")
	}

	// Кэш опционален: недоступный Redis не мешает запуску
	var (
		userCache     userservice.UserCache
		referralCache userservice.ReferralCache
	)
	redisClient, err := redis.NewClient(ctx, cfg)
	switch {
	case err == nil:
		defer redisClient.Close()
		userCache = rcache.NewUserCache(redisClient, cfg.Redis.UserTTL)
		referralCache = rcache.NewReferralCache(redisClient, cfg.Redis.ReferralTTL)
		checks["redis"] = redisClient.HealthCheck
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Info().Msg("REDIS_ADDR is not set, caches disabled")
	default:
		logger.Warn().Err(err).Msg("Redis unavailable, caches disabled")
	}

	strategy := initdata.NewStrategy(cfg.Mode(), cfg.Telegram.BotToken, cfg.InitDataTTL())
	if strategy.Mock {
		logger.Warn().Msg("Development mode: mock init data is accepted")
	}

	resolver := userservice.NewReferralResolver(repo, referralCache)
	userSvc := userservice.NewUserService(repo, userCache, resolver, ton.NewNormalizer(cfg.TestnetAllowed()))
	authSvc := authservice.NewAuthService(strategy, userSvc)

	logger.Info().Msg("Services initialized")

	if cfg.IsProduction() && !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// telegram_id больше 2^53 не должен проходить через float64
	binding.EnableDecoderUseNumber = true

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery(cfg.IsProduction()))
	router.Use(middleware.ErrorHandler(cfg.IsProduction()))

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Telegram-Init-Data", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{
			"name":     serviceName,
			"version":  version,
			"env":      cfg.Env,
			"degraded": userSvc.Degraded(),
			"endpoints": []string{
				"POST /auth/login",
				"GET /auth/me",
				"GET /auth/referrals?telegram_id=",
				"POST /auth/wallet/connect",
				"POST /auth/wallet/disconnect",
				"GET /health",
			},
		})
	})

	healthhttp.NewHealthHandler(version, checks).RegisterRoutes(router)
	authhttp.NewAuthHandler(authSvc, userSvc).RegisterRoutes(router)

	if cfg.Server.SwaggerEnabled {
		docs.SwaggerInfo.Version = version
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info().Msg("Swagger UI enabled at /swagger/index.html")
	}

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.New(apperrors.ErrCodeNotFound, "Route not found").WithDetail("path", c.Request.URL.Path))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
