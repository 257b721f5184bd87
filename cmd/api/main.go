package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"

	"github.com/mtcolectivo/backend-colectivo/internal/app"
	"github.com/mtcolectivo/backend-colectivo/internal/auth"
	"github.com/mtcolectivo/backend-colectivo/internal/config"
	"github.com/mtcolectivo/backend-colectivo/internal/document"
	"github.com/mtcolectivo/backend-colectivo/internal/health"
	"github.com/mtcolectivo/backend-colectivo/internal/obs"
	"github.com/mtcolectivo/backend-colectivo/internal/order"
	"github.com/mtcolectivo/backend-colectivo/internal/pricing"
	"github.com/mtcolectivo/backend-colectivo/internal/ratelimit"
	"github.com/mtcolectivo/backend-colectivo/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "colectivo")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "colectivo-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(redisOpts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}
	} else {
		logger.Warn().Msg("REDIS_URL not set, rate limiting disabled")
	}

	table := pricing.DefaultTable()
	if cfg.PriceTablePath != "" {
		loaded, err := pricing.LoadTable(cfg.PriceTablePath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.PriceTablePath).Msg("load price table")
		}
		table = loaded
	}
	engine := pricing.NewEngine(table, cfg.SpecialDestinations, logger)

	authService, err := auth.NewService(auth.Config{
		AdminUser:      cfg.AdminUser,
		AdminPass:      cfg.AdminPass,
		AdminPassHash:  cfg.AdminPassHash,
		Secret:         cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := &auth.Handler{Service: authService}
	authMiddleware := auth.Middleware{Service: authService}

	orderService := order.NewService(order.NewPostgresRepository(pool), engine, logger)
	orderHandler := &order.Handler{Service: orderService, Validate: validator.New()}

	tmpl, err := document.LoadTemplate(cfg.TemplatePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load order template")
	}
	docService := &document.Service{
		Template:  tmpl,
		Converter: render.NewConverter(cfg.SofficeBin, cfg.ConvertTimeout, logger),
		Orders:    orderService,
		Logger:    logger,
	}
	docHandler := &document.Handler{Service: docService}

	limiter := ratelimit.Limiter{Client: redisClient, Prefix: "colectivo:rl:"}
	onLimiterError := func(err error) {
		logger.Error().Err(err).Msg("rate limiter unavailable")
	}
	formLimit := ratelimit.Handler{
		Limiter: limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("form"),
			Window: cfg.FormRateLimitWindow,
			Max:    cfg.FormRateLimitMax,
		},
		OnError: onLimiterError,
	}
	loginLimit := ratelimit.Handler{
		Limiter: limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("login"),
			Window: cfg.LoginRateLimitWindow,
			Max:    cfg.LoginRateLimitMax,
		},
		OnError: onLimiterError,
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Order-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker: health.Deps{DB: pool, Redis: redisClient},
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/auth", func(a chi.Router) {
		a.With(loginLimit.Middleware).Post("/login", authHandler.Login)
		a.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
	})

	r.Route("/api/v1", func(v chi.Router) {
		v.With(formLimit.Middleware).Post("/orders", orderHandler.Submit)

		v.Group(func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAuth)
			admin.Get("/orders", orderHandler.List)
			admin.Route("/orders/{orderId}", func(o chi.Router) {
				o.Get("/", orderHandler.Get)
				o.Patch("/", orderHandler.Update)
				o.Delete("/", orderHandler.Delete)
				o.Post("/toggle-discount", orderHandler.ToggleDiscount)
				o.Post("/add-payment", orderHandler.AddPayment)
				o.Post("/reset-payment", orderHandler.ResetPayment)
				o.Get("/pdf", docHandler.OrderPDF)
			})
			admin.Post("/pdf/from-data", docHandler.FromData)
			admin.Post("/pdf/from-excel", docHandler.FromSheet)
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		health.SetReady(false)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}
