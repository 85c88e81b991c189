// Package main is the entrypoint for the PostDost API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/postdost/postdost/internal/auth"
	"github.com/postdost/postdost/internal/cache"
	"github.com/postdost/postdost/internal/config"
	"github.com/postdost/postdost/internal/genai"
	"github.com/postdost/postdost/internal/handler"
	"github.com/postdost/postdost/internal/metrics"
	"github.com/postdost/postdost/internal/middleware"
	"github.com/postdost/postdost/internal/repository"
	"github.com/postdost/postdost/internal/server"
	"github.com/postdost/postdost/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize the user store: Postgres when configured, JSON file otherwise
	var repo repository.UserRepository
	if cfg.UsePostgres() {
		repo, err = repository.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to database")
	} else {
		repo, err = repository.NewFile(cfg.UsersFile)
		if err != nil {
			logger.Error("failed to open user store",
				slog.String("error", err.Error()),
				slog.String("users_file", cfg.UsersFile),
			)
			os.Exit(1)
		}
		logger.Info("using file user store", slog.String("path", cfg.UsersFile))
	}
	defer repo.Close()

	// Initialize cache (optional)
	var cacheClient *cache.Cache
	if cfg.UseRedis() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	} else {
		logger.Info("redis not configured, rate limiting disabled")
	}

	// Upstream generative clients. The image-prompt key falls back to
	// the caption key when a dedicated one is not set.
	httpClient := genai.NewHTTPClient()
	promptKey := cfg.GeminiPromptAPIKey
	if promptKey == "" {
		promptKey = cfg.GeminiAPIKey
	}
	captionClient := genai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, httpClient)
	promptClient := genai.NewGeminiClient(promptKey, cfg.GeminiBaseURL, httpClient)
	imageClient := genai.NewStabilityClient(cfg.StabilityAPIKey, cfg.StabilityBaseURL, httpClient)

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	generateService := service.NewGenerateService(
		captionClient, promptClient, imageClient,
		cfg.UpstreamTimeout, logger, metricsRecorder,
	)
	authService := service.NewAuthService(repo, tokenIssuer, logger, metricsRecorder)
	directoryService := service.NewDirectoryService()
	suggestionService := service.NewSuggestionService()

	// Initialize handlers
	h := handler.New()
	var cacheChecker handler.HealthChecker
	if cacheClient != nil {
		cacheChecker = cacheClient
	}
	healthHandler := handler.NewHealthHandler(repo, cacheChecker)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	generateHandler := handler.NewGenerateHandler(generateService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService)

	// Setup router
	r := setupRouter(routerDeps{
		root:       h,
		health:     healthHandler,
		metrics:    metricsHandler,
		generate:   generateHandler,
		auth:       authHandler,
		directory:  directoryHandler,
		suggestion: suggestionHandler,
		tokens:     tokenIssuer,
		cache:      cacheClient,
		recorder:   metricsRecorder,
	}, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store", storeKind(cfg),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func storeKind(cfg *config.Config) string {
	if cfg.UsePostgres() {
		return "postgres"
	}
	return "file"
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	root       *handler.Handler
	health     *handler.HealthHandler
	metrics    *handler.MetricsHandler
	generate   *handler.GenerateHandler
	auth       *handler.AuthHandler
	directory  *handler.DirectoryHandler
	suggestion *handler.SuggestionHandler
	tokens     *auth.TokenIssuer
	cache      *cache.Cache
	recorder   metrics.Recorder
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.root.Hello)

	// Middleware configuration
	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: deps.tokens,
	}
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   deps.cache,
		Metrics: deps.recorder,
		Enabled: cfg.RateLimitEnabled && deps.cache != nil,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}

	r.Route("/api", func(r chi.Router) {
		// Generation (rate limited, no auth - matches the public form)
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/generate", deps.generate.Generate)
		r.Get("/generate/options", deps.generate.Options)

		// Auth endpoints (rate limited to slow credential stuffing)
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimitIP(rateLimitCfg))
			r.Post("/signup", deps.auth.Signup)
			r.Post("/login", deps.auth.Login)
			r.Post("/logout", deps.auth.Logout)
		})

		// Session info (requires a valid bearer token)
		r.With(middleware.Auth(authCfg)).Get("/me", deps.auth.Me)

		// Business directory
		r.Route("/businesses", func(r chi.Router) {
			r.Get("/", deps.directory.List)
			r.Get("/search", deps.directory.Search)
			r.Get("/nearby", deps.directory.Nearby)
		})

		// Post suggestions
		r.Get("/suggestions", deps.suggestion.Suggest)
	})

	// 404 and 405 handlers
	r.NotFound(deps.root.NotFound)
	r.MethodNotAllowed(deps.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
