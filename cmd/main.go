package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/books4all/internal/handlers"
	"github.com/sbilibin2017/books4all/internal/jwt"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/middlewares"
	"github.com/sbilibin2017/books4all/internal/migrations"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/sbilibin2017/books4all/internal/repositories"
	"github.com/sbilibin2017/books4all/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title books4all API
// @version 1.0.0
// @description Second-hand book marketplace: identity, listings, orders, messages and reviews
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath, migrateCmd := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if migrateCmd != "" {
		if err := migrate(context.Background(), cfg, migrateCmd); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s, Commit: %s, Build: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path
// and the optional migration command (up, down or status).
func parseFlags() (string, string) {
	c := flag.String("c", "config.env", "Path to configuration file")
	m := flag.String("migrate", "", "Run a migration command (up, down, status) and exit")
	flag.Parse()
	return *c, *m
}

// oauthConfig is the registered client of one OAuth provider.
type oauthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// config holds every setting read from the environment.
type config struct {
	AppHost     string
	AppPort     string
	LogLevel    string
	AutoMigrate bool
	PublicURL   string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret     string
	JWTExp        time.Duration
	JWTRefreshExp time.Duration
	BcryptCost    int

	RateLimitCalls  int
	RateLimitPeriod time.Duration

	OAuth map[models.OAuthProvider]oauthConfig
}

// parseConfig loads environment variables from a file and returns
// the application, database, Redis, Kafka, JWT, rate limit and OAuth configuration.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var err error
	getInt := func(key, defaultValue string) int {
		if err != nil {
			return 0
		}
		var n int
		if n, err = strconv.Atoi(getEnv(key, defaultValue)); err != nil {
			err = fmt.Errorf("%s: %w", key, err)
		}
		return n
	}
	getSeconds := func(key, defaultValue string) time.Duration {
		return time.Duration(getInt(key, defaultValue)) * time.Second
	}

	cfg := &config{}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.AutoMigrate, _ = strconv.ParseBool(getEnv("APP_AUTO_MIGRATE", "false"))
	cfg.PublicURL = getEnv("APP_PUBLIC_URL", fmt.Sprintf("http://%s:%s", cfg.AppHost, cfg.AppPort))

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGPort = getInt("POSTGRES_PORT", "5432")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "books4all")
	cfg.PGMaxOpenConns = getInt("POSTGRES_MAX_OPEN_CONNS", "16")
	cfg.PGMaxIdleConns = getInt("POSTGRES_MAX_IDLE_CONNS", "8")

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getInt("REDIS_PORT", "6379")
	cfg.RedisDB = getInt("REDIS_DB", "0")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisPoolSize = getInt("REDIS_POOL_SIZE", "10")
	cfg.RedisMinIdleConns = getInt("REDIS_MIN_IDLE_CONNS", "2")

	// Kafka config; no brokers disables event publishing
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "books4all.events")

	// JWT config
	cfg.JWTSecret = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	cfg.JWTExp = getSeconds("JWT_EXP_SECOND", "900")
	cfg.JWTRefreshExp = getSeconds("JWT_REFRESH_EXP_SECOND", "604800")
	cfg.BcryptCost = getInt("BCRYPT_COST", "10")

	// Rate limit config
	cfg.RateLimitCalls = getInt("RATE_LIMIT_LOGIN_CALLS", "5")
	cfg.RateLimitPeriod = getSeconds("RATE_LIMIT_LOGIN_PERIOD_SECOND", "900")

	// OAuth config
	cfg.OAuth = make(map[models.OAuthProvider]oauthConfig)
	for _, p := range []models.OAuthProvider{models.OAuthGoogle, models.OAuthGitHub, models.OAuthFacebook} {
		prefix := "OAUTH_" + strings.ToUpper(string(p)) + "_"
		cfg.OAuth[p] = oauthConfig{
			ClientID:     getEnv(prefix+"CLIENT_ID", ""),
			ClientSecret: getEnv(prefix+"CLIENT_SECRET", ""),
			RedirectURL:  getEnv(prefix+"REDIRECT_URL", fmt.Sprintf("%s/api/v1/auth/oauth/%s/callback", cfg.PublicURL, p)),
		}
	}

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *config) dsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
}

func connectDB(ctx context.Context, cfg *config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("PostgreSQL ping failed: %w", err)
	}
	return db, nil
}

// migrate runs a single migration command against the configured database.
func migrate(ctx context.Context, cfg *config, cmd string) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}
	defer logger.Log.Sync()

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	all, err := migrations.Embedded()
	if err != nil {
		return err
	}
	runner := migrations.NewRunner(db, all)

	switch cmd {
	case "up":
		return runner.Up(ctx)
	case "down":
		st, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		if st.Current == 0 {
			logger.Log.Info("No migrations applied")
			return nil
		}
		return runner.Down(ctx, st.Current)
	case "status":
		st, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		logger.Log.Infow("Migration status", "current", st.Current, "applied", len(st.Applied), "pending", len(st.Pending))
		for _, m := range st.Pending {
			logger.Log.Infow("Pending migration", "migration", m.String())
		}
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q", cmd)
	}
}

// app bundles the services and stores the router is built from.
type app struct {
	db       *sqlx.DB
	jwt      *jwt.JWT
	limiter  middlewares.RateLimiter
	auth     *services.AuthService
	oauth    *services.OAuthService
	users    *services.UserService
	books    *services.BookService
	orders   *services.OrderService
	messages *services.MessageService
	reviews  *services.ReviewService
	health   map[string]handlers.HealthCheck
}

// newApp wires repositories and services. rdb and events may be nil.
func newApp(cfg *config, db *sqlx.DB, rdb *redis.Client, events services.EventPublisher) *app {
	txGetter := middlewares.GetTxFromContext

	// Initialize JWT service
	tokens := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecret),
		jwt.WithExpiration(cfg.JWTExp),
		jwt.WithRefreshExpiration(cfg.JWTRefreshExp),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db, txGetter)
	userWriteRepo := repositories.NewUserWriteRepository(db, txGetter)
	bookReadRepo := repositories.NewBookReadRepository(db, txGetter)
	bookWriteRepo := repositories.NewBookWriteRepository(db, txGetter)
	orderReadRepo := repositories.NewOrderReadRepository(db, txGetter)
	orderWriteRepo := repositories.NewOrderWriteRepository(db, txGetter)
	messageReadRepo := repositories.NewMessageReadRepository(db, txGetter)
	messageWriteRepo := repositories.NewMessageWriteRepository(db, txGetter)
	reviewReadRepo := repositories.NewReviewReadRepository(db, txGetter)
	reviewWriteRepo := repositories.NewReviewWriteRepository(db, txGetter)
	txRunner := repositories.NewTxRunner(db, txGetter, middlewares.SetTxToContext)

	var (
		revoker services.TokenRevoker
		limiter middlewares.RateLimiter
	)
	health := map[string]handlers.HealthCheck{"database": db.PingContext}
	if rdb != nil {
		revoker = repositories.NewTokenRevocationRepository(rdb)
		limiter = repositories.NewRateLimitRepository(rdb)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	oauthClients := make(map[models.OAuthProvider]services.OAuthClientConfig, len(cfg.OAuth))
	for p, c := range cfg.OAuth {
		oauthClients[p] = services.OAuthClientConfig{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
		}
	}

	// Initialize services
	return &app{
		db:       db,
		jwt:      tokens,
		limiter:  limiter,
		auth:     services.NewAuthService(userReadRepo, userWriteRepo, tokens, revoker, events, services.WithBcryptCost(cfg.BcryptCost)),
		oauth:    services.NewOAuthService(oauthClients),
		users:    services.NewUserService(userReadRepo, userWriteRepo, txRunner, events),
		books:    services.NewBookService(bookReadRepo, bookWriteRepo),
		orders:   services.NewOrderService(orderReadRepo, orderWriteRepo, bookWriteRepo, txRunner, events),
		messages: services.NewMessageService(messageReadRepo, messageWriteRepo, userReadRepo, events),
		reviews:  services.NewReviewService(reviewReadRepo, reviewWriteRepo, bookReadRepo, orderReadRepo),
		health:   health,
	}
}

// newRouter mounts every route under /api/v1 plus the health check and the swagger UI.
func newRouter(cfg *config, a *app) http.Handler {
	authMW := middlewares.AuthMiddleware(a.jwt, a.auth)
	txMW := middlewares.TxMiddleware(a.db)
	adminOnly := middlewares.RequireRole(models.RoleAdmin)
	sellerOnly := middlewares.RequireRole(models.RoleSeller)
	limit := func(name string) func(http.Handler) http.Handler {
		if a.limiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middlewares.RateLimitMiddleware(a.limiter, name, cfg.RateLimitCalls, cfg.RateLimitPeriod)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	r.Get("/health", handlers.NewHealthHandler(buildVersion, a.health))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.With(limit("register")).Post("/register", handlers.NewRegisterHandler(a.auth))
			r.With(limit("login")).Post("/login", handlers.NewLoginHandler(a.auth))
			r.Post("/refresh", handlers.NewRefreshHandler(a.auth))
			r.Get("/oauth/{provider}", handlers.NewOAuthStartHandler(a.oauth))
			r.Get("/oauth/{provider}/callback", handlers.NewOAuthCallbackHandler(a.oauth, a.auth))
			r.Post("/verify-email", handlers.NewVerifyEmailHandler(a.auth))
			r.With(limit("password-reset")).Post("/password-reset", handlers.NewPasswordResetHandler(a.auth))
			r.Post("/password-reset/confirm", handlers.NewPasswordResetConfirmHandler(a.auth))

			r.With(authMW).Post("/logout", handlers.NewLogoutHandler(a.auth, a.jwt))
			r.With(authMW, adminOnly).Post("/sync", handlers.NewSyncUserHandler(a.auth))
		})

		r.Get("/books", handlers.NewListBooksHandler(a.books))
		r.Get("/books/{id}", handlers.NewGetBookHandler(a.books))
		r.Get("/books/{id}/reviews", handlers.NewListReviewsHandler(a.reviews))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Get("/users/me", handlers.NewGetProfileHandler(a.users))
			r.Patch("/users/me", handlers.NewUpdateProfileHandler(a.users))
			r.With(txMW).Delete("/users/me", handlers.NewDeleteAccountHandler(a.users, a.auth, a.jwt))
			r.With(adminOnly, txMW).Delete("/admin/users/{id}", handlers.NewPurgeUserHandler(a.users))

			r.Group(func(r chi.Router) {
				r.Use(sellerOnly)
				r.Post("/books", handlers.NewCreateBookHandler(a.books))
				r.Patch("/books/{id}", handlers.NewUpdateBookHandler(a.books))
				r.Delete("/books/{id}", handlers.NewDeleteBookHandler(a.books))
				r.Post("/books/{id}/publish", handlers.NewBookStatusHandler(a.books, "publish"))
				r.Post("/books/{id}/archive", handlers.NewBookStatusHandler(a.books, "archive"))
			})

			r.Post("/books/{id}/reviews", handlers.NewCreateReviewHandler(a.reviews))
			r.Delete("/reviews/{id}", handlers.NewDeleteReviewHandler(a.reviews))

			r.With(txMW).Post("/orders", handlers.NewCreateOrderHandler(a.orders))
			r.Get("/orders", handlers.NewListOrdersHandler(a.orders))
			r.Get("/orders/{id}", handlers.NewGetOrderHandler(a.orders))
			r.With(txMW).Post("/orders/{id}/{action}", handlers.NewOrderActionHandler(a.orders))

			r.Post("/messages", handlers.NewSendMessageHandler(a.messages))
			r.Get("/messages", handlers.NewListMessagesHandler(a.messages))
			r.Get("/messages/unread", handlers.NewUnreadCountHandler(a.messages))
			r.Post("/messages/{id}/read", handlers.NewMarkReadHandler(a.messages))
			r.Delete("/messages/{id}", handlers.NewDeleteMessageHandler(a.messages))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(cfg.PublicURL+"/swagger/doc.json"),
	))

	return r
}

// run initializes the logger, database, Redis, Kafka writer, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	log := logger.Log
	log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	log.Infow("Connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)
	db, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		all, err := migrations.Embedded()
		if err != nil {
			return err
		}
		if err := migrations.NewRunner(db, all).Up(ctx); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka writer
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
		defer w.Close()
		kafkaWriter = w
		log.Infow("Publishing events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	events := services.NewKafkaEventPublisher(kafkaWriter, services.WithEventDeferrer(middlewares.AfterCommit))

	a := newApp(cfg, db, rdb, events)
	log.Infow("OAuth providers configured", "providers", a.oauth.Providers())

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           newRouter(cfg, a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
