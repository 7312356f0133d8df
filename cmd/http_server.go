package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/area"
	areapg "github.com/constituency-office/citizen-portal/internal/area/postgres"
	"github.com/constituency-office/citizen-portal/internal/auth"
	authpg "github.com/constituency-office/citizen-portal/internal/auth/postgres"
	"github.com/constituency-office/citizen-portal/internal/candidate"
	candidatepg "github.com/constituency-office/citizen-portal/internal/candidate/postgres"
	"github.com/constituency-office/citizen-portal/internal/core/events"
	"github.com/constituency-office/citizen-portal/internal/news"
	newspg "github.com/constituency-office/citizen-portal/internal/news/postgres"
	"github.com/constituency-office/citizen-portal/internal/notification"
	notificationpg "github.com/constituency-office/citizen-portal/internal/notification/postgres"
	"github.com/constituency-office/citizen-portal/internal/request"
	requestpg "github.com/constituency-office/citizen-portal/internal/request/postgres"
	"github.com/constituency-office/citizen-portal/internal/storage"
	"github.com/constituency-office/citizen-portal/internal/transport"
	"github.com/constituency-office/citizen-portal/internal/transport/middleware"
	"github.com/constituency-office/citizen-portal/internal/transport/rest"
	"github.com/constituency-office/citizen-portal/internal/user"
	userpg "github.com/constituency-office/citizen-portal/internal/user/postgres"
	"github.com/constituency-office/citizen-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	Handlers rest.Handlers
	Storage  *storage.Client
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		deps.Storage.Shutdown()
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	deps.Router.Use(middleware.RequestID)
	deps.Router.Use(middleware.LoggingMiddleware(deps.Logger))

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Config, deps.Handlers, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	if config.Observability.Metrics.Enabled {
		middleware.InitMetrics()
	}

	bus := events.NewEventBus(lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	var googleClient *auth.GoogleClient
	if config.GoogleOAuth.ClientID != "" {
		googleClient = auth.NewGoogleClient(config.GoogleOAuth)
	}

	storageClient := storage.NewClient(config.Storage, lg)

	authRepo := authpg.NewRepository(gdb)
	authService := auth.NewService(authRepo, tokenGen, googleClient,
		config.Security.BCryptCost, config.Security.ResetTokenDuration, lg)

	userRepo := userpg.NewRepository(gdb)
	userService := user.NewService(userRepo, lg)

	areaRepo := areapg.NewAreaRepository(gdb)
	areaService := area.NewService(areaRepo)

	requestRepo := requestpg.NewRequestRepository(gdb)
	requestService := request.NewService(requestRepo, storageClient, areaService, bus, lg)

	newsRepo := newspg.NewNewsRepository(gdb)
	newsService := news.NewService(newsRepo, lg)

	notificationRepo := notificationpg.NewNotificationRepository(gdb)
	notificationService := notification.NewService(notificationRepo, lg)
	notificationService.RegisterEventHandlers(bus)

	candidateRepo := candidatepg.NewCandidateRepository(gdb)
	candidateService := candidate.NewService(candidateRepo, lg)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Request:      request.NewHandler(requestService),
		News:         news.NewHandler(newsService),
		Notification: notification.NewHandler(notificationService),
		Area:         area.NewHandler(transport.NewBaseHandler(lg), areaService),
		Candidate:    candidate.NewHandler(candidateService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gdb,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Storage:  storageClient,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the existing pgx connection pool so both
// share limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}
