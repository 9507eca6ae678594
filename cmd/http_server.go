package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpg "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/auth"
	"github.com/smkhize/claims-management/internal/claim"
	claimMemory "github.com/smkhize/claims-management/internal/claim/memory"
	claimPostgres "github.com/smkhize/claims-management/internal/claim/postgres"
	"github.com/smkhize/claims-management/internal/core/events"
	"github.com/smkhize/claims-management/internal/document"
	documentMemory "github.com/smkhize/claims-management/internal/document/memory"
	documentPostgres "github.com/smkhize/claims-management/internal/document/postgres"
	"github.com/smkhize/claims-management/internal/notification"
	notificationMemory "github.com/smkhize/claims-management/internal/notification/memory"
	notificationPostgres "github.com/smkhize/claims-management/internal/notification/postgres"
	"github.com/smkhize/claims-management/internal/report"
	"github.com/smkhize/claims-management/internal/transport/rest"
	"github.com/smkhize/claims-management/internal/user"
	userMemory "github.com/smkhize/claims-management/internal/user/memory"
	userPostgres "github.com/smkhize/claims-management/internal/user/postgres"
	"github.com/smkhize/claims-management/pkg/logger"
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
	Config *internal.Config
	DB     *sql.DB // nil on the memory backend
	Router *chi.Mux
	Logger *slog.Logger
}

type repositories struct {
	users         user.Repository
	claims        claim.Repository
	documents     document.Repository
	notifications notification.Repository
	storage       document.Storage
	sqlDB         *sql.DB
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				deps.Logger.Error("database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Env, config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	repos, err := initRepositories(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	userService := user.NewService(repos.users, config.Security.BCryptCost, lg)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(userService, tokenGen)

	claimService := claim.NewService(repos.claims, eventBus, lg)
	documentService := document.NewService(repos.documents, claimService, repos.storage, lg)
	reportService := report.NewService(repos.claims, lg)

	notificationService := notification.NewService(repos.notifications, lg)
	notificationService.RegisterHandlers(eventBus)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		RBAC:         auth.NewRBACAuthorization(lg),
		User:         user.NewHandler(userService),
		Claim:        claim.NewHandler(claimService),
		Document:     document.NewHandler(documentService, claimService),
		Report:       report.NewHandler(reportService),
		Notification: notification.NewHandler(notificationService),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, repos.sqlDB, handlers, lg)

	return &Dependencies{
		Config: config,
		DB:     repos.sqlDB,
		Router: router,
		Logger: lg,
	}, nil
}

// initRepositories picks the storage backend from config. The memory backend
// needs no external services; sqlite and postgres go through GORM.
func initRepositories(config *internal.Config) (*repositories, error) {
	switch config.Database.Driver {
	case "", internal.DriverMemory:
		return &repositories{
			users:         userMemory.NewUserRepository(),
			claims:        claimMemory.NewClaimRepository(),
			documents:     documentMemory.NewDocumentRepository(),
			notifications: notificationMemory.NewNotificationRepository(),
			storage:       documentMemory.NewFileStore(),
		}, nil

	case internal.DriverSQLite, internal.DriverPostgres:
		gormDB, err := openGorm(config.Database)
		if err != nil {
			return nil, err
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access underlying db: %w", err)
		}
		sqlDB.SetMaxOpenConns(config.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(config.Database.ConnMaxLifetime)

		storage, err := document.NewDiskStorage(config.Documents.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize document storage: %w", err)
		}

		return &repositories{
			users:         userPostgres.NewUserRepository(gormDB),
			claims:        claimPostgres.NewClaimRepository(gormDB),
			documents:     documentPostgres.NewDocumentRepository(gormDB),
			notifications: notificationPostgres.NewNotificationRepository(gormDB),
			storage:       storage,
			sqlDB:         sqlDB,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}
}

func openGorm(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case internal.DriverSQLite:
		return gorm.Open(gormsqlite.Open(cfg.Source), &gorm.Config{})
	default:
		// connect through the pgx stdlib driver so the connection is
		// verified before GORM wraps it
		dbConn, err := sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to open db connection: %w", err)
		}
		return gorm.Open(gormpg.New(gormpg.Config{Conn: dbConn.DB}), &gorm.Config{})
	}
}
