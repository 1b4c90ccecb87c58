package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/config"
	appHTTP "github.com/dilg-calendar/calendar-backend-go/internal/handler/http"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/cron"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/database"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/email"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/jwt"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/logger"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/storage"
	"github.com/dilg-calendar/calendar-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/dilg-calendar/calendar-backend-go/internal/service/auth"
	serviceEvent "github.com/dilg-calendar/calendar-backend-go/internal/service/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/service/file"
	serviceUser "github.com/dilg-calendar/calendar-backend-go/internal/service/user"
	"github.com/dilg-calendar/calendar-backend-go/migrations"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.Log, cfg.App)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, dsn, migrations.FS); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("initialize email service: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	fileService := file.NewFileService(fileStorage)
	authService := serviceAuth.NewAuthService(txManager, userRepo, sessionRepo, JWTService, nil)
	userService := serviceUser.NewUserService(userRepo, fileService)
	notifier := serviceEvent.NewNotifier(emailService, cfg.Notification.Concurrency)
	eventService := serviceEvent.NewEventService(txManager, eventRepo, userRepo, notifier, nil)

	scheduler := cron.NewScheduler()
	cron.NewSessionJobs(authService, cfg.Cron.SessionCleanupInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, log, JWTService, authService, appHTTP.Handlers{
		Auth:  appHTTP.NewAuthHandler(authService, cfg.IsProduction()),
		Event: appHTTP.NewEventHandler(eventService),
		User:  appHTTP.NewUserHandler(userService, cfg.Storage.MaxUploadSize),
		Admin: appHTTP.NewAdminHandler(userService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
