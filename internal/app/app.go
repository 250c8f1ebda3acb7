package app

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

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/config"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/database"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/handler"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/middleware"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/router"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/seed"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/service"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/websocket"
)

const tokenCleanupInterval = time.Hour

type App struct {
	server       *http.Server
	handler      http.Handler
	db           *database.DB
	cleanupFuncs []func()
}

// New wires the application. The returned App owns the database handle and
// the background workers; Close releases them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("opening database", "driver", cfg.DatabaseDriver)
	db, err := database.Open(ctx, database.Options{
		Driver:     cfg.DatabaseDriver,
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DBMaxConns,
		MinConns:   cfg.DBMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	bus := event.NewBus()
	hub := websocket.NewHub(bus)

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	restaurantService := service.NewRestaurantService(db, bus)
	dishService := service.NewDishService(db, bus)
	userService := service.NewUserService(db, bus)
	favoriteService := service.NewFavoriteService(db)
	archiveService := service.NewArchiveService(db, bus)

	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	if err := seed.Apply(ctx, cfg.SeedFile, restaurantService); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply seed data: %w", err)
	}

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Health:     handler.NewHealthHandler(db),
		Auth:       handler.NewAuthHandler(authService),
		Restaurant: handler.NewRestaurantHandler(restaurantService, dishService),
		Dish:       handler.NewDishHandler(dishService),
		User:       handler.NewUserHandler(userService),
		Favorite:   handler.NewFavoriteHandler(favoriteService),
		Archive:    handler.NewArchiveHandler(archiveService),
		WS:         handler.NewWSHandler(hub, cfg.CORSOrigins),
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	go hub.Run(workerCtx)
	go authService.StartTokenCleanup(workerCtx, tokenCleanupInterval)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:  server,
		handler: appRouter,
		db:      db,
		cleanupFuncs: []func(){
			workerCancel,
			db.Close,
		},
	}, nil
}

// Handler exposes the routed handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Close stops background workers and releases the database.
func (a *App) Close() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	a.cleanupFuncs = nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.Close()
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		slog.Info("shutdown requested", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.Close()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
