package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mama165/sdk-go/logs"

	"team-hub/auth"
	"team-hub/fanout"
	"team-hub/gateway"
	"team-hub/repositories"
	"team-hub/runtime"
	"team-hub/runtime/workers"
	"team-hub/services"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const tokenIssuer = "team-hub"

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting, so that every defer fires before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & Services
	userRepository := repositories.NewUserRepository(db)
	sessionRepository := repositories.NewSessionRepository(db)
	workspaceRepository := repositories.NewWorkspaceRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger, config.HistoryPageSize)
	notificationRepository := repositories.NewNotificationRepository(db)

	tokens := auth.NewTokenManager(config.JWTSecret, tokenIssuer)
	authenticator := auth.NewAuthenticator(sessionRepository, tokens)

	bus := runtime.NewBus(logger, config.BufferSize)
	registry := runtime.NewRegistry()

	accountService := services.NewAuthService(userRepository, sessionRepository, tokens, config.SessionDuration)
	workspaceService := services.NewWorkspaceService(workspaceRepository, bus)
	notificationService := services.NewNotificationService(notificationRepository, bus)
	messageService := services.NewMessageService(logger, messageRepository, workspaceRepository, notificationService, bus)
	reactionService := services.NewReactionService(messageRepository, bus)

	// 4. Supervision & Fan-out
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fanoutWorker := workers.NewEventFanout(logger, bus.Events()).Subscribe(
		fanout.NewMessageListener(logger, registry),
		fanout.NewReactionListener(logger, registry),
		fanout.NewNotificationListener(logger, registry),
		fanout.NewWorkspaceListener(logger, registry),
	)
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(fanoutWorker)

	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// 5. HTTP & WebSocket Gateway
	routes := gateway.NewRouteTable(logger)
	handlers := gateway.NewHandlers(logger, messageService, reactionService, notificationService)
	if err := handlers.RegisterRoutes(routes); err != nil {
		return exitConfig, fmt.Errorf("route registration failed: %w", err)
	}

	endpoint := gateway.NewEndpoint(logger, gateway.EndpointConfig{
		MaxMessageSize: config.MaxMessageSize,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		PingInterval:   config.PingInterval,
		SendBufferSize: config.ConnectionBufferSize,
	}, authenticator, registry, workspaceService, routes)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.GET("/ws", endpoint.HandleWebSocket)
	gateway.NewHTTPHandlers(logger, authenticator, accountService, workspaceService, notificationService).Mount(e)

	errChan := make(chan error, 1)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn(fmt.Sprintf("HTTP shutdown: %v", err))
	}
	sup.Stop()
	<-supDone
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
