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

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"

	"unimarket/api"
	"unimarket/internal"
	"unimarket/moderation"
	"unimarket/observability"
	"unimarket/repositories"
	"unimarket/runtime"
	"unimarket/services"
	"unimarket/websocket"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// It keeps every 'defer' (database cleanup, index flush) on one goroutine so a
// shutdown signal unwinds the whole stack in order.
func run() (int, error) {
	// 1. Configuration & Logger
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	censoredChar, err := internal.CharacterRune(config.CensoredCharacter)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Repositories
	userRepository := repositories.NewUserRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger)
	adRepository := repositories.NewAdRepository(db, blugeWriter, logger)
	reportRepository := repositories.NewReportRepository(db)

	// 4. Moderation (optional: only when a dictionary directory is configured)
	var moderator *moderation.Moderator
	if config.CensoredWordsPath != "" {
		words, err := moderation.LoadCensoredWords(config.CensoredWordsPath)
		if err != nil {
			return exitConfig, fmt.Errorf("loading censored words failed: %w", err)
		}
		moderator, err = moderation.NewModerator(words, censoredChar, logger)
		if err != nil {
			return exitConfig, fmt.Errorf("moderator init failed: %w", err)
		}
		logger.Info("Chat moderation enabled", "words", len(words))
	}

	// 5. Chat core & services
	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)
	connRegistry := runtime.NewRegistry()
	deliveryRouter := runtime.NewRouter(logger, connRegistry, metrics)
	directory := services.NewUserDirectory(userRepository)
	chatService := services.NewChatService(logger, directory, messageRepository, deliveryRouter, moderator, metrics)
	authService := services.NewAuthService(userRepository, config.AuthTokenDuration)
	adService := services.NewAdService(adRepository, reportRepository)

	wsHandler := websocket.NewHandler(directory, chatService, connRegistry, metrics, logger, config.ConnectionBufferSize)
	handler := api.NewRouter(
		logger,
		authService,
		adService,
		chatService,
		directory,
		userRepository,
		metrics,
		promRegistry,
		wsHandler,
	).Setup()

	// 6. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	// 7. Background stats worker
	statsWorker := runtime.NewStatsWorker(logger, connRegistry, config.MetricInterval)
	go func() {
		if err := statsWorker.Run(ctx); err != nil {
			errChan <- fmt.Errorf("stats worker error: %w", err)
		}
	}()

	// 8. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: handler}

	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	// The execution blocks here until either a signal is received or the server crashes.
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 10. Final Cleanup (Graceful Shutdown)
	// Active requests and open chat sessions get ShutdownTimeout to finish.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", "error", err)
	}
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
