package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	arielhttp "github.com/fredcamaral/ariel/internal/adapters/primary/http"
	"github.com/fredcamaral/ariel/internal/adapters/secondary/browser"
	"github.com/fredcamaral/ariel/internal/adapters/secondary/config"
	"github.com/fredcamaral/ariel/internal/adapters/secondary/tracker"
	"github.com/fredcamaral/ariel/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/ariel/internal/domain/entities"
	"github.com/fredcamaral/ariel/internal/domain/services"
)

var (
	// Command flags
	port      int
	host      string
	noBrowser bool
	debugMode bool
)

func init() {
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to bind to (overrides config)")
	rootCmd.Flags().StringVar(&host, "host", "", "Host to bind to (overrides config)")
	rootCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Don't open browser automatically (overrides config)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	watchedPath, err := validateWatchedFile(args[0])
	if err != nil {
		return err
	}

	finalConfig, err := loadAndMergeConfig(cmd, watchedPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(finalConfig.Logging)
	slog.SetDefault(logger)

	logger.Info("starting ariel",
		slog.String("file", watchedPath),
		slog.String("addr", fmt.Sprintf("http://%s:%d", finalConfig.Server.Host, finalConfig.Server.Port)),
	)

	return serve(cmd.Context(), watchedPath, finalConfig, logger)
}

// validateWatchedFile resolves the watched path and requires it to exist.
// A missing file at startup is fatal; once the server runs, deletion is a
// 404 for clients, never a crash.
func validateWatchedFile(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path %s: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("mermaid file not found: %s", path)
		}
		return "", fmt.Errorf("accessing mermaid file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("watched path is not a regular file: %s", path)
	}

	return absPath, nil
}

// serve wires the components together and runs until the context ends
func serve(ctx context.Context, watchedPath string, cfg *entities.Config, logger *slog.Logger) error {
	// Fail fast on an occupied port instead of logging from a goroutine.
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	probe, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("cannot bind %s: %w", addr, err)
	}
	if err := probe.Close(); err != nil {
		return fmt.Errorf("releasing probe listener: %w", err)
	}

	reader := tracker.NewReader()
	server := arielhttp.NewServer(reader, watchedPath, &cfg.Server, cfg.Logging.GetLevel())

	if err := server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	monitor := services.NewChangeMonitor(
		watcher.NewPollingWatcher(cfg.Watcher.GetInterval(), cfg.Watcher.GetDebounce()),
		reader,
		server,
		logger,
	)
	if err := monitor.Start(ctx, watchedPath); err != nil {
		logger.Warn("change monitor unavailable", slog.String("error", err.Error()))
	}
	defer func() { _ = monitor.Stop() }()

	url := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server running", slog.String("url", url))

	if cfg.Browser.AutoOpen {
		launcher := browser.NewLauncher(cfg.Browser.Browser)
		if err := launcher.Launch(url, false); err != nil {
			logger.Warn("failed to open browser", slog.String("error", err.Error()))
		}
	}

	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}

	return nil
}

// newLogger builds the process logger from the logging configuration
func newLogger(cfg entities.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.GetLevel() {
	case entities.LogLevelDebug:
		level = slog.LevelDebug
	case entities.LogLevelWarn:
		level = slog.LevelWarn
	case entities.LogLevelError:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.JSONFormat {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadAndMergeConfig loads configuration with precedence:
// CLI flags > local config > global config > defaults
func loadAndMergeConfig(cmd *cobra.Command, watchedPath string) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	finalConfig := config.GetDefaultConfig()

	globalConfig, err := loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}
	if globalConfig != nil {
		mergeConfigs(finalConfig, globalConfig)
	}

	localConfig, err := loader.LoadLocal(ctx, filepath.Dir(watchedPath))
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}
	if localConfig != nil {
		mergeConfigs(finalConfig, localConfig)
	}

	applyCliFlags(cmd, finalConfig)

	if err := finalConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return finalConfig, nil
}

// mergeConfigs merges source config into target config (source takes precedence)
func mergeConfigs(target, source *entities.Config) {
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = source.Server.CORSOrigins
	}

	target.Browser.AutoOpen = source.Browser.AutoOpen
	if source.Browser.Browser != "" {
		target.Browser.Browser = source.Browser.Browser
	}

	if source.Watcher.IntervalMs != 0 {
		target.Watcher.IntervalMs = source.Watcher.IntervalMs
	}
	if source.Watcher.DebounceMs != 0 {
		target.Watcher.DebounceMs = source.Watcher.DebounceMs
	}

	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	target.Logging.Verbose = source.Logging.Verbose
	target.Logging.JSONFormat = source.Logging.JSONFormat
}

// applyCliFlags applies CLI flag overrides to the configuration
func applyCliFlags(cmd *cobra.Command, cfg *entities.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = host
	}
	if cmd.Flags().Changed("no-browser") {
		cfg.Browser.AutoOpen = !noBrowser
	}
	if cmd.Flags().Changed("debug") && debugMode {
		cfg.Logging.Level = string(entities.LogLevelDebug)
		cfg.Logging.Verbose = true
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Verbose = true
	}
}
