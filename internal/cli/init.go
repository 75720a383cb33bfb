// Package cli holds the start-up steps shared by every tally command.
package cli

import (
	"context"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"tally/internal/config"
	"tally/internal/log"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig loads configuration and runs validate on it, typically
// (*config.Config).Validate or ValidateWorker.
func LoadConfig(validate func(*config.Config) error) (*config.Config, error) {
	cfg := config.Load()
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default. Commands that print results use stderr
// for out so the logs stay apart from the report.
func SetupLogger(cfg *config.Config, component string, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    strings.ToLower(cfg.LogFormat),
		Component: component,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		if parent.Err() == nil {
			logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		}
	}()
	return ctx, stop
}

