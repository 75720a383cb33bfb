package commands

import (
	"context"
	"fmt"
	"io"

	"tally/internal/backend"
	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/log"
	"tally/internal/services"
)

// app is the configured process: config, logger, opened backend and the
// expense service on top of it.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	backend *backend.BackendResult
	service *services.ExpenseService
}

type appOptions struct {
	component string
	validate  func(*config.Config) error
	// publish opens the AMQP publisher when AMQP_URL is set.
	publish bool
	logOut  io.Writer
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cli.LoadEnvFile()
	cfg, err := cli.LoadConfig(opts.validate)
	if err != nil {
		return nil, err
	}
	logger, err := cli.SetupLogger(cfg, opts.component, opts.logOut)
	if err != nil {
		return nil, err
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	if !opts.publish {
		bcfg.AMQPURL = ""
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		backend: res,
		service: services.NewExpenseService(res.Store, res.Publisher, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.backend.Cleanup(); err != nil {
		a.logger.Error("Failed to release backend", log.FieldError, err)
	}
}
