package backend

import (
	"context"
	"errors"
	"fmt"

	"tally/internal/amqp"
	"tally/internal/log"
	"tally/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens the configured store and, when AMQP is configured, the
// mirror publisher. A broker that cannot be reached only disables publishing.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.openStore(ctx, config)
	if err != nil {
		return nil, err
	}

	res := &BackendResult{Store: store}
	var client *amqp.Client
	if config.AMQPURL != "" {
		client, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without mirror", log.FieldError, err)
			client = nil
		} else {
			res.Publisher = client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	res.Cleanup = func() error {
		var errs []error
		if client != nil {
			if err := client.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		return errors.Join(errs...)
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		"type", config.Type.String(),
		"amqp_enabled", res.Publisher != nil)
	return res, nil
}

func (f *DefaultFactory) openStore(ctx context.Context, config Config) (storage.Repository, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Opened SQLite store", "db_path", config.SQLiteDBPath)
		return repo, nil
	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(ctx, config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Opened Postgres store")
		return repo, nil
	case MemoryBackend:
		f.logger.WarnContext(ctx, "Using in-memory store; data is lost on exit")
		return storage.NewMemoryRepository(), nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}
