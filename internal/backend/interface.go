// Package backend builds the storage and messaging stack selected by configuration.
package backend

import (
	"context"

	"tally/internal/services"
	"tally/internal/storage"
)

// CleanupFunc releases resources opened by the factory
type CleanupFunc func() error

// BackendResult is the opened store plus the optional mirror publisher.
type BackendResult struct {
	Store     storage.Repository
	Publisher services.EventPublisher // nil when AMQP is not configured
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string
	DatabaseURL  string

	// Optional; an empty URL leaves the publisher nil
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	}
	return false
}
