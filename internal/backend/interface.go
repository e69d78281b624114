// Package backend selects and builds the persistence layer from configuration.
package backend

import (
	"context"

	"fincoach/internal/services"
)

// Factory creates repositories based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (services.Repository, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type         BackendType
	SQLiteDBPath string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
