package ports

import (
	"context"

	"github.com/fredcamaral/ariel/internal/domain/entities"
)

// ConfigLoader defines the interface for loading configuration files
type ConfigLoader interface {
	// LoadGlobal loads the global configuration file
	LoadGlobal(ctx context.Context) (*entities.Config, error)
	// LoadLocal loads a local configuration file from the specified directory
	LoadLocal(ctx context.Context, dir string) (*entities.Config, error)
}
