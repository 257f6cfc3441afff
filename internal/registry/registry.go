package registry

import (
	"context"

	"github.com/starford/raftcheck/internal/models"
)

// Store defines the registry operations consumers depend on.
type Store interface {
	CreateAsset(ctx context.Context, a models.Asset) (models.Asset, error)
	GetAsset(ctx context.Context, id string) (models.Asset, error)
	ListAssets(ctx context.Context, limit, offset int, brand string) ([]models.Asset, int, error)
	DeleteAsset(ctx context.Context, id string) error
	AddComponent(ctx context.Context, c models.InstalledComponent) (models.InstalledComponent, error)
	InstalledComponents(ctx context.Context, assetID string) ([]models.InstalledComponent, error)
	RemoveComponent(ctx context.Context, assetID, componentID string) error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
