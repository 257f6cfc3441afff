package inspection

import (
	"context"
	"errors"

	"github.com/starford/raftcheck/internal/apperr"
	"github.com/starford/raftcheck/internal/catalog"
	"github.com/starford/raftcheck/internal/checklist"
	"github.com/starford/raftcheck/internal/ledger"
	"github.com/starford/raftcheck/internal/models"
	"github.com/starford/raftcheck/internal/registry"
)

// Sources reads checklist records from the registry, the ledger and the
// static catalogs.
type Sources struct {
	Registry registry.Store
	Ledger   *ledger.Ledger
	Manual   *catalog.ManualCatalog
}

var _ checklist.Sources = (*Sources)(nil)

func (s *Sources) Asset(ctx context.Context, assetID string) (models.Asset, error) {
	a, err := s.Registry.GetAsset(ctx, assetID)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.Asset{}, apperr.ErrNotFound
	}
	return a, err
}

func (s *Sources) LedgerComponents(_ context.Context, serialNumber string) ([]models.LedgerComponent, error) {
	if s.Ledger == nil {
		return nil, nil
	}
	return s.Ledger.Lookup(serialNumber), nil
}

func (s *Sources) ManualSpec(_ context.Context, brand, model string) (*models.ManualSpec, error) {
	if s.Manual == nil {
		return nil, nil
	}
	return s.Manual.Lookup(brand, model), nil
}

func (s *Sources) InstalledComponents(ctx context.Context, assetID string) ([]models.InstalledComponent, error) {
	return s.Registry.InstalledComponents(ctx, assetID)
}

func (s *Sources) FunctionalTests(_ context.Context, launchType string) ([]models.FunctionalTest, error) {
	return catalog.FunctionalTests(launchType), nil
}

func (s *Sources) ServiceBulletins(_ context.Context, brand, model string) ([]models.ServiceBulletin, error) {
	return catalog.ServiceBulletins(brand, model), nil
}
