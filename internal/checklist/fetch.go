package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/starford/raftcheck/internal/apperr"
	"github.com/starford/raftcheck/internal/models"
)

// Sources is the set of collaborators a generation reads from.
// Only a failing Asset lookup aborts a generation; any other error degrades
// that source to an empty result.
type Sources interface {
	Asset(ctx context.Context, assetID string) (models.Asset, error)
	LedgerComponents(ctx context.Context, serialNumber string) ([]models.LedgerComponent, error)
	// ManualSpec returns nil when no spec exists for the pair.
	ManualSpec(ctx context.Context, brand, model string) (*models.ManualSpec, error)
	InstalledComponents(ctx context.Context, assetID string) ([]models.InstalledComponent, error)
	FunctionalTests(ctx context.Context, launchType string) ([]models.FunctionalTest, error)
	ServiceBulletins(ctx context.Context, brand, model string) ([]models.ServiceBulletin, error)
}

// fetch resolves the asset, then queries the five record sources in parallel
// and waits for all of them before returning.
func fetch(ctx context.Context, src Sources, assetID string, logger *slog.Logger) (models.Asset, Records, error) {
	asset, err := src.Asset(ctx, assetID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.Asset{}, Records{}, fmt.Errorf("%w: %s: %w", apperr.ErrAssetNotFound, assetID, err)
		}
		return models.Asset{}, Records{}, fmt.Errorf("checklist: fetch asset %s: %w", assetID, err)
	}

	var rec Records
	g, gCtx := errgroup.WithContext(ctx)

	// Each goroutine owns exactly one field of rec.
	g.Go(func() error {
		rec.Ledger = degrade(logger, asset, SourceLedger, func() ([]models.LedgerComponent, error) {
			return src.LedgerComponents(gCtx, asset.SerialNumber)
		})
		return nil
	})
	g.Go(func() error {
		rec.Installed = degrade(logger, asset, SourceInventory, func() ([]models.InstalledComponent, error) {
			return src.InstalledComponents(gCtx, asset.ID)
		})
		return nil
	})
	g.Go(func() error {
		rec.Tests = degrade(logger, asset, SourceFunctionalTests, func() ([]models.FunctionalTest, error) {
			return src.FunctionalTests(gCtx, asset.LaunchType)
		})
		return nil
	})
	g.Go(func() error {
		rec.Bulletins = degrade(logger, asset, SourceBulletins, func() ([]models.ServiceBulletin, error) {
			return src.ServiceBulletins(gCtx, asset.Brand, asset.Model)
		})
		return nil
	})
	g.Go(func() error {
		rec.Manual = degrade(logger, asset, SourceManual, func() (*models.ManualSpec, error) {
			return src.ManualSpec(gCtx, asset.Brand, asset.Model)
		})
		return nil
	})

	// Goroutines never return an error; Wait is only the join point.
	_ = g.Wait()
	return asset, rec, nil
}

// degrade runs fn and substitutes the zero value on error.
func degrade[T any](logger *slog.Logger, asset models.Asset, src Source, fn func() (T, error)) T {
	v, err := fn()
	if err != nil {
		logger.Warn("checklist: source unavailable",
			slog.String("source", string(src)),
			slog.String("asset_id", asset.ID),
			slog.String("error", err.Error()))
		var zero T
		return zero
	}
	return v
}
