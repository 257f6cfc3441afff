package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/starford/raftcheck/internal/apperr"
	"github.com/starford/raftcheck/internal/models"
)

const assetColumns = `id, name, brand, model, serial_number, launch_type, created_at`

// CreateAsset inserts a new asset. An empty ID is replaced by a fresh UUID.
func (db *DB) CreateAsset(ctx context.Context, a models.Asset) (models.Asset, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.LaunchType == "" {
		a.LaunchType = models.LaunchThrowOver
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO assets (`+assetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Name, a.Brand, a.Model, a.SerialNumber, a.LaunchType, a.CreatedAt)
	if err != nil {
		if isConstraint(err) {
			return models.Asset{}, apperr.ErrAlreadyExists
		}
		return models.Asset{}, fmt.Errorf("registry: insert asset: %w", err)
	}
	return a, nil
}

// GetAsset returns the asset with the given id, or apperr.ErrNotFound.
func (db *DB) GetAsset(ctx context.Context, id string) (models.Asset, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Asset{}, apperr.ErrNotFound
		}
		return models.Asset{}, fmt.Errorf("registry: get asset: %w", err)
	}
	return a, nil
}

// ListAssets returns a page of assets ordered by creation time, optionally
// filtered by brand, together with the unpaginated total.
func (db *DB) ListAssets(ctx context.Context, limit, offset int, brand string) ([]models.Asset, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where, args := "", []any{}
	if brand != "" {
		where = ` WHERE brand = ?`
		args = append(args, brand)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM assets`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("registry: count assets: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets`+where+` ORDER BY created_at, id LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("registry: list assets: %w", err)
	}
	defer rows.Close()

	var out []models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// DeleteAsset removes an asset and, by cascade, its installed components.
func (db *DB) DeleteAsset(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("registry: delete asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AddComponent installs a component on an asset. Components keep their
// install order.
func (db *DB) AddComponent(ctx context.Context, c models.InstalledComponent) (models.InstalledComponent, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.State == "" {
		c.State = models.StateNew
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return c, fmt.Errorf("registry: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM assets WHERE id = ?`, c.AssetID).Scan(&exists); err != nil {
		return c, fmt.Errorf("registry: check asset: %w", err)
	}
	if exists == 0 {
		return c, apperr.ErrNotFound
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT coalesce(max(seq), 0) + 1 FROM installed_components WHERE asset_id = ?`, c.AssetID,
	).Scan(&seq); err != nil {
		return c, fmt.Errorf("registry: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO installed_components
			(id, asset_id, seq, name, type, quantity, valid_until, serial_number, state, installed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.AssetID, seq, c.Name, c.Type, c.Quantity, c.ValidUntil, c.SerialNumber, c.State, nullTime(c.InstalledAt))
	if err != nil {
		if isConstraint(err) {
			return c, apperr.ErrAlreadyExists
		}
		return c, fmt.Errorf("registry: insert component: %w", err)
	}
	return c, tx.Commit()
}

// InstalledComponents returns the components fitted to an asset in install order.
func (db *DB) InstalledComponents(ctx context.Context, assetID string) ([]models.InstalledComponent, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, asset_id, name, type, quantity, valid_until, serial_number, state, installed_at
		FROM installed_components
		WHERE asset_id = ?
		ORDER BY seq
	`, assetID)
	if err != nil {
		return nil, fmt.Errorf("registry: installed components: %w", err)
	}
	defer rows.Close()

	var out []models.InstalledComponent
	for rows.Next() {
		var (
			c         models.InstalledComponent
			installed sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.AssetID, &c.Name, &c.Type, &c.Quantity,
			&c.ValidUntil, &c.SerialNumber, &c.State, &installed); err != nil {
			return nil, err
		}
		if installed.Valid {
			t := installed.Time
			c.InstalledAt = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RemoveComponent uninstalls one component from an asset.
func (db *DB) RemoveComponent(ctx context.Context, assetID, componentID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM installed_components WHERE id = ? AND asset_id = ?`, componentID, assetID)
	if err != nil {
		return fmt.Errorf("registry: remove component: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(s scanner) (models.Asset, error) {
	var a models.Asset
	err := s.Scan(&a.ID, &a.Name, &a.Brand, &a.Model, &a.SerialNumber, &a.LaunchType, &a.CreatedAt)
	return a, err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func isConstraint(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrConstraint
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
