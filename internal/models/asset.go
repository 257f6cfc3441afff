// Package models defines the domain types for raftcheck.
package models

import "time"

// Launch types.
const (
	LaunchThrowOver   = "throw-over"
	LaunchDavitLaunch = "davit-launch"
)

// Asset is the inspected life-raft.
type Asset struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	SerialNumber string    `json:"serial_number"`
	LaunchType   string    `json:"launch_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Component install states.
const (
	StateNew     = "new"
	StateUsed    = "used"
	StateDamaged = "damaged"
)

// InstalledComponent is a stock item currently fitted to an asset.
type InstalledComponent struct {
	ID           string     `json:"id"`
	AssetID      string     `json:"asset_id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Quantity     int        `json:"quantity"`
	ValidUntil   string     `json:"valid_until,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	State        string     `json:"state"`
	InstalledAt  *time.Time `json:"installed_at,omitempty"`
}
