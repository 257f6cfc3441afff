package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raftcheck/internal/checklist"
	"github.com/starford/raftcheck/internal/inspection"
	"github.com/starford/raftcheck/internal/models"
)

// CreateAssetRequest is the request body for registering a raft.
type CreateAssetRequest struct {
	Name         string `json:"name" example:"Raft 7"`
	Brand        string `json:"brand" example:"ZODIAC" validate:"required"`
	Model        string `json:"model" example:"COASTER" validate:"required"`
	SerialNumber string `json:"serial_number" example:"5103-2019"`
	LaunchType   string `json:"launch_type" example:"throw-over" enums:"throw-over,davit-launch"`
}

// Validate validates the request.
func (r *CreateAssetRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Brand, validation.Required),
		validation.Field(&r.Model, validation.Required),
		validation.Field(&r.LaunchType, validation.In(models.LaunchThrowOver, models.LaunchDavitLaunch)),
	)
}

// AddComponentRequest is the request body for installing a component.
type AddComponentRequest struct {
	Name         string     `json:"name" example:"EPIRB" validate:"required"`
	Type         string     `json:"type" example:"electronic"`
	Quantity     int        `json:"quantity" example:"1"`
	ValidUntil   string     `json:"valid_until" example:"2027-03"`
	SerialNumber string     `json:"serial_number"`
	State        string     `json:"state" example:"new" enums:"new,used,damaged"`
	InstalledAt  *time.Time `json:"installed_at"`
}

// Validate validates the request.
func (r *AddComponentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.State, validation.In(models.StateNew, models.StateUsed, models.StateDamaged)),
	)
}

// OpenInspectionRequest is the request body for starting an inspection.
type OpenInspectionRequest struct {
	AssetID string `json:"asset_id" validate:"required"`
}

// Validate validates the request.
func (r *OpenInspectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AssetID, validation.Required),
	)
}

// UpdateItemRequest is the request body for editing one checklist item.
type UpdateItemRequest struct {
	Field string `json:"field" example:"verdict" enums:"verdict,notes" validate:"required"`
	Value string `json:"value" example:"passed"`
}

// Validate validates the request.
func (r *UpdateItemRequest) Validate() error {
	verdicts := []any{
		string(checklist.VerdictPending),
		string(checklist.VerdictPassed),
		string(checklist.VerdictFailed),
		string(checklist.VerdictNotApplicable),
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Field, validation.Required, validation.In(string(checklist.FieldVerdict), string(checklist.FieldNotes))),
		validation.Field(&r.Value, validation.When(r.Field == string(checklist.FieldVerdict),
			validation.Required, validation.In(verdicts...))),
	)
}

// AssetListResponse wraps paginated asset listings.
type AssetListResponse struct {
	Assets []models.Asset `json:"assets" validate:"required"`
	Total  int            `json:"total" example:"42" validate:"required"`
}

// ComponentListResponse wraps the components fitted to an asset.
type ComponentListResponse struct {
	Components []models.InstalledComponent `json:"components" validate:"required"`
}

// InspectionListResponse wraps the open inspections.
type InspectionListResponse struct {
	Inspections []inspection.Summary `json:"inspections" validate:"required"`
}

// LedgerResponse describes the loaded inspection ledger.
type LedgerResponse struct {
	Entries  int       `json:"entries" example:"12"`
	Digest   string    `json:"digest"`
	LoadedAt time.Time `json:"loaded_at"`
}

// InspectionView is the full inspection response type (aliased from the domain layer).
type InspectionView = inspection.View
