package models

// LedgerComponent is one component row of an inspection ledger entry.
type LedgerComponent struct {
	Name       string `json:"name"`
	ValidUntil string `json:"valid_until,omitempty"`
	Type       string `json:"type,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
}

// ManualSpec is the manufacturer manual data for one brand/model pair.
// Every section is optional.
type ManualSpec struct {
	Inflation   *InflationSpec   `json:"inflation,omitempty" yaml:"inflation,omitempty"`
	Material    *MaterialSpec    `json:"material,omitempty" yaml:"material,omitempty"`
	Maintenance *MaintenanceSpec `json:"maintenance,omitempty" yaml:"maintenance,omitempty"`
	Capacities  *CapacitySpec    `json:"capacities,omitempty" yaml:"capacities,omitempty"`
}

// InflationSpec describes the inflation system and its working pressure.
type InflationSpec struct {
	Systems     []string `json:"systems" yaml:"systems"`
	PressurePSI float64  `json:"pressure_psi" yaml:"pressure_psi"`
	PressureBar float64  `json:"pressure_bar" yaml:"pressure_bar"`
}

// MaterialSpec describes hull fabric and adhesive.
type MaterialSpec struct {
	Fabric   string `json:"fabric" yaml:"fabric"`
	Adhesive string `json:"adhesive" yaml:"adhesive"`
}

// MaintenanceSpec is the service interval requirement.
type MaintenanceSpec struct {
	IntervalMonths int    `json:"interval_months" yaml:"interval_months"`
	Compliance     string `json:"compliance" yaml:"compliance"`
}

// CapacitySpec lists rated person capacities per launch type.
type CapacitySpec struct {
	ThrowOver   []int `json:"throw_over" yaml:"throw_over"`
	DavitLaunch []int `json:"davit_launch" yaml:"davit_launch"`
}

// FunctionalTest is a functional test resolved for one asset.
type FunctionalTest struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Frequency   string   `json:"frequency"`
	Mandatory   bool     `json:"mandatory"`
	AppliesTo   []string `json:"applies_to"`
}

// ServiceBulletin is a manufacturer service bulletin resolved for one asset.
type ServiceBulletin struct {
	Number      string   `json:"number"`
	Title       string   `json:"title"`
	Version     string   `json:"version"`
	AppliesTo   []string `json:"applies_to"`
	Tasks       []string `json:"tasks"`
	Effectivity string   `json:"effectivity"`
	Mandatory   bool     `json:"mandatory"`
}
