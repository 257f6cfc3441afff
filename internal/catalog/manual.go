package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/raftcheck/internal/models"
)

// Defaults applied when a manual entry leaves a section out.
const (
	DefaultPressurePSI    = 300
	DefaultPressureBar    = 20.7
	DefaultFabric         = "Reinforced PVC/Nylon"
	DefaultAdhesive       = "Industrial adhesive"
	DefaultIntervalMonths = 12
	DefaultCompliance     = "SOLAS 74/96"
)

//go:embed manual_specs.yaml
var embeddedManualSpecs []byte

// Capacity is one rated configuration of a model.
type Capacity struct {
	Persons  int    `yaml:"persons"`
	Cylinder string `yaml:"cylinder"`
	Volume   string `yaml:"volume"`
}

// ManualEntry is one brand/model record of the manual catalog file.
type ManualEntry struct {
	Brand           string                  `yaml:"brand"`
	Model           string                  `yaml:"model"`
	InflationSystem string                  `yaml:"inflation_system"`
	PressurePSI     float64                 `yaml:"pressure_psi,omitempty"`
	PressureBar     float64                 `yaml:"pressure_bar,omitempty"`
	Valves          []string                `yaml:"valves"`
	Capacities      []Capacity              `yaml:"capacities"`
	Packs           []string                `yaml:"packs"`
	Material        *models.MaterialSpec    `yaml:"material,omitempty"`
	Maintenance     *models.MaintenanceSpec `yaml:"maintenance,omitempty"`
}

// Validate validates a catalog entry.
func (e ManualEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Brand, validation.Required),
		validation.Field(&e.Model, validation.Required),
	)
}

// Spec converts the entry into the checklist-facing manual spec.
func (e ManualEntry) Spec() *models.ManualSpec {
	spec := &models.ManualSpec{}

	if e.InflationSystem != "" {
		psi, bar := e.PressurePSI, e.PressureBar
		if psi == 0 {
			psi = DefaultPressurePSI
		}
		if bar == 0 {
			bar = DefaultPressureBar
		}
		spec.Inflation = &models.InflationSpec{
			Systems:     []string{e.InflationSystem},
			PressurePSI: psi,
			PressureBar: bar,
		}
	}

	spec.Material = &models.MaterialSpec{Fabric: DefaultFabric, Adhesive: DefaultAdhesive}
	if e.Material != nil {
		m := *e.Material
		spec.Material = &m
	}
	spec.Maintenance = &models.MaintenanceSpec{IntervalMonths: DefaultIntervalMonths, Compliance: DefaultCompliance}
	if e.Maintenance != nil {
		m := *e.Maintenance
		spec.Maintenance = &m
	}

	if len(e.Capacities) > 0 {
		persons := make([]int, len(e.Capacities))
		for i, c := range e.Capacities {
			persons[i] = c.Persons
		}
		spec.Capacities = &models.CapacitySpec{
			ThrowOver:   persons,
			DavitLaunch: slices.Clone(persons),
		}
	}
	return spec
}

type manualKey struct{ brand, model string }

// ManualCatalog indexes manual entries by exact brand/model pair.
type ManualCatalog struct {
	entries []ManualEntry
	byKey   map[manualKey]int
}

// ParseManualCatalog reads a YAML list of manual entries.
func ParseManualCatalog(r io.Reader) (*ManualCatalog, error) {
	var entries []ManualEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("catalog: decode manual specs: %w", err)
	}
	c := &ManualCatalog{byKey: make(map[manualKey]int, len(entries))}
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: manual entry %d: %w", i, err)
		}
		k := manualKey{e.Brand, e.Model}
		if _, dup := c.byKey[k]; dup {
			return nil, fmt.Errorf("catalog: duplicate manual entry %s %s", e.Brand, e.Model)
		}
		c.byKey[k] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

var defaultManual = sync.OnceValues(func() (*ManualCatalog, error) {
	return ParseManualCatalog(bytes.NewReader(embeddedManualSpecs))
})

// DefaultManualCatalog returns the catalog compiled into the binary.
func DefaultManualCatalog() (*ManualCatalog, error) {
	return defaultManual()
}

// Lookup returns the spec for the exact brand/model pair, or nil.
func (c *ManualCatalog) Lookup(brand, model string) *models.ManualSpec {
	i, ok := c.byKey[manualKey{brand, model}]
	if !ok {
		return nil
	}
	return c.entries[i].Spec()
}

// Models returns every model known for brand, in catalog order.
func (c *ManualCatalog) Models(brand string) []string {
	var out []string
	for _, e := range c.entries {
		if e.Brand == brand {
			out = append(out, e.Model)
		}
	}
	return out
}

// Len returns the number of entries.
func (c *ManualCatalog) Len() int {
	return len(c.entries)
}
