package catalog

import (
	"slices"
	"strings"

	"github.com/starford/raftcheck/internal/models"
)

// BulletinDefinition is one entry of the service bulletin master list.
// AppliesTo holds brand or model substrings.
type BulletinDefinition struct {
	Number       string
	Title        string
	Version      string
	AppliesTo    []string
	Tasks        []string
	Effectivity  string
	MandatoryFor func(brand, model string) bool
}

// Applies reports whether any applicability entry is a case-insensitive
// substring of the brand, the model, or "brand model".
func (d BulletinDefinition) Applies(brand, model string) bool {
	b, m := strings.ToLower(brand), strings.ToLower(model)
	full := b + " " + m
	for _, a := range d.AppliesTo {
		a = strings.ToLower(a)
		if a == "" {
			continue
		}
		if strings.Contains(b, a) || strings.Contains(m, a) || strings.Contains(full, a) {
			return true
		}
	}
	return false
}

func anyModel(string, string) bool { return true }

func modelContains(marker string) func(string, string) bool {
	return func(_, model string) bool { return strings.Contains(model, marker) }
}

var bulletins = []BulletinDefinition{
	{
		Number:    "12/24",
		Title:     "Part number consolidation",
		Version:   "1",
		AppliesTo: []string{"Survitec", "RFD", "DSB", "Eurovinil"},
		Tasks: []string{
			"Replace anti-seasickness tablets with the new part numbers",
			"Replace first aid kits with the new part numbers",
			"Replace lights and batteries with the new part numbers",
		},
		Effectivity:  "Every service",
		MandatoryFor: anyModel,
	},
	{
		Number:    "23/24",
		Title:     "Mk IV hull changes",
		Version:   "1",
		AppliesTo: []string{"Survitec Mk IV"},
		Tasks: []string{
			"Check welded hull seam",
			"Check updated water pocket attachment",
			"Check updated fabric and webbing materials",
			"Check updated light activation line attachment point",
		},
		Effectivity:  "Immediate for new rafts",
		MandatoryFor: modelContains("Mk IV"),
	},
	{
		Number:    "43/21",
		Title:     "Service optimisation (gasket seal, pyrotechnics valises, canopy zips)",
		Version:   "3",
		AppliesTo: []string{"Survitec Mk IV"},
		Tasks: []string{
			"Replace gasket seal",
			"Use new pyrotechnics valises",
			"Use new bellows valise",
			"Replace metal zip pullers with resin ones",
		},
		Effectivity:  "Every service",
		MandatoryFor: modelContains("Mk IV"),
	},
	{
		Number:    "46/21",
		Title:     "Multiple label sheets",
		Version:   "2",
		AppliesTo: []string{"Survitec", "DSB", "RFD"},
		Tasks: []string{
			"Remove old labels from the container",
			"Apply new multiple label sheets",
			"Check label positioning",
		},
		Effectivity:  "Every service",
		MandatoryFor: anyModel,
	},
}

// BulletinDefinitions returns the service bulletin master list.
func BulletinDefinitions() []BulletinDefinition {
	return slices.Clone(bulletins)
}

// ServiceBulletins resolves the master list for one brand/model pair.
func ServiceBulletins(brand, model string) []models.ServiceBulletin {
	var out []models.ServiceBulletin
	for _, d := range bulletins {
		if !d.Applies(brand, model) {
			continue
		}
		out = append(out, models.ServiceBulletin{
			Number:      d.Number,
			Title:       d.Title,
			Version:     d.Version,
			AppliesTo:   slices.Clone(d.AppliesTo),
			Tasks:       slices.Clone(d.Tasks),
			Effectivity: d.Effectivity,
			Mandatory:   d.MandatoryFor(brand, model),
		})
	}
	return out
}
