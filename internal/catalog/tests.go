package catalog

import (
	"slices"

	"github.com/starford/raftcheck/internal/models"
)

// ApplicableToAll marks a definition that applies regardless of launch type.
const ApplicableToAll = "all"

// TestDefinition is one entry of the functional test master list.
type TestDefinition struct {
	Kind        string
	Name        string
	Description string
	Frequency   string
	AppliesTo   []string
	// MandatoryFor reports whether the test blocks approval for a launch type.
	MandatoryFor func(launchType string) bool
}

// Applies reports whether the test is relevant for launchType.
func (d TestDefinition) Applies(launchType string) bool {
	return slices.Contains(d.AppliesTo, ApplicableToAll) || slices.Contains(d.AppliesTo, launchType)
}

func always(string) bool { return true }

func onlyFor(launchType string) func(string) bool {
	return func(lt string) bool { return lt == launchType }
}

var functionalTests = []TestDefinition{
	{
		Kind:         "pressure",
		Name:         "Working pressure test",
		Description:  "Check the inflation system working pressure against the manufacturer specification",
		Frequency:    "Every service",
		AppliesTo:    []string{ApplicableToAll},
		MandatoryFor: always,
	},
	{
		Kind:         "leak",
		Name:         "Leak test",
		Description:  "Run a leak test after pressurisation to verify chamber integrity",
		Frequency:    "Every service",
		AppliesTo:    []string{ApplicableToAll},
		MandatoryFor: always,
	},
	{
		Kind:         "load",
		Name:         "Load test (davit launch)",
		Description:  "Apply a 1.1xG load on davit-launch rafts as specified",
		Frequency:    "Every 2 years",
		AppliesTo:    []string{models.LaunchDavitLaunch},
		MandatoryFor: onlyFor(models.LaunchDavitLaunch),
	},
	{
		Kind:         "inflation",
		Name:         "Inflation test",
		Description:  "Check full inflation time and pressure of the raft",
		Frequency:    "Every service",
		AppliesTo:    []string{ApplicableToAll},
		MandatoryFor: always,
	},
	{
		Kind:         "functional",
		Name:         "General functional test",
		Description:  "Check operation of valves, accessories and safety equipment",
		Frequency:    "Every service",
		AppliesTo:    []string{ApplicableToAll},
		MandatoryFor: always,
	},
	{
		Kind:         "relief-valves",
		Name:         "Pressure relief valve test",
		Description:  "Check operation of the pressure relief valves",
		Frequency:    "Every service",
		AppliesTo:    []string{ApplicableToAll},
		MandatoryFor: always,
	},
}

// TestDefinitions returns the functional test master list.
func TestDefinitions() []TestDefinition {
	return slices.Clone(functionalTests)
}

// FunctionalTests resolves the master list for one launch type.
func FunctionalTests(launchType string) []models.FunctionalTest {
	var out []models.FunctionalTest
	for _, d := range functionalTests {
		if !d.Applies(launchType) {
			continue
		}
		out = append(out, models.FunctionalTest{
			Kind:        d.Kind,
			Name:        d.Name,
			Description: d.Description,
			Frequency:   d.Frequency,
			Mandatory:   d.MandatoryFor(launchType),
			AppliesTo:   slices.Clone(d.AppliesTo),
		})
	}
	return out
}
