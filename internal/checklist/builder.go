package checklist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/raftcheck/internal/catalog"
	"github.com/starford/raftcheck/internal/models"
)

// Category labels.
const (
	CategoryLedger      = "Ledger Components"
	CategoryInventory   = "Installed Components"
	CategoryTests       = "Functional Tests"
	CategoryBulletins   = "Service Bulletins"
	CategoryInflation   = "Inflation System"
	CategoryMaterial    = "Structure and Material"
	CategoryMaintenance = "Maintenance"
	CategoryCapacities  = "Capacities"
)

// Records is the fetched input of one generation.
type Records struct {
	Ledger    []models.LedgerComponent
	Installed []models.InstalledComponent
	Tests     []models.FunctionalTest
	Bulletins []models.ServiceBulletin
	Manual    *models.ManualSpec
}

// builder assigns ids from a single counter shared by every category.
type builder struct {
	next  int
	items []Item
}

func (b *builder) add(it Item) {
	b.next++
	it.ID = strconv.Itoa(b.next)
	it.Verdict = VerdictPending
	b.items = append(b.items, it)
}

// summary emits the mandatory category header for a non-empty source.
func (b *builder) summary(src Source, category, title, description string) {
	b.add(Item{
		Category:    category,
		Title:       title,
		Description: description,
		Mandatory:   true,
		Source:      src,
	})
}

// Build expands the records into an ordered checklist. Categories are emitted
// in a fixed order: ledger, installed inventory, functional tests, bulletins,
// manual spec, baseline. Ids restart at "1" on every call.
func Build(rec Records) []Item {
	b := &builder{}
	b.ledger(rec.Ledger)
	b.inventory(rec.Installed)
	b.tests(rec.Tests)
	b.bulletins(rec.Bulletins)
	b.manual(rec.Manual)
	b.baseline()
	return b.items
}

func (b *builder) ledger(components []models.LedgerComponent) {
	if len(components) == 0 {
		return
	}
	b.summary(SourceLedger, CategoryLedger,
		"General check of ledger components",
		fmt.Sprintf("Verify all %d components listed in the inspection ledger", len(components)))

	for _, c := range components {
		validity := ""
		if c.ValidUntil != "" {
			validity = fmt.Sprintf(" (valid until %s)", c.ValidUntil)
		}
		b.add(Item{
			Category:     CategoryLedger,
			Title:        c.Name,
			Description:  fmt.Sprintf("Verify condition, validity%s and operation of the %s", validity, strings.ToLower(c.Name)),
			Mandatory:    true,
			Source:       SourceLedger,
			ComponentRef: c.Name,
		})
	}
}

func (b *builder) inventory(components []models.InstalledComponent) {
	if len(components) == 0 {
		return
	}
	b.summary(SourceInventory, CategoryInventory,
		"General check of installed components",
		fmt.Sprintf("Verify all %d components currently installed in the raft", len(components)))

	for _, c := range components {
		var extra strings.Builder
		if c.ValidUntil != "" {
			fmt.Fprintf(&extra, " (valid until %s)", c.ValidUntil)
		}
		if c.InstalledAt != nil {
			fmt.Fprintf(&extra, " - Installed on %s", c.InstalledAt.Format("02/01/2006"))
		}
		if c.SerialNumber != "" {
			fmt.Fprintf(&extra, " - Serial No.: %s", c.SerialNumber)
		}
		b.add(Item{
			Category: CategoryInventory,
			Title:    fmt.Sprintf("%s (%s)", c.Name, c.State),
			Description: fmt.Sprintf("Verify condition, operation and integrity of the %s (Type: %s, Qty: %d)%s",
				strings.ToLower(c.Name), c.Type, c.Quantity, extra.String()),
			// A damaged part is replaced through the maintenance workflow.
			Mandatory:    c.State != models.StateDamaged,
			Source:       SourceInventory,
			ComponentRef: c.ID,
		})
	}
}

func (b *builder) tests(tests []models.FunctionalTest) {
	if len(tests) == 0 {
		return
	}
	b.summary(SourceFunctionalTests, CategoryTests,
		"General check of functional tests",
		fmt.Sprintf("Perform all %d required functional tests", len(tests)))

	for _, t := range tests {
		b.add(Item{
			Category:    CategoryTests,
			Title:       t.Name,
			Description: fmt.Sprintf("%s. Frequency: %s", t.Description, t.Frequency),
			Mandatory:   t.Mandatory,
			Source:      SourceFunctionalTests,
		})
	}
}

func (b *builder) bulletins(bulletins []models.ServiceBulletin) {
	if len(bulletins) == 0 {
		return
	}
	b.summary(SourceBulletins, CategoryBulletins,
		"General check of applicable bulletins",
		fmt.Sprintf("Apply all %d required service bulletins", len(bulletins)))

	for _, sb := range bulletins {
		b.add(Item{
			Category: CategoryBulletins,
			Title:    fmt.Sprintf("SB %s - %s", sb.Number, sb.Title),
			Description: fmt.Sprintf("Apply Service Bulletin %s v.%s: %s. %s",
				sb.Number, sb.Version, strings.Join(sb.Tasks, "; "), sb.Effectivity),
			Mandatory: sb.Mandatory,
			Source:    SourceBulletins,
		})
	}
}

// manual expands one manual spec into at most four facet items.
func (b *builder) manual(spec *models.ManualSpec) {
	if spec == nil {
		return
	}
	if s := spec.Inflation; s != nil {
		b.add(Item{
			Category:    CategoryInflation,
			Title:       "Inflation system check",
			Description: fmt.Sprintf("Verify system(s): %s. Working pressure: %s PSI", strings.Join(s.Systems, ", "), formatNumber(s.PressurePSI)),
			Mandatory:   true,
			Source:      SourceManual,
		})
	}
	if s := spec.Material; s != nil {
		b.add(Item{
			Category:    CategoryMaterial,
			Title:       "Raft material check",
			Description: fmt.Sprintf("Verify fabric (%s) and adhesives (%s)", s.Fabric, s.Adhesive),
			Mandatory:   true,
			Source:      SourceManual,
		})
	}
	if s := spec.Maintenance; s != nil {
		b.add(Item{
			Category:    CategoryMaintenance,
			Title:       "Maintenance interval check",
			Description: fmt.Sprintf("Verify that maintenance was carried out within the last %d months. Compliance: %s", s.IntervalMonths, s.Compliance),
			Mandatory:   true,
			Source:      SourceManual,
		})
	}
	if s := spec.Capacities; s != nil {
		b.add(Item{
			Category:    CategoryCapacities,
			Title:       "Capacity check",
			Description: fmt.Sprintf("Verify capacities: Throw-over %s persons, Davit-launch %s persons", joinInts(s.ThrowOver), joinInts(s.DavitLaunch)),
			Mandatory:   true,
			Source:      SourceManual,
		})
	}
}

func (b *builder) baseline() {
	for _, c := range catalog.Baseline() {
		b.add(Item{
			Category:    c.Category,
			Title:       c.Title,
			Description: c.Description,
			Mandatory:   c.Mandatory,
			Source:      SourceInstalledComponents,
		})
	}
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
