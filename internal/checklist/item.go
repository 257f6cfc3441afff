// Package checklist builds, holds and aggregates the compliance checklist of a
// single inspected life-raft.
//
// A Session fetches records from every Source concurrently, merges them with
// the baseline catalog into one ordered list of Items, and derives progress,
// the overall verdict and per-source statistics from the operator's verdicts.
package checklist

import "github.com/starford/raftcheck/internal/apperr"

// Verdict is the operator's decision on one item, or the aggregate outcome.
type Verdict string

// Verdicts.
const (
	VerdictPending       Verdict = "pending"
	VerdictPassed        Verdict = "passed"
	VerdictFailed        Verdict = "failed"
	VerdictNotApplicable Verdict = "not_applicable"
)

// ParseVerdict validates s as an item verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(s); v {
	case VerdictPending, VerdictPassed, VerdictFailed, VerdictNotApplicable:
		return v, nil
	}
	return "", apperr.ErrInvalidVerdict
}

// Source tags the origin of an item.
type Source string

// Source tags. Build documents the emit order.
const (
	SourceLedger              Source = "ledger"
	SourceManual              Source = "manual"
	SourceInstalledComponents Source = "installed_components"
	SourceInventory           Source = "inventory"
	SourceFunctionalTests     Source = "functional_tests"
	SourceBulletins           Source = "bulletins"
)

// AllSources lists every source tag.
var AllSources = []Source{
	SourceLedger,
	SourceManual,
	SourceInstalledComponents,
	SourceInventory,
	SourceFunctionalTests,
	SourceBulletins,
}

// Field names an operator-editable item field.
type Field string

// Editable fields.
const (
	FieldVerdict Field = "verdict"
	FieldNotes   Field = "notes"
)

// Item is one verifiable fact of the checklist.
type Item struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Mandatory    bool    `json:"mandatory"`
	Verdict      Verdict `json:"verdict"`
	Notes        string  `json:"notes"`
	Source       Source  `json:"source"`
	ComponentRef string  `json:"component_ref,omitempty"`
}
