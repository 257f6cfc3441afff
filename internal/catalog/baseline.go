// Package catalog holds the static inspection tables: the baseline checks every
// raft receives, the functional test and service bulletin master lists, and the
// manufacturer manual specifications.
//
// Tables are built once at package init and never mutated; lookups return copies.
package catalog

// BaselineCheck is a structural or safety check independent of any record.
type BaselineCheck struct {
	Category    string
	Title       string
	Description string
	Mandatory   bool
}

var baseline = []BaselineCheck{
	{"External Structure", "General hull condition", "Check for cracks, deformation or corrosion", true},
	{"External Structure", "Buoyancy system", "Check air chambers and seals", true},
	{"External Structure", "Paint and coating", "Check condition of the protective coating", true},
	{"External Structure", "External fittings", "Check hooks, rings and lashings", true},
	{"Safety Equipment", "Life jackets", "Check quantity, condition and expiry", true},
	{"Safety Equipment", "Emergency rations", "Check expiry and quantity", true},
	{"Safety Equipment", "First aid kit", "Check contents and expiry", true},
	{"Safety Equipment", "EPIRB", "Check operation and battery", true},
	{"Electrical Systems", "Battery and charger", "Check voltage and capacity", true},
	{"Electrical Systems", "Lighting system", "Check operation of every light", true},
	{"Electrical Systems", "VHF radio", "Check operation and frequency", true},
	{"Documentation", "Inspection certificate", "Check validity of the last certificate", true},
	{"Documentation", "Instruction manual", "Check presence and condition", true},
	{"Documentation", "Maintenance log", "Check repair history", false},
}

// Baseline returns the generic checks in emit order.
func Baseline() []BaselineCheck {
	out := make([]BaselineCheck, len(baseline))
	copy(out, baseline)
	return out
}
