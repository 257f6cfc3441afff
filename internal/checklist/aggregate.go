package checklist

// Stats counts verdicts of the items carrying one source tag.
// NotApplicable items are counted in Total and in their own bucket only.
type Stats struct {
	Total         int `json:"total"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	Pending       int `json:"pending"`
	NotApplicable int `json:"not_applicable"`
}

// Progress returns the share of items with a non-pending verdict as a
// percentage in [0, 100]. An empty checklist has progress 0.
func Progress(items []Item) float64 {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, it := range items {
		if it.Verdict != VerdictPending {
			done++
		}
	}
	return float64(done) / float64(len(items)) * 100
}

// OverallVerdict derives the aggregate outcome from mandatory items only:
// pending while any of them is pending, failed if any failed, else passed.
// not_applicable resolves an item without failing it. A checklist that has
// not been generated yet is pending, not passed: an inspection with nothing
// checked must never read as approved.
func OverallVerdict(items []Item) Verdict {
	if len(items) == 0 {
		return VerdictPending
	}
	failed := false
	for _, it := range items {
		if !it.Mandatory {
			continue
		}
		switch it.Verdict {
		case VerdictPending:
			return VerdictPending
		case VerdictFailed:
			failed = true
		}
	}
	if failed {
		return VerdictFailed
	}
	return VerdictPassed
}

// StatisticsBySource returns per-source counts. Every source tag is present,
// including those with no items.
func StatisticsBySource(items []Item) map[Source]Stats {
	out := make(map[Source]Stats, len(AllSources))
	for _, src := range AllSources {
		out[src] = Stats{}
	}
	for _, it := range items {
		st := out[it.Source]
		st.Total++
		switch it.Verdict {
		case VerdictPassed:
			st.Passed++
		case VerdictFailed:
			st.Failed++
		case VerdictPending:
			st.Pending++
		case VerdictNotApplicable:
			st.NotApplicable++
		}
		out[it.Source] = st
	}
	return out
}
