package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setMandatory(items []Item, v Verdict) {
	for i := range items {
		if items[i].Mandatory {
			items[i].Verdict = v
		}
	}
}

func TestOverallVerdictPassedWithOptionalPending(t *testing.T) {
	items := Build(Records{Tests: twoTests(), Manual: inflationOnly()})
	setMandatory(items, VerdictPassed)

	assert.Equal(t, VerdictPassed, OverallVerdict(items))
	assert.Less(t, Progress(items), 100.0)
}

func TestOverallVerdictFailedOnMandatoryFailure(t *testing.T) {
	items := Build(Records{Tests: twoTests(), Manual: inflationOnly()})
	setMandatory(items, VerdictPassed)
	items[1].Verdict = VerdictFailed

	assert.Equal(t, VerdictFailed, OverallVerdict(items))
}

func TestOverallVerdictPendingBeatsFailed(t *testing.T) {
	items := []Item{
		{ID: "1", Mandatory: true, Verdict: VerdictFailed},
		{ID: "2", Mandatory: true, Verdict: VerdictPending},
	}
	assert.Equal(t, VerdictPending, OverallVerdict(items))
}

func TestOverallVerdictIgnoresOptionalFailure(t *testing.T) {
	items := []Item{
		{ID: "1", Mandatory: true, Verdict: VerdictPassed},
		{ID: "2", Mandatory: false, Verdict: VerdictFailed},
	}
	assert.Equal(t, VerdictPassed, OverallVerdict(items))
}

func TestOverallVerdictEmpty(t *testing.T) {
	assert.Equal(t, VerdictPending, OverallVerdict(nil))
}

func TestNotApplicableIsResolvedNeutral(t *testing.T) {
	items := []Item{
		{ID: "1", Mandatory: true, Verdict: VerdictNotApplicable, Source: SourceManual},
		{ID: "2", Mandatory: true, Verdict: VerdictPassed, Source: SourceManual},
	}
	assert.Equal(t, VerdictPassed, OverallVerdict(items))
	assert.Equal(t, 100.0, Progress(items))

	st := StatisticsBySource(items)[SourceManual]
	assert.Equal(t, Stats{Total: 2, Passed: 1, NotApplicable: 1}, st)
}

func TestProgress(t *testing.T) {
	assert.Zero(t, Progress(nil))

	items := []Item{
		{Verdict: VerdictPassed},
		{Verdict: VerdictFailed},
		{Verdict: VerdictPending},
		{Verdict: VerdictPending},
	}
	assert.Equal(t, 50.0, Progress(items))
}

func TestStatisticsBySourceHasEveryTag(t *testing.T) {
	st := StatisticsBySource(nil)
	assert.Len(t, st, len(AllSources))
	for _, src := range AllSources {
		assert.Equal(t, Stats{}, st[src])
	}
}

func TestStatisticsBySourceCounts(t *testing.T) {
	items := Build(Records{Tests: twoTests()})
	items[0].Verdict = VerdictPassed
	items[1].Verdict = VerdictFailed

	st := StatisticsBySource(items)
	ft := st[SourceFunctionalTests]
	assert.Equal(t, 3, ft.Total)
	assert.Equal(t, 1, ft.Passed)
	assert.Equal(t, 1, ft.Failed)
	assert.Equal(t, 1, ft.Pending)

	total := 0
	for _, s := range st {
		total += s.Total
		assert.Equal(t, s.Total, s.Passed+s.Failed+s.Pending+s.NotApplicable)
	}
	assert.Equal(t, len(items), total)
}

func TestParseVerdict(t *testing.T) {
	for _, s := range []string{"pending", "passed", "failed", "not_applicable"} {
		v, err := ParseVerdict(s)
		assert.NoError(t, err)
		assert.Equal(t, Verdict(s), v)
	}
	_, err := ParseVerdict("approved")
	assert.Error(t, err)
}
