package inspection_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/raftcheck/internal/apperr"
	"github.com/starford/raftcheck/internal/checklist"
	"github.com/starford/raftcheck/internal/inspection"
	"github.com/starford/raftcheck/internal/models"
	"github.com/starford/raftcheck/internal/testutil"
)

type recordedEvent struct {
	kind, id string
	summary  any
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) PublishInspectionEvent(kind, id string, summary any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind, id, summary})
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.kind
	}
	return out
}

func setup(t *testing.T) (*inspection.Service, *inspection.Sources, *recorder) {
	t.Helper()
	src := testutil.TestSources(t)
	rec := &recorder{}
	svc := inspection.NewService(src,
		inspection.WithPublisher(rec),
		inspection.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return svc, src, rec
}

func countSource(items []checklist.Item, s checklist.Source) int {
	n := 0
	for _, it := range items {
		if it.Source == s {
			n++
		}
	}
	return n
}

func TestOpenBuildsChecklistFromAllSources(t *testing.T) {
	svc, src, rec := setup(t)
	ctx := context.Background()
	asset := testutil.CreateAsset(t, src, testutil.SampleAsset())
	_, err := src.Registry.AddComponent(ctx, models.InstalledComponent{AssetID: asset.ID, Name: "EPIRB", Quantity: 1})
	require.NoError(t, err)

	v, err := svc.Open(ctx, asset.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, asset.ID, v.AssetID)

	assert.Equal(t, 3, countSource(v.Items, checklist.SourceLedger))
	assert.Equal(t, 2, countSource(v.Items, checklist.SourceInventory))
	assert.Equal(t, 6, countSource(v.Items, checklist.SourceFunctionalTests))
	assert.Zero(t, countSource(v.Items, checklist.SourceBulletins))
	assert.Equal(t, 4, countSource(v.Items, checklist.SourceManual))
	assert.Equal(t, checklist.VerdictPending, v.Verdict)

	assert.Equal(t, []string{inspection.EventGenerated}, rec.kinds())
	assert.Equal(t, 1, svc.Len())
}

func TestOpenUnknownAsset(t *testing.T) {
	svc, _, rec := setup(t)
	_, err := svc.Open(context.Background(), "ghost")
	require.ErrorIs(t, err, apperr.ErrAssetNotFound)
	assert.Zero(t, svc.Len())
	assert.Empty(t, rec.kinds())
}

func TestUpdateItemAndSummary(t *testing.T) {
	svc, src, rec := setup(t)
	asset := testutil.CreateAsset(t, src, testutil.SampleAsset())
	v, err := svc.Open(context.Background(), asset.ID)
	require.NoError(t, err)

	item, err := svc.UpdateItem(v.ID, "1", checklist.FieldVerdict, "passed")
	require.NoError(t, err)
	assert.Equal(t, checklist.VerdictPassed, item.Verdict)

	sum, err := svc.Summary(v.ID)
	require.NoError(t, err)
	assert.Equal(t, len(v.Items), sum.Items)
	assert.Greater(t, sum.Progress, 0.0)
	assert.Equal(t, 1, sum.Statistics[checklist.SourceLedger].Passed)

	assert.Equal(t, []string{inspection.EventGenerated, inspection.EventItemUpdated}, rec.kinds())
}

func TestUpdateItemErrors(t *testing.T) {
	svc, src, _ := setup(t)
	asset := testutil.CreateAsset(t, src, testutil.SampleAsset())
	v, err := svc.Open(context.Background(), asset.ID)
	require.NoError(t, err)

	_, err = svc.UpdateItem(v.ID, "9999", checklist.FieldNotes, "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UpdateItem(v.ID, "1", checklist.FieldVerdict, "ok")
	assert.ErrorIs(t, err, apperr.ErrInvalidVerdict)

	_, err = svc.UpdateItem("nope", "1", checklist.FieldNotes, "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSetAssetAndRegenerate(t *testing.T) {
	svc, src, _ := setup(t)
	ctx := context.Background()
	first := testutil.CreateAsset(t, src, testutil.SampleAsset())
	second := testutil.CreateAsset(t, src, models.Asset{Brand: "Survitec", Model: "Mk IV TO", LaunchType: models.LaunchDavitLaunch})

	v, err := svc.Open(ctx, first.ID)
	require.NoError(t, err)

	v, err = svc.SetAsset(ctx, v.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, v.AssetID)
	assert.Zero(t, countSource(v.Items, checklist.SourceLedger))
	assert.Equal(t, 5, countSource(v.Items, checklist.SourceBulletins))
	assert.Equal(t, 7, countSource(v.Items, checklist.SourceFunctionalTests))

	_, err = svc.UpdateItem(v.ID, "1", checklist.FieldVerdict, "failed")
	require.NoError(t, err)
	before, _ := svc.Get(v.ID)
	assert.Equal(t, checklist.VerdictFailed, before.Items[0].Verdict)

	after, err := svc.Regenerate(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, checklist.VerdictPending, after.Items[0].Verdict)
	assert.Equal(t, len(before.Items), len(after.Items))
}

func TestCloseAndList(t *testing.T) {
	svc, src, rec := setup(t)
	asset := testutil.CreateAsset(t, src, testutil.SampleAsset())
	ctx := context.Background()

	a, err := svc.Open(ctx, asset.ID)
	require.NoError(t, err)
	b, err := svc.Open(ctx, asset.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, svc.List(), 2)

	require.NoError(t, svc.Close(a.ID))
	assert.ErrorIs(t, svc.Close(a.ID), apperr.ErrNotFound)
	_, err = svc.Get(a.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list := svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].InspectionID)
	assert.Contains(t, rec.kinds(), inspection.EventClosed)
}

func TestSourcesLedgerMissesEmptySerial(t *testing.T) {
	svc, src, _ := setup(t)
	a := testutil.SampleAsset()
	a.SerialNumber = ""
	asset := testutil.CreateAsset(t, src, a)

	v, err := svc.Open(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Zero(t, countSource(v.Items, checklist.SourceLedger))
}
