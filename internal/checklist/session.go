package checklist

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/starford/raftcheck/internal/apperr"
	"github.com/starford/raftcheck/internal/models"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithFetchTimeout bounds the fetch stage of every generation.
// Zero disables the bound.
func WithFetchTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		s.fetchTimeout = d
	}
}

// Snapshot is a consistent read of a session's state.
type Snapshot struct {
	AssetID    string           `json:"asset_id"`
	Asset      *models.Asset    `json:"asset,omitempty"`
	Items      []Item           `json:"items"`
	Progress   float64          `json:"progress"`
	Verdict    Verdict          `json:"verdict"`
	Statistics map[Source]Stats `json:"statistics"`
	Generating bool             `json:"generating"`
	Error      string           `json:"error,omitempty"`
}

// Session owns the checklist of one inspection. All methods are safe for
// concurrent use; item updates are applied in the order they acquire the lock.
//
// Every generation run carries a token. Starting a run cancels the previous
// in-flight run, and a run only commits its result if its token is still the
// latest, so a superseded generation never reaches the item list.
type Session struct {
	sources      Sources
	logger       *slog.Logger
	fetchTimeout time.Duration

	mu        sync.Mutex
	assetID   string // latest requested asset
	committed string // asset the current items were built for
	asset     *models.Asset
	items     []Item
	token     uint64
	cancel    context.CancelFunc // non-nil while a run is in flight
	err       error
}

// NewSession creates an empty session reading from src.
func NewSession(src Sources, opts ...SessionOption) *Session {
	s := &Session{sources: src, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds the checklist for assetID. It is a no-op when the current
// checklist was already built for assetID and nothing is in flight.
//
// It returns apperr.ErrAssetNotFound (wrapped) when the asset does not exist,
// in which case the previous items are kept, and apperr.ErrSuperseded when a
// newer generation started before this one finished. If ctx ends before the
// fetch completes nothing is committed and ctx's error is returned; only the
// fetch timeout degrades slow sources.
func (s *Session) Generate(ctx context.Context, assetID string) error {
	s.mu.Lock()
	if s.cancel == nil && s.committed == assetID && s.items != nil {
		// Switching back to the committed asset drops any failed request.
		s.assetID = assetID
		s.err = nil
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.run(ctx, assetID)
}

// Regenerate rebuilds the checklist for the current asset, discarding all
// verdicts and notes.
func (s *Session) Regenerate(ctx context.Context) error {
	s.mu.Lock()
	assetID := s.assetID
	s.mu.Unlock()
	if assetID == "" {
		return apperr.ErrNotFound
	}
	return s.run(ctx, assetID)
}

func (s *Session) run(ctx context.Context, assetID string) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.token++
	token := s.token
	s.cancel = cancel
	s.assetID = assetID
	s.mu.Unlock()

	fetchCtx := runCtx
	if s.fetchTimeout > 0 {
		var fetchCancel context.CancelFunc
		fetchCtx, fetchCancel = context.WithTimeout(runCtx, s.fetchTimeout)
		defer fetchCancel()
	}

	start := time.Now()
	asset, rec, err := fetch(fetchCtx, s.sources, assetID, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		s.logger.Debug("checklist: discarding superseded generation", slog.String("asset_id", assetID))
		return apperr.ErrSuperseded
	}
	s.cancel = nil
	if ctxErr := runCtx.Err(); ctxErr != nil {
		s.logger.Debug("checklist: generation cancelled", slog.String("asset_id", assetID))
		s.assetID = s.committed
		return ctxErr
	}
	if err != nil {
		s.err = err
		return err
	}

	s.items = Build(rec)
	s.asset = &asset
	s.committed = assetID
	s.err = nil

	s.logger.Info("checklist: generated",
		slog.String("asset_id", assetID),
		slog.Int("items", len(s.items)),
		slog.Duration("took", time.Since(start)))
	return nil
}

// UpdateItem sets one field of one item. An unknown id is a no-op and
// reports false. value must be a valid verdict when field is FieldVerdict.
func (s *Session) UpdateItem(id string, field Field, value string) (bool, error) {
	var verdict Verdict
	switch field {
	case FieldVerdict:
		v, err := ParseVerdict(value)
		if err != nil {
			return false, err
		}
		verdict = v
	case FieldNotes:
	default:
		return false, apperr.ErrInvalidField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if field == FieldVerdict {
			s.items[i].Verdict = verdict
		} else {
			s.items[i].Notes = value
		}
		return true, nil
	}
	return false, nil
}

// Items returns a copy of the current ordered checklist.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Item returns the item with the given id.
func (s *Session) Item(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// AssetID returns the most recently requested asset id.
func (s *Session) AssetID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assetID
}

// Err returns the error of the last committed generation attempt, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Progress is the session-bound form of Progress.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress(s.items)
}

// OverallVerdict is the session-bound form of OverallVerdict.
func (s *Session) OverallVerdict() Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return OverallVerdict(s.items)
}

// StatisticsBySource is the session-bound form of StatisticsBySource.
func (s *Session) StatisticsBySource() map[Source]Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatisticsBySource(s.items)
}

// Snapshot returns items and aggregates computed under one lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		AssetID:    s.assetID,
		Items:      slices.Clone(s.items),
		Progress:   Progress(s.items),
		Verdict:    OverallVerdict(s.items),
		Statistics: StatisticsBySource(s.items),
		Generating: s.cancel != nil,
	}
	if snap.Items == nil {
		snap.Items = []Item{}
	}
	if s.asset != nil {
		a := *s.asset
		snap.Asset = &a
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}
