// Package inspection manages concurrent inspection sessions, each owning one
// checklist, and announces their changes to a Publisher.
package inspection

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/raftcheck/internal/apperr"
	"github.com/starford/raftcheck/internal/checklist"
)

// Event kinds passed to Publisher.
const (
	EventGenerated   = "generated"
	EventItemUpdated = "item_updated"
	EventClosed      = "closed"
)

// Publisher receives inspection change notifications.
type Publisher interface {
	PublishInspectionEvent(kind, inspectionID string, summary any)
}

type nopPublisher struct{}

func (nopPublisher) PublishInspectionEvent(string, string, any) {}

// Summary is the aggregate view of one inspection.
type Summary struct {
	InspectionID string                                 `json:"inspection_id"`
	AssetID      string                                 `json:"asset_id"`
	OpenedAt     time.Time                              `json:"opened_at"`
	Items        int                                    `json:"items"`
	Progress     float64                                `json:"progress"`
	Verdict      checklist.Verdict                      `json:"verdict"`
	Statistics   map[checklist.Source]checklist.Stats `json:"statistics"`
}

// View is the full state of one inspection.
type View struct {
	ID       string    `json:"id"`
	OpenedAt time.Time `json:"opened_at"`
	checklist.Snapshot
}

type inspection struct {
	id       string
	openedAt time.Time
	session  *checklist.Session
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the event sink.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.pub = p
	}
}

// WithLogger sets the logger shared by the service and its sessions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithFetchTimeout bounds the fetch stage of every generation.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.fetchTimeout = d
	}
}

// Service holds the open inspections.
type Service struct {
	sources      checklist.Sources
	pub          Publisher
	logger       *slog.Logger
	fetchTimeout time.Duration

	mu          sync.RWMutex
	inspections map[string]*inspection
}

// NewService creates a Service reading from src.
func NewService(src checklist.Sources, opts ...Option) *Service {
	s := &Service{
		sources:     src,
		pub:         nopPublisher{},
		logger:      slog.Default(),
		inspections: make(map[string]*inspection),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts an inspection of assetID and generates its checklist. Nothing
// is registered when the first generation fails.
func (s *Service) Open(ctx context.Context, assetID string) (View, error) {
	in := &inspection{
		id:       uuid.NewString(),
		openedAt: time.Now().UTC(),
		session: checklist.NewSession(s.sources,
			checklist.WithLogger(s.logger),
			checklist.WithFetchTimeout(s.fetchTimeout)),
	}
	if err := in.session.Generate(ctx, assetID); err != nil {
		return View{}, err
	}

	s.mu.Lock()
	s.inspections[in.id] = in
	s.mu.Unlock()

	s.logger.Info("inspection: opened", slog.String("inspection_id", in.id), slog.String("asset_id", assetID))
	s.publish(EventGenerated, in)
	return in.view(), nil
}

// Get returns the current state of an inspection.
func (s *Service) Get(id string) (View, error) {
	in, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	return in.view(), nil
}

// SetAsset switches an inspection to another asset. Concurrent calls follow
// latest-request-wins; the losers get apperr.ErrSuperseded.
func (s *Service) SetAsset(ctx context.Context, id, assetID string) (View, error) {
	in, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	if err := in.session.Generate(ctx, assetID); err != nil {
		return View{}, err
	}
	s.publish(EventGenerated, in)
	return in.view(), nil
}

// Regenerate rebuilds the checklist, discarding verdicts and notes.
func (s *Service) Regenerate(ctx context.Context, id string) (View, error) {
	in, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	if err := in.session.Regenerate(ctx); err != nil {
		return View{}, err
	}
	s.publish(EventGenerated, in)
	return in.view(), nil
}

// UpdateItem sets a verdict or notes on one item and returns the updated item.
// An unknown item id yields apperr.ErrNotFound and changes nothing.
func (s *Service) UpdateItem(id, itemID string, field checklist.Field, value string) (checklist.Item, error) {
	in, err := s.lookup(id)
	if err != nil {
		return checklist.Item{}, err
	}
	ok, err := in.session.UpdateItem(itemID, field, value)
	if err != nil {
		return checklist.Item{}, err
	}
	if !ok {
		return checklist.Item{}, apperr.ErrNotFound
	}
	item, _ := in.session.Item(itemID)
	s.publish(EventItemUpdated, in)
	return item, nil
}

// Summary returns the aggregates of one inspection.
func (s *Service) Summary(id string) (Summary, error) {
	in, err := s.lookup(id)
	if err != nil {
		return Summary{}, err
	}
	return in.summary(), nil
}

// List returns the summaries of every open inspection, oldest first.
func (s *Service) List() []Summary {
	s.mu.RLock()
	all := make([]*inspection, 0, len(s.inspections))
	for _, in := range s.inspections {
		all = append(all, in)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].openedAt.Equal(all[j].openedAt) {
			return all[i].id < all[j].id
		}
		return all[i].openedAt.Before(all[j].openedAt)
	})
	out := make([]Summary, len(all))
	for i, in := range all {
		out[i] = in.summary()
	}
	return out
}

// Close discards an inspection.
func (s *Service) Close(id string) error {
	s.mu.Lock()
	in, ok := s.inspections[id]
	delete(s.inspections, id)
	s.mu.Unlock()
	if !ok {
		return apperr.ErrNotFound
	}
	s.pub.PublishInspectionEvent(EventClosed, id, nil)
	s.logger.Info("inspection: closed", slog.String("inspection_id", id), slog.String("asset_id", in.session.AssetID()))
	return nil
}

// Len returns the number of open inspections.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inspections)
}

func (s *Service) lookup(id string) (*inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.inspections[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return in, nil
}

func (s *Service) publish(kind string, in *inspection) {
	s.pub.PublishInspectionEvent(kind, in.id, in.summary())
}

func (in *inspection) view() View {
	return View{ID: in.id, OpenedAt: in.openedAt, Snapshot: in.session.Snapshot()}
}

func (in *inspection) summary() Summary {
	snap := in.session.Snapshot()
	return Summary{
		InspectionID: in.id,
		AssetID:      snap.AssetID,
		OpenedAt:     in.openedAt,
		Items:        len(snap.Items),
		Progress:     snap.Progress,
		Verdict:      snap.Verdict,
		Statistics:   snap.Statistics,
	}
}
