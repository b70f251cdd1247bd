package journal

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/syncgo/internal/gamify"
	"github.com/roach88/syncgo/internal/model"
)

// Store is the persistence boundary the service depends on.
// *store.Store satisfies it.
type Store interface {
	CreateProfile(ctx context.Context, p model.Profile) error
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	UpdateProfileSettings(ctx context.Context, id, displayName string, shareByDefault bool, now time.Time) error
	ApplyProfileDelta(ctx context.Context, userID string, delta model.ProfileDelta, now time.Time) (model.Profile, error)
	ListAwards(ctx context.Context, userID string) ([]model.PointAward, error)

	CreateEvent(ctx context.Context, e model.Event) error
	GetEvent(ctx context.Context, id string) (model.Event, error)
	CountPriorSharedEvents(ctx context.Context, userID, excludeEventID string) (int, error)
	CountEvents(ctx context.Context, userID string) (model.EventCounts, error)
	ListUserEvents(ctx context.Context, userID, tag string) ([]model.Event, error)
	ListSharedEvents(ctx context.Context, tag string, limit int) ([]model.Event, error)
	ListRecentShared(ctx context.Context, limit int) ([]model.Event, error)
	ListLocatedEvents(ctx context.Context, viewerID string) ([]model.Event, error)

	ToggleReaction(ctx context.Context, eventID, userID, emoji string, now time.Time) (bool, error)
	ReactionSummaries(ctx context.Context, eventIDs []string, viewerID string) (map[string][]model.ReactionSummary, error)

	TagTrends(ctx context.Context, limit int) ([]model.TagTrend, error)
	CommunityStats(ctx context.Context) (model.CommunityStats, error)
}

// Service implements the journal operations on top of a Store.
type Service struct {
	store  Store
	rules  gamify.Rules
	loc    *time.Location
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the time zone used for special-time matching and for
// deciding which calendar day a log belongs to. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator overrides event id generation.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service.
func New(st Store, rules gamify.Rules, opts ...Option) *Service {
	s := &Service{
		store:  st,
		rules:  rules,
		loc:    time.UTC,
		clock:  SystemClock{},
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the rule tables in effect.
func (s *Service) Rules() gamify.Rules {
	return s.rules
}

// now returns the current moment in the service's time zone.
func (s *Service) now() time.Time {
	return s.clock.Now().In(s.loc)
}
