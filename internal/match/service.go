package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Config holds the scoring rules that vary by deployment.
type Config struct {
	// MinSquadSize is the smallest squad either side may field at the toss.
	MinSquadSize int
	// TrustCallerRotation accepts the caller's post-ball striker and
	// non-striker verbatim instead of the derived pair.
	TrustCallerRotation bool
	// CollaboratorTimeout bounds each background collaborator call.
	CollaboratorTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinSquadSize:        4,
		CollaboratorTimeout: 30 * time.Second,
	}
}

// Dependencies are the collaborators the engine talks to. Nil fields fall
// back to no-op implementations.
type Dependencies struct {
	Squads      SquadCounter
	Teams       TeamDirectory
	Broadcaster Broadcaster
	Notifier    NotificationPort
	Standings   StandingsPort
	Hooks       []CompletionHook
	Metrics     metrics.Metrics
	Logger      *logrus.Logger
}

// Service is the live scoring engine. Every mutation of an innings runs under
// that innings' lock; match-level transitions run under the match lock.
type Service struct {
	repo        MatchRepository
	squads      SquadCounter
	teams       TeamDirectory
	broadcaster Broadcaster
	notifier    NotificationPort
	standings   StandingsPort
	hooks       []CompletionHook
	metrics     metrics.Metrics
	logger      *logrus.Logger
	cfg         Config

	matchLocks   *keyedMutex
	inningsLocks *keyedMutex
	dispatch     *dispatcher
	now          func() time.Time
}

func NewService(repo MatchRepository, deps Dependencies, cfg Config) *Service {
	if cfg.MinSquadSize <= 0 {
		cfg.MinSquadSize = DefaultConfig().MinSquadSize
	}
	if cfg.CollaboratorTimeout <= 0 {
		cfg.CollaboratorTimeout = DefaultConfig().CollaboratorTimeout
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewMock()
	}
	if deps.Broadcaster == nil {
		deps.Broadcaster = nopBroadcaster{}
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}

	return &Service{
		repo:         repo,
		squads:       deps.Squads,
		teams:        deps.Teams,
		broadcaster:  deps.Broadcaster,
		notifier:     deps.Notifier,
		standings:    deps.Standings,
		hooks:        deps.Hooks,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		cfg:          cfg,
		matchLocks:   newKeyedMutex(),
		inningsLocks: newKeyedMutex(),
		dispatch:     newDispatcher(deps.Logger, deps.Metrics, cfg.CollaboratorTimeout),
		now:          time.Now,
	}
}

// Wait blocks until all background collaborator work has finished.
func (s *Service) Wait() {
	s.dispatch.Wait()
}

// publish queues events on the match's ordered stream and returns at once.
// Callers hold the lock that serialised the commit, so stream order is commit
// order. Every event is attempted even when an earlier one fails.
func (s *Service) publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	matchID := events[0].MatchID
	fields := logrus.Fields{"match_id": matchID, "event": events[0].Type}
	s.dispatch.Ordered(matchID, "broadcaster", fields, func(ctx context.Context) error {
		var errs []error
		for _, e := range events {
			if err := s.broadcaster.Publish(ctx, e); err != nil {
				s.metrics.IncCollaboratorFailures("broadcaster")
				errs = append(errs, fmt.Errorf("publish %s: %w", e.Type, err))
				continue
			}
			s.metrics.IncEventsPublished(string(e.Type))
		}
		return errors.Join(errs...)
	})
}

// teamName resolves a display name; lookups failing fall back to the id.
func (s *Service) teamName(ctx context.Context, teamID uint) string {
	if s.teams != nil {
		name, err := s.teams.TeamName(ctx, teamID)
		if err == nil && name != "" {
			return name
		}
		if err != nil {
			s.logger.WithError(err).WithField("team_id", teamID).Warn("Team name lookup failed")
		}
	}
	return fallbackTeamName(teamID)
}
