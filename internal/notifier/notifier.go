package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// TeamNamer resolves display names for message text.
type TeamNamer interface {
	TeamName(ctx context.Context, teamID uint) (string, error)
}

// Channel is one delivery route for plain-text match messages.
type Channel interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// Notifier implements match.NotificationPort by rendering a message and
// sending it on every channel. Each channel sits behind its own breaker.
type Notifier struct {
	channels []guardedChannel
	teams    TeamNamer
	logger   *logrus.Logger
}

type guardedChannel struct {
	Channel
	breaker *gobreaker.CircuitBreaker
}

var _ match.NotificationPort = (*Notifier)(nil)

func New(teams TeamNamer, logger *logrus.Logger, channels ...Channel) *Notifier {
	n := &Notifier{teams: teams, logger: logger}
	for _, ch := range channels {
		n.channels = append(n.channels, guardedChannel{Channel: ch, breaker: newBreaker(ch.Name(), logger)})
	}
	return n
}

func newBreaker(name string, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "notifier-" + name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("Notification circuit breaker state changed")
		},
	})
}

func (n *Notifier) NotifyMatchStart(ctx context.Context, m *match.Match) error {
	return n.send(ctx, m, n.startText(ctx, m))
}

func (n *Notifier) NotifyMatchEnd(ctx context.Context, m *match.Match) error {
	return n.send(ctx, m, n.endText(ctx, m))
}

func (n *Notifier) send(ctx context.Context, m *match.Match, text string) error {
	var errs []error
	for _, ch := range n.channels {
		_, err := ch.breaker.Execute(func() (interface{}, error) {
			return nil, ch.Send(ctx, text)
		})
		if err != nil {
			n.logger.WithError(err).WithFields(logrus.Fields{
				"match_id": m.ID,
				"channel":  ch.Name(),
			}).Error("Failed to send match notification")
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) teamName(ctx context.Context, teamID uint) string {
	if n.teams != nil {
		if name, err := n.teams.TeamName(ctx, teamID); err == nil && name != "" {
			return name
		}
	}
	return fmt.Sprintf("Team %d", teamID)
}

func (n *Notifier) startText(ctx context.Context, m *match.Match) string {
	text := fmt.Sprintf("🏏 %s vs %s is live (%d overs)", n.teamName(ctx, m.Team1ID), n.teamName(ctx, m.Team2ID), m.OversPerInnings())
	if m.Venue != "" {
		text += " at " + m.Venue
	}
	if m.TossWinnerID != nil {
		text += fmt.Sprintf(". %s won the toss and chose to %s", n.teamName(ctx, *m.TossWinnerID), m.TossDecision)
	}
	return text
}

func (n *Notifier) endText(ctx context.Context, m *match.Match) string {
	text := fmt.Sprintf("🏆 %s vs %s: ", n.teamName(ctx, m.Team1ID), n.teamName(ctx, m.Team2ID))
	if m.ResultText != "" {
		text += m.ResultText
	} else {
		text += "match completed"
	}
	if m.ManOfMatchID != nil {
		text += fmt.Sprintf(". Player of the match: #%d", *m.ManOfMatchID)
	}
	return text
}

// Log writes messages to the process log. It is the channel used when no
// external service is configured.
type Log struct {
	logger *logrus.Logger
}

func NewLog(logger *logrus.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Name() string { return "log" }

func (l *Log) Send(_ context.Context, text string) error {
	l.logger.WithField("channel", "log").Info(text)
	return nil
}
