package notifier

import (
	"context"
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// slackClient is the part of slack.Client we use.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Slack posts match messages to one channel.
type Slack struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	logger    *logrus.Logger
}

func NewSlack(token, channelID string, m metrics.Metrics, logger *logrus.Logger) *Slack {
	return NewSlackWithAPI(slack.New(token), channelID, m, logger)
}

// NewSlackWithAPI lets tests intercept API calls.
func NewSlackWithAPI(api slackClient, channelID string, m metrics.Metrics, logger *logrus.Logger) *Slack {
	return &Slack{api: api, channelID: channelID, metrics: m, logger: logger}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Send(ctx context.Context, text string) error {
	section := slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
	channelID, timestamp, err := s.api.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionBlocks(section),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	s.metrics.IncNotificationsSent(s.Name())
	s.logger.WithFields(logrus.Fields{"channel_id": channelID, "timestamp": timestamp}).Debug("Sent Slack message")
	return nil
}
