package notifier

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/DhavalSuthar-24/crickscore/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// messageCreator is the part of the Twilio REST API we use.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMS texts match messages to a fixed list of numbers through Twilio.
type SMS struct {
	api     messageCreator
	from    string
	to      []string
	metrics metrics.Metrics
	logger  *logrus.Logger
}

func NewSMS(accountSID, authToken, from string, to []string, m metrics.Metrics, logger *logrus.Logger) (*SMS, error) {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewSMSWithAPI(client.Api, from, to, m, logger)
}

// NewSMSWithAPI validates the numbers and builds the sender around api.
func NewSMSWithAPI(api messageCreator, from string, to []string, m metrics.Metrics, logger *logrus.Logger) (*SMS, error) {
	if !e164.MatchString(from) {
		return nil, fmt.Errorf("invalid sender number %q", from)
	}
	recipients, err := ParseNumbers(to)
	if err != nil {
		return nil, err
	}
	return &SMS{api: api, from: from, to: recipients, metrics: m, logger: logger}, nil
}

// ParseNumbers trims and validates E.164 numbers, skipping blanks.
func ParseNumbers(numbers []string) ([]string, error) {
	var out []string
	for _, n := range numbers {
		n = strings.ReplaceAll(strings.TrimSpace(n), " ", "")
		if n == "" {
			continue
		}
		if !e164.MatchString(n) {
			return nil, fmt.Errorf("invalid phone number %q", n)
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *SMS) Name() string { return "sms" }

// Send texts every recipient; one failed number does not stop the rest.
func (s *SMS) Send(ctx context.Context, text string) error {
	var errs []error
	for _, to := range s.to {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(s.from)
		params.SetBody(text)

		resp, err := s.api.CreateMessage(params)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to send SMS to %s: %w", to, err))
			continue
		}
		s.metrics.IncNotificationsSent(s.Name())
		if resp != nil && resp.Sid != nil {
			s.logger.WithField("sid", *resp.Sid).Debug("Sent SMS")
		}
	}
	return errors.Join(errs...)
}
