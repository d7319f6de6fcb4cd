package notifier

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/metrics"
	"github.com/sirupsen/logrus"
	slackapi "github.com/slack-go/slack"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type staticTeams map[uint]string

func (s staticTeams) TeamName(_ context.Context, id uint) (string, error) {
	if name, ok := s[id]; ok {
		return name, nil
	}
	return "", errors.New("no such team")
}

type recordingChannel struct {
	mu    sync.Mutex
	name  string
	err   error
	texts []string
}

func (r *recordingChannel) Name() string { return r.name }

func (r *recordingChannel) Send(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return r.err
}

func fixture() *match.Match {
	winner := uint(20)
	mom := uint(201)
	m := &match.Match{
		Team1ID:      10,
		Team2ID:      20,
		Venue:        "Chepauk",
		Format:       match.FormatT20,
		TossWinnerID: &winner,
		TossDecision: match.TossBowl,
		ResultText:   "Hawks won by 4 wickets",
		ManOfMatchID: &mom,
	}
	m.ID = 3
	return m
}

func TestNotifierMessages(t *testing.T) {
	ch := &recordingChannel{name: "rec"}
	n := New(staticTeams{10: "Falcons", 20: "Hawks"}, quietLogger(), ch)
	ctx := context.Background()

	require.NoError(t, n.NotifyMatchStart(ctx, fixture()))
	require.NoError(t, n.NotifyMatchEnd(ctx, fixture()))

	require.Len(t, ch.texts, 2)
	assert.Equal(t, "🏏 Falcons vs Hawks is live (20 overs) at Chepauk. Hawks won the toss and chose to bowl", ch.texts[0])
	assert.Equal(t, "🏆 Falcons vs Hawks: Hawks won by 4 wickets. Player of the match: #201", ch.texts[1])
}

func TestNotifierFallbackNames(t *testing.T) {
	ch := &recordingChannel{name: "rec"}
	n := New(nil, quietLogger(), ch)
	m := &match.Match{Team1ID: 1, Team2ID: 2, Format: match.FormatT10}

	require.NoError(t, n.NotifyMatchEnd(context.Background(), m))
	assert.Equal(t, "🏆 Team 1 vs Team 2: match completed", ch.texts[0])
}

func TestNotifierIsolatesChannels(t *testing.T) {
	boom := errors.New("provider down")
	bad := &recordingChannel{name: "bad", err: boom}
	good := &recordingChannel{name: "good"}
	n := New(nil, quietLogger(), bad, good, NewLog(quietLogger()))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := n.NotifyMatchStart(ctx, fixture())
		assert.ErrorIs(t, err, boom)
	}
	assert.Len(t, good.texts, 3)

	err := n.NotifyMatchStart(ctx, fixture())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, bad.texts, 3, "open breaker skips the channel")
	assert.Len(t, good.texts, 4)
}

type mockSlackAPI struct {
	channelID string
	err       error
}

func (m *mockSlackAPI) PostMessageContext(_ context.Context, channelID string, _ ...slackapi.MsgOption) (string, string, error) {
	m.channelID = channelID
	if m.err != nil {
		return "", "", m.err
	}
	return channelID, "1700000000.000100", nil
}

func TestSlack(t *testing.T) {
	m := metrics.NewMock()

	api := &mockSlackAPI{}
	s := NewSlackWithAPI(api, "C123", m, quietLogger())
	require.NoError(t, s.Send(context.Background(), "hello"))
	assert.Equal(t, "C123", api.channelID)
	assert.Equal(t, 1, m.NotificationsSent("slack"))

	failing := NewSlackWithAPI(&mockSlackAPI{err: errors.New("rate_limited")}, "C123", m, quietLogger())
	assert.Error(t, failing.Send(context.Background(), "hello"))
	assert.Equal(t, 1, m.NotificationsSent("slack"))
}

type mockTwilio struct {
	sent []twilioApi.CreateMessageParams
	fail map[string]bool
}

func (m *mockTwilio) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	m.sent = append(m.sent, *params)
	if m.fail[*params.To] {
		return nil, errors.New("unverified number")
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSMS(t *testing.T) {
	m := metrics.NewMock()
	api := &mockTwilio{fail: map[string]bool{"+447700900002": true}}

	sms, err := NewSMSWithAPI(api, "+15005550006", []string{"+44 7700 900001", "", "+447700900002"}, m, quietLogger())
	require.NoError(t, err)

	err = sms.Send(context.Background(), "Hawks won by 4 wickets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "+447700900002")

	require.Len(t, api.sent, 2)
	assert.Equal(t, "+447700900001", *api.sent[0].To)
	assert.Equal(t, "+15005550006", *api.sent[0].From)
	assert.Equal(t, "Hawks won by 4 wickets", *api.sent[0].Body)
	assert.Equal(t, 1, m.NotificationsSent("sms"))
}

func TestParseNumbers(t *testing.T) {
	got, err := ParseNumbers([]string{" +15550100 ", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"+15550100"}, got)

	_, err = ParseNumbers([]string{"07700900001"})
	assert.Error(t, err)

	_, err = NewSMSWithAPI(&mockTwilio{}, "twilio", nil, metrics.NewMock(), quietLogger())
	assert.Error(t, err)
}
