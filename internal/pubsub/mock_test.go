package pubsub

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scorePayload struct {
	MatchID uint   `msgpack:"match_id"`
	Result  string `msgpack:"result"`
}

func TestMockRoundTripsMsgpack(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	require.NoError(t, m.SendMessage(ctx, TopicFantasyScoring, scorePayload{MatchID: 4, Result: "Hawks won by 3 runs"}))
	require.NoError(t, m.SendMessage(ctx, TopicAchievements, scorePayload{MatchID: 5}))

	calls := m.Calls(TopicFantasyScoring)
	require.Len(t, calls, 1)

	var got scorePayload
	require.NoError(t, m.ProcessMessage(calls[0].Encoded, &got))
	assert.Equal(t, uint(4), got.MatchID)
	assert.Equal(t, "Hawks won by 3 runs", got.Result)
}

func TestMockSendMessageFunc(t *testing.T) {
	m := NewMock()
	m.SendMessageFunc = func(topic string, data any) error { return errors.New("unavailable") }

	err := m.SendMessage(context.Background(), TopicChallenges, scorePayload{})
	assert.EqualError(t, err, "unavailable")
	assert.Len(t, m.Calls(TopicChallenges), 1)
}
