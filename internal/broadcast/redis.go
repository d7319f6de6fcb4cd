package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker around an outbound transport.
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// NewBreaker builds a named breaker that logs state changes.
func NewBreaker(name string, cfg BreakerConfig, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}

// MatchChannel is the Redis channel carrying one match's events.
func MatchChannel(prefix string, matchID uint) string {
	return fmt.Sprintf("%smatch:%d", prefix, matchID)
}

func matchIDFromChannel(prefix, channel string) (uint, bool) {
	rest, ok := strings.CutPrefix(channel, prefix+"match:")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// RedisPublisher publishes events on per-match Redis channels so every API
// instance's relay can feed its own hub.
type RedisPublisher struct {
	client  *redis.Client
	prefix  string
	breaker *gobreaker.CircuitBreaker
}

var _ match.Broadcaster = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client, prefix string, breaker *gobreaker.CircuitBreaker) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix, breaker: breaker}
}

func (p *RedisPublisher) Publish(ctx context.Context, event match.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.client.Publish(ctx, MatchChannel(p.prefix, event.MatchID), data).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s to redis: %w", event.Type, err)
	}
	return nil
}

// RedisRelay subscribes to every match channel and hands payloads to the
// local hub.
type RedisRelay struct {
	client *redis.Client
	prefix string
	hub    *Hub
	logger *logrus.Logger
}

func NewRedisRelay(client *redis.Client, prefix string, hub *Hub, logger *logrus.Logger) *RedisRelay {
	return &RedisRelay{client: client, prefix: prefix, hub: hub, logger: logger}
}

// Run blocks until ctx is cancelled or the subscription fails.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, r.prefix+"match:*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to match channels: %w", err)
	}
	r.logger.WithField("pattern", r.prefix+"match:*").Info("Redis relay subscribed")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.relay(ctx, msg.Channel, []byte(msg.Payload))
		}
	}
}

func (r *RedisRelay) relay(ctx context.Context, channel string, payload []byte) {
	matchID, ok := matchIDFromChannel(r.prefix, channel)
	if !ok {
		r.logger.WithField("channel", channel).Warn("Ignoring message on unexpected channel")
		return
	}
	if err := r.hub.Deliver(ctx, matchID, payload); err != nil {
		r.logger.WithError(err).WithField("match_id", matchID).Error("Failed to relay event to hub")
	}
}
