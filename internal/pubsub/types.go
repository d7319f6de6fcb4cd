package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client *pubsub.Client
}

// Topics downstream consumers subscribe to.
const (
	TopicScoringEvents  = "scoring-events"
	TopicAchievements   = "achievements-evaluate"
	TopicChallenges     = "challenges-progress"
	TopicFantasyScoring = "fantasy-scoring"
)
