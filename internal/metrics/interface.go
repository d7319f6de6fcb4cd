package metrics

// Metrics defines the interface for collecting scoring metrics.
// This decouples the engine from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncBallsRecorded()
	ObserveBallDuration(duration float64)
	IncMatchesCompleted()
	IncEventsPublished(eventType string)
	IncCollaboratorFailures(collaborator string)
	IncNotificationsSent(channel string)
	IncReconcileDrift()
	SetStartupTime(duration float64)
}
