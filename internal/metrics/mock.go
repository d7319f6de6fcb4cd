package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	ballsRecorded        int
	ballDurations        []float64
	matchesCompleted     int
	eventsPublished      map[string]int
	collaboratorFailures map[string]int
	notificationsSent    map[string]int
	reconcileDrift       int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		ballDurations:        make([]float64, 0),
		eventsPublished:      make(map[string]int),
		collaboratorFailures: make(map[string]int),
		notificationsSent:    make(map[string]int),
	}
}

func (m *Mock) IncBallsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ballsRecorded++
}

func (m *Mock) ObserveBallDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ballDurations = append(m.ballDurations, duration)
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncEventsPublished(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished[eventType]++
}

func (m *Mock) IncCollaboratorFailures(collaborator string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collaboratorFailures[collaborator]++
}

func (m *Mock) IncNotificationsSent(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent[channel]++
}

func (m *Mock) IncReconcileDrift() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcileDrift++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// BallsRecorded returns the number of times IncBallsRecorded was called.
func (m *Mock) BallsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ballsRecorded
}

// MatchesCompleted returns the number of times IncMatchesCompleted was called.
func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// EventsPublished returns how many events of eventType were published.
func (m *Mock) EventsPublished(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished[eventType]
}

// CollaboratorFailures returns the failure count recorded for collaborator.
func (m *Mock) CollaboratorFailures(collaborator string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collaboratorFailures[collaborator]
}

// NotificationsSent returns the delivery count recorded for channel.
func (m *Mock) NotificationsSent(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsSent[channel]
}

// ReconcileDrift returns the number of times IncReconcileDrift was called.
func (m *Mock) ReconcileDrift() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconcileDrift
}
