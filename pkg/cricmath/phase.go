package cricmath

// Phase classifies an over within a limited-overs innings.
type Phase string

const (
	PhasePowerplay Phase = "powerplay"
	PhaseMiddle    Phase = "middle"
	PhaseDeath     Phase = "death"
)

// PowerplayOvers is the fielding-restriction block at the start of an innings:
// 10 overs in a 50-over game, otherwise 30% of the quota rounded up (6 of 20).
func PowerplayOvers(totalOvers int) int {
	if totalOvers >= 50 {
		return 10
	}
	return (totalOvers*3 + 9) / 10
}

// DeathOvers is the closing block of an innings: the last 10 of a 50-over
// game, otherwise the last fifth (4 of 20).
func DeathOvers(totalOvers int) int {
	if totalOvers >= 50 {
		return 10
	}
	return totalOvers / 5
}

// PhaseOf classifies a 0-based over number.
func PhaseOf(overNumber, totalOvers int) Phase {
	if totalOvers <= 0 {
		return PhaseMiddle
	}
	switch {
	case overNumber < PowerplayOvers(totalOvers):
		return PhasePowerplay
	case overNumber >= totalOvers-DeathOvers(totalOvers):
		return PhaseDeath
	default:
		return PhaseMiddle
	}
}
