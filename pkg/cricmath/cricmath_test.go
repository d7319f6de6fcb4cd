package cricmath

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOversToBalls(t *testing.T) {
	tests := []struct {
		in      string
		balls   int
		wantErr bool
	}{
		{in: "6.3", balls: 39},
		{in: "0.0", balls: 0},
		{in: "20", balls: 120},
		{in: "18.4", balls: 112},
		{in: "19.5", balls: 119},
		{in: "6.6", wantErr: true},
		{in: "6.10", wantErr: true},
		{in: "-1.2", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			balls, err := OversToBalls(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.balls, balls)
		})
	}
}

func TestOversRoundTrip(t *testing.T) {
	for balls := 0; balls <= 300; balls++ {
		o := BallsToOvers(balls)
		assert.Less(t, o.Balls, BallsPerOver)

		back, err := OversToBalls(o.String())
		require.NoError(t, err)
		assert.Equal(t, balls, back)

		parsed, err := ParseOvers(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, BallsToOvers(parsed.TotalBalls()))
	}
	assert.Equal(t, "6.3", BallsToOvers(39).String())
	assert.Equal(t, Overs{Complete: 7}, BallsToOvers(39).AddBalls(3))
}

func TestOversJSONAndSQL(t *testing.T) {
	data, err := json.Marshal(Overs{Complete: 6, Balls: 1})
	require.NoError(t, err)
	assert.Equal(t, `"6.1"`, string(data))

	var fromString, fromNumber Overs
	require.NoError(t, json.Unmarshal([]byte(`"18.4"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`18.4`), &fromNumber))
	assert.Equal(t, 112, fromString.TotalBalls())
	assert.Equal(t, fromString, fromNumber)
	assert.Error(t, json.Unmarshal([]byte(`"4.7"`), &fromString))

	v, err := Overs{Complete: 6, Balls: 1}.Value()
	require.NoError(t, err)
	assert.Equal(t, "6.1", v)

	var scanned Overs
	require.NoError(t, scanned.Scan([]byte("12.5")))
	assert.Equal(t, 77, scanned.TotalBalls())
	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())
}

func TestRates(t *testing.T) {
	assert.Equal(t, 0.0, StrikeRate(10, 0))
	assert.InDelta(t, 150.0, StrikeRate(30, 20), 1e-9)
	assert.Equal(t, 0.0, EconomyRate(10, 0))
	assert.InDelta(t, 7.5, EconomyRate(30, 24), 1e-9)
	// 3.3 overs is 21 balls, i.e. 3.5 true overs.
	assert.InDelta(t, 8.0, EconomyRate(28, 21), 1e-9)
	assert.InDelta(t, 9.0, RunRate(180, 120), 1e-9)
	assert.InDelta(t, 12.0, RequiredRunRate(24, 12), 1e-9)
	assert.Equal(t, 0.0, RequiredRunRate(24, 0))
	assert.Equal(t, 45.0, BattingAverage(45, 0))
	assert.InDelta(t, 22.5, BattingAverage(45, 2), 1e-9)
	assert.Equal(t, 0.0, BowlingAverage(30, 0))
	assert.InDelta(t, 12.0, BowlingStrikeRate(24, 2), 1e-9)
}

func TestNetRunRate(t *testing.T) {
	// Scored 181 in 18.4 overs, conceded 180 in 20 overs:
	// 181/18.6667 - 180/20 = 9.6964 - 9.0 = 0.696
	assert.Equal(t, 0.696, NetRunRate(181, 112, 180, 120))
	// Scored 150 in 19.2 overs, conceded 140 in 20 overs:
	// 150/19.3333 - 7.0 = 7.7586 - 7.0 = 0.759
	assert.Equal(t, 0.759, NetRunRate(150, 116, 140, 120))
	assert.Equal(t, -0.759, NetRunRate(140, 120, 150, 116))
	assert.Equal(t, 0.0, NetRunRate(0, 0, 0, 0))
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		over, total int
		want        Phase
	}{
		{0, 20, PhasePowerplay},
		{5, 20, PhasePowerplay},
		{6, 20, PhaseMiddle},
		{15, 20, PhaseMiddle},
		{16, 20, PhaseDeath},
		{19, 20, PhaseDeath},
		{9, 50, PhasePowerplay},
		{10, 50, PhaseMiddle},
		{40, 50, PhaseDeath},
		{2, 10, PhasePowerplay},
		{8, 10, PhaseDeath},
		{3, 0, PhaseMiddle},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseOf(tt.over, tt.total), "over %d of %d", tt.over, tt.total)
	}
}
