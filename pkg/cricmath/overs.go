// Package cricmath holds the stateless cricket arithmetic shared by the scoring
// engine and the standings calculator: over notation, rates and match phases.
package cricmath

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// Overs is scorecard notation: Complete overs plus Balls of the current over.
// "6.3" is six overs and three balls (39 legal balls), not 6.3 decimal overs,
// so Balls is always in [0, 5].
type Overs struct {
	Complete int
	Balls    int
}

// BallsToOvers converts a legal ball count into over notation.
func BallsToOvers(balls int) Overs {
	if balls < 0 {
		balls = 0
	}
	return Overs{Complete: balls / BallsPerOver, Balls: balls % BallsPerOver}
}

// OversToBalls parses over notation ("6.3", "20") and returns the legal ball count.
func OversToBalls(s string) (int, error) {
	o, err := ParseOvers(s)
	if err != nil {
		return 0, err
	}
	return o.TotalBalls(), nil
}

// ParseOvers parses "N" or "N.B" where B is a single digit between 0 and 5.
func ParseOvers(s string) (Overs, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Overs{}, fmt.Errorf("overs: empty value")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	complete, err := strconv.Atoi(whole)
	if err != nil || complete < 0 {
		return Overs{}, fmt.Errorf("overs: invalid completed overs in %q", s)
	}
	if !hasFrac {
		return Overs{Complete: complete}, nil
	}
	if len(frac) != 1 {
		return Overs{}, fmt.Errorf("overs: ball part of %q must be a single digit", s)
	}
	balls := int(frac[0] - '0')
	if balls < 0 || balls >= BallsPerOver {
		return Overs{}, fmt.Errorf("overs: ball part of %q must be between 0 and 5", s)
	}
	return Overs{Complete: complete, Balls: balls}, nil
}

// TotalBalls returns the number of legal balls the notation stands for.
func (o Overs) TotalBalls() int {
	return o.Complete*BallsPerOver + o.Balls
}

// AddBalls returns the notation after n more legal balls.
func (o Overs) AddBalls(n int) Overs {
	return BallsToOvers(o.TotalBalls() + n)
}

// Decimal returns true overs (39 balls is 6.5) for rate arithmetic.
func (o Overs) Decimal() float64 {
	return float64(o.TotalBalls()) / BallsPerOver
}

// IsZero reports whether no legal ball has been bowled.
func (o Overs) IsZero() bool {
	return o.TotalBalls() == 0
}

func (o Overs) String() string {
	return fmt.Sprintf("%d.%d", o.Complete, o.Balls)
}

// Value stores the notation as text so that "6.1" never degrades into a float.
func (o Overs) Value() (driver.Value, error) {
	return o.String(), nil
}

// Scan reads the notation from text, or from a numeric column written by older rows.
func (o *Overs) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*o = Overs{}
		return nil
	case string:
		parsed, err := ParseOvers(v)
		if err != nil {
			return err
		}
		*o = parsed
		return nil
	case []byte:
		return o.Scan(string(v))
	case float64:
		return o.Scan(strconv.FormatFloat(v, 'f', -1, 64))
	case int64:
		*o = Overs{Complete: int(v)}
		return nil
	default:
		return fmt.Errorf("Overs: unsupported column type %T", src)
	}
}

func (o Overs) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Overs) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var f float64
		if ferr := json.Unmarshal(data, &f); ferr != nil {
			return fmt.Errorf("overs: expected string or number, got %s", string(data))
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	parsed, err := ParseOvers(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
