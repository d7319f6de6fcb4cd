package match

import (
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
)

// Crease is the pair of batsmen at the wicket. A zero id is a vacant end.
type Crease struct {
	Striker    uint `json:"striker_id"`
	NonStriker uint `json:"non_striker_id"`
}

func creaseOf(in *Innings) Crease {
	var c Crease
	if in.CurrentStrikerID != nil {
		c.Striker = *in.CurrentStrikerID
	}
	if in.CurrentNonStrikerID != nil {
		c.NonStriker = *in.CurrentNonStrikerID
	}
	return c
}

func (c Crease) store(in *Innings) {
	in.CurrentStrikerID = nil
	in.CurrentNonStrikerID = nil
	if c.Striker != 0 {
		s := c.Striker
		in.CurrentStrikerID = &s
	}
	if c.NonStriker != 0 {
		ns := c.NonStriker
		in.CurrentNonStrikerID = &ns
	}
}

// RotationEvents counts the strike-changing events of a delivery: the over
// ending on it, and an odd number of bat runs on a delivery without a wicket.
func RotationEvents(ball *Ball, overCompleted bool) int {
	events := 0
	if overCompleted {
		events++
	}
	if !ball.IsWicket && ball.Runs%2 != 0 {
		events++
	}
	return events
}

// AdvanceCrease returns the crease after ball. The dismissed batsman's end is
// vacated first, then the ends swap when the event count is odd.
func AdvanceCrease(c Crease, ball *Ball, overCompleted bool) (Crease, bool) {
	if out := dismissed(ball); out != 0 {
		switch out {
		case c.Striker:
			c.Striker = 0
		case c.NonStriker:
			c.NonStriker = 0
		}
	}
	swapped := RotationEvents(ball, overCompleted)%2 == 1
	if swapped {
		c.Striker, c.NonStriker = c.NonStriker, c.Striker
	}
	return c, swapped
}

// seatBatsmen places the batsmen for the next delivery. Vacant ends are filled
// from strikerID and incoming; a strikerID that contradicts an occupied crease
// is rejected unless trustCaller is set, in which case the ends are swapped.
func seatBatsmen(c Crease, strikerID uint, incoming *uint, trustCaller bool, out map[uint]bool) (Crease, bool, error) {
	overridden := false

	switch {
	case c.Striker == 0 && strikerID == c.NonStriker:
		// the survivor crossed and faces; the non-striker's end is now vacant
		c.Striker, c.NonStriker = strikerID, 0
	case c.Striker == 0:
		c.Striker = strikerID
	case c.Striker == strikerID:
	case strikerID == c.NonStriker && trustCaller:
		c.Striker, c.NonStriker = c.NonStriker, c.Striker
		overridden = true
	case strikerID == c.NonStriker:
		return c, false, apperror.Validation("striker_id",
			fmt.Sprintf("player %d is at the non-striker's end; player %d is on strike", strikerID, c.Striker))
	default:
		return c, false, apperror.Validation("striker_id",
			fmt.Sprintf("player %d is not at the crease", strikerID))
	}

	if c.NonStriker == 0 {
		if incoming == nil || *incoming == 0 {
			return c, false, apperror.Validation("incoming_batsman_id",
				"the non-striker's end is vacant; name the incoming batsman")
		}
		c.NonStriker = *incoming
	} else if incoming != nil && *incoming != 0 && *incoming != c.NonStriker {
		return c, false, apperror.Validation("incoming_batsman_id",
			fmt.Sprintf("no vacancy for player %d; both ends are occupied", *incoming))
	}

	if c.Striker == c.NonStriker {
		return c, false, apperror.Validation("incoming_batsman_id",
			fmt.Sprintf("player %d cannot bat at both ends", c.Striker))
	}
	for _, p := range []uint{c.Striker, c.NonStriker} {
		if out[p] {
			return c, false, apperror.Validation("striker_id",
				fmt.Sprintf("player %d is already out in this innings", p))
		}
	}
	return c, overridden, nil
}

// applyHint compares the caller's post-ball pair with the derived one. With
// trustCaller the supplied ends replace the derived ones.
func applyHint(derived Crease, striker, nonStriker *uint, trustCaller bool) (Crease, bool) {
	hinted := derived
	if striker != nil {
		hinted.Striker = *striker
	}
	if nonStriker != nil {
		hinted.NonStriker = *nonStriker
	}
	if hinted == derived {
		return derived, false
	}
	if trustCaller {
		return hinted, true
	}
	return derived, true
}
