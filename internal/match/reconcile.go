package match

import (
	"context"
	"fmt"

	"github.com/DhavalSuthar-24/crickscore/pkg/cricmath"
	"github.com/sirupsen/logrus"
)

// Totals are the innings aggregates that can be rebuilt from the ball log.
type Totals struct {
	Runs       int `json:"runs"`
	Wickets    int `json:"wickets"`
	LegalBalls int `json:"legal_balls"`
	Extras     int `json:"extras"`
	Deliveries int `json:"deliveries"`
}

// TotalsFromBalls folds a ball log into innings totals.
func TotalsFromBalls(balls []Ball) Totals {
	var t Totals
	for i := range balls {
		b := &balls[i]
		t.Runs += b.TotalRuns()
		if b.IsWicket {
			t.Wickets++
		}
		if b.IsLegal {
			t.LegalBalls++
		}
		if b.IsExtra {
			t.Extras += b.ExtraRuns
		}
		t.Deliveries++
	}
	return t
}

func storedTotals(in *Innings) Totals {
	return Totals{
		Runs:       in.TotalRuns,
		Wickets:    in.TotalWickets,
		LegalBalls: in.LegalBalls,
		Extras:     in.Extras,
		Deliveries: in.DeliveryCount,
	}
}

// ReconcileReport compares stored aggregates with the ball log.
type ReconcileReport struct {
	MatchID   uint     `json:"match_id"`
	InningsID uint     `json:"innings_id"`
	Stored    Totals   `json:"stored"`
	Derived   Totals   `json:"derived"`
	Issues    []string `json:"issues,omitempty"`
	Drift     bool     `json:"drift"`
}

// Reconcile rebuilds an innings from its ball log and reports every
// difference from the stored totals, overs and performance rows. It never
// writes.
func (s *Service) Reconcile(ctx context.Context, inningsID uint) (*ReconcileReport, error) {
	unlock := s.inningsLocks.Lock(inningsID)
	defer unlock()

	innings, err := s.repo.GetInningsByID(ctx, inningsID)
	if err != nil {
		return nil, err
	}
	balls, err := s.repo.ListBalls(ctx, inningsID)
	if err != nil {
		return nil, fmt.Errorf("list balls: %w", err)
	}
	overs, err := s.repo.ListOvers(ctx, inningsID)
	if err != nil {
		return nil, fmt.Errorf("list overs: %w", err)
	}
	batting, err := s.repo.ListBattingPerformances(ctx, inningsID)
	if err != nil {
		return nil, fmt.Errorf("list batting rows: %w", err)
	}
	bowling, err := s.repo.ListBowlingPerformances(ctx, inningsID)
	if err != nil {
		return nil, fmt.Errorf("list bowling rows: %w", err)
	}

	report := &ReconcileReport{
		MatchID:   innings.MatchID,
		InningsID: innings.ID,
		Stored:    storedTotals(innings),
		Derived:   TotalsFromBalls(balls),
	}
	if report.Stored != report.Derived {
		report.Issues = append(report.Issues, fmt.Sprintf("innings totals %+v differ from ball log %+v", report.Stored, report.Derived))
	}
	if want := cricmath.BallsToOvers(report.Derived.LegalBalls); innings.TotalOvers != want {
		report.Issues = append(report.Issues, fmt.Sprintf("total overs %s, ball log gives %s", innings.TotalOvers, want))
	}
	report.Issues = append(report.Issues, checkOvers(overs, balls)...)
	report.Issues = append(report.Issues, checkPerformances(balls, batting, bowling)...)
	report.Drift = len(report.Issues) > 0

	if report.Drift {
		s.metrics.IncReconcileDrift()
		s.logger.WithFields(logrus.Fields{
			"match_id":   report.MatchID,
			"innings_id": report.InningsID,
			"issues":     report.Issues,
		}).Warn("Innings drifted from its ball log")
	}
	return report, nil
}

// ReconcileLive audits every IN_PROGRESS innings.
func (s *Service) ReconcileLive(ctx context.Context) ([]ReconcileReport, error) {
	innings, err := s.repo.ListInningsByStatus(ctx, InningsInProgress)
	if err != nil {
		return nil, fmt.Errorf("list live innings: %w", err)
	}
	reports := make([]ReconcileReport, 0, len(innings))
	for _, in := range innings {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := s.Reconcile(ctx, in.ID)
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// checkOvers verifies over numbering is contiguous from 0, no over holds more
// than six legal deliveries and each over's aggregates match its balls.
func checkOvers(overs []Over, balls []Ball) []string {
	var issues []string
	byOver := make(map[uint]Totals, len(overs))
	for i := range balls {
		t := byOver[balls[i].OverID]
		t.Runs += balls[i].TotalRuns()
		if balls[i].IsWicket {
			t.Wickets++
		}
		if balls[i].IsLegal {
			t.LegalBalls++
		}
		t.Deliveries++
		byOver[balls[i].OverID] = t
	}

	for i, o := range overs {
		if o.OverNumber != i {
			issues = append(issues, fmt.Sprintf("over %d found where over %d was expected", o.OverNumber, i))
		}
		if o.LegalBalls > cricmath.BallsPerOver {
			issues = append(issues, fmt.Sprintf("over %d has %d legal deliveries", o.OverNumber, o.LegalBalls))
		}
		t := byOver[o.ID]
		if o.Runs != t.Runs || o.Wickets != t.Wickets || o.LegalBalls != t.LegalBalls || o.Deliveries != t.Deliveries {
			issues = append(issues, fmt.Sprintf("over %d aggregates differ from its balls", o.OverNumber))
		}
	}
	return issues
}

// checkPerformances replays the ball log through the aggregator and compares
// the result with the stored rows.
func checkPerformances(balls []Ball, batting []BattingPerformance, bowling []BowlingPerformance) []string {
	wantBat := make(map[PerformanceKey]*BattingPerformance)
	wantBowl := make(map[PerformanceKey]*BowlingPerformance)
	overBalls := make(map[uint]*Over)

	for i := range balls {
		b := &balls[i]
		key := PerformanceKey{InningsID: b.InningsID, PlayerID: b.StrikerID}
		row := ApplyToBatting(wantBat[key], b)
		wantBat[key] = &row

		nsKey := PerformanceKey{InningsID: b.InningsID, PlayerID: b.NonStrikerID}
		if _, seen := wantBat[nsKey]; !seen || dismissed(b) == b.NonStrikerID {
			ns := ApplyDismissal(wantBat[nsKey], b, b.NonStrikerID)
			wantBat[nsKey] = &ns
		}

		o, ok := overBalls[b.OverID]
		if !ok {
			o = &Over{OverNumber: b.OverNumber, BowlerID: b.BowlerID}
			overBalls[b.OverID] = o
		}
		o.Runs += b.TotalRuns()
		wasComplete := o.IsComplete()
		if b.IsLegal {
			o.LegalBalls++
		}

		bKey := PerformanceKey{InningsID: b.InningsID, PlayerID: b.BowlerID}
		bowl := ApplyToBowling(wantBowl[bKey], b)
		if !wasComplete && o.IsComplete() {
			bowl = ApplyMaiden(bowl, o)
		}
		wantBowl[bKey] = &bowl
	}

	var issues []string
	for _, got := range batting {
		want, ok := wantBat[PerformanceKey{InningsID: got.InningsID, PlayerID: got.PlayerID}]
		if !ok {
			issues = append(issues, fmt.Sprintf("batting row for player %d has no deliveries", got.PlayerID))
			continue
		}
		if got.Runs != want.Runs || got.BallsFaced != want.BallsFaced || got.IsOut != want.IsOut ||
			got.Fours != want.Fours || got.Sixes != want.Sixes {
			issues = append(issues, fmt.Sprintf("batting row for player %d differs from ball log", got.PlayerID))
		}
		delete(wantBat, PerformanceKey{InningsID: got.InningsID, PlayerID: got.PlayerID})
	}
	for key := range wantBat {
		issues = append(issues, fmt.Sprintf("batting row for player %d is missing", key.PlayerID))
	}

	for _, got := range bowling {
		want, ok := wantBowl[PerformanceKey{InningsID: got.InningsID, PlayerID: got.PlayerID}]
		if !ok {
			issues = append(issues, fmt.Sprintf("bowling row for player %d has no deliveries", got.PlayerID))
			continue
		}
		if got.RunsConceded != want.RunsConceded || got.BallsBowled != want.BallsBowled ||
			got.Wickets != want.Wickets || got.Maidens != want.Maidens {
			issues = append(issues, fmt.Sprintf("bowling row for player %d differs from ball log", got.PlayerID))
		}
		delete(wantBowl, PerformanceKey{InningsID: got.InningsID, PlayerID: got.PlayerID})
	}
	for key := range wantBowl {
		issues = append(issues, fmt.Sprintf("bowling row for player %d is missing", key.PlayerID))
	}
	return issues
}
