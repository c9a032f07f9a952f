package internal

import "tienlen/internal/domain"

// Weights tune every scoring rule. Thresholds are card or trick counts.
type Weights struct {
	ShapeScale          float64
	SingleBase          float64
	PairBase            float64
	TripleBase          float64
	StraightBase        float64
	QuadBase            float64
	PairSequenceBase    float64
	PairSequencePerPair float64
	CardCost            float64
	ManyPairs           int
	ManyPairsBonus      float64
	ManySingles         int
	ManySinglesBonus    float64
	StrongSuit          int
	StrongSuitBonus     float64
	EndgameHand         int
	EndgameSingleBonus  float64
	EndgamePairBonus    float64
	LargeHand           int
	LargeStraightBonus  float64
	LargeQuadBonus      float64
	OpeningTricks       int
	MidTricks           int
	PlentifulHighCards  int
	PlentifulHighBonus  float64
	ScarceHighCards     int
	ScarceHighPenalty   float64
	OpeningLeadBonus    float64
	MidLeadBonus        float64
	MidFollowBonus      float64
	ClosingHand         int
	ClosingBonus        float64
	FewPlayers          int
	FewPlayersBonus     float64
	HoardHand           int
	HighCardStep        float64
	LowCardCeiling      domain.Rank
	LowCardBonus        float64
	TwoHand             int
	TwoLateBonus        float64
	TwoEarlyPenalty     float64
	SingleOnSingleBonus float64
	BreakRunPenalty     float64
	PressureAverage     float64
	PressureBonus       float64
	RetreatAverage      float64
	RetreatPenalty      float64
	FinishBonus         float64
}

// MoveContext is everything a scoring rule may look at for one candidate.
type MoveContext struct {
	Situation *Situation
	Candidate Candidate
	Profile   HandProfile // of the hand before the play
	Remaining []domain.Card
	Phase     GamePhase
}

// ScoringRule is one named heuristic term. Rule outputs are summed.
type ScoringRule struct {
	Name  string
	Score func(m *MoveContext, w Weights) float64
}

// ScoredMove holds a candidate with its computed score.
type ScoredMove struct {
	Candidate Candidate
	Score     float64
}

// DefaultRules is the ordered rule list used by every difficulty.
var DefaultRules = []ScoringRule{
	{Name: "shape", Score: scoreShape},
	{Name: "card_cost", Score: scoreCardCost},
	{Name: "hand_structure", Score: scoreHandStructure},
	{Name: "hand_size", Score: scoreHandSize},
	{Name: "trick_phase", Score: scoreTrickPhase},
	{Name: "high_card_hoarding", Score: scoreHighCards},
	{Name: "two_policy", Score: scoreTwos},
	{Name: "single_on_single", Score: scoreSingleOnSingle},
	{Name: "break_run", Score: scoreBreakRun},
	{Name: "opponent_pressure", Score: scoreOpponentPressure},
	{Name: "finish", Score: scoreFinish},
}

// BuildScoredMoves scores each candidate with the given rules.
func BuildScoredMoves(s Situation, candidates []Candidate, rules []ScoringRule, w Weights) []ScoredMove {
	profile := ProfileHand(s.Hand)
	phase := DetectPhase(s.TrickNumber, w)

	scored := make([]ScoredMove, 0, len(candidates))
	for _, c := range candidates {
		m := &MoveContext{
			Situation: &s,
			Candidate: c,
			Profile:   profile,
			Remaining: domain.RemoveCards(s.Hand, c.Combo.Cards),
			Phase:     phase,
		}
		scored = append(scored, ScoredMove{Candidate: c, Score: ScoreMove(m, rules, w)})
	}
	return scored
}

// ScoreMove sums every rule for one candidate.
func ScoreMove(m *MoveContext, rules []ScoringRule, w Weights) float64 {
	total := 0.0
	for _, r := range rules {
		total += r.Score(m, w)
	}
	return total
}

func scoreShape(m *MoveContext, w Weights) float64 {
	combo := m.Candidate.Combo
	switch combo.Type {
	case domain.Single:
		return w.SingleBase * w.ShapeScale
	case domain.Pair:
		return w.PairBase * w.ShapeScale
	case domain.Triple:
		return w.TripleBase * w.ShapeScale
	case domain.Straight:
		return w.StraightBase * w.ShapeScale
	case domain.Quad:
		return w.QuadBase * w.ShapeScale
	case domain.PairSequence:
		return (w.PairSequenceBase + w.PairSequencePerPair*float64(combo.Pairs)) * w.ShapeScale
	}
	return 0
}

func scoreCardCost(m *MoveContext, w Weights) float64 {
	return -w.CardCost * float64(m.Candidate.Combo.Count)
}

func scoreHandStructure(m *MoveContext, w Weights) float64 {
	score := 0.0
	switch m.Candidate.Combo.Type {
	case domain.Pair:
		if m.Profile.Pairs >= w.ManyPairs {
			score += w.ManyPairsBonus
		}
	case domain.Single:
		if m.Profile.Singles >= w.ManySingles {
			score += w.ManySinglesBonus
		}
	case domain.Straight:
		if m.Profile.StrongSuit(w.StrongSuit) {
			score += w.StrongSuitBonus
		}
	}
	return score
}

func scoreHandSize(m *MoveContext, w Weights) float64 {
	score := 0.0
	size := len(m.Situation.Hand)
	kind := m.Candidate.Combo.Type
	if size <= w.EndgameHand {
		switch kind {
		case domain.Single:
			score += w.EndgameSingleBonus
		case domain.Pair:
			score += w.EndgamePairBonus
		}
	}
	if size >= w.LargeHand {
		switch kind {
		case domain.Straight:
			score += w.LargeStraightBonus
		case domain.Quad:
			score += w.LargeQuadBonus
		}
	}
	return score
}

func scoreTrickPhase(m *MoveContext, w Weights) float64 {
	s := m.Situation
	score := 0.0
	switch m.Phase {
	case PhaseOpening:
		outstanding := OutstandingHighCards(s.Hand, s.Discards)
		switch {
		case outstanding > w.PlentifulHighCards:
			score += w.PlentifulHighBonus
		case outstanding < w.ScarceHighCards:
			score -= w.ScarceHighPenalty
		}
		if s.Leading() {
			score += w.OpeningLeadBonus
			for _, c := range m.Candidate.Combo.Cards {
				score += float64(c.Rank)
			}
		}
	case PhaseMid:
		if s.Leading() {
			score += w.MidLeadBonus
		} else {
			score += w.MidFollowBonus
		}
	default:
		if len(s.Hand) <= w.ClosingHand {
			score += w.ClosingBonus
		}
		if s.RemainingPlayers <= w.FewPlayers {
			score += w.FewPlayersBonus
		}
	}
	return score
}

func scoreHighCards(m *MoveContext, w Weights) float64 {
	score := 0.0
	size := len(m.Situation.Hand)
	for _, c := range m.Candidate.Combo.Cards {
		if size > w.HoardHand && c.Rank >= HighCardFloor {
			score -= float64(c.Rank-HighCardFloor+1) * w.HighCardStep
		}
		if size <= w.HoardHand && c.Rank <= w.LowCardCeiling {
			score += w.LowCardBonus
		}
	}
	return score
}

func scoreTwos(m *MoveContext, w Weights) float64 {
	if !domain.ContainsRank(m.Candidate.Combo.Cards, domain.Rank2) {
		return 0
	}
	if len(m.Situation.Hand) <= w.TwoHand {
		return w.TwoLateBonus
	}
	return -w.TwoEarlyPenalty
}

func scoreSingleOnSingle(m *MoveContext, w Weights) float64 {
	active := m.Situation.Active
	if active != nil && active.Type == domain.Single && m.Candidate.Combo.Type == domain.Single {
		return w.SingleOnSingleBonus
	}
	return 0
}

func scoreBreakRun(m *MoveContext, w Weights) float64 {
	if breaksLongerRun(m.Candidate.Combo, m.Remaining) {
		return -w.BreakRunPenalty
	}
	return 0
}

func scoreOpponentPressure(m *MoveContext, w Weights) float64 {
	s := m.Situation
	if len(s.OpponentHandSizes) == 0 {
		return 0
	}
	avg := s.AverageOpponentHand()
	score := 0.0
	if avg <= w.PressureAverage {
		score += w.PressureBonus
	}
	if len(s.Hand) >= w.LargeHand && avg <= w.RetreatAverage {
		score -= w.RetreatPenalty
	}
	return score
}

func scoreFinish(m *MoveContext, w Weights) float64 {
	if len(m.Remaining) == 0 {
		return w.FinishBonus
	}
	return 0
}
