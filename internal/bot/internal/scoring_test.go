package internal

import (
	"testing"

	"tienlen/internal/domain"
)

var testWeights = Weights{
	ShapeScale: 10, SingleBase: 1, PairBase: 2, TripleBase: 3, StraightBase: 4, QuadBase: 7,
	PairSequenceBase: 2, PairSequencePerPair: 1, CardCost: 2,
	LargeHand: 8, EndgameHand: 4, OpeningTricks: 4, MidTricks: 8,
	HoardHand: 5, HighCardStep: 5, LowCardCeiling: domain.Rank7, LowCardBonus: 10,
	TwoHand: 3, TwoLateBonus: 30, TwoEarlyPenalty: 30,
	BreakRunPenalty: 40, PressureAverage: 3, PressureBonus: 40, RetreatAverage: 2, RetreatPenalty: 30,
	FinishBonus: 1000,
}

func moveContext(s Situation, cards ...domain.Card) *MoveContext {
	combo := domain.IdentifyCombination(cards)
	return &MoveContext{
		Situation: &s,
		Candidate: Candidate{Move: ValidMove{Cards: cards}, Combo: combo},
		Profile:   ProfileHand(s.Hand),
		Remaining: domain.RemoveCards(s.Hand, combo.Cards),
		Phase:     DetectPhase(s.TrickNumber, testWeights),
	}
}

func handOf(n int) []domain.Card {
	return domain.NewDeck()[:n]
}

func TestScoringRules(t *testing.T) {
	bigHand := handOf(10)
	pairSeq := []domain.Card{
		c(domain.Rank3, domain.Spades), c(domain.Rank3, domain.Clubs), c(domain.Rank4, domain.Spades), c(domain.Rank4, domain.Clubs),
		c(domain.Rank5, domain.Spades), c(domain.Rank5, domain.Clubs),
	}

	tests := []struct {
		name string
		rule func(*MoveContext, Weights) float64
		ctx  *MoveContext
		want float64
	}{
		{
			name: "single shape",
			rule: scoreShape,
			ctx:  moveContext(Situation{Hand: bigHand}, bigHand[0]),
			want: 10,
		},
		{
			name: "three pair sequence shape",
			rule: scoreShape,
			ctx:  moveContext(Situation{Hand: pairSeq}, pairSeq...),
			want: 50,
		},
		{
			name: "card cost",
			rule: scoreCardCost,
			ctx:  moveContext(Situation{Hand: pairSeq}, pairSeq...),
			want: -12,
		},
		{
			name: "two played early",
			rule: scoreTwos,
			ctx:  moveContext(Situation{Hand: append(handOf(6), c(domain.Rank2, domain.Hearts))}, c(domain.Rank2, domain.Hearts)),
			want: -30,
		},
		{
			name: "two played late",
			rule: scoreTwos,
			ctx: moveContext(Situation{Hand: []domain.Card{c(domain.Rank9, domain.Spades), c(domain.Rank2, domain.Hearts)}},
				c(domain.Rank2, domain.Hearts)),
			want: 30,
		},
		{
			name: "high card hoarded with a big hand",
			rule: scoreHighCards,
			ctx:  moveContext(Situation{Hand: append(handOf(6), c(domain.RankA, domain.Hearts))}, c(domain.RankA, domain.Hearts)),
			want: -20,
		},
		{
			name: "low card shed with a small hand",
			rule: scoreHighCards,
			ctx:  moveContext(Situation{Hand: handOf(3)}, handOf(3)[0]),
			want: 10,
		},
		{
			name: "finishing play",
			rule: scoreFinish,
			ctx:  moveContext(Situation{Hand: handOf(1)}, handOf(1)[0]),
			want: 1000,
		},
		{
			name: "opponent nearly out",
			rule: scoreOpponentPressure,
			ctx:  moveContext(Situation{Hand: handOf(4), OpponentHandSizes: []int{2, 3, 4}}, handOf(4)[0]),
			want: 40,
		},
		{
			name: "big hand against short opponents",
			rule: scoreOpponentPressure,
			ctx:  moveContext(Situation{Hand: bigHand, OpponentHandSizes: []int{1, 2}}, bigHand[0]),
			want: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule(tt.ctx, testWeights); got != tt.want {
				t.Fatalf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBreakRunRule(t *testing.T) {
	hand := []domain.Card{
		c(domain.Rank5, domain.Spades), c(domain.Rank6, domain.Clubs), c(domain.Rank7, domain.Hearts), c(domain.Rank8, domain.Hearts),
	}
	short := moveContext(Situation{Hand: hand}, hand[:3]...)
	full := moveContext(Situation{Hand: hand}, hand...)

	if got := scoreBreakRun(short, testWeights); got != -40 {
		t.Fatalf("short straight score = %v, want -40", got)
	}
	if got := scoreBreakRun(full, testWeights); got != 0 {
		t.Fatalf("full straight score = %v, want 0", got)
	}
}

func TestBuildScoredMovesSumsRules(t *testing.T) {
	s := Situation{Hand: handOf(2), TrickNumber: 9}
	candidates := LegalMoves(s)
	rules := []ScoringRule{
		{Name: "one", Score: func(*MoveContext, Weights) float64 { return 1 }},
		{Name: "two", Score: func(*MoveContext, Weights) float64 { return 2 }},
	}
	for _, sm := range BuildScoredMoves(s, candidates, rules, testWeights) {
		if sm.Score != 3 {
			t.Fatalf("score = %v, want 3", sm.Score)
		}
	}
}
