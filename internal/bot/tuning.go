package bot

import (
	botinternal "tienlen/internal/bot/internal"
	"tienlen/internal/domain"
)

const finishBonus = 1000.0

const (
	easyNoiseSpread = 100.0 // uniform noise in [-spread/2, spread/2)
	easyBlunderRate = 0.3
	easyBlunderPool = 3
	hardScoreBoost  = 1.2
)

// DefaultTuning favours shedding low cards early and pressing when opponents run short.
var DefaultTuning = botinternal.Weights{
	ShapeScale:          10,
	SingleBase:          1,
	PairBase:            2,
	TripleBase:          3,
	StraightBase:        4,
	QuadBase:            7,
	PairSequenceBase:    2,
	PairSequencePerPair: 1,
	CardCost:            2,
	ManyPairs:           2,
	ManyPairsBonus:      15,
	ManySingles:         4,
	ManySinglesBonus:    10,
	StrongSuit:          3,
	StrongSuitBonus:     20,
	EndgameHand:         4,
	EndgameSingleBonus:  25,
	EndgamePairBonus:    20,
	LargeHand:           8,
	LargeStraightBonus:  15,
	LargeQuadBonus:      30,
	OpeningTricks:       4,
	MidTricks:           8,
	PlentifulHighCards:  8,
	PlentifulHighBonus:  10,
	ScarceHighCards:     4,
	ScarceHighPenalty:   15,
	OpeningLeadBonus:    50,
	MidLeadBonus:        30,
	MidFollowBonus:      20,
	ClosingHand:         3,
	ClosingBonus:        100,
	FewPlayers:          2,
	FewPlayersBonus:     50,
	HoardHand:           5,
	HighCardStep:        5,
	LowCardCeiling:      domain.Rank7,
	LowCardBonus:        10,
	TwoHand:             3,
	TwoLateBonus:        30,
	TwoEarlyPenalty:     30,
	SingleOnSingleBonus: 20,
	BreakRunPenalty:     40,
	PressureAverage:     3,
	PressureBonus:       40,
	RetreatAverage:      2,
	RetreatPenalty:      30,
	FinishBonus:         finishBonus,
}
