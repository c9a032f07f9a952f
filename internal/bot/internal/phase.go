package internal

// GamePhase describes the current strategic stage of a game.
type GamePhase int

const (
	// PhaseOpening covers the first few tricks.
	PhaseOpening GamePhase = iota
	// PhaseMid covers the middle tricks.
	PhaseMid
	// PhaseEnd covers every trick after the middle.
	PhaseEnd
)

func (p GamePhase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseMid:
		return "mid"
	default:
		return "end"
	}
}

// DetectPhase infers the phase from the trick counter.
func DetectPhase(trickNumber int, w Weights) GamePhase {
	switch {
	case trickNumber <= w.OpeningTricks:
		return PhaseOpening
	case trickNumber <= w.MidTricks:
		return PhaseMid
	default:
		return PhaseEnd
	}
}
