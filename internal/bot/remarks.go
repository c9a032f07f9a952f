package bot

import "tienlen/internal/domain"

// RemarkContext tags a play for the dialogue layer. Remarks carry no gameplay effect.
type RemarkContext string

const (
	RemarkLeading    RemarkContext = "leading"
	RemarkFollowing  RemarkContext = "following"
	RemarkStrongPlay RemarkContext = "strong_play"
	RemarkWeakPlay   RemarkContext = "weak_play"
	RemarkWinning    RemarkContext = "winning"
	RemarkBeaten     RemarkContext = "beaten"
	RemarkBombed     RemarkContext = "bombed"
)

// Remark is one bot's reaction to an accepted play or a won round.
type Remark struct {
	PlayerID string        `json:"player_id"`
	Context  RemarkContext `json:"context"`
}

// Remarks derives the flavor tags for an accepted play. The opening trick is
// always silent.
func Remarks(out domain.Outcome, isBot func(playerID string) bool) []Remark {
	if out.Combo == nil || out.TrickNumber <= 1 {
		return nil
	}
	combo := *out.Combo

	var remarks []Remark
	if isBot(out.PlayerID) {
		remarks = append(remarks, Remark{PlayerID: out.PlayerID, Context: playContext(out, combo)})
	} else if out.BeatenOwner != "" && isBot(out.BeatenOwner) {
		ctx := RemarkBeaten
		if isBomb(combo) || out.AutoWin != domain.AutoWinNone {
			ctx = RemarkBombed
		}
		remarks = append(remarks, Remark{PlayerID: out.BeatenOwner, Context: ctx})
	}
	return remarks
}

// RoundRemark tags a bot that just won the round, whether the round closed
// on a play or on a pass. The opening trick is silent here too.
func RoundRemark(out domain.Outcome, isBot func(playerID string) bool) (Remark, bool) {
	if out.RoundWinner == "" || out.TrickNumber <= 1 || !isBot(out.RoundWinner) {
		return Remark{}, false
	}
	return Remark{PlayerID: out.RoundWinner, Context: RemarkWinning}, true
}

func playContext(out domain.Outcome, combo domain.CardCombination) RemarkContext {
	switch {
	case combo.Type == domain.Quad || combo.Type == domain.Straight || domain.ContainsRank(combo.Cards, domain.Rank2):
		return RemarkStrongPlay
	case combo.Type == domain.Single && combo.Cards[0].Rank <= domain.Rank7:
		return RemarkWeakPlay
	case out.Led:
		return RemarkLeading
	default:
		return RemarkFollowing
	}
}

// isBomb matches a quad or a straight of five or more.
func isBomb(combo domain.CardCombination) bool {
	return combo.Type == domain.Quad || (combo.Type == domain.Straight && combo.Count >= 5)
}
