package domain

import "fmt"

// advanceTurn moves the turn after an accepted play or pass.
func (g *Game) advanceTurn(out *Outcome) {
	unfinished := g.seatsWhere(func(p *Player) bool { return !p.Finished })
	if len(unfinished) == 1 {
		last := g.Players[unfinished[0]]
		last.Finished = true
		g.FinishOrder = append(g.FinishOrder, last.ID)
		out.AutoFinished = last.ID
		g.checkGameOver(out)
		return
	}

	contenders := g.seatsWhere(isContender)
	switch len(contenders) {
	case 0:
		// The trick owner went out and everyone else had already passed.
		next := g.nextSeat(g.TurnIndex, func(p *Player) bool { return !p.Finished })
		g.closeRound(next)
		out.RoundWinner = g.Players[next].ID
	case 1:
		g.closeRound(contenders[0])
		out.RoundWinner = g.Players[contenders[0]].ID
	default:
		g.TurnIndex = g.nextSeat(g.TurnIndex, isContender)
	}
}

func (g *Game) closeRound(winner int) {
	g.ActiveTrick = nil
	g.CenterPile = nil
	for _, p := range g.Players {
		p.HasPassed = false
	}
	g.TrickNumber++
	g.TurnIndex = winner
	g.LeadIndex = winner
}

// nextSeat returns the nearest seat after from, wrapping, whose player is eligible.
func (g *Game) nextSeat(from int, eligible func(*Player) bool) int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if eligible(g.Players[i]) {
			return i
		}
	}
	panic(fmt.Sprintf("tienlen: no eligible seat after %d (finish order %v)", from, g.FinishOrder))
}

func (g *Game) seatsWhere(keep func(*Player) bool) []int {
	seats := make([]int, 0, len(g.Players))
	for i, p := range g.Players {
		if keep(p) {
			seats = append(seats, i)
		}
	}
	return seats
}

// checkGameOver ends the game once no player is left holding cards.
func (g *Game) checkGameOver(out *Outcome) bool {
	if g.UnfinishedCount() > 0 {
		return false
	}
	g.Phase = PhaseGameOver
	g.Winner = g.FinishOrder[0]
	out.GameOver = true
	out.Winner = g.Winner
	return true
}

func isContender(p *Player) bool {
	return !p.Finished && !p.HasPassed
}
