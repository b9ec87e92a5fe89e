package game

// XMove is a user-level move for listing a solution. Moves are numbered
// from 1; the numbers are often not consecutive, as drawing multiple
// cards from the stock is represented by a single XMove. Flips of
// tableau cards are not numbered moves, but they are flagged on the
// move that reveals them.
type XMove struct {
	moveNum uint16
	from    PileCode
	to      PileCode
	nCards  uint8
	flip    bool
}

func (x XMove) MoveNum() int   { return int(x.moveNum) }
func (x XMove) From() PileCode { return x.from }
func (x XMove) To() PileCode   { return x.to }
func (x XMove) NCards() int    { return int(x.nCards) }
func (x XMove) Flip() bool     { return x.flip }

func newXMove(moveNum int, from, to PileCode, nCards int, flip bool) XMove {
	return XMove{
		moveNum: uint16(moveNum),
		from:    from,
		to:      to,
		nCards:  uint8(nCards),
		flip:    flip,
	}
}

// MakeXMoves expands a MoveSpec solution into its numbered user-level
// listing for a game with the given draw setting.
func MakeXMoves(solution []MoveSpec, draw int) []XMove {
	stockSize := maxPileCards
	wasteSize := 0
	mvnum := 0
	var result []XMove

	for _, mv := range solution {
		from := mv.From()
		to := mv.To()

		if !mv.IsStockMove() {
			n := mv.NCards()
			flip := mv.FlipsTopCard() && !mv.IsLadderMove()
			mvnum++
			result = append(result, newXMove(mvnum, from, to, n, flip))
			if from == Waste {
				wasteSize--
			}
			if mv.IsLadderMove() {
				// Generate the extra move to the foundation.
				mvnum++
				result = append(result, newXMove(mvnum, from, mv.LadderPileCode(), 1, mv.FlipsTopCard()))
			}
			continue
		}

		nTalonMoves := mv.NMoves() - 1
		stockMovesLeft := quotientRoundedUp(stockSize, draw)
		if nTalonMoves > stockMovesLeft && stockSize > 0 {
			// Draw all remaining cards from the stock.
			mvnum++
			result = append(result, newXMove(mvnum, Stock, Waste, stockSize, false))
			mvnum += stockMovesLeft - 1
			wasteSize += stockSize
			stockSize = 0
			nTalonMoves -= stockMovesLeft
		}
		if nTalonMoves > 0 {
			mvnum++
			if stockSize == 0 {
				// Recycle the waste pile.
				result = append(result, newXMove(mvnum, Waste, Stock, wasteSize, false))
				stockSize = wasteSize
				wasteSize = 0
			}
			nMoved := nTalonMoves * draw
			if nMoved > stockSize {
				nMoved = stockSize
			}
			result = append(result, newXMove(mvnum, Stock, Waste, nMoved, false))
			stockSize -= nMoved
			wasteSize += nMoved
			mvnum += nTalonMoves - 1
		}
		mvnum++
		result = append(result, newXMove(mvnum, Waste, to, 1, false))
		wasteSize--
	}
	return result
}

func quotientRoundedUp(numerator, denominator int) int {
	return (numerator + denominator - 1) / denominator
}

// MakeXMove applies a user-level move to the game. Draws between stock
// and waste reverse card order; all other transfers preserve it.
func (g *Game) MakeXMove(xmv XMove) {
	from := xmv.From()
	to := xmv.To()
	n := xmv.NCards()
	toPile := g.Pile(to)
	fromPile := g.Pile(from)

	if from == Stock || to == Stock {
		toPile.Draw(fromPile, n)
	} else {
		toPile.Take(fromPile, n)
	}
	if fromPile.Empty() && fromPile.IsTableau() {
		g.kingSpaces++
	}
	toPile.IncrUpCount(n)
	fromPile.IncrUpCount(-n)
	if xmv.Flip() {
		fromPile.SetUpCount(1) // flip the top card
	}
}

// IsValidXMove reports whether a user-level move obeys the rules for
// the current state.
func (g *Game) IsValidXMove(xmv XMove) bool {
	return g.validTransfer(xmv.From(), xmv.To(), xmv.NCards())
}
