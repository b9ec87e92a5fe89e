package game

import (
	"github.com/stampeder/bonanza/card"
)

// AvailableMoves returns the pruned next moves from the current state,
// filtered against movesMade by the XYZ test. Dominant moves are
// returned one at a time (the rest are cached); other moves all at
// once. The result is empty when the game is won or dead-ended.
func (g *Game) AvailableMoves(movesMade []MoveSpec) QMoves {
	minFoundationSize := g.MinFoundationPileSize()
	if minFoundationSize == card.PerSuit {
		return nil // game won
	}

	if g.domCacheLen == 0 {
		g.dominantAvailableMoves(minFoundationSize, movesMade)
	}
	if g.domCacheLen > 0 {
		g.domCacheLen--
		return QMoves{g.domCache[g.domCacheLen]}
	}

	avail := make(QMoves, 0, 16)
	g.movesFromTableau(&avail)
	g.movesFromTalon(&avail, minFoundationSize)
	g.movesFromFoundation(&avail, minFoundationSize)
	return filterXYZ(avail, movesMade)
}

// dominantAvailableMoves fills the dominant-move cache with any moves
// from the waste, the tableau, or (under draw-1) the top of the stock
// to a short foundation pile. A short foundation pile is one than which
// no foundation pile is more than one card shorter. Such a move is
// called dominant: if the game can be won from this position, no
// sequence that skips it beats the shortest sequences that start with
// it.
func (g *Game) dominantAvailableMoves(minFoundationSize int, movesMade []MoveSpec) {
	dom := QMoves(g.domCache[:0])

	addFrom := func(pile *Pile) {
		if pile.Empty() {
			return
		}
		cd := pile.Back()
		if int(cd.Rank()) <= minFoundationSize+1 && g.CanMoveToFoundation(cd) {
			fromPile := pile.Code()
			toPile := FoundationPileCode(cd.Suit())
			up := 0
			if fromPile != Waste {
				up = pile.UpCount()
			}
			dom.AddNonStockMove(fromPile, toPile, 1, up)
			dom.last().SetFlipsTopCard(pile.IsTableau() && up == 1 && pile.Len() > 1)
		}
	}
	addFrom(&g.waste)
	for i := range g.tableau {
		addFrom(&g.tableau[i])
	}

	if g.drawSetting == 1 && !g.stock.Empty() {
		cd := g.stock.Back()
		if int(cd.Rank()) <= minFoundationSize+1 && g.CanMoveToFoundation(cd) {
			// Draw one card, move it to the foundation: two moves.
			dom.AddStockMove(FoundationPileCode(cd.Suit()), 2, 1, false)
		}
	}

	dom = filterXYZ(dom, movesMade)
	g.domCacheLen = uint8(len(dom))
}

// movesFromTableau appends the available moves from tableau piles.
// Moves between tableau piles are generated only to (a) move all the
// face-up cards of the from pile, to flip a face-down card or clear a
// column that is needed for a king, or (b) uncover a foundation-ready
// card with a ladder move.
func (g *Game) movesFromTableau(moves *QMoves) {
	for i := range g.tableau {
		fromPile := &g.tableau[i]
		if fromPile.Empty() {
			continue
		}

		fromTip := fromPile.Back()
		fromBase := fromPile.FirstUp()
		upCount := fromPile.UpCount()

		if g.CanMoveToFoundation(fromTip) {
			toPile := FoundationPileCode(fromTip.Suit())
			moves.AddNonStockMove(fromPile.Code(), toPile, 1, upCount)
			moves.last().SetFlipsTopCard(upCount == 1 && fromPile.Len() > 1)
		}

		kingMoved := false // prevents moving the same king twice
		for j := range g.tableau {
			toPile := &g.tableau[j]
			if i == j {
				continue
			}

			if toPile.Empty() {
				if !kingMoved && fromBase.Rank() == card.King && fromPile.Len() > upCount {
					// A king sits at the bottom of the from pile's
					// face-up cards and covers at least one face-down
					// card.
					moves.AddNonStockMove(fromPile.Code(), toPile.Code(), upCount, upCount)
					moves.last().SetFlipsTopCard(true)
					kingMoved = true
				}
				continue
			}

			cardToCover := toPile.Back()
			toRank := int(cardToCover.Rank())
			if int(fromTip.Rank()) < toRank && toRank <= int(fromBase.Rank())+1 &&
				fromTip.OddRed() == cardToCover.OddRed() {
				// Some face-up card in the from pile covers the top
				// card of the to pile, so a move is possible.
				moveCount := toRank - int(fromTip.Rank())
				if moveCount == upCount && (upCount < fromPile.Len() || g.needKingSpace()) {
					// This move will flip a face-down card or clear a
					// column that's needed for a king.
					moves.AddNonStockMove(fromPile.Code(), toPile.Code(), upCount, upCount)
					moves.last().SetFlipsTopCard(upCount < fromPile.Len())
				} else if moveCount < upCount || upCount < fromPile.Len() {
					uncovered := fromPile.At(fromPile.Len() - moveCount - 1)
					if g.CanMoveToFoundation(uncovered) {
						// This move will uncover a card that can be
						// moved to its foundation pile, and move it
						// there.
						moves.AddLadderMove(fromPile.Code(), toPile.Code(), moveCount,
							upCount, uncovered)
						moves.last().SetFlipsTopCard(upCount == moveCount+1)
					}
				}
			}
		}
	}
}

// talonFuture is a playable card in the talon's future: the number of
// moves needed to expose it, the cumulative draw count to reach it, and
// whether getting there crosses a recycle.
type talonFuture struct {
	card      card.Card
	nMoves    int
	drawCount int
	recycle   bool
}

// talonSim simulates draws and recycles of the talon without moving any
// cards, exposing the top card of the simulated waste pile.
type talonSim struct {
	waste []card.Card
	stock []card.Card
	wSize int
	sSize int
}

func newTalonSim(g *Game) talonSim {
	return talonSim{
		waste: g.waste.Cards(),
		stock: g.stock.Cards(),
		wSize: g.waste.Len(),
		sSize: g.stock.Len(),
	}
}

func (t *talonSim) cycle() {
	t.sSize += t.wSize
	t.wSize = 0
}

func (t *talonSim) draw(n int) {
	if n > t.sSize {
		n = t.sSize
	}
	t.wSize += n
	t.sSize -= n
}

func (t *talonSim) topCard() card.Card {
	if t.wSize <= len(t.waste) {
		return t.waste[t.wSize-1]
	}
	return t.stock[len(t.stock)-(t.wSize-len(t.waste))]
}

// talonCards returns every card that can be played from the talon,
// with the number of moves required to reach each one and the number of
// cards that must be drawn (or undrawn) to get there. It simulates at
// most one recycle, subject to the recycle limit.
func talonCards(g *Game) []talonFuture {
	talonSize := g.waste.Len() + g.stock.Len()
	if talonSize == 0 {
		return nil
	}

	result := make([]talonFuture, 0, maxPileCards)
	talon := newTalonSim(g)
	originalWasteSize := talon.wSize
	drawSetting := g.DrawSetting()
	nMoves := 0
	nRecycles := 0
	maxRecycles := g.RecycleLimit() - g.RecycleCount()
	if maxRecycles > 1 {
		maxRecycles = 1
	}

	for {
		if talon.wSize > 0 {
			result = append(result, talonFuture{
				card:      talon.topCard(),
				nMoves:    nMoves,
				drawCount: talon.wSize - originalWasteSize,
				recycle:   nRecycles > 0,
			})
		}
		if talon.sSize > 0 {
			nMoves++
			talon.draw(drawSetting)
		} else {
			nRecycles++
			talon.cycle()
		}
		if talon.wSize == originalWasteSize || nRecycles > maxRecycles {
			return result
		}
	}
}

// movesFromTalon appends the available moves from the talon to tableau
// or foundation piles, including moves that become available only after
// one or more draws. Rather than emit individual draws, it emits moves
// that draw enough to expose a playable waste card and then play it.
func (g *Game) movesFromTalon(moves *QMoves, minFoundationSize int) {
	for _, future := range talonCards(g) {
		if g.CanMoveToFoundation(future.card) {
			pileNo := FoundationPileCode(future.card.Suit())
			moves.AddStockMove(pileNo, future.nMoves+1, future.drawCount, future.recycle)
			if int(future.card.Rank()) <= minFoundationSize+1 {
				if g.drawSetting == 1 {
					// Best next move from among the remaining talon
					// cards.
					break
				}
				// Best move for this card; a card further on might be
				// a better move.
				continue
			}
		}

		for i := range g.tableau {
			tPile := &g.tableau[i]
			if !tPile.Empty() {
				if future.card.Covers(tPile.Back()) {
					moves.AddStockMove(tPile.Code(), future.nMoves+1,
						future.drawCount, future.recycle)
				}
			} else if future.card.Rank() == card.King {
				moves.AddStockMove(tPile.Code(), future.nMoves+1,
					future.drawCount, future.recycle)
				break // move that king to just one empty pile
			}
		}
	}
}

// movesFromFoundation appends moves from foundation piles back to
// tableau piles. Piles close to the minimum are skipped since the
// reversal of such a move would be dominant.
func (g *Game) movesFromFoundation(moves *QMoves, minFoundationSize int) {
	for i := range g.foundation {
		fPile := &g.foundation[i]
		if fPile.Len() <= minFoundationSize+2 {
			continue
		}
		top := fPile.Back()
		for j := range g.tableau {
			tPile := &g.tableau[j]
			if !tPile.Empty() {
				if top.Covers(tPile.Back()) {
					moves.AddNonStockMove(fPile.Code(), tPile.Code(), 1, 0)
				}
			} else if top.Rank() == card.King {
				moves.AddNonStockMove(fPile.Code(), tPile.Code(), 1, 0)
				break // don't move the same king to another empty pile
			}
		}
	}
}
