// Package astar implements a parallel minimum-move Klondike Solitaire
// solver using the A* search algorithm. Worker goroutines expand leaves
// of a shared move tree in best-first order until a provably minimal
// solution is found, the search space is exhausted, or the move tree
// outgrows its limit.
package astar

import (
	"github.com/stampeder/bonanza/card"
	"github.com/stampeder/bonanza/game"
)

// misorderCount counts the cards that sit higher in a stack than a
// lower-ranked card of the same suit. The lower card must reach the
// foundation first, but it is buried. Stack tops are at the back.
func misorderCount(cards []card.Card) int {
	minRanks := [card.NumSuits]int{14, 14, 14, 14}
	result := 0
	for _, cd := range cards {
		rank := int(cd.Rank())
		suit := cd.Suit()
		if rank < minRanks[suit] {
			minRanks[suit] = rank
		} else {
			result++
		}
	}
	return result
}

// MinimumMovesLeft returns a lower bound on the number of moves
// required to win from the current state. The bound is consistent
// (monotone): it never decreases by more than one across any single
// user move, so the sum of moves made plus this bound never decreases
// along a path. If that sum could decrease, the search might stop too
// soon.
func MinimumMovesLeft(g *game.Game) int {
	draw := g.DrawSetting()
	stockSize := g.StockPile().Len()
	talonCount := g.WastePile().Len() + stockSize

	result := talonCount + (stockSize+draw-1)/draw

	if draw == 1 {
		// This term can break consistency for draw settings over 1,
		// so it is applied only under draw-1.
		result += misorderCount(g.WastePile().Cards())
	}

	for i := range g.Tableau() {
		tPile := &g.Tableau()[i]
		if tPile.Empty() {
			continue
		}
		downCount := tPile.Len() - tPile.UpCount()
		result += tPile.Len() + misorderCount(tPile.Cards()[:downCount+1])
	}
	return result
}
