package game

import (
	"strings"

	"github.com/stampeder/bonanza/card"
)

// NoRecycleLimit allows unlimited recycles of the waste pile.
const NoRecycleLimit = int(^uint8(0))

// Game is a Klondike Solitaire game in progress: the waste pile, the
// seven tableau piles, the stock, and the four foundation piles, plus
// the deal settings. It is a pure value type; copying a Game with plain
// assignment yields an independent game, and two games compare equal
// with == exactly when every observable byte matches.
type Game struct {
	waste      Pile
	tableau    [TableauSize]Pile
	stock      Pile
	foundation [FoundationSize]Pile

	drawSetting  uint8
	recycleLimit uint8
	recycleCount uint8
	kingSpaces   uint8 // empty columns + columns with kings at their base

	deck [card.PerDeck]card.Card

	// Dominant moves found by AvailableMoves are handed out one at a
	// time; the rest wait here.
	domCache    [9]MoveSpec
	domCacheLen uint8
}

// NewGame constructs a game from a 52-card deck, deals it, and returns
// it. draw is the number of cards drawn from the stock per draw move (1
// or 3 in standard Klondike). recycleLimit caps the number of times the
// waste may be recycled into the stock; pass NoRecycleLimit for
// unlimited play.
func NewGame(deck card.Deck, draw int, recycleLimit int) *Game {
	g := &Game{
		waste:       NewPile(Waste),
		stock:       NewPile(Stock),
		drawSetting: uint8(draw),
	}
	if recycleLimit > NoRecycleLimit || recycleLimit < 0 {
		recycleLimit = NoRecycleLimit
	}
	g.recycleLimit = uint8(recycleLimit)
	for i := range g.tableau {
		g.tableau[i] = NewPile(TableauBase + PileCode(i))
	}
	for i := range g.foundation {
		g.foundation[i] = NewPile(FoundationBase + PileCode(i))
	}
	copy(g.deck[:], deck)
	g.Deal()
	return g
}

// Copy returns an independent copy of the game.
func (g *Game) Copy() *Game {
	c := *g
	return &c
}

func (g *Game) WastePile() *Pile                  { return &g.waste }
func (g *Game) StockPile() *Pile                  { return &g.stock }
func (g *Game) Tableau() *[TableauSize]Pile       { return &g.tableau }
func (g *Game) Foundation() *[FoundationSize]Pile { return &g.foundation }
func (g *Game) DrawSetting() int                  { return int(g.drawSetting) }
func (g *Game) RecycleLimit() int                 { return int(g.recycleLimit) }
func (g *Game) RecycleCount() int                 { return int(g.recycleCount) }
func (g *Game) Deck() card.Deck                   { return card.Deck(g.deck[:]) }

// Pile returns the pile with the given code.
func (g *Game) Pile(code PileCode) *Pile {
	switch {
	case code == Waste:
		return &g.waste
	case IsTableau(code):
		return &g.tableau[code-TableauBase]
	case code == Stock:
		return &g.stock
	default:
		return &g.foundation[code-FoundationBase]
	}
}

// needKingSpace is true if any more empty columns are needed for kings.
func (g *Game) needKingSpace() bool { return g.kingSpaces < card.NumSuits }

// CanMoveToFoundation reports whether cd is the next card for its
// foundation pile.
func (g *Game) CanMoveToFoundation(cd card.Card) bool {
	return int(cd.Rank()) == g.foundation[cd.Suit()].Len()
}

// Deal resets the game to its starting layout: 28 cards to the tableau
// (pile i receives i+1 cards, top card face up) and the remaining 24 to
// the stock in reverse deck order.
func (g *Game) Deal() {
	g.kingSpaces = 0
	g.recycleCount = 0
	g.domCacheLen = 0

	g.waste.Clear()
	g.stock.Clear()
	for i := range g.tableau {
		g.tableau[i].Clear()
	}
	for i := range g.foundation {
		g.foundation[i].Clear()
	}

	iDeck := 0
	for iPile := 0; iPile < TableauSize; iPile++ {
		for icd := iPile; icd < TableauSize; icd++ {
			g.tableau[icd].Push(g.deck[iDeck])
			iDeck++
		}
		g.tableau[iPile].SetUpCount(1) // turn up the top card
		if g.tableau[iPile].At(0).Rank() == card.King {
			g.kingSpaces++ // count kings dealt to pile bases
		}
	}
	for i := card.PerDeck - 1; i >= TableauSize*(TableauSize+1)/2; i-- {
		g.stock.Push(g.deck[i])
	}
}

// MakeMove applies mv to the game. It has no failure mode on a game
// whose construction invariants hold; IsValid is the external check.
func (g *Game) MakeMove(mv MoveSpec) {
	toPile := g.Pile(mv.To())
	if mv.IsStockMove() {
		g.waste.Draw(&g.stock, mv.DrawCount())
		toPile.Push(g.waste.Pop())
		toPile.IncrUpCount(1)
		if mv.Recycle() {
			g.recycleCount++
		}
		return
	}
	n := mv.NCards()
	fromPile := g.Pile(mv.From())
	isLadder := mv.IsLadderMove()
	toPile.Take(fromPile, n)
	if isLadder {
		g.foundation[mv.LadderSuit()].Draw(fromPile, 1)
	}
	// For tableau piles, upCount counts face-up cards. For other piles
	// it is undefined.
	toPile.IncrUpCount(n)
	if !fromPile.Empty() {
		flip, ladder := 0, 0
		if mv.FlipsTopCard() {
			flip = 1
		}
		if isLadder {
			ladder = 1
		}
		fromPile.IncrUpCount(flip - (n + ladder))
	} else {
		if fromPile.IsTableau() {
			g.kingSpaces++ // count newly cleared columns
		}
		fromPile.SetUpCount(0)
	}
}

// UnMakeMove exactly reverses MakeMove, using the stored prior up count
// to restore the face-down/face-up boundary. MakeMove followed by
// UnMakeMove is the identity on all observable game state.
func (g *Game) UnMakeMove(mv MoveSpec) {
	toPile := g.Pile(mv.To())
	if mv.IsStockMove() {
		g.waste.Push(toPile.Pop())
		toPile.IncrUpCount(-1)
		g.stock.Draw(&g.waste, mv.DrawCount())
		if mv.Recycle() {
			g.recycleCount--
		}
		return
	}
	n := mv.NCards()
	fromPile := g.Pile(mv.From())
	if mv.IsLadderMove() {
		if fromPile.Empty() {
			g.kingSpaces--
		}
		fromPile.Draw(&g.foundation[mv.LadderSuit()], 1)
	}
	if fromPile.IsTableau() {
		if fromPile.Empty() {
			g.kingSpaces-- // uncount newly cleared columns
		}
		fromPile.SetUpCount(mv.FromUpCount())
	}
	fromPile.Take(toPile, n)
	toPile.IncrUpCount(-n)
}

// GameOver reports whether all 52 cards are on the foundation.
func (g *Game) GameOver() bool {
	for i := range g.foundation {
		if g.foundation[i].Len() != card.PerSuit {
			return false
		}
	}
	return true
}

// MinFoundationPileSize returns the height of the shortest foundation
// pile.
func (g *Game) MinFoundationPileSize() int {
	minSize := g.foundation[0].Len()
	for i := 1; i < FoundationSize; i++ {
		if n := g.foundation[i].Len(); n < minSize {
			minSize = n
		}
	}
	return minSize
}

func (g *Game) validTransfer(from, to PileCode, nCardsToMove int) bool {
	if from >= PileCount || to >= PileCount {
		return false
	}
	if nCardsToMove == 0 || nCardsToMove > maxPileCards {
		return false
	}
	fromPile := g.Pile(from)
	toPile := g.Pile(to)
	if nCardsToMove > fromPile.Len() {
		return false
	}
	coverCard := fromPile.At(fromPile.Len() - nCardsToMove)
	if toPile.IsTableau() {
		if toPile.Empty() {
			if coverCard.Rank() != card.King {
				return false
			}
		} else if !coverCard.Covers(toPile.Back()) {
			return false
		}
	} else if toPile.IsFoundation() {
		if coverCard.Suit() != card.Suit(to-FoundationBase) {
			return false
		}
		if int(coverCard.Rank()) != toPile.Len() {
			return false
		}
	}
	return true
}

// IsValid reports whether mv obeys the rules of Klondike for the
// current game state.
func (g *Game) IsValid(mv MoveSpec) bool {
	if mv.IsStockMove() {
		draw := mv.DrawCount()
		if draw > 0 {
			return g.validTransfer(Stock, mv.To(), draw)
		}
		return g.validTransfer(Waste, mv.To(), -draw+1)
	}
	return g.validTransfer(mv.From(), mv.To(), mv.NCards())
}

// String renders every pile of the game, one per line, for debugging.
func (g *Game) String() string {
	var b strings.Builder
	for code := Waste; code < PileCount; code++ {
		b.WriteString(g.Pile(code).String())
		b.WriteByte('\n')
	}
	return b.String()
}
