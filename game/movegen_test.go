package game

import (
	"testing"

	"github.com/matryer/is"

	"github.com/stampeder/bonanza/card"
)

// deckWith returns an ordered deck with the given cards swapped into
// the given deal positions.
func deckWith(placed map[int]card.Card) card.Deck {
	deck := card.OrderedDeck()
	pos := make(map[card.Card]int, len(deck))
	for i, c := range deck {
		pos[c] = i
	}
	for where, c := range placed {
		from := pos[c]
		displaced := deck[where]
		deck[where], deck[from] = deck[from], deck[where]
		pos[c] = where
		pos[displaced] = from
	}
	return deck
}

// Deal positions of each tableau pile's face-up top card.
var tableauTopDealPos = [TableauSize]int{0, 7, 13, 18, 22, 25, 27}

func TestDominantMovesComeOneAtATime(t *testing.T) {
	is := is.New(t)
	// Two aces dealt face up: both moves are dominant, and
	// AvailableMoves must hand them out one at a time.
	deck := deckWith(map[int]card.Card{
		tableauTopDealPos[0]: card.New(card.Clubs, card.Ace),
		tableauTopDealPos[1]: card.New(card.Diamonds, card.Ace),
	})
	g := NewGame(deck, 1, NoRecycleLimit)

	var history []MoveSpec
	for i := 0; i < 2; i++ {
		avail := g.AvailableMoves(history)
		is.Equal(len(avail), 1)
		mv := avail[0]
		is.True(IsFoundation(mv.To()))
		is.Equal(mv.NCards(), 1)
		g.MakeMove(mv)
		history = append(history, mv)
	}
	is.Equal(g.Foundation()[card.Clubs].Len(), 1)
	is.Equal(g.Foundation()[card.Diamonds].Len(), 1)
}

func TestDominantStockMoveUnderDrawOne(t *testing.T) {
	is := is.New(t)
	// An ace on top of the stock is a two-move dominant play under
	// draw-1: draw it, then play it to the foundation. The club and
	// diamond aces are buried face-down so the stock ace is the only
	// dominant move.
	deck := deckWith(map[int]card.Card{
		// Stock top is the last-dealt card, deck index 28.
		28: card.New(card.Spades, card.Ace),
		1:  card.New(card.Clubs, card.Ace),
		2:  card.New(card.Diamonds, card.Ace),
	})
	g := NewGame(deck, 1, NoRecycleLimit)

	avail := g.AvailableMoves(nil)
	is.Equal(len(avail), 1)
	mv := avail[0]
	is.True(mv.IsStockMove())
	is.Equal(mv.NMoves(), 2)
	is.Equal(mv.DrawCount(), 1)
	is.Equal(mv.To(), Foundation3S)
}

func TestTalonCardsDrawOne(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(1), 1, NoRecycleLimit)

	futures := talonCards(g)
	// Under draw-1 with no recycle crossed yet, every stock card is
	// reachable, each one draw apart.
	is.Equal(len(futures), 24)
	for i, f := range futures {
		is.Equal(f.nMoves, i+1)
		is.Equal(f.drawCount, i+1)
		is.True(!f.recycle)
		is.Equal(f.card, g.StockPile().At(24-1-i))
	}
}

func TestTalonCardsDrawThree(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(1), 3, NoRecycleLimit)

	futures := talonCards(g)
	// Under draw-3, only every third card surfaces: 24/3 = 8 cards.
	// Recycling an untouched talon just repeats the cycle, so the
	// simulation stops there.
	is.Equal(len(futures), 8)
	for i := 0; i < 8; i++ {
		is.Equal(futures[i].nMoves, i+1)
		is.Equal(futures[i].drawCount, (i+1)*3)
		is.True(!futures[i].recycle)
	}
}

func TestTalonCardsAfterPartialDraw(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(1), 3, NoRecycleLimit)
	// Five cards already in the waste: the current top is reachable in
	// zero draws, and draw-3 steps past the original waste size on the
	// second cycle, so the recycle pass surfaces eight more cards.
	g.WastePile().Draw(g.StockPile(), 5)

	futures := talonCards(g)
	is.Equal(len(futures), 16)
	is.Equal(futures[0].nMoves, 0)
	is.Equal(futures[0].drawCount, 0)
	for _, f := range futures[:8] {
		is.True(!f.recycle)
	}
	for _, f := range futures[8:] {
		is.True(f.recycle)
	}
	// The first recycled card sits below the original waste top, so
	// reaching it is a net undraw.
	is.Equal(futures[8].drawCount, -2)
}

func TestTalonCardsHonorsRecycleLimit(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(1), 3, 0)
	futures := talonCards(g)
	// With no recycles allowed, only the first pass is visible.
	is.Equal(len(futures), 8)
	for _, f := range futures {
		is.True(!f.recycle)
	}
}

func TestMovesFromFoundationThreshold(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(1), 1, NoRecycleLimit)

	// Hand-build a foundation pile: clubs up to 4 while the rest are
	// empty. Its top exceeds minFoundationSize+2, so a move back to
	// the tableau is allowed if it covers something.
	fnd := g.Pile(Foundation1C)
	for r := 0; r < 4; r++ {
		fnd.Push(card.New(card.Clubs, card.Rank(r)))
	}
	// Make sure something on the tableau accepts the club 4: a red 5
	// on top of some pile.
	t1 := g.Pile(Tableau1)
	t1.Clear()
	t1.Push(card.New(card.Hearts, 4))
	t1.SetUpCount(1)

	var moves QMoves
	g.movesFromFoundation(&moves, g.MinFoundationPileSize())
	found := false
	for _, mv := range moves {
		if mv.From() == Foundation1C && mv.To() == Tableau1 {
			found = true
		}
	}
	is.True(found)

	// At two cards the pile is within minFoundationSize+2: the reverse
	// of any move back would be dominant, so none is generated.
	fnd.Pop()
	fnd.Pop()
	t1.Clear()
	t1.Push(card.New(card.Hearts, 2))
	t1.SetUpCount(1)
	moves = moves[:0]
	g.movesFromFoundation(&moves, g.MinFoundationPileSize())
	is.Equal(len(moves), 0)
}

func TestXYZTest(t *testing.T) {
	is := is.New(t)
	// X -> Y then Y -> Z with the same card count could have been
	// X -> Z directly.
	prev := NonStockMove(Tableau1, Tableau2, 1, 2)
	trial := NonStockMove(Tableau2, Tableau3, 1, 1)
	is.True(XYZMove(trial, []MoveSpec{prev}))

	// An exact reversal is also caught (X == Z).
	reversal := NonStockMove(Tableau2, Tableau1, 1, 1)
	is.True(XYZMove(reversal, []MoveSpec{prev}))

	// If the prior move flipped a card on pile Z, pile Z changed and
	// the reversal stands.
	flipped := prev
	flipped.SetFlipsTopCard(true)
	is.True(!XYZMove(reversal, []MoveSpec{flipped}))

	// A different card count is not the same set of cards.
	bigger := NonStockMove(Tableau2, Tableau3, 2, 2)
	is.True(!XYZMove(bigger, []MoveSpec{prev}))

	// An intervening move that changed pile Z keeps the trial move.
	intervening := NonStockMove(Tableau4, Tableau3, 1, 3)
	is.True(!XYZMove(trial, []MoveSpec{prev, intervening}))

	// An untouched intervening pile keeps the search going back.
	unrelated := NonStockMove(Tableau5, Tableau6, 1, 3)
	is.True(XYZMove(trial, []MoveSpec{prev, unrelated}))

	// Moves out of the waste or stock are never candidates.
	fromWaste := NonStockMove(Waste, Tableau3, 1, 0)
	is.True(!XYZMove(fromWaste, []MoveSpec{prev}))
}

func TestXYZLadderCountsAsTwoMoves(t *testing.T) {
	is := is.New(t)
	// A ladder move t1 -> t2 exposing a club implies a second move
	// t1 -> clubs foundation. A trial move from the foundation must be
	// tested against that implied move.
	ladder := LadderMove(Tableau1, Tableau2, 1, 2, card.New(card.Clubs, 3))
	trial := NonStockMove(Foundation1C, Tableau4, 1, 0)
	is.True(XYZMove(trial, []MoveSpec{ladder}))
}
