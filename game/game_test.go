package game

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/stampeder/bonanza/card"
)

func TestDealLayout(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(1), 1, NoRecycleLimit)

	is.Equal(g.WastePile().Len(), 0)
	is.Equal(g.StockPile().Len(), 24)
	for i := 0; i < TableauSize; i++ {
		pile := &g.Tableau()[i]
		is.Equal(pile.Len(), i+1)
		is.Equal(pile.UpCount(), 1)
	}
	for i := 0; i < FoundationSize; i++ {
		is.Equal(g.Foundation()[i].Len(), 0)
	}

	// Pile i's j-th card is deck card j*(7) - j(j-1)/2 + (i-j): round j
	// deals one card to each of piles j..6. Spot-check the first round.
	deck := g.Deck()
	for i := 0; i < TableauSize; i++ {
		is.Equal(g.Tableau()[i].At(0), deck[i])
	}
	// The stock holds the last 24 deck cards in reverse order.
	is.Equal(g.StockPile().At(0), deck[51])
	is.Equal(g.StockPile().Back(), deck[28])
}

func TestDealResets(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(3), 1, NoRecycleLimit)
	fresh := *g

	var history []MoveSpec
	for step := 0; step < 20; step++ {
		avail := g.AvailableMoves(history)
		if len(avail) == 0 {
			break
		}
		mv := avail[0]
		g.MakeMove(mv)
		history = append(history, mv)
	}
	g.Deal()
	is.Equal(g.String(), fresh.String())
	is.Equal(g.RecycleCount(), 0)
}

// observably reports the parts of a game that a move must restore.
type observed struct {
	piles        string
	recycleCount int
	kingSpaces   uint8
}

func observe(g *Game) observed {
	return observed{g.String(), g.RecycleCount(), g.kingSpaces}
}

func TestMakeUnMakeRoundTrip(t *testing.T) {
	for _, seed := range []uint32{1, 2, 19, 100, 4321} {
		for _, draw := range []int{1, 3} {
			g := NewGame(card.NumberedDeal(seed), draw, NoRecycleLimit)
			var history []MoveSpec
			for step := 0; step < 300; step++ {
				avail := g.AvailableMoves(history)
				if len(avail) == 0 {
					break
				}
				for _, mv := range avail {
					if !g.IsValid(mv) {
						t.Fatalf("seed %d draw %d: generated invalid move %s in\n%s",
							seed, draw, mv, g)
					}
					before := *g
					g.MakeMove(mv)
					g.UnMakeMove(mv)
					if *g != before {
						t.Fatalf("seed %d draw %d: move %s did not restore the game bit-for-bit:\n%s",
							seed, draw, mv, g)
					}
				}
				mv := avail[frand.Intn(len(avail))]
				g.MakeMove(mv)
				history = append(history, mv)
			}
		}
	}
}

func TestMakeUnMakeWholeSequence(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(7), 1, NoRecycleLimit)
	start := observe(g)

	var history []MoveSpec
	for step := 0; step < 100; step++ {
		avail := g.AvailableMoves(history)
		if len(avail) == 0 {
			break
		}
		mv := avail[frand.Intn(len(avail))]
		g.MakeMove(mv)
		history = append(history, mv)
	}
	for i := len(history) - 1; i >= 0; i-- {
		g.UnMakeMove(history[i])
	}
	is.Equal(observe(g), start)
}

func TestKingSpacesTracksClearedColumns(t *testing.T) {
	g := NewGame(card.NumberedDeal(11), 1, NoRecycleLimit)
	var history []MoveSpec
	for step := 0; step < 400; step++ {
		// kingSpaces must always equal empty columns plus columns with
		// a king at the base.
		want := uint8(0)
		for i := range g.Tableau() {
			pile := &g.Tableau()[i]
			if pile.Empty() || pile.At(0).Rank() == card.King {
				want++
			}
		}
		if g.kingSpaces != want {
			t.Fatalf("kingSpaces %d, expected %d after %s\n%s",
				g.kingSpaces, want, SeqString(history), g)
		}
		avail := g.AvailableMoves(history)
		if len(avail) == 0 {
			break
		}
		mv := avail[frand.Intn(len(avail))]
		g.MakeMove(mv)
		history = append(history, mv)
	}
}

func TestGameOver(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(1), 1, NoRecycleLimit)
	is.True(!g.GameOver())

	// Fill the foundations by hand.
	g.WastePile().Clear()
	g.StockPile().Clear()
	for i := range g.Tableau() {
		g.Tableau()[i].Clear()
	}
	for s := 0; s < FoundationSize; s++ {
		pile := g.Pile(FoundationBase + PileCode(s))
		pile.Clear()
		for r := 0; r < card.PerSuit; r++ {
			pile.Push(card.New(card.Suit(s), card.Rank(r)))
		}
	}
	is.True(g.GameOver())
	is.Equal(g.MinFoundationPileSize(), card.PerSuit)
	is.Equal(len(g.AvailableMoves(nil)), 0)
}

func TestIsValid(t *testing.T) {
	is := is.New(t)
	g := NewGame(card.NumberedDeal(1), 1, NoRecycleLimit)

	// A stock move needs enough stock cards for its draw.
	is.True(!g.IsValid(StockMove(Tableau1, 26, 25, false)))
	// Moving zero cards is never valid.
	is.True(!g.IsValid(NonStockMove(Tableau2, Tableau3, 0, 1)))
	// Moving from an empty waste pile is never valid.
	is.True(!g.IsValid(NonStockMove(Waste, Tableau1, 1, 0)))

	// Every generated move must be valid (also asserted during the
	// round-trip playouts).
	for _, mv := range g.AvailableMoves(nil) {
		is.True(g.IsValid(mv))
	}
}
