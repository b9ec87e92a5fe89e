package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/stampeder/bonanza/card"
)

// MoveSpec directs a single step of play. Game.AvailableMoves creates
// them.
//
// A stock MoveSpec draws DrawCount cards (possibly negative, meaning
// undraw) from the stock to the waste pile and then moves one card from
// the waste to the To pile. Only stock MoveSpecs draw from the stock.
//
// Game.UnMakeMove cannot infer the from-pile's face-up count before a
// tableau move (because of flips), so non-stock MoveSpecs carry it.
//
// A ladder move is a tableau-to-tableau move made to expose a card that
// can be moved to the foundation; the MoveSpec makes that move and then
// moves the exposed card to the foundation pile for its suit. It counts
// as two moves. For a ladder move, FlipsTopCard refers to the follow-up
// foundation move, not the tableau-to-tableau move; the card a ladder
// move sends to the foundation is always face-up beforehand. It is
// called a ladder move after the tactic of climbing a sequence of such
// moves to dislodge a buried card near the end of the game.
//
// A compile-time-safe sum type would double the footprint of the move
// tree and the fringe, so MoveSpec stays four bytes and is validated at
// run time.
//
// Layout:
//
//	from  1 byte   source pile code (Stock marks a stock MoveSpec)
//	meta  1 byte   bits 0-3 to-pile, 4-5 ladder suit, 6 recycle, 7 flip
//	n     1 byte   user moves this spec counts for
//	arg   1 byte   stock: signed draw count
//	               non-stock: cards moved (low nibble), prior up count (high)
type MoveSpec struct {
	from uint8
	meta uint8
	n    uint8
	arg  uint8
}

const (
	metaToMask    = 0x0f
	metaSuitShift = 4
	metaRecycle   = 0x40
	metaFlip      = 0x80
)

// StockMove builds a MoveSpec that draws from the stock. Its cumulative
// effect is to draw 'draw' cards (possibly negative) from stock to
// waste and then move the top waste card to 'to'.
func StockMove(to PileCode, nMoves int, draw int, recycle bool) MoveSpec {
	m := MoveSpec{
		from: uint8(Stock),
		meta: uint8(to),
		n:    uint8(nMoves),
		arg:  uint8(int8(draw)),
	}
	if recycle {
		m.meta |= metaRecycle
	}
	return m
}

// NonStockMove builds a one-move MoveSpec between non-stock piles.
func NonStockMove(from, to PileCode, n int, fromUpCount int) MoveSpec {
	return MoveSpec{
		from: uint8(from),
		meta: uint8(to),
		n:    1,
		arg:  uint8(n) | uint8(fromUpCount)<<4,
	}
}

// LadderMove builds a two-move MoveSpec: move n cards from one tableau
// pile to another, then move the newly exposed ladderCard to its
// foundation pile.
func LadderMove(from, to PileCode, n int, fromUpCount int, ladderCard card.Card) MoveSpec {
	m := NonStockMove(from, to, n, fromUpCount)
	m.n = 2
	m.meta |= uint8(ladderCard.Suit()) << metaSuitShift
	return m
}

// IsDefault reports the zero sentinel used for the root of the move
// tree.
func (m MoveSpec) IsDefault() bool { return m.from == m.meta&metaToMask }

func (m MoveSpec) IsStockMove() bool { return PileCode(m.from) == Stock }
func (m MoveSpec) From() PileCode    { return PileCode(m.from) }
func (m MoveSpec) To() PileCode      { return PileCode(m.meta & metaToMask) }

// NCards returns the number of cards the move transfers.
func (m MoveSpec) NCards() int {
	if m.IsStockMove() {
		return 1
	}
	return int(m.arg & 0xf)
}

// FromUpCount returns the from pile's face-up count before the move.
func (m MoveSpec) FromUpCount() int { return int(m.arg >> 4) }

// NMoves returns the number of user moves the spec counts for: 2 for a
// ladder move, 1+draw-steps for a stock move, otherwise 1.
func (m MoveSpec) NMoves() int { return int(m.n) }

// DrawCount returns a stock move's draw count; negative means undraw.
func (m MoveSpec) DrawCount() int { return int(int8(m.arg)) }

func (m MoveSpec) LadderSuit() card.Suit {
	return card.Suit((m.meta >> metaSuitShift) & 3)
}

func (m MoveSpec) LadderPileCode() PileCode {
	return FoundationBase + PileCode(m.LadderSuit())
}

func (m MoveSpec) IsLadderMove() bool {
	return IsTableau(m.From()) && m.n == 2
}

func (m MoveSpec) Recycle() bool      { return m.meta&metaRecycle != 0 }
func (m MoveSpec) FlipsTopCard() bool { return m.meta&metaFlip != 0 }

func (m *MoveSpec) SetFlipsTopCard(f bool) {
	if f {
		m.meta |= metaFlip
	} else {
		m.meta &^= metaFlip
	}
}

// String renders a move for debugging: "+3d2>cb" is a stock move worth
// 3 user moves drawing 2 cards and landing on the club foundation;
// "t1>t5x2u3" moves 2 cards from tableau 1 to tableau 5 with a prior
// up count of 3.
func (m MoveSpec) String() string {
	var b strings.Builder
	if m.IsStockMove() {
		fmt.Fprintf(&b, "+%dd%d", m.NMoves(), m.DrawCount())
		if m.Recycle() {
			b.WriteByte('c')
		}
		fmt.Fprintf(&b, ">%s", m.To())
	} else {
		fmt.Fprintf(&b, "%s>%s", m.From(), m.To())
		if n := m.NCards(); n != 1 {
			fmt.Fprintf(&b, "x%d", n)
		}
		if up := m.FromUpCount(); up != 0 {
			fmt.Fprintf(&b, "u%d", up)
		}
	}
	return b.String()
}

// SeqString renders a sequence of moves for debugging.
func SeqString(moves []MoveSpec) string {
	return "(" + strings.Join(lo.Map(moves, func(m MoveSpec, _ int) string {
		return m.String()
	}), ", ") + ")"
}

// MoveCount returns the number of user moves in a sequence of
// MoveSpecs.
func MoveCount(moves []MoveSpec) int {
	count := 0
	for _, m := range moves {
		count += m.NMoves()
	}
	return count
}

// NumRecycles returns the number of stock recycles in a sequence.
func NumRecycles(moves []MoveSpec) int {
	return lo.CountBy(moves, MoveSpec.Recycle)
}

// QMoves collects freshly built MoveSpecs in AvailableMoves.
type QMoves []MoveSpec

func (q *QMoves) AddStockMove(to PileCode, nMoves, draw int, recycle bool) {
	*q = append(*q, StockMove(to, nMoves, draw, recycle))
}

func (q *QMoves) AddNonStockMove(from, to PileCode, n, fromUpCount int) {
	*q = append(*q, NonStockMove(from, to, n, fromUpCount))
}

func (q *QMoves) AddLadderMove(from, to PileCode, n, fromUpCount int, ladderCard card.Card) {
	*q = append(*q, LadderMove(from, to, n, fromUpCount, ladderCard))
}

// last returns a pointer to the most recently added move.
func (q QMoves) last() *MoveSpec { return &q[len(q)-1] }
