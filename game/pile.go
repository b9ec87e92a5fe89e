package game

import (
	"strings"

	"github.com/stampeder/bonanza/card"
)

const (
	TableauSize    = 7
	FoundationSize = 4
)

// PileCode identifies one of the game's thirteen piles.
type PileCode uint8

const (
	Waste PileCode = iota
	Tableau1
	Tableau2
	Tableau3
	Tableau4
	Tableau5
	Tableau6
	Tableau7
	Stock
	Foundation1C
	Foundation2D
	Foundation3S
	Foundation4H
	PileCount

	TableauBase    = Tableau1
	FoundationBase = Foundation1C
)

var pileNames = [PileCount]string{
	"wa", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "st", "cb", "di", "sp", "ht",
}

func (p PileCode) String() string {
	if p < PileCount {
		return pileNames[p]
	}
	return "??"
}

// FoundationPileCode returns the foundation pile for a suit.
func FoundationPileCode(suit card.Suit) PileCode {
	return FoundationBase + PileCode(suit)
}

func IsTableau(p PileCode) bool {
	return TableauBase <= p && p < TableauBase+TableauSize
}

func IsFoundation(p PileCode) bool {
	return FoundationBase <= p && p < FoundationBase+FoundationSize
}

// maxPileCards bounds any pile after the deal; the stock starts with 24.
const maxPileCards = 24

// Pile is a fixed-capacity ordered pile of cards plus a face-up count.
// The face-up count is meaningful only for tableau piles. The pile top
// is at the highest index. Pile is a pure value type so that games can
// be copied and compared with plain assignment and ==.
type Pile struct {
	code    PileCode
	upCount uint8
	size    uint8
	cards   [maxPileCards]card.Card
}

func NewPile(code PileCode) Pile {
	return Pile{code: code}
}

func (p *Pile) Code() PileCode     { return p.code }
func (p *Pile) Len() int           { return int(p.size) }
func (p *Pile) Empty() bool        { return p.size == 0 }
func (p *Pile) UpCount() int       { return int(p.upCount) }
func (p *Pile) IsTableau() bool    { return IsTableau(p.code) }
func (p *Pile) IsFoundation() bool { return IsFoundation(p.code) }

func (p *Pile) SetUpCount(n int) { p.upCount = uint8(n) }

// IncrUpCount adjusts the face-up count. Only tableau piles track one;
// elsewhere it stays zero so that equal-looking piles compare equal.
func (p *Pile) IncrUpCount(d int) {
	if !p.IsTableau() {
		return
	}
	p.upCount = uint8(int(p.upCount) + d)
}

// Cards returns a read-only view of the pile from bottom to top.
func (p *Pile) Cards() []card.Card { return p.cards[:p.size] }

// At returns the card at index i from the bottom.
func (p *Pile) At(i int) card.Card { return p.cards[i] }

// Back returns the top card. The pile must not be empty.
func (p *Pile) Back() card.Card { return p.cards[p.size-1] }

// FirstUp returns the bottom-most face-up card of a tableau pile.
func (p *Pile) FirstUp() card.Card { return p.cards[int(p.size)-int(p.upCount)] }

func (p *Pile) Push(c card.Card) {
	p.cards[p.size] = c
	p.size++
}

func (p *Pile) Pop() card.Card {
	p.size--
	c := p.cards[p.size]
	p.cards[p.size] = 0 // keep vacated slots zero so piles compare with ==
	return c
}

func (p *Pile) Clear() {
	p.cards = [maxPileCards]card.Card{}
	p.size = 0
	p.upCount = 0
}

// Take moves the top n cards from donor to this pile, preserving order.
func (p *Pile) Take(donor *Pile, n int) {
	start := int(donor.size) - n
	copy(p.cards[p.size:], donor.cards[start:donor.size])
	p.size += uint8(n)
	for i := start; i < int(donor.size); i++ {
		donor.cards[i] = 0
	}
	donor.size = uint8(start)
}

// Draw moves the top n cards from other to this pile one at a time,
// reversing their order. A negative n reverses the transfer.
func (p *Pile) Draw(other *Pile, n int) {
	for ; n > 0; n-- {
		p.Push(other.Pop())
	}
	for ; n < 0; n++ {
		other.Push(p.Pop())
	}
}

// String renders the pile for debugging, marking the face-down/face-up
// boundary of a tableau pile with '|'.
func (p *Pile) String() string {
	var b strings.Builder
	b.WriteString(p.code.String())
	b.WriteByte(':')
	for i := 0; i < int(p.size); i++ {
		sep := byte(' ')
		if p.IsTableau() && i == int(p.size)-int(p.upCount) {
			sep = '|'
		}
		b.WriteByte(sep)
		b.WriteString(p.cards[i].String())
	}
	return b.String()
}
