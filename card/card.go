package card

import (
	"fmt"
	"strings"
)

const (
	PerSuit  = 13
	NumSuits = 4
	PerDeck  = PerSuit * NumSuits
)

// Suit is one of the four card suits, in the order clubs, diamonds,
// spades, hearts.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Spades
	Hearts
)

// Rank runs from Ace (0) to King (12).
type Rank uint8

const (
	Ace  Rank = 0
	King Rank = 12
)

// Card is a playing card packed into one byte: suit in the high nibble,
// rank in the low nibble.
type Card uint8

func New(suit Suit, rank Rank) Card {
	return Card(uint8(suit)<<4 | uint8(rank))
}

// FromValue makes a Card from a deck ordinal in 0..51, where ordinals
// 0..12 are the clubs ace through king, 13..25 the diamonds, and so on.
func FromValue(value uint8) Card {
	return New(Suit(value/PerSuit), Rank(value%PerSuit))
}

func (c Card) Suit() Suit { return Suit(c >> 4) }
func (c Card) Rank() Rank { return Rank(c & 0xf) }

// Value returns the deck ordinal of the card (0..51).
func (c Card) Value() uint8 { return uint8(c.Suit())*PerSuit + uint8(c.Rank()) }

// IsMajor is 1 for hearts and spades, 0 for the minor suits.
func (c Card) IsMajor() uint8 { return uint8(c.Suit()) >> 1 }

// OddRed is true for cards that fit on tableau stacks where the
// odd-ranked cards are red.
func (c Card) OddRed() uint8 { return (uint8(c.Rank()) & 1) ^ (uint8(c.Suit()) & 1) }

// Covers reports whether this card can be placed on o in a tableau pile:
// one rank lower and the opposite color.
func (c Card) Covers(o Card) bool {
	return c.Rank()+1 == o.Rank() && c.OddRed() == o.OddRed()
}

const suitChars = "cdsh"
const rankChars = "a23456789tjqk"

// String returns the canonical two-character form, e.g. "d5" or "ca".
func (c Card) String() string {
	return string(suitChars[c.Suit()]) + string(rankChars[c.Rank()])
}

// FromString parses a card from a string like "ah", "s8", "D10", or "tc"
// (same as "c10"). The suit may come before or after the rank, letters may
// be in either case, and "10" is accepted as an alias for "t". Characters
// that cannot appear in a valid card string are ignored.
func FromString(s string) (Card, error) {
	filtered := filterTo(strings.ToLower(s), suitChars+rankChars+"10")
	if len(filtered) != 2 && len(filtered) != 3 {
		return 0, fmt.Errorf("cannot parse card from %q", s)
	}
	var suit Suit
	var rankStr string
	if i := strings.IndexByte(suitChars, filtered[0]); i >= 0 {
		// suit first
		suit = Suit(i)
		rankStr = filtered[1:]
	} else if i := strings.IndexByte(suitChars, filtered[len(filtered)-1]); i >= 0 {
		// suit last
		suit = Suit(i)
		rankStr = filtered[:len(filtered)-1]
	} else {
		return 0, fmt.Errorf("no suit in card string %q", s)
	}
	if rankStr == "10" {
		rankStr = "t"
	}
	if len(rankStr) != 1 {
		return 0, fmt.Errorf("bad rank in card string %q", s)
	}
	ri := strings.IndexByte(rankChars, rankStr[0])
	if ri < 0 {
		return 0, fmt.Errorf("bad rank in card string %q", s)
	}
	return New(suit, Rank(ri)), nil
}

// filterTo returns only the characters of in that appear in keep.
func filterTo(in, keep string) string {
	var b strings.Builder
	for i := 0; i < len(in); i++ {
		if strings.IndexByte(keep, in[i]) >= 0 {
			b.WriteByte(in[i])
		}
	}
	return b.String()
}
