package card

import (
	"testing"

	"github.com/matryer/is"
)

func TestCardPacking(t *testing.T) {
	is := is.New(t)
	for v := uint8(0); v < PerDeck; v++ {
		c := FromValue(v)
		is.Equal(c.Value(), v)
	}
	c := New(Hearts, King)
	is.Equal(c.Suit(), Hearts)
	is.Equal(c.Rank(), King)
	is.Equal(c.Value(), uint8(51))
}

func TestIsMajor(t *testing.T) {
	is := is.New(t)
	is.Equal(New(Clubs, Ace).IsMajor(), uint8(0))
	is.Equal(New(Diamonds, 5).IsMajor(), uint8(0))
	is.Equal(New(Spades, 5).IsMajor(), uint8(1))
	is.Equal(New(Hearts, King).IsMajor(), uint8(1))
}

func TestCovers(t *testing.T) {
	is := is.New(t)
	// Red six on black seven.
	is.True(New(Diamonds, 5).Covers(New(Spades, 6)))
	is.True(New(Hearts, 5).Covers(New(Clubs, 6)))
	// Same color never covers.
	is.True(!New(Spades, 5).Covers(New(Clubs, 6)))
	// Wrong rank difference.
	is.True(!New(Diamonds, 4).Covers(New(Spades, 6)))
	is.True(!New(Diamonds, 7).Covers(New(Spades, 6)))
}

type parseTestStruct struct {
	input string
	card  Card
	ok    bool
}

var parseTests = []parseTestStruct{
	{"ah", New(Hearts, Ace), true},
	{"ha", New(Hearts, Ace), true},
	{"s8", New(Spades, 7), true},
	{"8s", New(Spades, 7), true},
	{"D10", New(Diamonds, 9), true},
	{"10d", New(Diamonds, 9), true},
	{"tc", New(Clubs, 9), true},
	{"c10", New(Clubs, 9), true},
	{"CT", New(Clubs, 9), true},
	{"Kh", New(Hearts, King), true},
	{" q-s ", New(Spades, 11), true},
	{"", 0, false},
	{"h", 0, false},
	{"zz", 0, false},
	{"11h", 0, false},
	{"hh", 0, false},
}

func TestFromString(t *testing.T) {
	for _, tc := range parseTests {
		c, err := FromString(tc.input)
		if tc.ok {
			if err != nil {
				t.Errorf("FromString(%q) unexpected error: %v", tc.input, err)
			} else if c != tc.card {
				t.Errorf("FromString(%q) = %v, expected %v", tc.input, c, tc.card)
			}
		} else if err == nil {
			t.Errorf("FromString(%q) = %v, expected an error", tc.input, c)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	is := is.New(t)
	for v := uint8(0); v < PerDeck; v++ {
		c := FromValue(v)
		parsed, err := FromString(c.String())
		is.NoErr(err)
		is.Equal(parsed, c)
	}
}
