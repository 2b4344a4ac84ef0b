package card

import (
	"fmt"
	"sort"
	"strconv"
)

// Suit is one of the four ranked suits, or Special for Wizards and Jesters.
type Suit string

const (
	NoSuit   Suit = ""
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
	Special  Suit = "special"
)

// Suits lists the ranked suits in deck order.
var Suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// IsRanked reports whether s is one of the four ranked suits.
func (s Suit) IsRanked() bool {
	switch s {
	case Hearts, Diamonds, Clubs, Spades:
		return true
	}
	return false
}

// Rank is 1..13 for suit cards, Jester (0) or Wizard (14) for specials.
type Rank int

const (
	Jester  Rank = 0
	Wizard  Rank = 14
	MinRank Rank = 1
	MaxRank Rank = 13
)

// Card is an immutable playing card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func NewWizard() Card { return Card{Suit: Special, Rank: Wizard} }
func NewJester() Card { return Card{Suit: Special, Rank: Jester} }

func (c Card) IsWizard() bool { return c.Suit == Special && c.Rank == Wizard }
func (c Card) IsJester() bool { return c.Suit == Special && c.Rank == Jester }
func (c Card) IsSpecial() bool { return c.Suit == Special }

// Valid reports whether c is one of the 60 card values of the deck.
func (c Card) Valid() bool {
	if c.Suit == Special {
		return c.Rank == Wizard || c.Rank == Jester
	}
	return c.Suit.IsRanked() && c.Rank >= MinRank && c.Rank <= MaxRank
}

func (c Card) String() string {
	switch {
	case c.IsWizard():
		return "wizard"
	case c.IsJester():
		return "jester"
	case c.Valid():
		return strconv.Itoa(int(c.Rank)) + "-" + string(c.Suit)
	}
	return fmt.Sprintf("invalid(%s,%d)", c.Suit, c.Rank)
}

// Contains reports whether hand holds at least one card equal to c.
func Contains(hand []Card, c Card) bool {
	for _, h := range hand {
		if h == c {
			return true
		}
	}
	return false
}

// Remove returns a copy of hand with one instance of c removed.
func Remove(hand []Card, c Card) []Card {
	out := make([]Card, 0, len(hand))
	removed := false
	for _, h := range hand {
		if !removed && h == c {
			removed = true
			continue
		}
		out = append(out, h)
	}
	return out
}

// SortHand orders a hand by suit, then rank; specials go last.
func SortHand(hand []Card) {
	sort.SliceStable(hand, func(i, j int) bool {
		si, sj := suitOrder(hand[i].Suit), suitOrder(hand[j].Suit)
		if si != sj {
			return si < sj
		}
		return hand[i].Rank < hand[j].Rank
	})
}

func suitOrder(s Suit) int {
	for i, x := range Suits {
		if x == s {
			return i
		}
	}
	return len(Suits)
}
