package card

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(s Suit, r Rank) Card { return Card{Suit: s, Rank: r} }

func TestNewDeck_Composition(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	perSuit := map[Suit]int{}
	wizards, jesters := 0, 0
	seen := map[Card]int{}
	for _, card := range deck {
		require.True(t, card.Valid(), "invalid card %v", card)
		seen[card]++
		switch {
		case card.IsWizard():
			wizards++
		case card.IsJester():
			jesters++
		default:
			perSuit[card.Suit]++
		}
	}
	assert.Equal(t, 4, wizards)
	assert.Equal(t, 4, jesters)
	for _, s := range Suits {
		assert.Equal(t, 13, perSuit[s], "suit %s", s)
	}
	assert.Equal(t, 4, seen[NewWizard()])
	assert.Equal(t, 1, seen[c(Hearts, 7)])
}

func TestShuffledDeck_DeterministicForSeed(t *testing.T) {
	d1 := NewShuffledDeck(rand.New(rand.NewSource(42)))
	d2 := NewShuffledDeck(rand.New(rand.NewSource(42)))
	d3 := NewShuffledDeck(rand.New(rand.NewSource(43)))

	a, b, other := d1.Draw(60), d2.Draw(60), d3.Draw(60)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.ElementsMatch(t, NewDeck(), a)
	assert.Equal(t, 0, d1.Remaining())
}

func TestDeck_DrawPastEnd(t *testing.T) {
	d := NewShuffledDeck(rand.New(rand.NewSource(1)))
	require.Len(t, d.Draw(58), 58)
	assert.Len(t, d.Draw(5), 2)
	assert.Empty(t, d.Draw(1))
}

func TestValid(t *testing.T) {
	cases := []struct {
		card Card
		ok   bool
	}{
		{c(Hearts, 1), true},
		{c(Spades, 13), true},
		{c(Clubs, 0), false},
		{c(Clubs, 14), false},
		{NewWizard(), true},
		{NewJester(), true},
		{c(Special, 5), false},
		{c("stars", 3), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.card.Valid(), "%v", tc.card)
	}
}

func TestRemove_OnlyOneInstance(t *testing.T) {
	hand := []Card{NewWizard(), c(Hearts, 3), NewWizard()}
	out := Remove(hand, NewWizard())
	assert.Equal(t, []Card{c(Hearts, 3), NewWizard()}, out)
	assert.Len(t, hand, 3, "input must not be modified")
}

func TestWinner(t *testing.T) {
	cases := []struct {
		name  string
		trick []Card
		trump Suit
		want  int
	}{
		{"highest led suit", []Card{c(Hearts, 5), c(Hearts, 11), c(Clubs, 13)}, Spades, 1},
		{"trump beats led suit", []Card{c(Hearts, 13), c(Spades, 2), c(Hearts, 12)}, Spades, 1},
		{"highest trump", []Card{c(Hearts, 13), c(Spades, 2), c(Spades, 9)}, Spades, 2},
		{"wizard beats trump and led", []Card{c(Hearts, 13), c(Spades, 13), NewWizard(), c(Hearts, 1)}, Spades, 2},
		{"first wizard wins", []Card{c(Hearts, 3), NewWizard(), NewWizard()}, Hearts, 1},
		{"all jesters first wins", []Card{NewJester(), NewJester(), NewJester()}, Hearts, 0},
		{"jester loses", []Card{NewJester(), c(Clubs, 2), c(Clubs, 4)}, Hearts, 2},
		{"jester lead passes lead suit", []Card{NewJester(), c(Clubs, 2), c(Hearts, 13)}, NoSuit, 1},
		{"off suit never wins", []Card{c(Diamonds, 2), c(Hearts, 13)}, NoSuit, 0},
		{"empty", nil, Hearts, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Winner(tc.trick, tc.trump))
		})
	}
}

func TestWinner_WizardWinsRegardlessOfOthers(t *testing.T) {
	led, trump := Hearts, Spades
	for r := MinRank; r <= MaxRank; r++ {
		trick := []Card{c(led, r), c(trump, MaxRank), NewWizard(), c(trump, r)}
		assert.Equal(t, 2, Winner(trick, trump))
	}
}

func TestLedSuit(t *testing.T) {
	s, ok := LedSuit([]Card{NewJester(), c(Clubs, 4)})
	assert.True(t, ok)
	assert.Equal(t, Clubs, s)

	_, ok = LedSuit([]Card{NewWizard(), c(Clubs, 4)})
	assert.False(t, ok)

	_, ok = LedSuit([]Card{NewJester()})
	assert.False(t, ok)
}

func TestPlayable(t *testing.T) {
	hand := []Card{c(Hearts, 2), c(Clubs, 9), NewJester(), NewWizard()}

	assert.True(t, Playable(hand, nil, c(Clubs, 9)), "anything leads")
	assert.True(t, Playable(hand, []Card{c(Hearts, 10)}, c(Hearts, 2)))
	assert.False(t, Playable(hand, []Card{c(Hearts, 10)}, c(Clubs, 9)), "must follow hearts")
	assert.True(t, Playable(hand, []Card{c(Hearts, 10)}, NewJester()))
	assert.True(t, Playable(hand, []Card{c(Hearts, 10)}, NewWizard()))
	assert.True(t, Playable(hand, []Card{c(Spades, 10)}, c(Clubs, 9)), "void in spades")
	assert.True(t, Playable(hand, []Card{NewWizard()}, c(Clubs, 9)), "wizard lead frees suit")

	assert.ElementsMatch(t,
		[]Card{c(Hearts, 2), NewJester(), NewWizard()},
		PlayableCards(hand, []Card{c(Hearts, 10)}))
}

func TestTrumpFor(t *testing.T) {
	s, choose := TrumpFor(c(Diamonds, 4))
	assert.Equal(t, Diamonds, s)
	assert.False(t, choose)

	s, choose = TrumpFor(NewJester())
	assert.Equal(t, NoSuit, s)
	assert.False(t, choose)

	_, choose = TrumpFor(NewWizard())
	assert.True(t, choose)
}

func TestSortHand(t *testing.T) {
	hand := []Card{NewWizard(), c(Spades, 2), c(Hearts, 9), c(Hearts, 1)}
	SortHand(hand)
	assert.Equal(t, []Card{c(Hearts, 1), c(Hearts, 9), c(Spades, 2), NewWizard()}, hand)
}
