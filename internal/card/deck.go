package card

import "math/rand"

// DeckSize is the number of cards in a full deck.
const DeckSize = 60

// NewDeck returns an ordered 60-card deck: four suits of 1..13, four
// Wizards and four Jesters.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := MinRank; r <= MaxRank; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, NewWizard(), NewJester())
	}
	return deck
}

// Deck is a draw pile.
type Deck struct {
	cards []Card
}

// NewShuffledDeck returns a full deck shuffled with rng.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	cards := NewDeck()
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return &Deck{cards: cards}
}

// Draw takes up to n cards from the top of the deck.
func (d *Deck) Draw(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := append([]Card(nil), d.cards[:n]...)
	d.cards = d.cards[n:]
	return out
}

func (d *Deck) Remaining() int { return len(d.cards) }
