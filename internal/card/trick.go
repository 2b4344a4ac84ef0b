package card

// LedSuit returns the suit players must follow for the cards played so far.
// A Jester lead passes the lead to the next card; a Wizard lead (or an
// all-Jester trick) leaves no suit to follow.
func LedSuit(trick []Card) (Suit, bool) {
	for _, c := range trick {
		if c.IsJester() {
			continue
		}
		if c.IsWizard() {
			return NoSuit, false
		}
		return c.Suit, true
	}
	return NoSuit, false
}

// Winner returns the index of the winning card in trick.
//
// The first Wizard wins outright. Without a Wizard the highest trump wins,
// then the highest card of the led suit. An all-Jester trick goes to the
// first Jester. Returns -1 for an empty trick.
func Winner(trick []Card, trump Suit) int {
	if len(trick) == 0 {
		return -1
	}
	for i, c := range trick {
		if c.IsWizard() {
			return i
		}
	}

	best := -1
	if trump.IsRanked() {
		for i, c := range trick {
			if c.Suit == trump && (best < 0 || c.Rank > trick[best].Rank) {
				best = i
			}
		}
		if best >= 0 {
			return best
		}
	}

	led, ok := LedSuit(trick)
	if !ok {
		return 0
	}
	for i, c := range trick {
		if c.Suit == led && (best < 0 || c.Rank > trick[best].Rank) {
			best = i
		}
	}
	return best
}

// Playable reports whether c may be played from hand onto trick.
// Wizards and Jesters are always playable; otherwise the led suit must be
// followed when the hand holds it.
func Playable(hand []Card, trick []Card, c Card) bool {
	if c.IsSpecial() {
		return true
	}
	led, ok := LedSuit(trick)
	if !ok || c.Suit == led {
		return true
	}
	for _, h := range hand {
		if h.Suit == led {
			return false
		}
	}
	return true
}

// PlayableCards filters hand down to the cards that may be played.
func PlayableCards(hand []Card, trick []Card) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if Playable(hand, trick, c) {
			out = append(out, c)
		}
	}
	return out
}

// TrumpFor resolves the flipped trump card. A Jester means no trump; a
// Wizard means the dealer picks (choose == true).
func TrumpFor(flipped Card) (trump Suit, choose bool) {
	switch {
	case flipped.IsWizard():
		return NoSuit, true
	case flipped.IsJester():
		return NoSuit, false
	}
	return flipped.Suit, false
}
