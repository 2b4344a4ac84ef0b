package bot

import (
	"example.com/wizard/internal/card"
	"example.com/wizard/internal/game"
)

// Simple counts likely winners to bid, then plays high while it still
// needs tricks and sheds low cards once it has enough.
type Simple struct{}

func (Simple) Trump(_ *game.Game, me game.Player) card.Suit {
	best, count := card.Hearts, -1
	for _, s := range card.Suits {
		n := 0
		for _, c := range me.Hand {
			if c.Suit == s {
				n++
			}
		}
		if n > count {
			best, count = s, n
		}
	}
	return best
}

func (Simple) Bid(g *game.Game, me game.Player, allowed []int) int {
	want := 0
	for _, c := range me.Hand {
		switch {
		case c.IsWizard():
			want++
		case c.Suit == g.TrumpSuit && c.Rank >= 10:
			want++
		case c.Suit != g.TrumpSuit && c.Rank == card.MaxRank:
			want++
		}
	}
	return nearest(allowed, want)
}

func (Simple) Play(g *game.Game, me game.Player, playable []card.Card) card.Card {
	needMore := me.Bid() > me.TricksWon
	best := playable[0]
	for _, c := range playable[1:] {
		if needMore && strength(c, g.TrumpSuit) > strength(best, g.TrumpSuit) {
			best = c
		}
		if !needMore && strength(c, g.TrumpSuit) < strength(best, g.TrumpSuit) {
			best = c
		}
	}
	return best
}

// strength orders cards for play decisions: Jesters lowest, then plain
// suit cards, then trumps, then Wizards.
func strength(c card.Card, trump card.Suit) int {
	switch {
	case c.IsJester():
		return 0
	case c.IsWizard():
		return 100
	case c.Suit == trump && trump != card.NoSuit:
		return 50 + int(c.Rank)
	}
	return int(c.Rank)
}

func nearest(allowed []int, want int) int {
	best := allowed[0]
	for _, b := range allowed[1:] {
		if abs(b-want) < abs(best-want) {
			best = b
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
