package game

import "example.com/wizard/internal/card"

// Player is a seat at the table. Only the Engine changes its fields.
type Player struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	IsBot       bool        `json:"isBot"`
	IsConnected bool        `json:"isConnected"`
	Hand        []card.Card `json:"hand"`
	CurrentBid  *int        `json:"currentBid"`
	TricksWon   int         `json:"tricksWon"`
	Score       int         `json:"score"`
	// SittingOut is set for a player who dropped during the current round;
	// they rejoin play at the next deal.
	SittingOut bool `json:"sittingOut"`
}

// Eligible reports whether the player takes turns this round.
func (p Player) Eligible() bool {
	return (p.IsConnected || p.IsBot) && !p.SittingOut
}

// HasBid reports whether the player bid this round.
func (p Player) HasBid() bool { return p.CurrentBid != nil }

// Bid returns the current bid, or 0 before bidding.
func (p Player) Bid() int {
	if p.CurrentBid == nil {
		return 0
	}
	return *p.CurrentBid
}

func (p Player) clone() Player {
	out := p
	out.Hand = append([]card.Card(nil), p.Hand...)
	if p.CurrentBid != nil {
		b := *p.CurrentBid
		out.CurrentBid = &b
	}
	return out
}
