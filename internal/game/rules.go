package game

import (
	"fmt"

	"example.com/wizard/internal/card"
)

// ForbiddenBidRule selects which bids the last bidder may not make.
type ForbiddenBidRule string

const (
	// ForbiddenBidNone allows every in-range bid.
	ForbiddenBidNone ForbiddenBidRule = "none"
	// ForbiddenBidLastBidder stops the last bidder from making the bid total
	// equal the number of tricks in the round.
	ForbiddenBidLastBidder ForbiddenBidRule = "last_bidder"
)

// HostTransferPolicy selects the new host when the host leaves.
type HostTransferPolicy string

const (
	// HostTransferNextSeat picks the next connected human clockwise from the old host.
	HostTransferNextSeat HostTransferPolicy = "next_seat"
	// HostTransferLongestSeated picks the first connected human in seat order.
	HostTransferLongestSeated HostTransferPolicy = "longest_seated"
)

const (
	AbsoluteMinPlayers = 3
	AbsoluteMaxPlayers = 6
)

// Rules is the per-game configuration chosen at lobby creation.
type Rules struct {
	MinPlayers   int                `json:"minPlayers"`
	MaxPlayers   int                `json:"maxPlayers"`
	MaxRounds    int                `json:"maxRounds"` // 0 => as many as the deck allows
	ForbiddenBid ForbiddenBidRule   `json:"forbiddenBid"`
	HostTransfer HostTransferPolicy `json:"hostTransfer"`
	// AutoAdvance moves ROUND_END straight on to the next deal.
	// When false the host calls EndRound.
	AutoAdvance bool `json:"autoAdvance"`
}

func DefaultRules() Rules {
	return Rules{
		MinPlayers:   AbsoluteMinPlayers,
		MaxPlayers:   AbsoluteMaxPlayers,
		ForbiddenBid: ForbiddenBidNone,
		HostTransfer: HostTransferNextSeat,
		AutoAdvance:  true,
	}
}

func (r Rules) Validate() error {
	if r.MinPlayers < AbsoluteMinPlayers {
		return fmt.Errorf("min players %d below %d", r.MinPlayers, AbsoluteMinPlayers)
	}
	if r.MaxPlayers > AbsoluteMaxPlayers {
		return fmt.Errorf("max players %d above %d", r.MaxPlayers, AbsoluteMaxPlayers)
	}
	if r.MinPlayers > r.MaxPlayers {
		return fmt.Errorf("min players %d above max players %d", r.MinPlayers, r.MaxPlayers)
	}
	if r.MaxRounds < 0 {
		return fmt.Errorf("max rounds %d is negative", r.MaxRounds)
	}
	switch r.ForbiddenBid {
	case ForbiddenBidNone, ForbiddenBidLastBidder:
	default:
		return fmt.Errorf("unknown forbidden bid rule %q", r.ForbiddenBid)
	}
	switch r.HostTransfer {
	case HostTransferNextSeat, HostTransferLongestSeated:
	default:
		return fmt.Errorf("unknown host transfer policy %q", r.HostTransfer)
	}
	return nil
}

// RoundsFor is the number of rounds played by n players.
func (r Rules) RoundsFor(n int) int {
	if n <= 0 {
		return 0
	}
	limit := card.DeckSize / n
	if r.MaxRounds > 0 && r.MaxRounds < limit {
		return r.MaxRounds
	}
	return limit
}
