package game

// PlaceBid records the bid of the player holding the turn. The last bid of
// the round starts trick play.
func (e *Engine) PlaceBid(g *Game, playerID string, bid int) (*Game, []Event, error) {
	if g.Phase != PhaseBidding {
		return nil, nil, invalidPhase(PhaseBidding, g.Phase)
	}
	idx := g.indexOf(playerID)
	if idx < 0 || idx != g.TurnIndex {
		return nil, nil, notYourTurn(playerID)
	}
	if g.AwaitingTrump {
		return nil, nil, withPlayer(ErrTrumpSelectionPending, playerID)
	}
	if bid < 0 || bid > g.CardsThisRound() {
		return nil, nil, invalidBid(playerID, bid, g.CardsThisRound())
	}
	if forbidden, ok := forbiddenBidFor(g, idx); ok && bid == forbidden {
		return nil, nil, forbiddenBid(playerID, bid, g.CardsThisRound())
	}

	next, events := e.beginProgress(g)
	b := bid
	next.Players[idx].CurrentBid = &b

	placed := BidPlaced{Meta: e.meta(EventBidPlaced), PlayerID: playerID, Bid: bid}
	if next.biddingComplete() {
		events = append(events, placed)
		return next, append(events, e.beginPlay(next)...), nil
	}
	next.TurnIndex = next.nextEligible(idx)
	placed.NextPlayerID = next.CurrentPlayerID()
	return next, append(events, placed), nil
}

// AllowedBids lists the bids playerID could place right now, or nil if it is
// not their turn to bid.
func AllowedBids(g *Game, playerID string) []int {
	if g.Phase != PhaseBidding || g.AwaitingTrump {
		return nil
	}
	idx := g.indexOf(playerID)
	if idx < 0 || idx != g.TurnIndex {
		return nil
	}
	forbidden, ok := forbiddenBidFor(g, idx)
	bids := make([]int, 0, g.CardsThisRound()+1)
	for b := 0; b <= g.CardsThisRound(); b++ {
		if ok && b == forbidden {
			continue
		}
		bids = append(bids, b)
	}
	return bids
}

// forbiddenBidFor returns the bid seat idx may not make under the game's
// rules. Only the last player still to bid is ever restricted.
func forbiddenBidFor(g *Game, idx int) (int, bool) {
	if g.Rules.ForbiddenBid != ForbiddenBidLastBidder {
		return 0, false
	}
	sum := 0
	for i, p := range g.Players {
		if !p.Eligible() {
			continue
		}
		if !p.HasBid() {
			if i != idx {
				return 0, false
			}
			continue
		}
		sum += p.Bid()
	}
	forbidden := g.CardsThisRound() - sum
	if forbidden < 0 {
		return 0, false
	}
	return forbidden, true
}
