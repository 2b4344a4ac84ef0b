package game

import "example.com/wizard/internal/card"

// PlayCard puts a card from the player's hand into the current trick. The
// last card of a trick resolves it, and the last trick scores the round.
func (e *Engine) PlayCard(g *Game, playerID string, c card.Card) (*Game, []Event, error) {
	if g.Phase != PhasePlaying {
		return nil, nil, invalidPhase(PhasePlaying, g.Phase)
	}
	idx := g.indexOf(playerID)
	if idx < 0 || idx != g.TurnIndex {
		return nil, nil, notYourTurn(playerID)
	}
	if !c.Valid() {
		return nil, nil, cardError(ErrInvalidCardValue, playerID, c)
	}
	hand := g.Players[idx].Hand
	if !card.Contains(hand, c) {
		return nil, nil, cardError(ErrCardNotFound, playerID, c)
	}
	trick := g.trickCards()
	if !card.Playable(hand, trick, c) {
		err := cardError(ErrCardNotPlayable, playerID, c)
		err.LedSuit, _ = card.LedSuit(trick)
		return nil, nil, err
	}

	next, events := e.beginProgress(g)
	next.Players[idx].Hand = card.Remove(next.Players[idx].Hand, c)
	next.CurrentTrick = append(next.CurrentTrick, Play{PlayerID: playerID, Card: c})

	played := CardPlayed{Meta: e.meta(EventCardPlayed), PlayerID: playerID, Card: c}
	if next.trickComplete() {
		events = append(events, played)
		return next, append(events, e.finishTrick(next)...), nil
	}
	next.TurnIndex = next.nextEligible(idx)
	played.NextPlayerID = next.CurrentPlayerID()
	return next, append(events, played), nil
}

// PlayableCards lists the cards playerID may play right now, or nil if it
// is not their turn.
func PlayableCards(g *Game, playerID string) []card.Card {
	if g.Phase != PhasePlaying {
		return nil
	}
	idx := g.indexOf(playerID)
	if idx < 0 || idx != g.TurnIndex {
		return nil
	}
	return card.PlayableCards(g.Players[idx].Hand, g.trickCards())
}
