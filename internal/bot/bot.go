// Package bot decides moves for bot seats. Bots act through the same
// engine operations as humans.
package bot

import (
	"fmt"

	"example.com/wizard/internal/card"
	"example.com/wizard/internal/game"
)

type Kind string

const (
	KindTrump Kind = "trump"
	KindBid   Kind = "bid"
	KindPlay  Kind = "play"
)

// Move is one decision made by a Brain.
type Move struct {
	Kind Kind
	Suit card.Suit
	Bid  int
	Card card.Card
}

// Brain is a bot strategy.
type Brain interface {
	Trump(g *game.Game, me game.Player) card.Suit
	Bid(g *game.Game, me game.Player, allowed []int) int
	Play(g *game.Game, me game.Player, playable []card.Card) card.Card
}

// Pending returns the bot that must act next, if any. A pending trump
// choice by a bot dealer comes before any bid.
func Pending(g *game.Game) (string, bool) {
	switch g.Phase {
	case game.PhaseBidding:
		if g.AwaitingTrump {
			p, _, ok := g.Player(g.DealerID())
			return p.ID, ok && p.IsBot
		}
	case game.PhasePlaying:
	default:
		return "", false
	}
	p, _, ok := g.Player(g.CurrentPlayerID())
	return p.ID, ok && p.IsBot
}

// Decide asks brain for botID's move in g.
func Decide(brain Brain, g *game.Game, botID string) (Move, error) {
	me, _, ok := g.Player(botID)
	if !ok {
		return Move{}, fmt.Errorf("bot %s not seated", botID)
	}
	switch {
	case g.Phase == game.PhaseBidding && g.AwaitingTrump:
		return Move{Kind: KindTrump, Suit: brain.Trump(g, me)}, nil
	case g.Phase == game.PhaseBidding:
		allowed := game.AllowedBids(g, botID)
		if len(allowed) == 0 {
			return Move{}, fmt.Errorf("bot %s has no bid to make", botID)
		}
		return Move{Kind: KindBid, Bid: brain.Bid(g, me, allowed)}, nil
	case g.Phase == game.PhasePlaying:
		playable := game.PlayableCards(g, botID)
		if len(playable) == 0 {
			return Move{}, fmt.Errorf("bot %s has no card to play", botID)
		}
		return Move{Kind: KindPlay, Card: brain.Play(g, me, playable)}, nil
	}
	return Move{}, fmt.Errorf("bot %s cannot act in phase %s", botID, g.Phase)
}

// Apply performs mv for botID through the engine.
func Apply(e *game.Engine, g *game.Game, botID string, mv Move) (*game.Game, []game.Event, error) {
	switch mv.Kind {
	case KindTrump:
		return e.SelectTrump(g, botID, mv.Suit)
	case KindBid:
		return e.PlaceBid(g, botID, mv.Bid)
	case KindPlay:
		return e.PlayCard(g, botID, mv.Card)
	}
	return nil, nil, fmt.Errorf("unknown bot move %q", mv.Kind)
}

// Step lets the pending bot act once. ok is false when no bot is due.
func Step(e *game.Engine, brain Brain, g *game.Game) (next *game.Game, events []game.Event, ok bool, err error) {
	id, due := Pending(g)
	if !due {
		return g, nil, false, nil
	}
	mv, err := Decide(brain, g, id)
	if err != nil {
		return nil, nil, true, err
	}
	next, events, err = Apply(e, g, id, mv)
	return next, events, true, err
}
