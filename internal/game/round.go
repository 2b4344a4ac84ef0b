package game

import (
	"sort"

	"example.com/wizard/internal/card"
)

// StartGame moves the lobby into the first round.
func (e *Engine) StartGame(g *Game, playerID string) (*Game, []Event, error) {
	if g.Phase != PhaseWaiting {
		return nil, nil, withPlayer(ErrGameAlreadyStarted, playerID)
	}
	if playerID == "" || playerID != g.HostID {
		return nil, nil, notHost(playerID)
	}
	if len(g.Players) < g.Rules.MinPlayers {
		return nil, nil, notEnoughPlayers(len(g.Players), g.Rules.MinPlayers)
	}

	next := g.Clone()
	next.MaxRounds = next.Rules.RoundsFor(len(next.Players))
	next.Round = 0
	next.Dealer = len(next.Players) - 1
	next.Previous = nil
	next.UndoRequest = nil

	ids := make([]string, len(next.Players))
	for i, p := range next.Players {
		ids[i] = p.ID
	}
	events := []Event{GameStarted{
		Meta:      e.meta(EventGameStarted),
		GameID:    next.ID,
		PlayerIDs: ids,
		MaxRounds: next.MaxRounds,
	}}
	events = append(events, e.deal(next)...)
	return next, events, nil
}

// SelectTrump lets the dealer name trump after a Wizard was flipped.
func (e *Engine) SelectTrump(g *Game, playerID string, suit card.Suit) (*Game, []Event, error) {
	if g.Phase != PhaseBidding {
		return nil, nil, invalidPhase(PhaseBidding, g.Phase)
	}
	idx := g.indexOf(playerID)
	if idx < 0 {
		return nil, nil, playerNotFound(playerID)
	}
	if !g.AwaitingTrump {
		return nil, nil, withPlayer(ErrTrumpNotSelectable, playerID)
	}
	if idx != g.Dealer {
		return nil, nil, withPlayer(ErrNotDealer, playerID)
	}
	if !suit.IsRanked() {
		err := withPlayer(ErrInvalidCardValue, playerID)
		err.Message = "trump must be one of the four suits"
		return nil, nil, err
	}

	next, events := e.beginProgress(g)
	next.TrumpSuit = suit
	next.AwaitingTrump = false
	return next, append(events, TrumpSelected{Meta: e.meta(EventTrumpSelected), PlayerID: playerID, Suit: suit}), nil
}

// EndRound advances a scored round when the game does not auto-advance.
func (e *Engine) EndRound(g *Game, playerID string) (*Game, []Event, error) {
	if g.Phase != PhaseRoundEnd {
		return nil, nil, invalidPhase(PhaseRoundEnd, g.Phase)
	}
	if playerID == "" || playerID != g.HostID {
		return nil, nil, notHost(playerID)
	}
	next := g.Clone()
	return next, e.advance(next), nil
}

// beginProgress copies g for a progress action: the current state becomes
// the undo target and the version moves on. A pending undo negotiation is
// dropped since it no longer points at the latest action.
func (e *Engine) beginProgress(g *Game) (*Game, []Event) {
	next := g.Clone()
	next.Previous = g.snapshotForUndo()
	next.Version++
	if next.UndoRequest == nil {
		return next, nil
	}
	next.UndoRequest = nil
	return next, []Event{UndoRejected{Meta: e.meta(EventUndoRejected), Implicit: true}}
}

// deal starts the next round on g in place.
func (e *Engine) deal(g *Game) []Event {
	g.Round++
	for i := range g.Players {
		p := &g.Players[i]
		p.Hand = nil
		p.CurrentBid = nil
		p.TricksWon = 0
		p.SittingOut = !(p.IsConnected || p.IsBot)
	}
	g.Dealer = g.nextEligible(g.Dealer)
	first := g.nextEligible(g.Dealer)

	deck := card.NewShuffledDeck(roundRNG(g.Seed, g.Round))
	var hands []Event
	for i, k := first, 0; k < g.eligibleCount(); i, k = g.nextEligible(i), k+1 {
		hand := deck.Draw(g.Round)
		card.SortHand(hand)
		g.Players[i].Hand = hand
		hands = append(hands, HandDealt{
			Meta:     e.meta(EventHandDealt),
			PlayerID: g.Players[i].ID,
			Hand:     append([]card.Card(nil), hand...),
		})
	}

	g.TrumpCard, g.TrumpSuit, g.AwaitingTrump = nil, card.NoSuit, false
	if deck.Remaining() > 0 {
		flipped := deck.Draw(1)[0]
		g.TrumpCard = &flipped
		g.TrumpSuit, g.AwaitingTrump = card.TrumpFor(flipped)
	}

	g.CurrentTrick = nil
	g.LastTrick = nil
	g.TricksPlayed = 0
	g.TurnIndex = first
	g.Phase = PhaseBidding

	var trumpCard *card.Card
	if g.TrumpCard != nil {
		tc := *g.TrumpCard
		trumpCard = &tc
	}
	events := []Event{RoundDealt{
		Meta:          e.meta(EventRoundDealt),
		Round:         g.Round,
		DealerID:      g.DealerID(),
		TrumpCard:     trumpCard,
		TrumpSuit:     g.TrumpSuit,
		AwaitingTrump: g.AwaitingTrump,
	}}
	return append(events, hands...)
}

// beginPlay closes bidding; the player after the dealer leads.
func (e *Engine) beginPlay(g *Game) []Event {
	g.Phase = PhasePlaying
	g.TurnIndex = g.nextEligible(g.Dealer)
	return []Event{RoundStarted{
		Meta:     e.meta(EventRoundStarted),
		Round:    g.Round,
		LeaderID: g.CurrentPlayerID(),
	}}
}

// finishTrick resolves a complete trick and, when hands are empty, the
// round.
func (e *Engine) finishTrick(g *Game) []Event {
	w := card.Winner(g.trickCards(), g.TrumpSuit)
	winnerID := g.CurrentTrick[w].PlayerID
	wi := g.indexOf(winnerID)
	g.Players[wi].TricksWon++
	g.TricksPlayed++

	trick := g.CurrentTrick
	g.LastTrick = trick
	g.CurrentTrick = nil

	events := []Event{TrickWon{
		Meta:        e.meta(EventTrickWon),
		WinnerID:    winnerID,
		Trick:       append([]Play(nil), trick...),
		TrickNumber: g.TricksPlayed,
	}}
	if g.handsEmpty() {
		return append(events, e.closeRound(g)...)
	}
	if g.Players[wi].Eligible() {
		g.TurnIndex = wi
	} else {
		g.TurnIndex = g.nextEligible(wi)
	}
	return events
}

// closeRound scores every player who took part in the round and moves to
// ROUND_END. The round can no longer be undone.
func (e *Engine) closeRound(g *Game) []Event {
	g.Phase = PhaseRoundEnd
	g.Previous = nil

	var results []RoundResult
	for i := range g.Players {
		p := &g.Players[i]
		if p.SittingOut || !p.HasBid() {
			continue
		}
		delta := RoundScore(p.Bid(), p.TricksWon)
		p.Score += delta
		results = append(results, RoundResult{
			PlayerID:  p.ID,
			Bid:       p.Bid(),
			TricksWon: p.TricksWon,
			Delta:     delta,
			Score:     p.Score,
		})
	}
	events := []Event{RoundScored{Meta: e.meta(EventRoundScored), Round: g.Round, Results: results}}
	if g.Rules.AutoAdvance {
		events = append(events, e.advance(g)...)
	}
	return events
}

// advance leaves ROUND_END for the next deal or the end of the game.
func (e *Engine) advance(g *Game) []Event {
	if g.Round >= g.MaxRounds {
		g.Phase = PhaseGameEnd
		g.TurnIndex = -1
		return []Event{e.gameEnded(g)}
	}
	if !g.anyoneSeated() {
		return nil
	}
	return e.deal(g)
}

func (e *Engine) gameEnded(g *Game) GameEnded {
	standings := Standings(g)
	var winners []string
	for _, s := range standings {
		if s.Score == standings[0].Score {
			winners = append(winners, s.PlayerID)
		}
	}
	return GameEnded{Meta: e.meta(EventGameEnded), Standings: standings, WinnerIDs: winners}
}

// Standings lists players by score, highest first; ties keep seat order.
func Standings(g *Game) []Standing {
	out := make([]Standing, len(g.Players))
	for i, p := range g.Players {
		out[i] = Standing{PlayerID: p.ID, Name: p.Name, IsBot: p.IsBot, Score: p.Score}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// settle runs the automatic transitions that a player dropping out of the
// round can trigger.
func (e *Engine) settle(g *Game, dropped int) []Event {
	var events []Event
	if (g.Phase == PhaseBidding || g.Phase == PhasePlaying) && g.eligibleCount() == 0 {
		// Nobody left to play: the round is abandoned unscored.
		g.CurrentTrick = nil
		g.TurnIndex = -1
		return e.closeRound(g)
	}
	switch g.Phase {
	case PhaseBidding:
		if g.AwaitingTrump && g.Dealer == dropped {
			g.AwaitingTrump = false
			g.TrumpSuit = card.NoSuit
			events = append(events, TrumpSelected{Meta: e.meta(EventTrumpSelected), Suit: card.NoSuit})
		}
		if g.biddingComplete() {
			return append(events, e.beginPlay(g)...)
		}
		if g.TurnIndex == dropped {
			g.TurnIndex = g.nextEligible(dropped)
		}
	case PhasePlaying:
		if g.trickComplete() {
			return append(events, e.finishTrick(g)...)
		}
		if g.TurnIndex == dropped {
			g.TurnIndex = g.nextEligible(dropped)
		}
	}
	return events
}
