package game

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	n := 0
	return NewEngine(
		WithClock(func() time.Time { return testNow }),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithSeedSource(rand.New(rand.NewSource(7))),
	)
}

// lobby creates a game hosted by p1 with players p1..pn seated.
func lobby(t *testing.T, e *Engine, n int, rules Rules) *Game {
	t.Helper()
	g, _, err := e.CreateGame("p1", "Alice", "", rules)
	require.NoError(t, err)
	for i := 2; i <= n; i++ {
		g, _, err = e.Join(g, fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), "")
		require.NoError(t, err)
	}
	return g
}

func started(t *testing.T, e *Engine, n int, rules Rules) *Game {
	t.Helper()
	g, _, err := e.StartGame(lobby(t, e, n, rules), "p1")
	require.NoError(t, err)
	return g
}

// pickTrump resolves a pending trump choice so bidding can go on.
func pickTrump(t *testing.T, e *Engine, g *Game) *Game {
	t.Helper()
	if !g.AwaitingTrump {
		return g
	}
	next, _, err := e.SelectTrump(g, g.DealerID(), "hearts")
	require.NoError(t, err)
	return next
}

// bidAll places the lowest allowed bid for every player in turn.
func bidAll(t *testing.T, e *Engine, g *Game) (*Game, []Event) {
	t.Helper()
	g = pickTrump(t, e, g)
	var all []Event
	for g.Phase == PhaseBidding {
		pid := g.CurrentPlayerID()
		bids := AllowedBids(g, pid)
		require.NotEmpty(t, bids)
		next, events, err := e.PlaceBid(g, pid, bids[0])
		require.NoError(t, err)
		g = next
		all = append(all, events...)
	}
	return g, all
}

// playRound plays the first playable card for whoever holds the turn until
// the round is over.
func playRound(t *testing.T, e *Engine, g *Game) (*Game, []Event) {
	t.Helper()
	g, all := bidAll(t, e, g)
	round := g.Round
	for g.Phase == PhasePlaying && g.Round == round {
		pid := g.CurrentPlayerID()
		cards := PlayableCards(g, pid)
		require.NotEmpty(t, cards)
		next, events, err := e.PlayCard(g, pid, cards[0])
		require.NoError(t, err)
		g = next
		all = append(all, events...)
	}
	return g, all
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.EventType()
	}
	return out
}

func findEvent[T Event](events []Event) (T, bool) {
	for _, ev := range events {
		if v, ok := ev.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func notTurn(g *Game) string {
	cur := g.CurrentPlayerID()
	for _, p := range g.Players {
		if p.ID != cur && p.Eligible() {
			return p.ID
		}
	}
	return ""
}
