package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/wizard/internal/card"
)

func cd(s card.Suit, r card.Rank) card.Card { return card.Card{Suit: s, Rank: r} }

// rigged returns a 3-player game in PLAYING with known hands, hearts as
// trump and p2 to lead.
func rigged(t *testing.T, e *Engine) *Game {
	t.Helper()
	g := started(t, e, 3, DefaultRules()).Clone()
	g.Round = 2
	g.Phase = PhasePlaying
	g.TrumpSuit, g.AwaitingTrump = card.Hearts, false
	g.TurnIndex = 1
	g.Previous = nil
	hands := [][]card.Card{
		{cd(card.Clubs, 5), cd(card.Spades, 9)},
		{cd(card.Clubs, 10), cd(card.Hearts, 2)},
		{cd(card.Clubs, 3), card.NewJester()},
	}
	for i := range g.Players {
		bid := 1
		if i == 1 {
			bid = 2
		}
		g.Players[i].Hand = hands[i]
		g.Players[i].CurrentBid = &bid
	}
	return g
}

func TestPlayCard_Validation(t *testing.T) {
	e := newTestEngine()
	g := rigged(t, e)
	g, _, err := e.PlayCard(g, "p2", cd(card.Clubs, 10))
	require.NoError(t, err)

	tests := []struct {
		name     string
		playerID string
		c        card.Card
		want     *Error
	}{
		{"out of turn", "p1", cd(card.Clubs, 5), ErrNotYourTurn},
		{"player who just led", "p2", cd(card.Hearts, 2), ErrNotYourTurn},
		{"invalid value", "p3", cd(card.Hearts, 14), ErrInvalidCardValue},
		{"invalid suit", "p3", cd("stars", 3), ErrInvalidCardValue},
		{"not in hand", "p3", cd(card.Clubs, 4), ErrCardNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := g.Clone()
			next, _, err := e.PlayCard(g, tc.playerID, tc.c)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, next)
			assert.Equal(t, before, g)
		})
	}
}

func TestPlayCard_MustFollowSuit(t *testing.T) {
	e := newTestEngine()
	g := rigged(t, e)
	var err error
	g, _, err = e.PlayCard(g, "p2", cd(card.Clubs, 10))
	require.NoError(t, err)
	g, _, err = e.PlayCard(g, "p3", cd(card.Clubs, 3))
	require.NoError(t, err)

	_, _, err = e.PlayCard(g, "p1", cd(card.Spades, 9))
	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, CodeCardNotPlayable, gerr.Code)
	assert.Equal(t, card.Clubs, gerr.LedSuit)
	assert.Equal(t, []card.Card{cd(card.Clubs, 5)}, PlayableCards(g, "p1"))
}

func TestPlayCard_JesterAlwaysPlayable(t *testing.T) {
	e := newTestEngine()
	g := rigged(t, e)
	g, _, err := e.PlayCard(g, "p2", cd(card.Clubs, 10))
	require.NoError(t, err)
	_, _, err = e.PlayCard(g, "p3", card.NewJester())
	require.NoError(t, err)
}

func TestPlayCard_TricksAndRoundScoring(t *testing.T) {
	e := newTestEngine()
	g := rigged(t, e)

	steps := []Play{
		{"p2", cd(card.Clubs, 10)},
		{"p3", cd(card.Clubs, 3)},
		{"p1", cd(card.Clubs, 5)},
	}
	var events []Event
	for _, s := range steps {
		var err error
		g, events, err = e.PlayCard(g, s.PlayerID, s.Card)
		require.NoError(t, err)
	}
	won, ok := findEvent[TrickWon](events)
	require.True(t, ok)
	assert.Equal(t, "p2", won.WinnerID)
	assert.Equal(t, 1, won.TrickNumber)
	assert.Len(t, won.Trick, 3)
	assert.Empty(t, g.CurrentTrick)
	assert.Len(t, g.LastTrick, 3)
	assert.Equal(t, "p2", g.CurrentPlayerID(), "trick winner leads")
	assert.True(t, g.CanUndo())

	steps = []Play{
		{"p2", cd(card.Hearts, 2)},
		{"p3", card.NewJester()},
		{"p1", cd(card.Spades, 9)},
	}
	for _, s := range steps {
		var err error
		g, events, err = e.PlayCard(g, s.PlayerID, s.Card)
		require.NoError(t, err)
	}
	won, ok = findEvent[TrickWon](events)
	require.True(t, ok)
	assert.Equal(t, "p2", won.WinnerID, "trump beats off-suit")

	scored, ok := findEvent[RoundScored](events)
	require.True(t, ok)
	deltas := map[string]int{}
	for _, r := range scored.Results {
		deltas[r.PlayerID] = r.Delta
	}
	assert.Equal(t, map[string]int{"p1": -10, "p2": 40, "p3": -10}, deltas)

	p2, _, _ := g.Player("p2")
	assert.Equal(t, 40, p2.Score)
	assert.Equal(t, 3, g.Round)
	assert.Equal(t, PhaseBidding, g.Phase)
}

func TestPlayCard_WizardLeadWins(t *testing.T) {
	e := newTestEngine()
	g := rigged(t, e)
	g.Players[1].Hand = []card.Card{card.NewWizard(), cd(card.Hearts, 2)}

	var events []Event
	var err error
	for _, s := range []Play{
		{"p2", card.NewWizard()},
		{"p3", cd(card.Clubs, 3)},
		{"p1", cd(card.Spades, 9)},
	} {
		g, events, err = e.PlayCard(g, s.PlayerID, s.Card)
		require.NoError(t, err)
	}
	won, ok := findEvent[TrickWon](events)
	require.True(t, ok)
	assert.Equal(t, "p2", won.WinnerID)
}

func TestPlayCard_SittingOutPlayerSkipped(t *testing.T) {
	e := newTestEngine()
	g := rigged(t, e)
	g, _, err := e.PlayCard(g, "p2", cd(card.Clubs, 10))
	require.NoError(t, err)

	g, _, err = e.Disconnect(g, "p3")
	require.NoError(t, err)
	assert.Equal(t, "p1", g.CurrentPlayerID())

	g, events, err := e.PlayCard(g, "p1", cd(card.Clubs, 5))
	require.NoError(t, err)
	won, ok := findEvent[TrickWon](events)
	require.True(t, ok)
	assert.Len(t, won.Trick, 2)
}
