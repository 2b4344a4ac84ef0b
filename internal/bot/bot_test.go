package bot

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/wizard/internal/card"
	"example.com/wizard/internal/game"
)

func newEngine(seed int64) *game.Engine {
	n := 0
	return game.NewEngine(
		game.WithClock(func() time.Time { return time.Unix(0, 0) }),
		game.WithIDs(func() string { n++; return fmt.Sprintf("id%d", n) }),
		game.WithSeedSource(rand.New(rand.NewSource(seed))),
	)
}

func TestBots_PlayWholeGame(t *testing.T) {
	for _, rule := range []game.ForbiddenBidRule{game.ForbiddenBidNone, game.ForbiddenBidLastBidder} {
		t.Run(string(rule), func(t *testing.T) {
			e := newEngine(42)
			rules := game.DefaultRules()
			rules.ForbiddenBid = rule
			g, _, err := e.CreateGame("host", "Host", "", rules)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				g, _, err = e.AddBot(g, "host", "")
				require.NoError(t, err)
			}
			// the host leaves once the game is running; bots finish it
			g, _, err = e.StartGame(g, "host")
			require.NoError(t, err)
			g, _, err = e.Disconnect(g, "host")
			require.NoError(t, err)

			var ended *game.GameEnded
			for steps := 0; steps < 10000 && g.Phase != game.PhaseGameEnd; steps++ {
				var events []game.Event
				var ok bool
				g, events, ok, err = Step(e, Simple{}, g)
				require.NoError(t, err)
				require.True(t, ok, "a bot must be due in phase %s", g.Phase)
				for _, ev := range events {
					if ge, isEnd := ev.(game.GameEnded); isEnd {
						ended = &ge
					}
				}
			}
			require.Equal(t, game.PhaseGameEnd, g.Phase)
			require.NotNil(t, ended)
			assert.Equal(t, 15, g.Round)
			assert.Len(t, ended.Standings, 4)
		})
	}
}

func TestPending(t *testing.T) {
	e := newEngine(1)
	g, _, err := e.CreateGame("host", "Host", "", game.DefaultRules())
	require.NoError(t, err)
	_, ok := Pending(g)
	assert.False(t, ok, "nothing is due in the lobby")

	for i := 0; i < 2; i++ {
		g, _, err = e.AddBot(g, "host", "")
		require.NoError(t, err)
	}
	g, _, err = e.StartGame(g, "host")
	require.NoError(t, err)

	id, ok := Pending(g)
	if g.AwaitingTrump {
		// dealer is the host
		assert.False(t, ok)
		return
	}
	assert.True(t, ok)
	assert.Equal(t, g.CurrentPlayerID(), id)
}

func TestSimple_PlaysHighWhenShort(t *testing.T) {
	g := &game.Game{TrumpSuit: card.Hearts}
	bid := 1
	me := game.Player{CurrentBid: &bid}
	playable := []card.Card{
		{Suit: card.Clubs, Rank: 12},
		{Suit: card.Hearts, Rank: 2},
		card.NewJester(),
	}
	assert.Equal(t, card.Card{Suit: card.Hearts, Rank: 2}, Simple{}.Play(g, me, playable))

	me.TricksWon = 1
	assert.Equal(t, card.NewJester(), Simple{}.Play(g, me, playable))
}

func TestSimple_BidRespectsAllowed(t *testing.T) {
	g := &game.Game{TrumpSuit: card.Spades}
	me := game.Player{Hand: []card.Card{card.NewWizard(), {Suit: card.Spades, Rank: 12}}}
	assert.Equal(t, 2, Simple{}.Bid(g, me, []int{0, 1, 2}))
	assert.Equal(t, 1, Simple{}.Bid(g, me, []int{0, 1}))
	assert.Equal(t, 1, Simple{}.Bid(g, me, []int{0, 1, 3}), "ties go to the lower bid")
}

func TestSimple_TrumpPicksLongestSuit(t *testing.T) {
	me := game.Player{Hand: []card.Card{
		{Suit: card.Clubs, Rank: 2},
		{Suit: card.Clubs, Rank: 9},
		{Suit: card.Diamonds, Rank: 13},
		card.NewWizard(),
	}}
	assert.Equal(t, card.Clubs, Simple{}.Trump(nil, me))
}
