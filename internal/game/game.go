package game

import "example.com/wizard/internal/card"

// Phase is the lifecycle stage of a game.
type Phase string

const (
	PhaseWaiting  Phase = "WAITING"
	PhaseBidding  Phase = "BIDDING"
	PhasePlaying  Phase = "PLAYING"
	PhaseRoundEnd Phase = "ROUND_END"
	PhaseGameEnd  Phase = "GAME_END"
)

// Play is one card put into the current trick.
type Play struct {
	PlayerID string    `json:"playerId"`
	Card     card.Card `json:"card"`
}

// UndoRequest is a pending undo negotiation.
type UndoRequest struct {
	RequesterID string   `json:"requesterId"`
	Reason      string   `json:"reason"`
	Approvals   []string `json:"approvals"`
	// TargetVersion is the game version the request was raised against.
	TargetVersion int `json:"targetVersion"`
}

func (u *UndoRequest) approvedBy(playerID string) bool {
	for _, id := range u.Approvals {
		if id == playerID {
			return true
		}
	}
	return false
}

// Game is an immutable snapshot of a table. Engine operations take a Game
// and return a new one; callers must not modify a Game they passed in or
// got back.
type Game struct {
	ID       string   `json:"id"`
	HostID   string   `json:"hostId"`
	Phase    Phase    `json:"phase"`
	Rules    Rules    `json:"rules"`
	Password string   `json:"password,omitempty"`
	Players  []Player `json:"players"`

	Round     int `json:"round"`
	MaxRounds int `json:"maxRounds"`
	Dealer    int `json:"dealer"`

	TrumpCard     *card.Card `json:"trumpCard,omitempty"`
	TrumpSuit     card.Suit  `json:"trumpSuit"`
	AwaitingTrump bool       `json:"awaitingTrump"`

	CurrentTrick []Play `json:"currentTrick"`
	LastTrick    []Play `json:"lastTrick,omitempty"`
	TricksPlayed int    `json:"tricksPlayed"`
	TurnIndex    int    `json:"turnIndex"`

	UndoRequest *UndoRequest `json:"undoRequest,omitempty"`

	// Version counts accepted progress actions and rollbacks.
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	// Previous is the state before the most recent progress action, kept
	// one level deep for undo. Nil when nothing can be undone.
	Previous *Game `json:"previous,omitempty"`
}

// Clone returns a deep copy of g.
func (g *Game) Clone() *Game {
	out := *g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		out.Players[i] = p.clone()
	}
	if g.TrumpCard != nil {
		tc := *g.TrumpCard
		out.TrumpCard = &tc
	}
	out.CurrentTrick = append([]Play(nil), g.CurrentTrick...)
	out.LastTrick = append([]Play(nil), g.LastTrick...)
	if g.UndoRequest != nil {
		u := *g.UndoRequest
		u.Approvals = append([]string(nil), g.UndoRequest.Approvals...)
		out.UndoRequest = &u
	}
	if g.Previous != nil {
		out.Previous = g.Previous.Clone()
	}
	return &out
}

// Player returns the player with id and its seat index.
func (g *Game) Player(id string) (Player, int, bool) {
	i := g.indexOf(id)
	if i < 0 {
		return Player{}, -1, false
	}
	return g.Players[i], i, true
}

func (g *Game) indexOf(id string) int {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// CurrentPlayerID is the id of the player holding the turn, or "" outside
// BIDDING and PLAYING.
func (g *Game) CurrentPlayerID() string {
	if g.Phase != PhaseBidding && g.Phase != PhasePlaying {
		return ""
	}
	if g.TurnIndex < 0 || g.TurnIndex >= len(g.Players) {
		return ""
	}
	return g.Players[g.TurnIndex].ID
}

// DealerID is the id of this round's dealer.
func (g *Game) DealerID() string {
	if g.Dealer < 0 || g.Dealer >= len(g.Players) {
		return ""
	}
	return g.Players[g.Dealer].ID
}

// CardsThisRound is the number of cards dealt to each player this round.
func (g *Game) CardsThisRound() int { return g.Round }

// CanUndo reports whether a progress action can still be reverted.
func (g *Game) CanUndo() bool { return g.Previous != nil }

// nextEligible returns the first eligible seat after from, wrapping, or -1.
func (g *Game) nextEligible(from int) int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		i := ((from+step)%n + n) % n
		if g.Players[i].Eligible() {
			return i
		}
	}
	return -1
}

func (g *Game) eligibleCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Eligible() {
			n++
		}
	}
	return n
}

// anyoneSeated reports whether a deal would reach at least one player.
func (g *Game) anyoneSeated() bool {
	for _, p := range g.Players {
		if p.IsConnected || p.IsBot {
			return true
		}
	}
	return false
}

func (g *Game) connectedHumans() []string {
	var ids []string
	for _, p := range g.Players {
		if p.IsConnected && !p.IsBot {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (g *Game) trickCards() []card.Card {
	cards := make([]card.Card, len(g.CurrentTrick))
	for i, pl := range g.CurrentTrick {
		cards[i] = pl.Card
	}
	return cards
}

func (g *Game) playedInTrick(playerID string) bool {
	for _, pl := range g.CurrentTrick {
		if pl.PlayerID == playerID {
			return true
		}
	}
	return false
}

// trickComplete reports whether every eligible player has played into the
// current trick.
func (g *Game) trickComplete() bool {
	if len(g.CurrentTrick) == 0 {
		return false
	}
	for _, p := range g.Players {
		if p.Eligible() && !g.playedInTrick(p.ID) {
			return false
		}
	}
	return true
}

func (g *Game) biddingComplete() bool {
	seen := false
	for _, p := range g.Players {
		if !p.Eligible() {
			continue
		}
		seen = true
		if !p.HasBid() {
			return false
		}
	}
	return seen
}

func (g *Game) handsEmpty() bool {
	for _, p := range g.Players {
		if p.Eligible() && len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// snapshotForUndo is the copy kept in Previous: no nested history and no
// pending negotiation.
func (g *Game) snapshotForUndo() *Game {
	s := g.Clone()
	s.Previous = nil
	s.UndoRequest = nil
	return s
}
