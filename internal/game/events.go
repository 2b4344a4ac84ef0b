package game

import (
	"time"

	"example.com/wizard/internal/card"
)

// EventType tags each event kind.
type EventType string

const (
	EventPlayerJoined       EventType = "PLAYER_JOINED"
	EventPlayerLeft         EventType = "PLAYER_LEFT"
	EventPlayerDisconnected EventType = "PLAYER_DISCONNECTED"
	EventPlayerReconnected  EventType = "PLAYER_RECONNECTED"
	EventHostChanged        EventType = "HOST_CHANGED"
	EventGameStarted        EventType = "GAME_STARTED"
	EventRoundDealt         EventType = "ROUND_DEALT"
	EventHandDealt          EventType = "HAND_DEALT"
	EventTrumpSelected      EventType = "TRUMP_SELECTED"
	EventBidPlaced          EventType = "BID_PLACED"
	EventRoundStarted       EventType = "ROUND_STARTED"
	EventCardPlayed         EventType = "CARD_PLAYED"
	EventTrickWon           EventType = "TRICK_WON"
	EventRoundScored        EventType = "ROUND_SCORED"
	EventGameEnded          EventType = "GAME_ENDED"
	EventUndoRequested      EventType = "UNDO_REQUESTED"
	EventUndoApproved       EventType = "UNDO_APPROVED"
	EventUndoApplied        EventType = "UNDO_APPLIED"
	EventUndoRejected       EventType = "UNDO_REJECTED"
	EventRematchStarted     EventType = "REMATCH_STARTED"
	EventChatMessage        EventType = "CHAT_MESSAGE"
	EventEmote              EventType = "EMOTE"
)

// Event is implemented by every event struct in this package. Consumers
// switch on the concrete type.
type Event interface {
	EventType() EventType
	OccurredAt() time.Time
	sealed()
}

// Meta is embedded in every event.
type Meta struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func (m Meta) EventType() EventType  { return m.Type }
func (m Meta) OccurredAt() time.Time { return m.Timestamp }
func (Meta) sealed()                 {}

type PlayerJoined struct {
	Meta
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	IsBot    bool   `json:"isBot"`
	Seat     int    `json:"seat"`
}

type PlayerLeft struct {
	Meta
	PlayerID string `json:"playerId"`
}

type PlayerDisconnected struct {
	Meta
	PlayerID string `json:"playerId"`
}

type PlayerReconnected struct {
	Meta
	PlayerID string `json:"playerId"`
}

type HostChanged struct {
	Meta
	PreviousHostID string `json:"previousHostId"`
	HostID         string `json:"hostId"`
}

type GameStarted struct {
	Meta
	GameID    string   `json:"gameId"`
	PlayerIDs []string `json:"playerIds"`
	MaxRounds int      `json:"maxRounds"`
}

// RoundDealt opens a round. AwaitingTrump means a Wizard was flipped and the
// dealer must pick the trump suit.
type RoundDealt struct {
	Meta
	Round         int        `json:"round"`
	DealerID      string     `json:"dealerId"`
	TrumpCard     *card.Card `json:"trumpCard,omitempty"`
	TrumpSuit     card.Suit  `json:"trumpSuit"`
	AwaitingTrump bool       `json:"awaitingTrump"`
}

// HandDealt is private to PlayerID.
type HandDealt struct {
	Meta
	PlayerID string      `json:"playerId"`
	Hand     []card.Card `json:"hand"`
}

type TrumpSelected struct {
	Meta
	PlayerID string    `json:"playerId"`
	Suit     card.Suit `json:"suit"`
}

type BidPlaced struct {
	Meta
	PlayerID     string `json:"playerId"`
	Bid          int    `json:"bid"`
	NextPlayerID string `json:"nextPlayerId,omitempty"`
}

// RoundStarted marks the end of bidding and names the first leader.
type RoundStarted struct {
	Meta
	Round    int    `json:"round"`
	LeaderID string `json:"leaderId"`
}

type CardPlayed struct {
	Meta
	PlayerID     string    `json:"playerId"`
	Card         card.Card `json:"card"`
	NextPlayerID string    `json:"nextPlayerId,omitempty"`
}

type TrickWon struct {
	Meta
	WinnerID    string `json:"winnerId"`
	Trick       []Play `json:"trick"`
	TrickNumber int    `json:"trickNumber"`
}

// RoundResult is one player's line in a round's scoring.
type RoundResult struct {
	PlayerID  string `json:"playerId"`
	Bid       int    `json:"bid"`
	TricksWon int    `json:"tricksWon"`
	Delta     int    `json:"delta"`
	Score     int    `json:"score"`
}

type RoundScored struct {
	Meta
	Round   int           `json:"round"`
	Results []RoundResult `json:"results"`
}

// Standing is a player's final position.
type Standing struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	IsBot    bool   `json:"isBot"`
	Score    int    `json:"score"`
}

type GameEnded struct {
	Meta
	Standings []Standing `json:"standings"`
	WinnerIDs []string   `json:"winnerIds"`
}

type UndoRequested struct {
	Meta
	RequesterID string `json:"requesterId"`
	Reason      string `json:"reason"`
}

type UndoApproved struct {
	Meta
	PlayerID  string   `json:"playerId"`
	Approvals []string `json:"approvals"`
}

type UndoApplied struct {
	Meta
	Version int `json:"version"`
}

// UndoRejected is emitted for an explicit rejection or, with Implicit set,
// when a player disconnects during the negotiation.
type UndoRejected struct {
	Meta
	PlayerID string `json:"playerId"`
	Implicit bool   `json:"implicit"`
}

type RematchStarted struct {
	Meta
	GameID         string `json:"gameId"`
	PreviousGameID string `json:"previousGameId"`
}

type ChatMessage struct {
	Meta
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

type Emote struct {
	Meta
	PlayerID string `json:"playerId"`
	EmoteID  string `json:"emoteId"`
}

// Recipient returns the only player allowed to see ev, or "" for events
// everyone may see.
func Recipient(ev Event) string {
	if h, ok := ev.(HandDealt); ok {
		return h.PlayerID
	}
	return ""
}
