package match

import (
	"encoding/json"

	"example.com/wizard/internal/card"
	"example.com/wizard/internal/game"
)

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// входящие (client → server)
const (
	MsgAuth        = "auth"
	MsgStartGame   = "start_game"
	MsgSelectTrump = "select_trump"
	MsgBid         = "bid"
	MsgPlayCard    = "play_card"
	MsgEndRound    = "end_round"
	MsgAddBot      = "add_bot"
	MsgRemoveBot   = "remove_bot"
	MsgRequestUndo = "request_undo"
	MsgApproveUndo = "approve_undo"
	MsgRejectUndo  = "reject_undo"
	MsgRematch     = "rematch"
	MsgChat        = "chat"
	MsgEmote       = "emote"
	MsgLeave       = "leave"
)

// исходящие: state/error плюс по конверту на каждое событие игры
const (
	MsgState = "state"
	MsgError = "error"
)

type AuthPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type SelectTrumpPayload struct {
	Suit card.Suit `json:"suit"`
}

type BidPayload struct {
	Bid int `json:"bid"`
}

type PlayCardPayload struct {
	Card card.Card `json:"card"`
}

type AddBotPayload struct {
	Name string `json:"name"`
}

type RemoveBotPayload struct {
	BotID string `json:"botId"`
}

type RequestUndoPayload struct {
	Reason string `json:"reason"`
}

type ChatPayload struct {
	Message string `json:"message"`
}

type EmotePayload struct {
	EmoteID string `json:"emoteId"`
}

// PlayerView is what everyone at the table may know about a seat.
type PlayerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsBot       bool   `json:"isBot"`
	IsConnected bool   `json:"isConnected"`
	SittingOut  bool   `json:"sittingOut"`
	CardCount   int    `json:"cardCount"`
	Bid         *int   `json:"bid"`
	TricksWon   int    `json:"tricksWon"`
	Score       int    `json:"score"`
}

// StatePayload is the table as seen by one player: only their own hand.
type StatePayload struct {
	MatchID string `json:"matchId"`
	GameID  string `json:"gameId"`
	You     string `json:"you"`
	HostID  string `json:"hostId"`

	Phase     game.Phase `json:"phase"`
	Round     int        `json:"round"`
	MaxRounds int        `json:"maxRounds"`
	DealerID  string     `json:"dealerId"`
	TurnID    string     `json:"turnId"`

	TrumpCard     *card.Card `json:"trumpCard,omitempty"`
	TrumpSuit     card.Suit  `json:"trumpSuit"`
	AwaitingTrump bool       `json:"awaitingTrump"`

	Players      []PlayerView `json:"players"`
	Hand         []card.Card  `json:"hand"`
	CurrentTrick []game.Play  `json:"currentTrick"`
	LastTrick    []game.Play  `json:"lastTrick,omitempty"`

	UndoRequest *game.UndoRequest `json:"undoRequest,omitempty"`
	CanUndo     bool              `json:"canUndo"`

	AllowedBids   []int       `json:"allowedBids,omitempty"`
	PlayableCards []card.Card `json:"playableCards,omitempty"`

	Rules       game.Rules `json:"rules"`
	HasPassword bool       `json:"hasPassword"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
