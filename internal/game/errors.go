package game

import (
	"fmt"

	"example.com/wizard/internal/card"
)

// Code identifies a validation failure. Codes are stable and safe to send
// to clients.
type Code string

const (
	CodeNotHost     Code = "not_host"
	CodeNotYourTurn Code = "not_your_turn"
	CodeNotDealer   Code = "not_dealer"

	CodeInvalidPhase          Code = "invalid_phase"
	CodeGameNotStarted        Code = "game_not_started"
	CodeGameAlreadyStarted    Code = "game_already_started"
	CodeGameNotFound          Code = "game_not_found"
	CodeTrumpSelectionPending Code = "trump_selection_pending"
	CodeTrumpNotSelectable    Code = "trump_not_selectable"

	CodePlayerNotFound      Code = "player_not_found"
	CodePlayerAlreadyInGame Code = "player_already_in_game"
	CodeMaxPlayersReached   Code = "max_players_reached"
	CodeNotEnoughPlayers    Code = "not_enough_players"

	CodeCardNotFound     Code = "card_not_found"
	CodeCardNotPlayable  Code = "card_not_playable"
	CodeInvalidCardValue Code = "invalid_card_value"

	CodeInvalidBid   Code = "invalid_bid"
	CodeForbiddenBid Code = "forbidden_bid"

	CodeUndoNotAvailable    Code = "undo_not_available"
	CodeUndoAlreadyPending  Code = "undo_already_pending"
	CodeNoActiveUndoRequest Code = "no_active_undo_request"

	CodeRoomFull            Code = "room_full"
	CodeInvalidRoomPassword Code = "invalid_room_password"
)

// Error is a typed validation failure. Fields other than Code and Message
// are filled in when they apply.
type Error struct {
	Code    Code
	Message string

	PlayerID string
	Expected Phase
	Actual   Phase
	Card     *card.Card
	LedSuit  card.Suit
	Bid      int
	MaxBid   int
	Limit    int
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error with the same code, so errors.Is(err, ErrNotHost)
// works for errors carrying context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrNotHost     = &Error{Code: CodeNotHost, Message: "only the host can do that"}
	ErrNotYourTurn = &Error{Code: CodeNotYourTurn, Message: "not your turn"}
	ErrNotDealer   = &Error{Code: CodeNotDealer, Message: "only the dealer can do that"}

	ErrInvalidPhase          = &Error{Code: CodeInvalidPhase, Message: "not allowed in this phase"}
	ErrGameNotStarted        = &Error{Code: CodeGameNotStarted, Message: "game has not started"}
	ErrGameAlreadyStarted    = &Error{Code: CodeGameAlreadyStarted, Message: "game already started"}
	ErrGameNotFound          = &Error{Code: CodeGameNotFound, Message: "game not found"}
	ErrTrumpSelectionPending = &Error{Code: CodeTrumpSelectionPending, Message: "dealer must choose trump first"}
	ErrTrumpNotSelectable    = &Error{Code: CodeTrumpNotSelectable, Message: "trump is not open for selection"}

	ErrPlayerNotFound      = &Error{Code: CodePlayerNotFound, Message: "player not found"}
	ErrPlayerAlreadyInGame = &Error{Code: CodePlayerAlreadyInGame, Message: "player already in game"}
	ErrMaxPlayersReached   = &Error{Code: CodeMaxPlayersReached, Message: "max players reached"}
	ErrNotEnoughPlayers    = &Error{Code: CodeNotEnoughPlayers, Message: "not enough players"}

	ErrCardNotFound     = &Error{Code: CodeCardNotFound, Message: "card not in hand"}
	ErrCardNotPlayable  = &Error{Code: CodeCardNotPlayable, Message: "card not playable"}
	ErrInvalidCardValue = &Error{Code: CodeInvalidCardValue, Message: "invalid card value"}

	ErrInvalidBid   = &Error{Code: CodeInvalidBid, Message: "invalid bid"}
	ErrForbiddenBid = &Error{Code: CodeForbiddenBid, Message: "forbidden bid"}

	ErrUndoNotAvailable    = &Error{Code: CodeUndoNotAvailable, Message: "undo not available"}
	ErrUndoAlreadyPending  = &Error{Code: CodeUndoAlreadyPending, Message: "an undo request is already pending"}
	ErrNoActiveUndoRequest = &Error{Code: CodeNoActiveUndoRequest, Message: "no active undo request"}

	ErrRoomFull            = &Error{Code: CodeRoomFull, Message: "room is full"}
	ErrInvalidRoomPassword = &Error{Code: CodeInvalidRoomPassword, Message: "invalid room password"}
)

func withPlayer(base *Error, playerID string) *Error {
	e := *base
	e.PlayerID = playerID
	return &e
}

func invalidPhase(expected, actual Phase) *Error {
	return &Error{
		Code:     CodeInvalidPhase,
		Message:  fmt.Sprintf("expected phase %s, game is in %s", expected, actual),
		Expected: expected,
		Actual:   actual,
	}
}

func notYourTurn(playerID string) *Error {
	return withPlayer(ErrNotYourTurn, playerID)
}

func notHost(playerID string) *Error {
	return withPlayer(ErrNotHost, playerID)
}

func playerNotFound(playerID string) *Error {
	e := withPlayer(ErrPlayerNotFound, playerID)
	e.Message = fmt.Sprintf("player %q not found", playerID)
	return e
}

func invalidBid(playerID string, bid, maxBid int) *Error {
	e := withPlayer(ErrInvalidBid, playerID)
	e.Message = fmt.Sprintf("bid %d out of range 0..%d", bid, maxBid)
	e.Bid, e.MaxBid = bid, maxBid
	return e
}

func forbiddenBid(playerID string, bid, tricks int) *Error {
	e := withPlayer(ErrForbiddenBid, playerID)
	e.Message = fmt.Sprintf("bid %d would make the total equal %d tricks", bid, tricks)
	e.Bid, e.MaxBid = bid, tricks
	return e
}

func cardError(base *Error, playerID string, c card.Card) *Error {
	e := withPlayer(base, playerID)
	e.Card = &c
	e.Message = fmt.Sprintf("%s: %s", base.Message, c)
	return e
}

func notEnoughPlayers(have, need int) *Error {
	e := *ErrNotEnoughPlayers
	e.Message = fmt.Sprintf("need at least %d players, have %d", need, have)
	e.Limit = need
	return &e
}
