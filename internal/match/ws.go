package match

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"example.com/wizard/internal/auth"
	"example.com/wizard/internal/game"
)

const (
	pingEvery    = 25 * time.Second
	authTimeout  = 10 * time.Second
	maxMessage   = 4096
	sendBuffered = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var (
	errBadJSON    = errors.New("invalid json")
	errBadPayload = errors.New("invalid payload")
	errUnknown    = errors.New("unknown message type")
)

type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func newClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{ws: ws, send: make(chan []byte, sendBuffered)}
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

func (c *ClientConn) writeLoop() {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWS: WebSocket вход в матч, /ws/{matchId}.
// The token comes from "Authorization: Bearer", the token query parameter,
// or a first {"type":"auth"} message.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	matchID, ok := matchIDFromWSPath(r.URL.Path)
	if !ok {
		http.Error(w, "bad match id", http.StatusBadRequest)
		return
	}

	m, ok, err := s.matches.GetOrLoad(r.Context(), matchID)
	if err != nil {
		s.log.Error("load match", "match", matchID, "err", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorPayload(game.ErrGameNotFound))
		return
	}

	password := r.URL.Query().Get("password")
	token := bearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	var claims *auth.Claims
	if token != "" {
		claims, err = s.verifier.Verify(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	// 🔐 токен проверяем до апгрейда, auth-сообщение только если токена нет
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ws.SetReadLimit(maxMessage)

	if claims == nil {
		var pw string
		claims, pw, err = s.authFromFirstMessage(ws)
		if err != nil {
			_ = ws.WriteJSON(Envelope{Type: MsgError, Payload: mustJSON(ErrorPayload{Code: "unauthorized", Message: err.Error()})})
			_ = ws.Close()
			return
		}
		if pw != "" {
			password = pw
		}
	}
	playerID := claims.UserID

	cc := newClientConn(ws)
	if err := m.Attach(playerID, claims.DisplayName, password, cc); err != nil {
		_ = ws.WriteJSON(Envelope{Type: MsgError, Payload: mustJSON(errorPayload(err))})
		cc.Close()
		return
	}
	go cc.writeLoop()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			m.SendErrorTo(playerID, errBadJSON)
			continue
		}
		if env.Type == MsgLeave {
			if err := m.Leave(playerID); err != nil {
				m.SendErrorTo(playerID, err)
				continue
			}
			break
		}
		if err := dispatch(m, playerID, env); err != nil {
			m.SendErrorTo(playerID, err)
		}
	}

	m.Detach(playerID, cc)
	cc.Close()
}

func (s *Server) authFromFirstMessage(ws *websocket.Conn) (*auth.Claims, string, error) {
	_ = ws.SetReadDeadline(time.Now().Add(authTimeout))
	defer func() { _ = ws.SetReadDeadline(time.Time{}) }()

	_, data, err := ws.ReadMessage()
	if err != nil {
		return nil, "", errors.New("no auth message")
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type != MsgAuth {
		return nil, "", errors.New("first message must be auth")
	}
	var p AuthPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil || p.Token == "" {
		return nil, "", errors.New("missing token")
	}
	claims, err := s.verifier.Verify(p.Token)
	if err != nil {
		return nil, "", errors.New("invalid token")
	}
	return claims, p.Password, nil
}

// dispatch routes one client envelope to the matching intent.
func dispatch(m *Match, playerID string, env Envelope) error {
	switch env.Type {
	case MsgStartGame:
		return m.StartGame(playerID)

	case MsgSelectTrump:
		var p SelectTrumpPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		return m.SelectTrump(playerID, p.Suit)

	case MsgBid:
		var p BidPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		return m.PlaceBid(playerID, p.Bid)

	case MsgPlayCard:
		var p PlayCardPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		return m.PlayCard(playerID, p.Card)

	case MsgEndRound:
		return m.EndRound(playerID)

	case MsgAddBot:
		var p AddBotPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		return m.AddBot(playerID, p.Name)

	case MsgRemoveBot:
		var p RemoveBotPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		return m.RemoveBot(playerID, p.BotID)

	case MsgRequestUndo:
		var p RequestUndoPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		return m.RequestUndo(playerID, p.Reason)

	case MsgApproveUndo:
		return m.ApproveUndo(playerID)

	case MsgRejectUndo:
		return m.RejectUndo(playerID)

	case MsgRematch:
		return m.RequestRematch(playerID)

	case MsgChat:
		var p ChatPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		return m.SendChat(playerID, p.Message)

	case MsgEmote:
		var p EmotePayload
		if err := decode(env, &p); err != nil {
			return err
		}
		return m.SendEmote(playerID, p.EmoteID)

	case MsgAuth:
		// already authenticated; a late auth message is harmless
		return nil
	}
	return errUnknown
}

// decode reads the payload of env. A missing payload decodes as zero.
func decode(env Envelope, v any) error {
	if len(env.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return errBadPayload
	}
	return nil
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
