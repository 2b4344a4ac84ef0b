package match

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"example.com/wizard/internal/bot"
	"example.com/wizard/internal/card"
	"example.com/wizard/internal/game"
	"example.com/wizard/internal/metrics"
)

// maxBotSteps bounds how many moves bots make in a row without a delay.
const maxBotSteps = 10000

// Match hosts one table. It owns the current Game, the live connections
// and the bot timer; every intent runs under mu.
type Match struct {
	id string
	mu sync.Mutex

	engine *game.Engine
	game   *game.Game
	conns  map[string]*ClientConn

	log     *slog.Logger
	metrics *metrics.Metrics

	brain    bot.Brain
	botDelay time.Duration
	botTimer *time.Timer
	botToken int64

	onPersist  func(Snapshot)
	onFinished func(*game.Game)
}

// Deps are the collaborators a Match uses. Zero values get defaults.
type Deps struct {
	Engine   *game.Engine
	Log      *slog.Logger
	Metrics  *metrics.Metrics
	Brain    bot.Brain
	BotDelay time.Duration
}

func NewMatch(id string, g *game.Game, d Deps) *Match {
	if d.Engine == nil {
		d.Engine = game.NewEngine()
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Brain == nil {
		d.Brain = bot.Simple{}
	}
	return &Match{
		id:       id,
		engine:   d.Engine,
		game:     g,
		conns:    make(map[string]*ClientConn),
		log:      d.Log.With("match", id),
		metrics:  d.Metrics,
		brain:    d.Brain,
		botDelay: d.BotDelay,
	}
}

func (m *Match) ID() string { return m.id }

// Game returns the current game. Games are immutable, so the result stays
// valid after later intents replace it.
func (m *Match) Game() *game.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game
}

// Attach binds cc to playerID. A seated, connected player just swaps
// connections; anyone else goes through Join, which seats newcomers in the
// lobby and brings back dropped players.
func (m *Match) Attach(playerID, name, password string, cc *ClientConn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, _, ok := m.game.Player(playerID); ok && p.IsConnected && !p.IsBot {
		old, had := m.conns[playerID]
		m.conns[playerID] = cc
		if had && old != cc {
			old.Close()
		} else if !had {
			m.metrics.PlayerOnline()
		}
		m.sendStateLocked(playerID)
		return nil
	}

	next, events, err := m.engine.Join(m.game, playerID, name, password)
	if err != nil {
		return err
	}
	m.conns[playerID] = cc
	m.metrics.PlayerOnline()
	m.log.Info("player attached", "player", playerID)
	m.commitLocked(next, events)
	return nil
}

// Detach drops cc. Nothing happens if the player already moved on to a
// newer connection.
func (m *Match) Detach(playerID string, cc *ClientConn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.conns[playerID]; !ok || cur != cc {
		return
	}
	delete(m.conns, playerID)
	m.metrics.PlayerOffline()

	next, events, err := m.engine.Disconnect(m.game, playerID)
	if err != nil {
		return
	}
	m.log.Info("player detached", "player", playerID)
	m.commitLocked(next, events)
}

// Stop cancels a pending bot move.
func (m *Match) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.botToken++
	if m.botTimer != nil {
		m.botTimer.Stop()
	}
}

// intent runs fn against the current game and commits the result.
func (m *Match) intent(name string, fn func(g *game.Game) (*game.Game, []game.Event, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	next, events, err := fn(m.game)
	m.metrics.Intent(name, resultLabel(err), time.Since(start))
	if err != nil {
		return err
	}
	m.commitLocked(next, events)
	return nil
}

func (m *Match) StartGame(playerID string) error {
	return m.intent(MsgStartGame, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.StartGame(g, playerID)
	})
}

func (m *Match) SelectTrump(playerID string, suit card.Suit) error {
	return m.intent(MsgSelectTrump, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.SelectTrump(g, playerID, suit)
	})
}

func (m *Match) PlaceBid(playerID string, bid int) error {
	return m.intent(MsgBid, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.PlaceBid(g, playerID, bid)
	})
}

func (m *Match) PlayCard(playerID string, c card.Card) error {
	return m.intent(MsgPlayCard, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.PlayCard(g, playerID, c)
	})
}

func (m *Match) EndRound(playerID string) error {
	return m.intent(MsgEndRound, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.EndRound(g, playerID)
	})
}

func (m *Match) AddBot(playerID, name string) error {
	return m.intent(MsgAddBot, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.AddBot(g, playerID, name)
	})
}

func (m *Match) RemoveBot(playerID, botID string) error {
	return m.intent(MsgRemoveBot, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.RemoveBot(g, playerID, botID)
	})
}

func (m *Match) RequestUndo(playerID, reason string) error {
	return m.intent(MsgRequestUndo, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.RequestUndo(g, playerID, reason)
	})
}

func (m *Match) ApproveUndo(playerID string) error {
	return m.intent(MsgApproveUndo, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.ApproveUndo(g, playerID)
	})
}

func (m *Match) RejectUndo(playerID string) error {
	return m.intent(MsgRejectUndo, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.RejectUndo(g, playerID)
	})
}

func (m *Match) RequestRematch(playerID string) error {
	return m.intent(MsgRematch, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.RequestRematch(g, playerID)
	})
}

func (m *Match) SendChat(playerID, message string) error {
	return m.intent(MsgChat, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.SendChat(g, playerID, message)
	})
}

func (m *Match) SendEmote(playerID, emoteID string) error {
	return m.intent(MsgEmote, func(g *game.Game) (*game.Game, []game.Event, error) {
		return m.engine.SendEmote(g, playerID, emoteID)
	})
}

// Leave takes the player out of the match and forgets their connection.
func (m *Match) Leave(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, events, err := m.engine.Leave(m.game, playerID)
	m.metrics.Intent(MsgLeave, resultLabel(err), 0)
	if err != nil {
		return err
	}
	if _, ok := m.conns[playerID]; ok {
		delete(m.conns, playerID)
		m.metrics.PlayerOffline()
	}
	m.commitLocked(next, events)
	return nil
}

func (m *Match) SendErrorTo(playerID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendLocked(m.conns[playerID], Envelope{Type: MsgError, Payload: mustJSON(errorPayload(err))})
}

func (m *Match) SendStateTo(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendStateLocked(playerID)
}

// commitLocked installs next, then lets any bots that are due take their
// turns.
func (m *Match) commitLocked(next *game.Game, events []game.Event) {
	m.applyLocked(next, events)
	m.driveBotsLocked()
}

func (m *Match) applyLocked(next *game.Game, events []game.Event) {
	changed := next != m.game
	m.game = next

	for _, ev := range events {
		m.publishLocked(ev)
		switch ev.(type) {
		case game.GameStarted:
			m.metrics.GameStarted()
			m.log.Info("game started", "game", next.ID, "players", len(next.Players))
		case game.GameEnded:
			m.metrics.GameFinished()
			m.log.Info("game finished", "game", next.ID, "rounds", next.Round)
			if m.onFinished != nil {
				m.onFinished(next)
			}
		}
	}
	if changed {
		m.broadcastStateLocked()
		m.persistLocked()
	}
}

func (m *Match) driveBotsLocked() {
	if m.botDelay > 0 {
		m.armBotLocked()
		return
	}
	for i := 0; i < maxBotSteps; i++ {
		if !m.botStepLocked() {
			return
		}
	}
	m.log.Warn("bots kept moving, giving up", "steps", maxBotSteps)
}

func (m *Match) botStepLocked() bool {
	next, events, ok, err := bot.Step(m.engine, m.brain, m.game)
	if !ok {
		return false
	}
	if err != nil {
		m.log.Error("bot move rejected", "err", err)
		return false
	}
	m.metrics.BotMoved()
	m.applyLocked(next, events)
	return true
}

func (m *Match) armBotLocked() {
	if _, due := bot.Pending(m.game); !due {
		return
	}
	m.botToken++
	token := m.botToken

	if m.botTimer != nil {
		m.botTimer.Stop()
	}
	m.botTimer = time.AfterFunc(m.botDelay, func() {
		m.onBotTimer(token)
	})
}

func (m *Match) onBotTimer(token int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != m.botToken {
		return // старый таймер
	}
	// ход сделан; если следующий тоже за ботом, взводим таймер заново
	if m.botStepLocked() {
		m.armBotLocked()
	}
}

// publishLocked sends ev to everyone allowed to see it.
func (m *Match) publishLocked(ev game.Event) {
	env := Envelope{Type: string(ev.EventType()), Payload: mustJSON(ev)}
	if to := game.Recipient(ev); to != "" {
		m.sendLocked(m.conns[to], env)
		return
	}
	m.broadcastLocked(env)
}

func (m *Match) broadcastStateLocked() {
	for pid := range m.conns {
		m.sendStateLocked(pid)
	}
}

func (m *Match) sendStateLocked(playerID string) {
	cc := m.conns[playerID]
	if cc == nil {
		return
	}
	m.sendLocked(cc, Envelope{Type: MsgState, Payload: mustJSON(m.buildStateLocked(playerID))})
}

func (m *Match) buildStateLocked(playerID string) StatePayload {
	g := m.game
	st := StatePayload{
		MatchID:       m.id,
		GameID:        g.ID,
		You:           playerID,
		HostID:        g.HostID,
		Phase:         g.Phase,
		Round:         g.Round,
		MaxRounds:     g.MaxRounds,
		DealerID:      g.DealerID(),
		TurnID:        g.CurrentPlayerID(),
		TrumpCard:     g.TrumpCard,
		TrumpSuit:     g.TrumpSuit,
		AwaitingTrump: g.AwaitingTrump,
		Players:       make([]PlayerView, 0, len(g.Players)),
		Hand:          []card.Card{},
		CurrentTrick:  g.CurrentTrick,
		LastTrick:     g.LastTrick,
		UndoRequest:   g.UndoRequest,
		CanUndo:       g.CanUndo(),
		AllowedBids:   game.AllowedBids(g, playerID),
		PlayableCards: game.PlayableCards(g, playerID),
		Rules:         g.Rules,
		HasPassword:   g.Password != "",
	}
	if g.Phase == game.PhaseWaiting {
		st.DealerID, st.TurnID = "", ""
	}
	for _, p := range g.Players {
		st.Players = append(st.Players, PlayerView{
			ID:          p.ID,
			Name:        p.Name,
			IsBot:       p.IsBot,
			IsConnected: p.IsConnected,
			SittingOut:  p.SittingOut,
			CardCount:   len(p.Hand),
			Bid:         p.CurrentBid,
			TricksWon:   p.TricksWon,
			Score:       p.Score,
		})
		if p.ID == playerID {
			st.Hand = append(st.Hand, p.Hand...)
		}
	}
	return st
}

func (m *Match) sendLocked(conn *ClientConn, env Envelope) {
	if conn == nil {
		return
	}
	b, _ := json.Marshal(env)
	select {
	case conn.send <- b:
	default:
		m.log.Warn("client too slow, dropping message", "type", env.Type)
	}
}

func (m *Match) broadcastLocked(env Envelope) {
	for _, cc := range m.conns {
		m.sendLocked(cc, env)
	}
}

func (m *Match) persistLocked() {
	if m.onPersist == nil {
		return
	}
	m.onPersist(m.snapshotLocked())
}

func errorPayload(err error) ErrorPayload {
	var gerr *game.Error
	if errors.As(err, &gerr) {
		return ErrorPayload{Code: string(gerr.Code), Message: gerr.Message}
	}
	switch {
	case errors.Is(err, errUnknown):
		return ErrorPayload{Code: "unknown_type", Message: err.Error()}
	case errors.Is(err, errBadJSON):
		return ErrorPayload{Code: "bad_json", Message: err.Error()}
	}
	return ErrorPayload{Code: "bad_input", Message: err.Error()}
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return errorPayload(err).Code
}
