package game

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxNameLen = 32

// CreateGame opens a lobby seated with the host.
func (e *Engine) CreateGame(hostID, hostName, password string, rules Rules) (*Game, []Event, error) {
	if hostID == "" {
		return nil, nil, errors.New("host id is empty")
	}
	if err := rules.Validate(); err != nil {
		return nil, nil, fmt.Errorf("rules: %w", err)
	}

	g := &Game{
		ID:        e.newID(),
		HostID:    hostID,
		Phase:     PhaseWaiting,
		Rules:     rules,
		Password:  password,
		Seed:      e.nextSeed(),
		TurnIndex: -1,
		Players: []Player{{
			ID:          hostID,
			Name:        sanitizeName(hostName, hostID),
			IsConnected: true,
		}},
	}
	return g, []Event{e.joined(g, 0)}, nil
}

// Join seats a new player in the lobby, or reconnects a known player who
// dropped.
func (e *Engine) Join(g *Game, playerID, name, password string) (*Game, []Event, error) {
	if idx := g.indexOf(playerID); idx >= 0 {
		p := g.Players[idx]
		if p.IsConnected || p.IsBot {
			return nil, nil, withPlayer(ErrPlayerAlreadyInGame, playerID)
		}
		if !passwordMatches(g.Password, password) {
			return nil, nil, withPlayer(ErrInvalidRoomPassword, playerID)
		}
		next, events := e.reconnect(g, idx)
		return next, events, nil
	}

	if g.Phase != PhaseWaiting {
		return nil, nil, withPlayer(ErrGameAlreadyStarted, playerID)
	}
	if !passwordMatches(g.Password, password) {
		return nil, nil, withPlayer(ErrInvalidRoomPassword, playerID)
	}
	if len(g.Players) >= g.Rules.MaxPlayers {
		full := *ErrRoomFull
		full.PlayerID = playerID
		full.Limit = g.Rules.MaxPlayers
		return nil, nil, &full
	}

	next := g.Clone()
	next.Players = append(next.Players, Player{
		ID:          playerID,
		Name:        sanitizeName(name, playerID),
		IsConnected: true,
	})
	events := []Event{e.joined(next, len(next.Players)-1)}
	if !g.hasHumanHost() {
		next.HostID = playerID
		events = append(events, HostChanged{Meta: e.meta(EventHostChanged), PreviousHostID: g.HostID, HostID: playerID})
	}
	return next, events, nil
}

// hasHumanHost reports whether HostID names a seated human.
func (g *Game) hasHumanHost() bool {
	p, _, ok := g.Player(g.HostID)
	return ok && !p.IsBot
}

// reconnect marks a dropped player as back. They sit out until the next
// deal; a table left without anyone to play resumes dealing here.
func (e *Engine) reconnect(g *Game, idx int) (*Game, []Event) {
	next := g.Clone()
	next.Previous = nil
	next.Players[idx].IsConnected = true
	id := next.Players[idx].ID

	events := []Event{PlayerReconnected{Meta: e.meta(EventPlayerReconnected), PlayerID: id}}
	if host, _, ok := g.Player(g.HostID); !ok || !host.IsConnected {
		next.HostID = id
		events = append(events, HostChanged{Meta: e.meta(EventHostChanged), PreviousHostID: g.HostID, HostID: id})
	}
	if next.Phase == PhaseRoundEnd && next.Rules.AutoAdvance && g.eligibleCount() == 0 {
		events = append(events, e.advance(next)...)
	}
	return next, events
}

// Leave removes a player from the lobby. Once the game has started a
// player is never removed; leaving counts as a disconnect.
func (e *Engine) Leave(g *Game, playerID string) (*Game, []Event, error) {
	idx := g.indexOf(playerID)
	if idx < 0 {
		return nil, nil, playerNotFound(playerID)
	}
	if g.Phase != PhaseWaiting {
		return e.Disconnect(g, playerID)
	}
	next, events := e.removePlayer(g, idx)
	return next, events, nil
}

// Disconnect marks a player as gone. The player sits out the rest of the
// round, a pending undo is rejected on their behalf, the host moves on if
// needed and any turn they were holding is passed along. Bots and players
// already disconnected are left as they are.
func (e *Engine) Disconnect(g *Game, playerID string) (*Game, []Event, error) {
	idx := g.indexOf(playerID)
	if idx < 0 {
		return nil, nil, playerNotFound(playerID)
	}
	p := g.Players[idx]
	if p.IsBot || !p.IsConnected {
		return g, nil, nil
	}
	if g.Phase == PhaseWaiting {
		next, events := e.removePlayer(g, idx)
		return next, events, nil
	}

	next := g.Clone()
	next.Previous = nil
	next.Players[idx].IsConnected = false
	if next.Phase == PhaseBidding || next.Phase == PhasePlaying {
		next.Players[idx].SittingOut = true
	}

	events := []Event{PlayerDisconnected{Meta: e.meta(EventPlayerDisconnected), PlayerID: playerID}}
	if next.UndoRequest != nil {
		next.UndoRequest = nil
		events = append(events, UndoRejected{Meta: e.meta(EventUndoRejected), PlayerID: playerID, Implicit: true})
	}
	if next.HostID == playerID {
		if h := pickHost(next, idx, playerID); h != "" {
			next.HostID = h
			events = append(events, HostChanged{Meta: e.meta(EventHostChanged), PreviousHostID: playerID, HostID: h})
		}
	}
	events = append(events, e.settle(next, idx)...)
	return next, events, nil
}

// AddBot seats a bot in the lobby.
func (e *Engine) AddBot(g *Game, hostID, name string) (*Game, []Event, error) {
	if g.Phase != PhaseWaiting {
		return nil, nil, ErrGameAlreadyStarted
	}
	if hostID == "" || hostID != g.HostID {
		return nil, nil, notHost(hostID)
	}
	if len(g.Players) >= g.Rules.MaxPlayers {
		full := *ErrMaxPlayersReached
		full.Limit = g.Rules.MaxPlayers
		return nil, nil, &full
	}

	next := g.Clone()
	id := "bot-" + e.newID()
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Bot %d", countBots(g)+1)
	}
	next.Players = append(next.Players, Player{
		ID:    id,
		Name:  sanitizeName(name, id),
		IsBot: true,
	})
	return next, []Event{e.joined(next, len(next.Players)-1)}, nil
}

// RemoveBot takes a bot out of the lobby.
func (e *Engine) RemoveBot(g *Game, hostID, botID string) (*Game, []Event, error) {
	if g.Phase != PhaseWaiting {
		return nil, nil, ErrGameAlreadyStarted
	}
	if hostID == "" || hostID != g.HostID {
		return nil, nil, notHost(hostID)
	}
	idx := g.indexOf(botID)
	if idx < 0 || !g.Players[idx].IsBot {
		return nil, nil, playerNotFound(botID)
	}
	next, events := e.removePlayer(g, idx)
	return next, events, nil
}

func (e *Engine) removePlayer(g *Game, idx int) (*Game, []Event) {
	next := g.Clone()
	leaving := next.Players[idx]

	newHost := ""
	if next.HostID == leaving.ID {
		newHost = pickHost(next, idx, leaving.ID)
	}
	next.Players = append(next.Players[:idx], next.Players[idx+1:]...)

	// with no human left the lobby stays hostless until one joins
	events := []Event{PlayerLeft{Meta: e.meta(EventPlayerLeft), PlayerID: leaving.ID}}
	if next.HostID == leaving.ID {
		next.HostID = newHost
		events = append(events, HostChanged{Meta: e.meta(EventHostChanged), PreviousHostID: leaving.ID, HostID: newHost})
	}
	return next, events
}

// pickHost chooses a connected human other than exclude according to the
// game's host transfer policy, starting from seat from. Returns "" when
// there is none.
func pickHost(g *Game, from int, exclude string) string {
	ok := func(p Player) bool { return p.IsConnected && !p.IsBot && p.ID != exclude }
	n := len(g.Players)

	if g.Rules.HostTransfer == HostTransferLongestSeated {
		for _, p := range g.Players {
			if ok(p) {
				return p.ID
			}
		}
		return ""
	}
	for step := 1; step <= n; step++ {
		p := g.Players[(from+step)%n]
		if ok(p) {
			return p.ID
		}
	}
	return ""
}

func (e *Engine) joined(g *Game, idx int) Event {
	p := g.Players[idx]
	return PlayerJoined{
		Meta:     e.meta(EventPlayerJoined),
		PlayerID: p.ID,
		Name:     p.Name,
		IsBot:    p.IsBot,
		Seat:     idx,
	}
}

func countBots(g *Game) int {
	n := 0
	for _, p := range g.Players {
		if p.IsBot {
			n++
		}
	}
	return n
}

func passwordMatches(want, got string) bool {
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func sanitizeName(name, fallback string) string {
	name = strings.TrimSpace(stripMarkup(name))
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	if name == "" {
		return fallback
	}
	return name
}
