package game

import (
	"strings"
	"unicode/utf8"
)

// MaxChatLen is the longest chat message kept, in characters.
const MaxChatLen = 100

var markup = strings.NewReplacer("<", "", ">", "")

func stripMarkup(s string) string { return markup.Replace(s) }

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func sanitizeText(s string, n int) string { return stripMarkup(truncate(s, n)) }

// SanitizeChat cuts msg to MaxChatLen characters and removes angle brackets.
// Empty messages are allowed.
func SanitizeChat(msg string) string { return sanitizeText(msg, MaxChatLen) }

// SendChat relays a chat line. The game itself is unchanged.
func (e *Engine) SendChat(g *Game, playerID, message string) (*Game, []Event, error) {
	p, _, ok := g.Player(playerID)
	if !ok {
		return nil, nil, playerNotFound(playerID)
	}
	return g, []Event{ChatMessage{
		Meta:       e.meta(EventChatMessage),
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Message:    SanitizeChat(message),
	}}, nil
}

// SendEmote relays an emote. emoteID is passed through as is.
func (e *Engine) SendEmote(g *Game, playerID, emoteID string) (*Game, []Event, error) {
	if g.indexOf(playerID) < 0 {
		return nil, nil, playerNotFound(playerID)
	}
	return g, []Event{Emote{Meta: e.meta(EventEmote), PlayerID: playerID, EmoteID: emoteID}}, nil
}
