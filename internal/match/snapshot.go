package match

import (
	"time"

	"example.com/wizard/internal/game"
)

// Snapshot is the serializable state of a match, stored in Redis.
// Connections are not part of it; players reattach after a restart.
type Snapshot struct {
	MatchID string     `json:"matchId"`
	Game    *game.Game `json:"game"`
	SavedAt time.Time  `json:"savedAt"`
}

func (m *Match) snapshotLocked() Snapshot {
	return Snapshot{
		MatchID: m.id,
		Game:    m.game,
		SavedAt: time.Now(),
	}
}
