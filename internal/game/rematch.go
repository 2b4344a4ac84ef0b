package game

// RequestRematch builds a fresh lobby from a finished game: same seats,
// names and connection flags, nothing else carried over.
func (e *Engine) RequestRematch(g *Game, playerID string) (*Game, []Event, error) {
	if g.Phase != PhaseGameEnd {
		return nil, nil, invalidPhase(PhaseGameEnd, g.Phase)
	}
	if playerID == "" || playerID != g.HostID {
		return nil, nil, notHost(playerID)
	}

	next := &Game{
		ID:        e.newID(),
		HostID:    g.HostID,
		Phase:     PhaseWaiting,
		Rules:     g.Rules,
		Password:  g.Password,
		Seed:      e.nextSeed(),
		TurnIndex: -1,
		Players:   make([]Player, len(g.Players)),
	}
	for i, p := range g.Players {
		next.Players[i] = Player{
			ID:          p.ID,
			Name:        p.Name,
			IsBot:       p.IsBot,
			IsConnected: p.IsConnected,
		}
	}
	return next, []Event{RematchStarted{
		Meta:           e.meta(EventRematchStarted),
		GameID:         next.ID,
		PreviousGameID: g.ID,
	}}, nil
}
