package game

const maxReasonLen = 200

// RequestUndo opens a negotiation to revert the most recent progress
// action. The requester approves implicitly.
func (e *Engine) RequestUndo(g *Game, playerID, reason string) (*Game, []Event, error) {
	if g.indexOf(playerID) < 0 {
		return nil, nil, playerNotFound(playerID)
	}
	if g.Phase == PhaseWaiting {
		return nil, nil, withPlayer(ErrGameNotStarted, playerID)
	}
	if g.UndoRequest != nil {
		return nil, nil, withPlayer(ErrUndoAlreadyPending, playerID)
	}
	if g.Previous == nil {
		return nil, nil, withPlayer(ErrUndoNotAvailable, playerID)
	}

	next := g.Clone()
	next.UndoRequest = &UndoRequest{
		RequesterID:   playerID,
		Reason:        sanitizeText(reason, maxReasonLen),
		Approvals:     []string{playerID},
		TargetVersion: g.Version,
	}
	events := []Event{UndoRequested{
		Meta:        e.meta(EventUndoRequested),
		RequesterID: playerID,
		Reason:      next.UndoRequest.Reason,
	}}
	if consensus(next) {
		applied, ev := e.applyUndo(next)
		return applied, append(events, ev), nil
	}
	return next, events, nil
}

// ApproveUndo adds playerID's approval. Once every connected human has
// approved, the game rolls back.
func (e *Engine) ApproveUndo(g *Game, playerID string) (*Game, []Event, error) {
	if g.UndoRequest == nil {
		return nil, nil, withPlayer(ErrNoActiveUndoRequest, playerID)
	}
	if g.indexOf(playerID) < 0 {
		return nil, nil, playerNotFound(playerID)
	}
	if g.UndoRequest.approvedBy(playerID) {
		err := withPlayer(ErrUndoNotAvailable, playerID)
		err.Message = "undo already approved"
		return nil, nil, err
	}
	if g.Previous == nil || g.Version != g.UndoRequest.TargetVersion {
		err := withPlayer(ErrUndoNotAvailable, playerID)
		err.Message = "the action can no longer be undone"
		return nil, nil, err
	}

	next := g.Clone()
	next.UndoRequest.Approvals = append(next.UndoRequest.Approvals, playerID)
	events := []Event{UndoApproved{
		Meta:      e.meta(EventUndoApproved),
		PlayerID:  playerID,
		Approvals: append([]string(nil), next.UndoRequest.Approvals...),
	}}
	if consensus(next) {
		applied, ev := e.applyUndo(next)
		return applied, append(events, ev), nil
	}
	return next, events, nil
}

// RejectUndo cancels the pending negotiation.
func (e *Engine) RejectUndo(g *Game, playerID string) (*Game, []Event, error) {
	if g.UndoRequest == nil {
		return nil, nil, withPlayer(ErrNoActiveUndoRequest, playerID)
	}
	if g.indexOf(playerID) < 0 {
		return nil, nil, playerNotFound(playerID)
	}
	next := g.Clone()
	next.UndoRequest = nil
	return next, []Event{UndoRejected{Meta: e.meta(EventUndoRejected), PlayerID: playerID}}, nil
}

func consensus(g *Game) bool {
	for _, id := range g.connectedHumans() {
		if !g.UndoRequest.approvedBy(id) {
			return false
		}
	}
	return true
}

// applyUndo restores the snapshot taken before the last progress action.
// The version keeps counting up so stale requests stay detectable.
func (e *Engine) applyUndo(g *Game) (*Game, Event) {
	restored := g.Previous.Clone()
	restored.Previous = nil
	restored.UndoRequest = nil
	restored.Version = g.Version + 1
	return restored, UndoApplied{Meta: e.meta(EventUndoApplied), Version: restored.Version}
}
