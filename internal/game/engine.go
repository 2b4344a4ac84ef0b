package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine runs the use-cases. It keeps no per-game state: every operation
// takes a *Game and returns a new *Game plus the events it produced, or a
// *Error and no changes. Callers serialize operations per game.
type Engine struct {
	now   func() time.Time
	newID func() string

	seedMu sync.Mutex
	seeds  *rand.Rand
}

type Option func(*Engine)

// WithClock sets the source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs sets the generator for game and bot ids.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithSeedSource sets the rng that hands out per-game deal seeds.
func WithSeedSource(rng *rand.Rand) Option {
	return func(e *Engine) { e.seeds = rng }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.seeds == nil {
		e.seeds = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

func (e *Engine) nextSeed() int64 {
	e.seedMu.Lock()
	defer e.seedMu.Unlock()
	return e.seeds.Int63()
}

func (e *Engine) meta(t EventType) Meta {
	return Meta{Type: t, Timestamp: e.now()}
}

// roundRNG is the shuffle source for one round of one game.
func roundRNG(seed int64, round int) *rand.Rand {
	return rand.New(rand.NewSource(seed ^ int64(round)*0x5DEECE66D))
}
