package match

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"example.com/wizard/internal/bot"
	"example.com/wizard/internal/game"
	"example.com/wizard/internal/metrics"
)

const persistTimeout = 2 * time.Second

// Config is the host-level game configuration.
type Config struct {
	Rules    game.Rules
	BotDelay time.Duration // 0 => bots move immediately
}

// FinishedFunc is called once for every game that reaches GAME_END.
type FinishedFunc func(ctx context.Context, matchID string, g *game.Game)

// MatchService отвечает за:
// - in-memory кэш матчей
// - восстановление матчей из persistent storage (Redis)
type MatchService struct {
	mu sync.Mutex
	in map[string]*Match

	cfg     Config
	persist MatchPersistence

	engine     *game.Engine
	brain      bot.Brain
	log        *slog.Logger
	metrics    *metrics.Metrics
	onFinished FinishedFunc
}

type ServiceOption func(*MatchService)

func WithEngine(e *game.Engine) ServiceOption {
	return func(s *MatchService) { s.engine = e }
}

func WithBrain(b bot.Brain) ServiceOption {
	return func(s *MatchService) { s.brain = b }
}

func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *MatchService) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *MatchService) { s.metrics = m }
}

// WithFinished registers fn to run when a game ends. It runs on its own
// goroutine.
func WithFinished(fn FinishedFunc) ServiceOption {
	return func(s *MatchService) { s.onFinished = fn }
}

func NewMatchService(cfg Config, persist MatchPersistence, opts ...ServiceOption) *MatchService {
	s := &MatchService{
		in:      make(map[string]*Match),
		cfg:     cfg,
		persist: persist,
		engine:  game.NewEngine(),
		brain:   bot.Simple{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a lobby with hostID seated as host.
func (s *MatchService) Create(ctx context.Context, matchID, hostID, hostName, password string) (*Match, error) {
	g, _, err := s.engine.CreateGame(hostID, hostName, password, s.cfg.Rules)
	if err != nil {
		return nil, err
	}
	m := s.newMatch(matchID, g)

	m.mu.Lock()
	snap := m.snapshotLocked()
	m.mu.Unlock()
	if err := s.persist.Save(ctx, matchID, snap); err != nil {
		s.metrics.PersistFailed()
		s.log.Error("save new match", "match", matchID, "err", err)
	}

	s.mu.Lock()
	s.in[matchID] = m
	n := len(s.in)
	s.mu.Unlock()
	s.metrics.SetActiveMatches(n)

	s.log.Info("match created", "match", matchID, "host", hostID, "game", g.ID)
	return m, nil
}

func (s *MatchService) GetOrLoad(ctx context.Context, matchID string) (*Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.in[matchID]; ok {
		return m, true, nil
	}

	snap, found, err := s.persist.Load(ctx, matchID)
	if err != nil || !found {
		return nil, false, err
	}
	if snap.Game == nil {
		return nil, false, errors.New("snapshot has no game")
	}

	m := s.newMatch(matchID, snap.Game)
	// если до рестарта ход был за ботом, продолжаем с того же места
	m.mu.Lock()
	m.driveBotsLocked()
	m.mu.Unlock()

	s.in[matchID] = m
	s.metrics.SetActiveMatches(len(s.in))
	s.log.Info("match restored", "match", matchID, "phase", snap.Game.Phase, "saved", snap.SavedAt)
	return m, true, nil
}

// Shutdown stops the bot timers of every live match.
func (s *MatchService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.in {
		m.Stop()
	}
}

func (s *MatchService) newMatch(matchID string, g *game.Game) *Match {
	m := NewMatch(matchID, g, Deps{
		Engine:   s.engine,
		Log:      s.log,
		Metrics:  s.metrics,
		Brain:    s.brain,
		BotDelay: s.cfg.BotDelay,
	})
	m.onPersist = func(snap Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.persist.Save(ctx, matchID, snap); err != nil {
			s.metrics.PersistFailed()
			s.log.Error("save match", "match", matchID, "err", err)
		}
	}
	if s.onFinished != nil {
		m.onFinished = func(g *game.Game) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				s.onFinished(ctx, matchID, g)
			}()
		}
	}
	return m
}
