package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"example.com/wizard/internal/auth"
	"example.com/wizard/internal/config"
	"example.com/wizard/internal/game"
	"example.com/wizard/internal/httpapi"
	"example.com/wizard/internal/match"
	"example.com/wizard/internal/metrics"
	"example.com/wizard/internal/migrate"
	"example.com/wizard/internal/store"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db  *pgxpool.Pool
	rdb *redis.Client

	matches *match.MatchService
	srv     *http.Server
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	if cfg.Postgres.RunMigrations {
		if err := migrate.Up(cfg.Postgres.URL, log); err != nil {
			return nil, err
		}
	}

	// --- Postgres ---
	dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := dbpool.Ping(pingCtx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	// --- Redis (optional) ---
	var rdb *redis.Client
	var persist match.MatchPersistence
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			dbpool.Close()
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
		}
		persist = match.NewRedisMatchStore(rdb, cfg.Redis.MatchTTL)
	} else {
		log.Warn("REDIS_ADDR not set, match snapshots are kept in memory")
		persist = match.NewInMemoryMatchStore()
	}

	authSvc := auth.NewService([]byte(cfg.Auth.Secret))
	users := store.NewUserStore(dbpool)
	stats := store.NewStatsStore(dbpool)
	m := metrics.New(cfg.Metrics.Namespace)

	authH := &httpapi.AuthHandler{
		Users:    users,
		Stats:    stats,
		Auth:     authSvc,
		TokenTTL: cfg.Auth.TokenTTL,
		Log:      log,
	}

	// --- Game ---
	gameCfg := match.Config{Rules: cfg.Game.Rules, BotDelay: cfg.Game.BotDelay}
	matchSvc := match.NewMatchService(gameCfg, persist,
		match.WithLogger(log),
		match.WithMetrics(m),
		match.WithFinished(recordFinished(stats, log)),
	)
	gameSrv := match.NewServer(gameCfg, matchSvc, authSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", m.Handler())

	gameSrv.RegisterRoutes(mux)

	// --- auth routes ---
	mux.HandleFunc("/api/auth/register", authH.Register)
	mux.HandleFunc("/api/auth/login", authH.Login)
	mux.Handle("/api/me", httpapi.AuthMiddleware(authSvc)(http.HandlerFunc(authH.Me)))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, log: log, db: dbpool, rdb: rdb, matches: matchSvc, srv: srv}, nil
}

type gameRecorder interface {
	RecordGame(ctx context.Context, rec store.GameRecord) error
}

// recordFinished writes the final standings of human players to the stats
// tables.
func recordFinished(stats gameRecorder, log *slog.Logger) match.FinishedFunc {
	return func(ctx context.Context, matchID string, g *game.Game) {
		rec := gameRecord(matchID, g)
		if len(rec.Results) == 0 {
			return
		}
		if err := stats.RecordGame(ctx, rec); err != nil {
			log.Error("record game", "match", matchID, "game", g.ID, "err", err)
		}
	}
}

func gameRecord(matchID string, g *game.Game) store.GameRecord {
	rec := store.GameRecord{GameID: g.ID, MatchID: matchID, Rounds: g.Round}
	standings := game.Standings(g)
	top := 0
	if len(standings) > 0 {
		top = standings[0].Score
	}
	for _, s := range standings {
		if s.IsBot {
			continue
		}
		rec.Results = append(rec.Results, store.PlayerResult{
			UserID: s.PlayerID,
			Score:  s.Score,
			Won:    s.Score == top,
		})
	}
	return rec
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		a.matches.Shutdown()
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

func (a *App) Close(ctx context.Context) error {
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return nil
}
