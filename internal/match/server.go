package match

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"example.com/wizard/internal/auth"
)

type Server struct {
	cfg      Config
	matches  *MatchService
	verifier auth.Verifier
	log      *slog.Logger
}

func NewServer(cfg Config, matches *MatchService, verifier auth.Verifier) *Server {
	return &Server{
		cfg:      cfg,
		matches:  matches,
		verifier: verifier,
		log:      matches.log,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/match", s.handleCreateMatch)
	mux.HandleFunc("/ws/", s.handleWS)
}

type createMatchRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, ErrorPayload{Code: "unauthorized", Message: "missing token"})
		return
	}
	claims, err := s.verifier.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorPayload{Code: "unauthorized", Message: "invalid token"})
		return
	}

	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorPayload{Code: "bad_json", Message: "invalid json"})
		return
	}

	matchID := randID(10)
	m, err := s.matches.Create(r.Context(), matchID, claims.UserID, claims.DisplayName, req.Password)
	if err != nil {
		s.log.Error("create match", "err", err)
		http.Error(w, "failed to create match", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"matchId": matchID,
		"gameId":  m.Game().ID,
	})
}

// matchIDFromWSPath extracts the id from /ws/{matchId}. Ids are lowercase
// alphanumerics, at most 64 long.
func matchIDFromWSPath(path string) (string, bool) {
	id, ok := strings.CutPrefix(path, "/ws/")
	if !ok || id == "" || len(id) > 64 {
		return "", false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return "", false
		}
	}
	return id, true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(tok)
	}
	return ""
}

func randID(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
