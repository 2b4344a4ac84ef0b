package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/wizard/internal/auth"
	"example.com/wizard/internal/store"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[string]store.User
	byEmail map[string]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]store.User{}, byEmail: map[string]string{}}
}

func (f *fakeUsers) Create(_ context.Context, u store.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return store.ErrEmailTaken
	}
	u.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u.ID
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return store.User{}, store.ErrUserNotFound
	}
	return f.byID[id], nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return store.User{}, store.ErrUserNotFound
	}
	return u, nil
}

type fakeStats struct {
	mu    sync.Mutex
	inits []string
}

func (f *fakeStats) InitForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits = append(f.inits, userID)
	return nil
}

func (f *fakeStats) Get(_ context.Context, userID string) (store.PlayerStats, error) {
	best := 90
	return store.PlayerStats{UserID: userID, GamesPlayed: 3, Wins: 1, TotalScore: 150, BestScore: &best}, nil
}

func newTestAPI(t *testing.T) (*httptest.Server, *fakeStats) {
	t.Helper()
	authSvc := auth.NewService([]byte("test-secret"))
	stats := &fakeStats{}
	h := &AuthHandler{
		Users:    newFakeUsers(),
		Stats:    stats,
		Auth:     authSvc,
		TokenTTL: time.Hour,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", h.Register)
	mux.HandleFunc("/api/auth/login", h.Login)
	mux.Handle("/api/me", AuthMiddleware(authSvc)(http.HandlerFunc(h.Me)))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, stats
}

func do(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestRegister_Validation(t *testing.T) {
	ts, _ := newTestAPI(t)
	url := ts.URL + "/api/auth/register"

	cases := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing fields", `{"email":"a@b.c"}`, http.StatusBadRequest},
		{"bad email", `{"email":"nope","password":"secret1","displayName":"A"}`, http.StatusBadRequest},
		{"short password", `{"email":"a@b.c","password":"123","displayName":"A"}`, http.StatusBadRequest},
		{"long name", `{"email":"a@b.c","password":"secret1","displayName":"` + strings.Repeat("x", 33) + `"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, out := do(t, http.MethodPost, url, "", tc.body)
			assert.Equal(t, tc.code, resp.StatusCode)
			assert.Equal(t, "bad_request", out["code"])
		})
	}

	resp, _ := do(t, http.MethodGet, url, "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRegisterLoginMe(t *testing.T) {
	ts, stats := newTestAPI(t)

	resp, out := do(t, http.MethodPost, ts.URL+"/api/auth/register", "",
		`{"email":" Alice@Example.com ","password":"secret1","displayName":" Alice "}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	userID, _ := out["id"].(string)
	require.NotEmpty(t, userID)
	assert.Equal(t, []string{userID}, stats.inits)

	resp, out = do(t, http.MethodPost, ts.URL+"/api/auth/register", "",
		`{"email":"alice@example.com","password":"other12","displayName":"Imposter"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email_taken", out["code"])

	resp, _ = do(t, http.MethodPost, ts.URL+"/api/auth/login", "",
		`{"email":"alice@example.com","password":"wrong!!"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, ts.URL+"/api/auth/login", "",
		`{"email":"bob@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, out = do(t, http.MethodPost, ts.URL+"/api/auth/login", "",
		`{"email":"ALICE@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := out["accessToken"].(string)
	require.NotEmpty(t, token)

	resp, out = do(t, http.MethodGet, ts.URL+"/api/me", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, out["id"])
	assert.Equal(t, "Alice", out["displayName"])
	assert.Equal(t, "alice@example.com", out["email"])
	st := out["stats"].(map[string]any)
	assert.EqualValues(t, 3, st["gamesPlayed"])
	assert.EqualValues(t, 90, st["bestScore"])
}

func TestAuthMiddleware(t *testing.T) {
	ts, _ := newTestAPI(t)

	resp, out := do(t, http.MethodGet, ts.URL+"/api/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", out["code"])

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other, err := auth.NewService([]byte("other")).Sign("u1", "A", time.Hour)
	require.NoError(t, err)
	resp, _ = do(t, http.MethodGet, ts.URL+"/api/me", other, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// valid token for a user that does not exist
	tok, err := auth.NewService([]byte("test-secret")).Sign("ghost", "G", time.Hour)
	require.NoError(t, err)
	resp, _ = do(t, http.MethodGet, ts.URL+"/api/me", tok, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
