package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/partygames/internal/api"
	"github.com/mcoot/partygames/internal/api/apierr"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/factory"
	"github.com/mcoot/partygames/internal/model"
	shared "github.com/mcoot/partygames/internal/middleware"
	"github.com/mcoot/partygames/internal/testutil"
)

// testServer wires the router to a test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithLimiter(t, nil)
}

func newTestServerWithLimiter(t *testing.T, limiter *shared.ClientLimiter) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:             testutil.NopLogger(),
		SessionController:  app.SessionController,
		EventManager:       app.EventManager,
		WordsService:       app.WordsService,
		PreferencesService: app.PreferencesService,
		RateLimiter:        limiter,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	health := decode[response.Health](t, rr)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "offline", health.Supplier)
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"game": "mafia"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	created := decode[response.CreateSessionResponse](t, rr)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "mafia", created.Session.Game)
	assert.Equal(t, "rules", created.Session.Phase)
	assert.NotNil(t, created.Session.Mafia)
	assert.Nil(t, created.Session.Imposter)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, created.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// The token hash never leaves the server
	assert.NotContains(t, rr.Body.String(), "token_hash")
}

func TestCreateSessionName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"game": "charades"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	generated := decode[response.CreateSessionResponse](t, rr)
	assert.Len(t, strings.Split(generated.Session.Name, "-"), 2, generated.Session.Name)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"game": "charades", "name": " Friday night "}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	named := decode[response.CreateSessionResponse](t, rr)
	assert.Equal(t, "Friday night", named.Session.Name)
}

func TestCreateSessionValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"game": "chess"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownGame, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"game": "mafia", "colour": "red"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateSessionUsesPreferredLocale(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/v1/preferences?profile=kitchen", map[string]string{"locale": "de"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"game": "charades", "profile": "kitchen"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[response.CreateSessionResponse](t, rr)
	assert.Equal(t, "de", created.Session.Charades.Locale)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"game": "charades", "locale": "fr"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	created = decode[response.CreateSessionResponse](t, rr)
	assert.Equal(t, "fr", created.Session.Charades.Locale)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)
	id, _ := createSession(t, ts, "imposter")

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+id, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+id, nil, "wrong-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Another session's token does not open this one
	_, other := createSession(t, ts, "imposter")
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/actions/next", nil, other)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTokenFromQueryAndCookie(t *testing.T) {
	ts := newTestServer(t)
	id, token := createSession(t, ts, "synonyms")

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+id+"?token="+token, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	_, token := createSession(t, ts, "mafia")

	rr := ts.request(http.MethodGet, "/api/v1/sessions/does-not-exist", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSessionNotFound, errorCode(t, rr))
}

func TestPlayers(t *testing.T) {
	ts := newTestServer(t)
	id, token := createSession(t, ts, "imposter")

	// The roster is edited on the players step only
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/players", map[string]string{"name": "Ana"}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeInvalidPhase, errorCode(t, rr))

	act(t, ts, id, token, "next", nil)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/players", map[string]string{"name": "Ana"}, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	added := decode[response.AddPlayerResponse](t, rr)
	assert.Equal(t, "Ana", added.Player.Name)
	assert.Len(t, added.Session.Imposter.Players, 1)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/players", map[string]string{"name": "  "}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidName, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/"+id+"/players/"+added.Player.ID, nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	sess := decode[response.Session](t, rr)
	assert.Empty(t, sess.Imposter.Players)

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/"+id+"/players/"+added.Player.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, errorCode(t, rr))
}

func TestActions(t *testing.T) {
	ts := newTestServer(t)
	id, token := createSession(t, ts, "imposter")

	sess := act(t, ts, id, token, "next", nil)
	assert.Equal(t, "players", sess.Phase)

	addPlayers(t, ts, id, token, "Ana", "Ben")

	// Two players are not enough for the game
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/actions/next", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNotEnoughPlayers, errorCode(t, rr))

	addPlayers(t, ts, id, token, "Cem")
	sess = act(t, ts, id, token, "next", nil)
	assert.Equal(t, "rounds_and_time", sess.Phase)

	sess = act(t, ts, id, token, "set_rounds", map[string]int{"rounds": 2})
	assert.Equal(t, 2, sess.Imposter.Settings.Rounds)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/actions/set_rounds", map[string]int{"rounds": 0}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidSetting, errorCode(t, rr))

	sess = act(t, ts, id, token, "start", nil)
	assert.Equal(t, "word_assignment", sess.Phase)
	require.NotNil(t, sess.Imposter.CurrentPair)

	// Gameplay waits until every word has been read
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/actions/begin", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNotAllRevealed, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/actions/fly", nil, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownAction, errorCode(t, rr))
}

func TestListActions(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/synonyms/actions", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	actions := decode[response.Actions](t, rr)
	assert.Equal(t, "synonyms", actions.Game)
	assert.Contains(t, actions.Actions, "sense")
	assert.Contains(t, actions.Actions, "start_turn")

	rr = ts.request(http.MethodGet, "/api/v1/games/chess/actions", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResults(t *testing.T) {
	ts := newTestServer(t)
	id, token := createSession(t, ts, "charades")

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+id+"/results", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Game  string `json:"game"`
		Teams *struct {
			Winner int `json:"winner"`
		} `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "charades", res.Game)
	require.NotNil(t, res.Teams)
	assert.Equal(t, -1, res.Teams.Winner)
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)
	id, token := createSession(t, ts, "mafia")
	other, otherToken := createSession(t, ts, "charades")

	rr := ts.request(http.MethodDelete, "/api/v1/sessions/"+id, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+id, nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+other, nil, otherToken)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionIDsAreNotListed(t *testing.T) {
	ts := newTestServer(t)
	createSession(t, ts, "mafia")

	// Only creation is served on the collection; sessions are reached by id with a host token
	rr := ts.request(http.MethodGet, "/api/v1/sessions", nil, "")
	assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, rr.Code)
	assert.NotContains(t, rr.Body.String(), "sessions")
}

func TestWordsOffline(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/words/pairs?limit=5&locale=en", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	pairs := decode[response.WordPairs](t, rr)
	assert.Equal(t, "fallback", string(pairs.Source))
	assert.NotEmpty(t, pairs.Pairs)
	assert.LessOrEqual(t, len(pairs.Pairs), 5)

	rr = ts.request(http.MethodGet, "/api/v1/words/charades", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.Words](t, rr)
	assert.Equal(t, "en", list.Locale)
	assert.NotEmpty(t, list.Words)

	rr = ts.request(http.MethodGet, "/api/v1/words/synonyms?locale=tr", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list = decode[response.Words](t, rr)
	assert.Equal(t, "tr", list.Locale)
}

func TestWordsValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/words/pairs?limit=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/words/pairs?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/words/synonyms?locale=xx", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidLocale, errorCode(t, rr))
}

func TestPreferences(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/preferences", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	prefs := decode[response.Preferences](t, rr)
	assert.Equal(t, "en", prefs.Locale)
	assert.Equal(t, "system", string(prefs.Theme))
	assert.False(t, prefs.SignedIn)

	body := map[string]string{"theme": "dark", "auth_token": "secret"}
	rr = ts.request(http.MethodPut, "/api/v1/preferences", body, "")
	require.Equal(t, http.StatusOK, rr.Code)
	prefs = decode[response.Preferences](t, rr)
	assert.Equal(t, "dark", string(prefs.Theme))
	assert.True(t, prefs.SignedIn)
	assert.NotContains(t, rr.Body.String(), "secret")

	rr = ts.request(http.MethodPut, "/api/v1/preferences", map[string]string{"theme": "neon"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidTheme, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/preferences/token", nil, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/preferences", nil, "")
	prefs = decode[response.Preferences](t, rr)
	assert.False(t, prefs.SignedIn)
	assert.Equal(t, "dark", string(prefs.Theme))
}

func TestRateLimit(t *testing.T) {
	ts := newTestServerWithLimiter(t, shared.NewClientLimiter(0.001, 2))

	for i := 0; i < 2; i++ {
		rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Equal(t, apierr.CodeRateLimited, errorCode(t, rr))
}

// Helper functions

func TestJoinQR(t *testing.T) {
	ts := newTestServer(t)
	id, token := createSession(t, ts, "imposter_multi")

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+id+"/qr", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+id+"/qr?size=8", nil, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))

	other, otherToken := createSession(t, ts, "charades")
	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+other+"/qr", nil, otherToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoJoinCode, errorCode(t, rr))
}

func TestWebSocketEvents(t *testing.T) {
	ts := newTestServer(t)
	id, token := createSession(t, ts, "charades")

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/sessions/" + id + "/ws"

	// The upgrade goes through the host token check like every session route
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, greeting, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(greeting), `"connected"`)

	hub := ts.app.EventManager.Hub(model.SessionID(id))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	act(t, ts, id, token, "next", nil)

	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	var event model.Event
	require.NoError(t, json.Unmarshal(frame, &event))
	assert.Equal(t, model.EventPhaseChanged, event.Type)
	assert.Equal(t, model.SessionID(id), event.SessionID)
}

func createSession(t *testing.T, ts *testServer, game string) (string, string) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"game": game}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decode[response.CreateSessionResponse](t, rr)
	return created.Session.ID, created.Token
}

func act(t *testing.T, ts *testServer, id, token, action string, body any) response.Session {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/actions/"+action, body, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.Session](t, rr)
}

func addPlayers(t *testing.T, ts *testServer, id, token string, names ...string) {
	t.Helper()

	for _, name := range names {
		rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/players", map[string]string{"name": name}, token)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		ts.app.MockClock.Advance(1)
	}
}
