package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/auth"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/jason-s-yu/shithead/internal/game"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := auth.Init(&config.Config{TokenExpiry: time.Hour}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*GameServer, *httptest.Server) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	// bots wait long enough that a test never races them
	cfg := &config.Config{AppEnv: "test", BotDelay: time.Hour}
	gs := NewGameServer(cfg, logger)
	srv := httptest.NewServer(NewRouter(cfg, logger, gs))
	t.Cleanup(srv.Close)
	return gs, srv
}

func createGame(t *testing.T, srv *httptest.Server, body string) uuid.UUID {
	t.Helper()
	resp, err := http.Post(srv.URL+"/game/create", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		GameID uuid.UUID        `json:"game_id"`
		Game   game.GameSummary `json:"game"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.GameID
}

func dialGame(t *testing.T, srv *httptest.Server, gameID uuid.UUID, token string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/ws/" + gameID.String()
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{Subprotocols: []string{"game"}, HTTPHeader: header})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

// readUntil reads messages until one of type want arrives.
func readUntil(t *testing.T, c *websocket.Conn, want string) map[string]interface{} {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		_, data, err := c.Read(ctx)
		require.NoError(t, err, "waiting for %s", want)
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg["type"] == want {
			return msg
		}
	}
}

func send(t *testing.T, c *websocket.Conn, msg map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, data))
}

func TestCreateAndListGames(t *testing.T) {
	gs, srv := newTestServer(t)

	id := createGame(t, srv, `{"seats":3,"bots":1,"houseRules":{"turnTimerSec":0}}`)
	g, ok := gs.GameStore.GetGame(id)
	require.True(t, ok)
	assert.Equal(t, 3, g.Seats)
	assert.Equal(t, 0, g.HouseRules.TurnTimerSec)

	resp, err := http.Get(srv.URL + "/game/list")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []game.GameSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, 1, list[0].Players)
	assert.Equal(t, 1, list[0].Bots)
	assert.False(t, list[0].Started)
}

func TestCreateGameRejectsBadTables(t *testing.T) {
	_, srv := newTestServer(t)

	for _, body := range []string{
		`{"seats":1}`,
		`{"seats":6}`,
		`{"seats":2,"bots":2}`,
		`{"seats":2,"houseRules":{"turnTimerSec":"soon"}}`,
		`not json`,
	} {
		resp, err := http.Post(srv.URL+"/game/create", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestCreateGameSetsGuestCookie(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/game/create", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var token string
	for _, c := range resp.Cookies() {
		if c.Name == authCookie {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)
	sub, err := auth.AuthenticateJWT(token)
	require.NoError(t, err)
	_, err = uuid.Parse(sub)
	assert.NoError(t, err)
}

func TestAccountsNeedDatabase(t *testing.T) {
	_, srv := newTestServer(t)

	for _, path := range []string{"/user/create", "/user/login"} {
		resp, err := http.Post(srv.URL+path, "application/json", bytes.NewBufferString(`{}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestMeReturnsSameGuestForToken(t *testing.T) {
	_, srv := newTestServer(t)
	token, err := auth.CreateJWT(uuid.New().String())
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	sub, _ := auth.AuthenticateJWT(token)
	assert.Equal(t, sub, body["id"])
	assert.Equal(t, guestName, body["username"])
}

func TestHeartbeat(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGameSocketDealsAndStarts(t *testing.T) {
	gs, srv := newTestServer(t)
	id := createGame(t, srv, `{"seats":2,"bots":1,"houseRules":{"turnTimerSec":0}}`)

	token, err := auth.CreateJWT(uuid.New().String())
	require.NoError(t, err)
	c := dialGame(t, srv, id, token)

	dealt := readUntil(t, c, string(game.EventPrivateDealt))
	cards, ok := dealt["cards"].([]interface{})
	require.True(t, ok)
	assert.Len(t, cards, 6)

	send(t, c, map[string]interface{}{"type": "action_select_faceup", "indices": []int{0, 1, 2}})
	readUntil(t, c, string(game.EventGameStart))

	g, ok := gs.GameStore.GetGame(id)
	require.True(t, ok)
	state := g.GetObfuscatedState(uuid.Nil)
	assert.True(t, state.Started)
	assert.Len(t, state.Players, 2)
}

func TestGameSocketRejectsUnknownGameAndFullTable(t *testing.T) {
	_, srv := newTestServer(t)

	c := dialGame(t, srv, uuid.New(), "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := c.Read(ctx)
	assert.Equal(t, InvalidGameIDError, websocket.CloseStatus(err))

	id := createGame(t, srv, `{"seats":2,"bots":1}`)
	first, _ := auth.CreateJWT(uuid.New().String())
	seated := dialGame(t, srv, id, first)
	readUntil(t, seated, string(game.EventPrivateDealt))
	second, _ := auth.CreateJWT(uuid.New().String())
	late := dialGame(t, srv, id, second)
	_, _, err = late.Read(ctx)
	status := websocket.CloseStatus(err)
	assert.True(t, status == GameStartedError || status == GameFullError, "got %v", status)
}

func TestGameSocketPingAndBadJSON(t *testing.T) {
	_, srv := newTestServer(t)
	id := createGame(t, srv, `{"seats":3}`)
	c := dialGame(t, srv, id, "")

	send(t, c, map[string]interface{}{"type": "ping"})
	readUntil(t, c, "pong")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte("{")))
	msg := readUntil(t, c, "error")
	assert.Equal(t, "invalid JSON format", msg["message"])
}

func TestDecodeActionFlattensPayload(t *testing.T) {
	action, err := decodeAction([]byte(`{"type":"action_play_facedown","payload":{"idx":2}}`))
	require.NoError(t, err)
	assert.Equal(t, "action_play_facedown", action.ActionType)
	assert.Equal(t, float64(2), action.Payload["idx"])

	action, err = decodeAction([]byte(`{"type":"action_play","cards":[{"rank":"7","suit":"H"}]}`))
	require.NoError(t, err)
	assert.Len(t, action.Payload["cards"], 1)
	assert.NotContains(t, action.Payload, "type")

	_, err = decodeAction([]byte(`{"cards":[]}`))
	assert.Error(t, err)
}

func TestHubReplacesOlderSocket(t *testing.T) {
	// a server that holds connections open until the client leaves
	accepted := make(chan *websocket.Conn, 2)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		accepted <- c
		<-release
	}))
	defer srv.Close()
	defer close(release)

	dial := func() *websocket.Conn {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
		require.NoError(t, err)
		return c
	}
	cl1, cl2 := dial(), dial()
	defer cl1.Close(websocket.StatusNormalClosure, "")
	defer cl2.Close(websocket.StatusNormalClosure, "")
	s1, s2 := <-accepted, <-accepted
	// the replaced client has to read to answer the close handshake
	go cl1.Read(context.Background())

	h := newHub(uuid.New(), logrus.New())
	user := uuid.New()
	old := h.register(user, s1)
	current := h.register(user, s2)
	assert.Equal(t, 1, h.size())

	assert.False(t, h.unregister(old), "stale socket must not drop the seat")
	h.sendTo(user, game.GameEvent{Type: game.EventGameStart})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := cl2.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), string(game.EventGameStart))

	assert.True(t, h.unregister(current))
	assert.Equal(t, 0, h.size())
}
