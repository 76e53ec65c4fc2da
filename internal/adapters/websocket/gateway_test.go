package websocket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"quizsalon/internal/adapters/persistence"
	"quizsalon/internal/adapters/security"
	ws "quizsalon/internal/adapters/websocket"
	"quizsalon/internal/application/usecases"
	"quizsalon/internal/infra/db"
	"quizsalon/internal/ports"
	"quizsalon/internal/testutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type server struct {
	url     string
	tokens  *security.JWTService
	gateway *ws.Gateway
	rooms   ports.RoomRepository
	signup  func(t *testing.T, email, pseudo string) string
}

// newServer monta o gateway completo sobre um SQLite temporário.
func newServer(t *testing.T) *server {
	t.Helper()
	conn := testutil.SQLite(t)

	rooms := persistence.NewSQLRoomRepository(conn, db.DriverSQLite)
	questions := persistence.NewSQLQuestionRepository(conn, db.DriverSQLite)
	profiles := persistence.NewSQLProfileRepository(conn, db.DriverSQLite)
	histories := persistence.NewSQLHistoryRepository(conn, db.DriverSQLite)
	accounts := persistence.NewSQLAccountRepository(conn, db.DriverSQLite)
	store := persistence.NewInMemorySessionStore()

	timings := usecases.Timings{
		CountdownTick:   5 * time.Millisecond,
		QuickStartDelay: 5 * time.Millisecond,
		EmptyGrace:      50 * time.Millisecond,
		ResultLinger:    50 * time.Millisecond,
	}
	sched := usecases.NewScheduler(store.Lock)
	t.Cleanup(sched.Stop)

	hub := ws.NewHub()
	t.Cleanup(hub.Stop)

	hasher := security.NewBcryptHasherWithCost(bcrypt.MinCost)
	tokens := security.NewJWTService("segredo-de-teste")

	lifecycle := usecases.NewLifecycleUseCases(rooms, store, hub, sched, timings)
	game := usecases.NewGameSessionUseCases(rooms, store, hub, sched, lifecycle,
		usecases.NewQuestionPicker(questions, 0),
		usecases.NewAnswerVerifier(questions),
		usecases.NewRatingUseCases(profiles, histories),
		timings,
	)
	match := usecases.NewMatchmakingUseCases(rooms, lifecycle)
	gateway := ws.NewGateway(hub, usecases.NewIdentityUseCase(tokens, profiles), lifecycle, game, match)

	srv := httptest.NewServer(http.HandlerFunc(gateway.HandleWS))
	t.Cleanup(srv.Close)

	register := usecases.NewRegisterUseCase(accounts, profiles, hasher)
	login := usecases.NewLoginUseCase(accounts, hasher, tokens)

	return &server{
		url:     "ws" + strings.TrimPrefix(srv.URL, "http"),
		tokens:  tokens,
		gateway: gateway,
		rooms:   rooms,
		signup: func(t *testing.T, email, pseudo string) string {
			t.Helper()
			ctx := context.Background()
			_, err := register.Execute(ctx, usecases.RegisterInput{Email: email, Password: "secret1", Pseudo: pseudo})
			require.NoError(t, err)
			out, err := login.Execute(ctx, usecases.LoginInput{Email: email, Password: "secret1"})
			require.NoError(t, err)
			return out.AccessToken
		},
	}
}

func (s *server) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, resp, err := websocket.DefaultDialer.Dial(s.url, header)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// next lê frames até encontrar o tipo pedido.
func next(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg), "esperando %q", typ)
		if msg["type"] == typ {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(text)))
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	s := newServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg["type"])

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
}

func TestGatewayAcceptsQueryToken(t *testing.T) {
	s := newServer(t)
	token := s.signup(t, "query@example.com", "query")

	conn, _, err := websocket.DefaultDialer.Dial(s.url+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	init := next(t, conn, "salons_init")
	assert.Empty(t, init["salons"])
}

func TestGatewayPingAndErrors(t *testing.T) {
	s := newServer(t)
	conn := s.dial(t, s.signup(t, "alice@example.com", "alice"))
	next(t, conn, "salons_init")

	send(t, conn, "ping")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(raw))

	send(t, conn, "bonjour")
	assert.Equal(t, "Commande inconnue", next(t, conn, "error")["message"])

	send(t, conn, "connect-999")
	assert.Equal(t, "Salon introuvable", next(t, conn, "error")["message"])

	send(t, conn, `answer:{"questionId":1,"answerId":1,"elapsedSeconds":1}`)
	assert.Equal(t, "Vous n'êtes dans aucun salon", next(t, conn, "error")["message"])

	send(t, conn, "fetch")
	next(t, conn, "salons_init")
}

func TestGatewayCustomRoomRound(t *testing.T) {
	s := newServer(t)
	alice := s.dial(t, s.signup(t, "alice@example.com", "alice"))
	bob := s.dial(t, s.signup(t, "bob@example.com", "bob"))
	next(t, alice, "salons_init")
	next(t, bob, "salons_init")

	send(t, alice, `create:{"label":"Capitales","difficulty":1,"maxPlayers":2}`)
	joined := next(t, alice, "join")
	roomID := int64(joined["salonId"].(float64))
	next(t, alice, "success")

	lobby := next(t, bob, "salons_init")
	require.Len(t, lobby["salons"], 1, "bob sees the new room in the lobby")

	id := strconv.FormatInt(roomID, 10)
	send(t, bob, "connect-"+id)
	roster := next(t, alice, "join")
	assert.Len(t, roster["players"], 2)
	next(t, bob, "success")

	send(t, alice, "start-"+id)
	assert.Equal(t, "Tous les joueurs ne sont pas prêts", next(t, alice, "error")["message"])

	send(t, alice, "ready-"+id)
	next(t, bob, "ready")
	send(t, bob, "ready-"+id)
	next(t, alice, "ready")

	send(t, bob, "start-"+id)
	tick := next(t, alice, "game_countdown")
	assert.Equal(t, float64(3), tick["seconds"])

	start := next(t, bob, "game-start")
	snapshot := start["message"].(map[string]any)
	questions := snapshot["questions"].([]any)
	assert.Len(t, questions, 3, "difficulty 1 has three seeded questions")

	first := questions[0].(map[string]any)
	qid := strconv.FormatInt(int64(first["id"].(float64)), 10)
	payload := `"answerText":"zzzz"`
	if first["type"] == "qcm" {
		option := first["reponses"].([]any)[0].(map[string]any)
		payload = `"answerId":` + strconv.FormatInt(int64(option["id"].(float64)), 10)
	}
	send(t, alice, `answer:{"questionId":`+qid+`,`+payload+`,"elapsedSeconds":1}`)
	result := next(t, alice, "answer_result")
	assert.Equal(t, float64(int64(first["id"].(float64))), result["questionId"])
	assert.NotEmpty(t, result["bonneReponse"])
	if first["type"] == "input" {
		assert.Equal(t, false, result["correct"])
		assert.Zero(t, result["pointsGagnes"])
	}
}

func TestGatewayDisconnectLeavesRoom(t *testing.T) {
	s := newServer(t)
	alice := s.dial(t, s.signup(t, "alice@example.com", "alice"))
	bob := s.dial(t, s.signup(t, "bob@example.com", "bob"))
	next(t, alice, "salons_init")
	next(t, bob, "salons_init")

	send(t, alice, "rapide")
	roomID := int64(next(t, alice, "join")["salonId"].(float64))

	send(t, bob, "rapide")
	assert.Equal(t, float64(roomID), next(t, bob, "join")["salonId"])

	require.NoError(t, bob.Close())
	left := next(t, alice, "leave")
	assert.Len(t, left["players"], 1)
}

func TestGatewayShutdownWaitsForDisconnects(t *testing.T) {
	s := newServer(t)
	alice := s.dial(t, s.signup(t, "alice@example.com", "alice"))
	next(t, alice, "salons_init")

	send(t, alice, `create:{"label":"Capitales","difficulty":1,"maxPlayers":2}`)
	roomID := int64(next(t, alice, "join")["salonId"].(float64))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.gateway.Shutdown(ctx))

	room, err := s.rooms.FindByID(context.Background(), roomID)
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Zero(t, room.CurrentPlayers, "the seat is released before Shutdown returns")

	late := s.dial(t, s.signup(t, "bob@example.com", "bob"))
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "new connections are refused while closing")
}
