package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"quizsalon/internal/adapters/security"
	"quizsalon/internal/application/usecases"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/salon"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS já é tratado pelo router
	},
}

// Gateway autentica as conexões e traduz os comandos recebidos em chamadas aos casos de uso.
type Gateway struct {
	hub       *Hub
	identity  ports.IdentityResolver
	lifecycle *usecases.LifecycleUseCases
	game      *usecases.GameSessionUseCases
	match     *usecases.MatchmakingUseCases

	// conns conta as conexões cujo Disconnect ainda não terminou
	mu      sync.Mutex
	closing bool
	conns   sync.WaitGroup
}

func NewGateway(
	hub *Hub,
	identity ports.IdentityResolver,
	lifecycle *usecases.LifecycleUseCases,
	game *usecases.GameSessionUseCases,
	match *usecases.MatchmakingUseCases,
) *Gateway {
	return &Gateway{
		hub:       hub,
		identity:  identity,
		lifecycle: lifecycle,
		game:      game,
		match:     match,
	}
}

// HandleWS faz o upgrade da conexão HTTP para WebSocket.
// O token vem do header Authorization ou do parâmetro ?token=.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error", "erro", err)
		return
	}

	identity, err := g.identity.ResolveIdentity(r.Context(), requestToken(r))
	if err != nil {
		logger.Debug("Conexão recusada", "remote", r.RemoteAddr, "erro", err)
		rejectConnection(conn, err)
		return
	}
	if !g.track() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return
	}

	session := player.NewConnection(uuid.NewString(), identity)
	client := newClient(session.ID, conn)

	g.hub.Register(client)
	g.hub.Subscribe(session.ID, salon.LobbyTopic)
	if err := g.lifecycle.SendLobbySnapshot(context.Background(), session.ID); err != nil {
		g.reportError(session, 0, err)
	}
	logger.Info("Conexão websocket aberta", "conn", session.ID, "perfil", identity.Profile.ID)

	go client.writePump()
	go func() {
		defer g.conns.Done()
		client.readPump(func(raw []byte) {
			g.Dispatch(context.Background(), session, raw)
		})
		g.lifecycle.Disconnect(context.Background(), session)
		g.hub.Unregister(client)
		logger.Info("Conexão websocket encerrada", "conn", session.ID)
	}()
}

// track registra uma nova conexão, ou recusa se o gateway está fechando.
func (g *Gateway) track() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closing {
		return false
	}
	g.conns.Add(1)
	return true
}

// Shutdown fecha todos os clientes e espera cada conexão liberar o seu salão.
// Deve rodar antes de fechar o banco.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	g.closing = true
	g.mu.Unlock()

	g.hub.Stop()

	done := make(chan struct{})
	go func() {
		g.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func requestToken(r *http.Request) string {
	if token, ok := security.BearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	return r.URL.Query().Get("token")
}

// rejectConnection envia o erro e fecha o socket.
func rejectConnection(conn *websocket.Conn, err error) {
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteJSON(usecases.ErrorEvent(usecases.PublicMessage(err)))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"))
}

// Dispatch executa um comando. Os comandos de uma conexão são processados em ordem.
func (g *Gateway) Dispatch(ctx context.Context, conn *player.Connection, raw []byte) {
	cmd, err := ParseCommand(raw)
	if err != nil {
		g.reportError(conn, 0, err)
		return
	}

	switch cmd.Type {
	case CmdPing:
		g.hub.SendRaw(conn.ID, []byte("pong"))

	case CmdFetch:
		err = g.lifecycle.SendLobbySnapshot(ctx, conn.ID)

	case CmdQuick:
		_, err = g.match.JoinOrCreateQuickRoom(ctx, conn)

	case CmdCreate:
		_, err = g.match.CreateCustomRoom(ctx, conn, cmd.Create)

	case CmdConnect:
		_, err = g.lifecycle.Join(ctx, conn, cmd.RoomID)

	case CmdLeave:
		err = g.lifecycle.Leave(ctx, conn, cmd.RoomID)

	case CmdReady:
		err = g.game.ToggleReady(ctx, conn, cmd.RoomID)

	case CmdStart:
		err = g.game.Start(ctx, conn, cmd.RoomID)

	case CmdAnswer:
		err = g.answer(ctx, conn, cmd)
	}

	if err != nil {
		g.reportError(conn, cmd.RoomID, err)
	}
}

// answer só é aceito no salão atual da conexão.
func (g *Gateway) answer(ctx context.Context, conn *player.Connection, cmd Command) error {
	current := conn.CurrentRoom()
	if current == 0 {
		return apperr.New(apperr.KindNotAMember, "Vous n'êtes dans aucun salon")
	}
	if cmd.RoomID != 0 && cmd.RoomID != current {
		return apperr.New(apperr.KindNotAMember, "Vous n'êtes pas dans ce salon")
	}
	return g.game.Answer(ctx, conn, current, cmd.Answer)
}

// reportError envia o erro apenas à conexão de origem.
func (g *Gateway) reportError(conn *player.Connection, roomID int64, err error) {
	kind := apperr.KindOf(err)
	if apperr.IsInternal(err) {
		logger.Error("Falha ao processar comando", "conn", conn.ID, "salon", roomID, "kind", kind, "erro", err)
	} else {
		logger.Debug("Comando rejeitado", "conn", conn.ID, "salon", roomID, "kind", kind, "erro", err)
	}
	g.hub.SendTo(conn.ID, usecases.ErrorEvent(usecases.PublicMessage(err)))
}
