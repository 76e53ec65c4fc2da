package usecases

import (
	"context"
	"errors"
	"time"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/salon"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"
)

// DepartureHook é chamado, com o lock do salão, quando um jogador sai de um
// salão que continua com gente.
type DepartureHook func(ctx context.Context, room *salon.Room, st *salon.GameState)

// JoinHook é chamado, com o lock do salão, depois de uma entrada confirmada.
type JoinHook func(ctx context.Context, room *salon.Room, st *salon.GameState)

// LifecycleUseCases cuida da entrada, saída e remoção de jogadores e salões.
type LifecycleUseCases struct {
	rooms   ports.RoomRepository
	store   ports.SessionStore
	hub     ports.RealTimeHub
	sched   *Scheduler
	timings Timings

	onDeparture DepartureHook
	onJoin      JoinHook
}

func NewLifecycleUseCases(
	rooms ports.RoomRepository,
	store ports.SessionStore,
	hub ports.RealTimeHub,
	sched *Scheduler,
	timings Timings,
) *LifecycleUseCases {
	return &LifecycleUseCases{
		rooms:   rooms,
		store:   store,
		hub:     hub,
		sched:   sched,
		timings: timings,
	}
}

// SetDepartureHook registra quem reavalia a partida após uma saída.
func (uc *LifecycleUseCases) SetDepartureHook(hook DepartureHook) {
	uc.onDeparture = hook
}

// SetJoinHook registra quem reage a uma entrada (início automático dos salões rápidos e solo).
func (uc *LifecycleUseCases) SetJoinHook(hook JoinHook) {
	uc.onJoin = hook
}

// Join coloca a conexão no salão. Se ela estava em outro salão, sai dele
// depois da entrada confirmada.
func (uc *LifecycleUseCases) Join(ctx context.Context, conn *player.Connection, roomID int64) (*salon.Room, error) {
	unlock := uc.store.Lock(roomID)
	room, prev, err := uc.joinLocked(ctx, conn, roomID)
	unlock()
	if err != nil {
		return nil, err
	}

	if prev != 0 && prev != roomID {
		prevUnlock := uc.store.Lock(prev)
		err := uc.leaveLocked(ctx, conn, prev, false)
		prevUnlock()
		if err != nil && !isMembershipError(err) {
			logger.Error("Falha ao sair do salão anterior", "conn", conn.ID, "salon", prev, "erro", err)
		}
	}

	uc.BroadcastLobby(ctx)
	return room, nil
}

func (uc *LifecycleUseCases) joinLocked(ctx context.Context, conn *player.Connection, roomID int64) (*salon.Room, int64, error) {
	room, err := uc.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, 0, err
	}
	if room == nil {
		return nil, 0, apperr.NotFound("Salon introuvable")
	}

	st := uc.store.Get(roomID)
	if st != nil && st.HasPlayer(conn.ID) {
		return nil, 0, apperr.Validation("Vous êtes déjà dans ce salon")
	}
	if err := room.CanJoin(); err != nil {
		return nil, 0, err
	}
	if st != nil && st.Phase != salon.PhaseLobby {
		return nil, 0, apperr.New(apperr.KindAlreadyStarted, "Le salon a déjà commencé une partie")
	}

	ok, err := uc.rooms.IncrementPlayers(ctx, roomID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, uc.rejectionReason(ctx, roomID)
	}

	st = uc.store.GetOrCreate(roomID)
	ps := salon.PlayerSession{
		ConnectionID: conn.ID,
		UserID:       conn.Identity.UserID,
		Profile:      conn.Identity.Profile,
		Ready:        room.AutoStarts(),
	}
	if err := st.AddPlayer(ps); err != nil {
		if derr := uc.rooms.DecrementPlayers(ctx, roomID); derr != nil {
			logger.Error("Falha ao desfazer reserva de vaga", "salon", roomID, "erro", derr)
		}
		return nil, 0, err
	}
	room.CurrentPlayers++

	prev := conn.EnterRoom(roomID)
	uc.hub.Unsubscribe(conn.ID, salon.LobbyTopic)
	uc.hub.Subscribe(conn.ID, room.Topic())

	uc.hub.Publish(room.Topic(), rosterEvent(EventJoin, roomID, st.Roster(),
		conn.Identity.Profile.Pseudo+" a rejoint le salon"))
	uc.hub.SendTo(conn.ID, successEvent("Vous avez rejoint le salon "+room.Label))

	logger.Debug("Jogador entrou no salão", "conn", conn.ID, "salon", roomID, "jogadores", room.CurrentPlayers)
	if uc.onJoin != nil {
		uc.onJoin(ctx, room, st)
	}
	return room, prev, nil
}

// rejectionReason relê o salão para explicar por que a reserva falhou.
func (uc *LifecycleUseCases) rejectionReason(ctx context.Context, roomID int64) error {
	fresh, err := uc.rooms.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if fresh == nil {
		return apperr.NotFound("Salon introuvable")
	}
	if err := fresh.CanJoin(); err != nil {
		return err
	}
	return apperr.New(apperr.KindCapacity, "Salon plein")
}

// Leave tira a conexão do salão e a devolve ao lobby.
func (uc *LifecycleUseCases) Leave(ctx context.Context, conn *player.Connection, roomID int64) error {
	unlock := uc.store.Lock(roomID)
	err := uc.leaveLocked(ctx, conn, roomID, true)
	unlock()
	if err != nil {
		return err
	}
	uc.BroadcastLobby(ctx)
	return nil
}

// Disconnect libera o salão atual de uma conexão encerrada. A sessão em
// memória sai sempre, mesmo com o banco fora do ar.
func (uc *LifecycleUseCases) Disconnect(ctx context.Context, conn *player.Connection) {
	roomID := conn.CurrentRoom()
	if roomID == 0 {
		return
	}

	unlock := uc.store.Lock(roomID)
	err := uc.leaveLocked(ctx, conn, roomID, false)
	unlock()

	if err != nil {
		// só sobra erro de associação: a conexão já não estava no salão
		conn.LeaveRoom(roomID)
		return
	}
	uc.BroadcastLobby(ctx)
}

// leaveLocked tira a conexão do salão. Com explicit (comando leave), uma
// falha no banco aborta sem mudar nada. Sem explicit (desconexão ou troca de
// salão) a memória é liberada de qualquer jeito e o decremento é reagendado.
func (uc *LifecycleUseCases) leaveLocked(ctx context.Context, conn *player.Connection, roomID int64, explicit bool) error {
	room, err := uc.rooms.FindByID(ctx, roomID)
	if explicit {
		if err != nil {
			return err
		}
		if room == nil {
			return apperr.NotFound("Salon introuvable")
		}
	}

	st := uc.store.Get(roomID)
	if st == nil || !st.HasPlayer(conn.ID) {
		return apperr.New(apperr.KindNotAMember, "Vous n'êtes pas dans ce salon")
	}

	switch {
	case err != nil:
		logger.Error("Falha ao ler salão na saída, liberando só a memória", "conn", conn.ID, "salon", roomID, "erro", err)
		room = &salon.Room{ID: roomID}
		uc.releaseSeat(ctx, roomID)
	case room == nil:
		room = &salon.Room{ID: roomID}
	default:
		if derr := uc.rooms.DecrementPlayers(ctx, roomID); derr != nil {
			if explicit {
				return derr
			}
			logger.Error("Falha ao liberar vaga, nova tentativa agendada", "conn", conn.ID, "salon", roomID, "erro", derr)
			uc.retryRelease(roomID, storeRetryAttempts)
		}
		room.CurrentPlayers = max(0, room.CurrentPlayers-1)
	}

	st.RemovePlayer(conn.ID)
	conn.LeaveRoom(roomID)
	uc.hub.Unsubscribe(conn.ID, room.Topic())
	if explicit {
		uc.hub.Subscribe(conn.ID, salon.LobbyTopic)
	}

	uc.hub.Publish(room.Topic(), rosterEvent(EventLeave, roomID, st.Roster(),
		conn.Identity.Profile.Pseudo+" a quitté le salon"))
	if explicit {
		uc.hub.SendTo(conn.ID, successEvent("Vous avez quitté le salon "+room.Label))
	}
	logger.Debug("Jogador saiu do salão", "conn", conn.ID, "salon", roomID, "restantes", st.PlayerCount())

	if st.IsEmpty() {
		uc.scheduleEmptyDeletion(roomID)
		return nil
	}
	if uc.onDeparture != nil {
		uc.onDeparture(ctx, room, st)
	}
	return nil
}

// releaseSeat tenta o decremento uma vez e, se falhar, agenda novas tentativas.
func (uc *LifecycleUseCases) releaseSeat(ctx context.Context, roomID int64) {
	if err := uc.rooms.DecrementPlayers(ctx, roomID); err != nil {
		logger.Error("Falha ao liberar vaga, nova tentativa agendada", "salon", roomID, "erro", err)
		uc.retryRelease(roomID, storeRetryAttempts)
	}
}

// retryRelease refaz o decremento pelo scheduler até attempts vezes.
func (uc *LifecycleUseCases) retryRelease(roomID int64, attempts int) {
	if attempts <= 0 {
		logger.Error("Vaga não liberada após novas tentativas", "salon", roomID)
		return
	}
	delay := uc.timings.StoreRetry
	if delay <= 0 {
		delay = time.Second
	}
	uc.sched.After(roomID, delay, func() {
		if err := uc.rooms.DecrementPlayers(context.Background(), roomID); err != nil {
			logger.Warn("Nova tentativa de liberar vaga falhou", "salon", roomID, "restantes", attempts-1, "erro", err)
			uc.retryRelease(roomID, attempts-1)
			return
		}
		logger.Info("Vaga liberada após nova tentativa", "salon", roomID)
	})
}

// scheduleEmptyDeletion apaga o salão após a carência, se continuar vazio.
func (uc *LifecycleUseCases) scheduleEmptyDeletion(roomID int64) {
	uc.sched.After(roomID, uc.timings.EmptyGrace, func() {
		if st := uc.store.Get(roomID); st != nil && !st.IsEmpty() {
			return
		}
		ctx := context.Background()
		if err := uc.deleteLocked(ctx, roomID); err != nil {
			logger.Error("Falha ao apagar salão vazio", "salon", roomID, "erro", err)
			return
		}
		logger.Info("Salão vazio removido", "salon", roomID)
		uc.BroadcastLobby(ctx)
	})
}

// Delete remove o salão do banco e da memória. Idempotente.
func (uc *LifecycleUseCases) Delete(ctx context.Context, roomID int64) error {
	unlock := uc.store.Lock(roomID)
	err := uc.deleteLocked(ctx, roomID)
	unlock()
	if err != nil {
		return err
	}
	uc.BroadcastLobby(ctx)
	return nil
}

func (uc *LifecycleUseCases) deleteLocked(ctx context.Context, roomID int64) error {
	if err := uc.rooms.Delete(ctx, roomID); err != nil {
		return err
	}

	topic := salon.Topic(roomID)
	subscribers := uc.hub.Subscribers(topic)
	if len(subscribers) > 0 {
		uc.hub.Publish(topic, salonDeletedEvent(roomID))
	}
	for _, connID := range subscribers {
		uc.hub.Unsubscribe(connID, topic)
		uc.hub.Subscribe(connID, salon.LobbyTopic)
	}
	uc.store.Remove(roomID)
	return nil
}

// OpenRooms lista os salões personalizados que ainda aceitam jogadores.
func (uc *LifecycleUseCases) OpenRooms(ctx context.Context) ([]*salon.Room, error) {
	return uc.rooms.ListOpen(ctx, salon.KindCustom)
}

// SendLobbySnapshot envia a lista de salões abertos a uma conexão.
func (uc *LifecycleUseCases) SendLobbySnapshot(ctx context.Context, connID string) error {
	rooms, err := uc.OpenRooms(ctx)
	if err != nil {
		return err
	}
	uc.hub.SendTo(connID, salonsInitEvent(rooms))
	return nil
}

// BroadcastLobby reenvia a lista de salões abertos a todo o lobby.
func (uc *LifecycleUseCases) BroadcastLobby(ctx context.Context) {
	rooms, err := uc.OpenRooms(ctx)
	if err != nil {
		logger.Error("Falha ao listar salões para o lobby", "erro", err)
		return
	}
	uc.hub.Publish(salon.LobbyTopic, salonsInitEvent(rooms))
}

// GetRoom devolve um salão pelo ID (para HTTP).
func (uc *LifecycleUseCases) GetRoom(ctx context.Context, roomID int64) (*salon.Room, error) {
	room, err := uc.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperr.NotFound("Salon introuvable")
	}
	return room, nil
}

func isMembershipError(err error) bool {
	return errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrNotAMember)
}
