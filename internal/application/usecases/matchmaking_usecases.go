package usecases

import (
	"context"
	"errors"
	"strings"
	"sync"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/domain/salon"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"

	"github.com/google/uuid"
)

// quickMatchAttempts limita as tentativas quando o salão encontrado enche no meio do caminho.
const quickMatchAttempts = 3

// MatchmakingUseCases cria salões e encaixa jogadores neles.
type MatchmakingUseCases struct {
	rooms     ports.RoomRepository
	lifecycle *LifecycleUseCases

	// quick serializa o "rapide" para que pedidos simultâneos encham o mesmo salão.
	quick sync.Mutex
}

// NewMatchmakingUseCases espera um lifecycle já ligado à GameSessionUseCases,
// que agenda o início automático dos salões rápidos cheios.
func NewMatchmakingUseCases(rooms ports.RoomRepository, lifecycle *LifecycleUseCases) *MatchmakingUseCases {
	return &MatchmakingUseCases{rooms: rooms, lifecycle: lifecycle}
}

// CreateRoomInput são os parâmetros do comando "create".
type CreateRoomInput struct {
	Label      string `json:"label"`
	Difficulty int    `json:"difficulty"`
	MaxPlayers int    `json:"maxPlayers"`
}

// CreateCustomRoom cria um salão personalizado e coloca o criador nele.
func (uc *MatchmakingUseCases) CreateCustomRoom(ctx context.Context, conn *player.Connection, input CreateRoomInput) (*salon.Room, error) {
	maxPlayers := input.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = salon.DefaultMaxPlayers
	}
	room, err := salon.NewRoom(input.Label, input.Difficulty, salon.KindCustom, maxPlayers)
	if err != nil {
		return nil, err
	}
	if err := uc.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	logger.Info("Salão criado", "salon", room.ID, "label", room.Label, "conn", conn.ID)

	joined, err := uc.lifecycle.Join(ctx, conn, room.ID)
	if err != nil {
		if derr := uc.lifecycle.Delete(ctx, room.ID); derr != nil {
			logger.Error("Falha ao apagar salão órfão", "salon", room.ID, "erro", derr)
		}
		return nil, err
	}
	return joined, nil
}

// JoinOrCreateQuickRoom entra no primeiro salão rápido aberto ou cria um novo.
// Se o salão fica cheio com essa entrada, a partida começa sozinha.
func (uc *MatchmakingUseCases) JoinOrCreateQuickRoom(ctx context.Context, conn *player.Connection) (*salon.Room, error) {
	uc.quick.Lock()
	defer uc.quick.Unlock()

	for attempt := 0; attempt < quickMatchAttempts; attempt++ {
		room, err := uc.rooms.FindOpenQuick(ctx)
		if err != nil {
			return nil, err
		}
		if room == nil {
			room, err = salon.NewRoom(quickLabel(), salon.QuickDifficulty, salon.KindQuick, salon.QuickMaxPlayers)
			if err != nil {
				return nil, err
			}
			if err := uc.rooms.Create(ctx, room); err != nil {
				return nil, err
			}
			logger.Info("Salão rápido criado", "salon", room.ID)
		}

		joined, err := uc.lifecycle.Join(ctx, conn, room.ID)
		if err == nil {
			return joined, nil
		}
		if !retryableJoin(err) {
			return nil, err
		}
		logger.Debug("Salão rápido indisponível, tentando outro", "salon", room.ID, "erro", err)
	}
	return nil, apperr.New(apperr.KindCapacity, "Aucun salon rapide disponible")
}

func retryableJoin(err error) bool {
	return errors.Is(err, apperr.ErrCapacity) ||
		errors.Is(err, apperr.ErrAlreadyStarted) ||
		errors.Is(err, apperr.ErrNotFound)
}

func quickLabel() string {
	return "Rapide-" + strings.ToUpper(uuid.NewString()[:5])
}
