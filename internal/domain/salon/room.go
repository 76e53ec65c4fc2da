package salon

import (
	"fmt"
	"strings"
	"time"

	"quizsalon/internal/domain/apperr"
)

// Kind é o tipo do salão.
type Kind string

const (
	KindCustom Kind = "custom"
	KindQuick  Kind = "quick"
	KindSolo   Kind = "solo"
)

// Limites de criação
const (
	MinDifficulty     = 1
	MaxDifficulty     = 3
	MaxPlayersLimit   = 10
	QuickMaxPlayers   = 4
	QuickDifficulty   = 2
	DefaultMaxPlayers = 4
	maxLabelLength    = 64
)

// Room é a linha do salão no banco relacional. O banco é a fonte de verdade
// para CurrentPlayers e Started.
type Room struct {
	ID             int64     `json:"id"`
	Label          string    `json:"label"`
	Difficulty     int       `json:"difficulte"`
	Kind           Kind      `json:"type"`
	MaxPlayers     int       `json:"j_max"`
	CurrentPlayers int       `json:"j_actuelle"`
	Started        bool      `json:"commence"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewRoom valida os parâmetros e cria um salão ainda não persistido.
func NewRoom(label string, difficulty int, kind Kind, maxPlayers int) (*Room, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, apperr.Validation("le label est requis")
	}
	if len(label) > maxLabelLength {
		return nil, apperr.Validation("label trop long")
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return nil, apperr.Validation(fmt.Sprintf("difficulté invalide: %d", difficulty))
	}
	if maxPlayers < 1 || maxPlayers > MaxPlayersLimit {
		return nil, apperr.Validation(fmt.Sprintf("nombre de joueurs invalide: %d", maxPlayers))
	}
	switch kind {
	case KindCustom, KindQuick:
	case KindSolo:
		maxPlayers = 1
	default:
		return nil, apperr.Validation(fmt.Sprintf("type de salon invalide: %s", kind))
	}

	return &Room{
		Label:      label,
		Difficulty: difficulty,
		Kind:       kind,
		MaxPlayers: maxPlayers,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// CanJoin verifica se mais um jogador pode entrar.
func (r *Room) CanJoin() error {
	if r.Started {
		return apperr.New(apperr.KindAlreadyStarted, "Le salon a déjà commencé une partie")
	}
	if r.CurrentPlayers >= r.MaxPlayers {
		return apperr.New(apperr.KindCapacity, "Salon plein")
	}
	return nil
}

// AutoStarts indica os salões sem "prêt": a partida começa sozinha quando enchem.
func (r *Room) AutoStarts() bool {
	return r.Kind == KindQuick || r.Kind == KindSolo
}

// IsFull indica se o salão atingiu a capacidade.
func (r *Room) IsFull() bool {
	return r.CurrentPlayers >= r.MaxPlayers
}

// Topic é o canal de broadcast do salão.
func (r *Room) Topic() string {
	return Topic(r.ID)
}

// Topic devolve o canal de broadcast de um salão pelo ID.
func Topic(id int64) string {
	return fmt.Sprintf("salon-%d", id)
}

// LobbyTopic é o canal de quem ainda não entrou em nenhum salão.
const LobbyTopic = "salons"
