// Package friendship modela os pedidos de amizade entre perfis.
package friendship

import (
	"strings"
	"time"

	"quizsalon/internal/domain/apperr"
)

// Status de uma relação
type Status string

const (
	StatusPending  Status = "en_attente"
	StatusAccepted Status = "amis"
)

// Respostas possíveis a um pedido
const (
	ActionAccept = "accepter"
	ActionRefuse = "refuser"
)

var (
	ErrSelfRequest   = apperr.Validation("Impossible de s'ajouter soi-même")
	ErrAlreadyExists = apperr.New(apperr.KindConflict, "Une demande ou amitié existe déjà")
	ErrInvalidAction = apperr.Validation("idDemandeur et action (accepter/refuser) requis")
)

// Friendship liga quem pediu (RequesterID) a quem recebeu (ReceiverID).
// Existe no máximo uma relação por par, em qualquer sentido.
type Friendship struct {
	RequesterID int64     `json:"idProfilDemandeur"`
	ReceiverID  int64     `json:"idProfileReceveur"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRequest cria um pedido pendente.
func NewRequest(requesterID, receiverID int64, now time.Time) (*Friendship, error) {
	if requesterID == receiverID {
		return nil, ErrSelfRequest
	}
	return &Friendship{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      StatusPending,
		CreatedAt:   now.UTC(),
	}, nil
}

// Other devolve o outro lado da relação.
func (f *Friendship) Other(profileID int64) int64 {
	if f.RequesterID == profileID {
		return f.ReceiverID
	}
	return f.RequesterID
}

// ParseAction interpreta a resposta a um pedido: true para aceitar.
func ParseAction(action string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionAccept:
		return true, nil
	case ActionRefuse:
		return false, nil
	default:
		return false, ErrInvalidAction
	}
}
