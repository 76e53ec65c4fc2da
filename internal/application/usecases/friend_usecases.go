package usecases

import (
	"context"
	"strings"
	"time"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/friendship"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"
)

// FriendUseCases cuida dos pedidos de amizade e da lista de amigos.
type FriendUseCases struct {
	profiles    ports.ProfileRepository
	friendships ports.FriendshipRepository
	now         ports.Clock
}

func NewFriendUseCases(profiles ports.ProfileRepository, friendships ports.FriendshipRepository) *FriendUseCases {
	return &FriendUseCases{profiles: profiles, friendships: friendships, now: time.Now}
}

// FriendRequestInput identifica o destinatário pelo pseudo.
type FriendRequestInput struct {
	Pseudo string `json:"pseudoProfileReceveur"`
}

// FriendResponseInput responde a um pedido recebido.
type FriendResponseInput struct {
	RequesterID int64  `json:"idDemandeur"`
	Action      string `json:"action"`
}

// RemoveFriendInput identifica o amigo a remover.
type RemoveFriendInput struct {
	FriendID int64 `json:"idAmi"`
}

// SendRequest cria um pedido pendente para o perfil com esse pseudo.
func (uc *FriendUseCases) SendRequest(ctx context.Context, userID string, input FriendRequestInput) error {
	pseudo := strings.TrimSpace(input.Pseudo)
	if pseudo == "" {
		return apperr.Validation("pseudoProfileReceveur requis")
	}

	me, err := profileOf(ctx, uc.profiles, userID)
	if err != nil {
		return err
	}
	if pseudo == me.Pseudo {
		return friendship.ErrSelfRequest
	}

	target, err := uc.profiles.FindByPseudo(ctx, pseudo)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.NotFound("Profil receveur non trouvé")
	}

	req, err := friendship.NewRequest(me.ID, target.ID, uc.now())
	if err != nil {
		return err
	}
	existing, err := uc.friendships.FindBetween(ctx, me.ID, target.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return friendship.ErrAlreadyExists
	}
	if err := uc.friendships.Create(ctx, req); err != nil {
		return err
	}
	logger.Info("Pedido de amizade enviado", "de", me.ID, "para", target.ID)
	return nil
}

// Respond aceita ou recusa um pedido pendente recebido pelo jogador logado.
// Recusar apaga o pedido.
func (uc *FriendUseCases) Respond(ctx context.Context, userID string, input FriendResponseInput) error {
	accept, err := friendship.ParseAction(input.Action)
	if err != nil {
		return err
	}
	if input.RequesterID <= 0 {
		return friendship.ErrInvalidAction
	}

	me, err := profileOf(ctx, uc.profiles, userID)
	if err != nil {
		return err
	}

	var ok bool
	if accept {
		ok, err = uc.friendships.Accept(ctx, input.RequesterID, me.ID)
	} else {
		ok, err = uc.friendships.DeletePending(ctx, input.RequesterID, me.ID)
	}
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Demande non trouvée")
	}
	logger.Info("Pedido de amizade respondido", "de", input.RequesterID, "para", me.ID, "aceito", accept)
	return nil
}

// ListFriends lista os amigos confirmados.
func (uc *FriendUseCases) ListFriends(ctx context.Context, userID string) ([]player.Profile, error) {
	me, err := profileOf(ctx, uc.profiles, userID)
	if err != nil {
		return nil, err
	}
	return uc.friendships.ListFriends(ctx, me.ID)
}

// ListPending lista os pedidos recebidos ainda sem resposta.
func (uc *FriendUseCases) ListPending(ctx context.Context, userID string) ([]player.Profile, error) {
	me, err := profileOf(ctx, uc.profiles, userID)
	if err != nil {
		return nil, err
	}
	return uc.friendships.ListPendingFor(ctx, me.ID)
}

// Remove desfaz a relação com outro perfil, nos dois sentidos. Idempotente.
func (uc *FriendUseCases) Remove(ctx context.Context, userID string, input RemoveFriendInput) error {
	if input.FriendID <= 0 {
		return apperr.Validation("idAmi requis")
	}
	me, err := profileOf(ctx, uc.profiles, userID)
	if err != nil {
		return err
	}
	return uc.friendships.DeleteBetween(ctx, me.ID, input.FriendID)
}
