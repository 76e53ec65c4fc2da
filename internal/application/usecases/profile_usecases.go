package usecases

import (
	"context"
	"strings"

	"quizsalon/internal/domain/account"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"
)

// profileOf carrega o perfil do usuário logado.
func profileOf(ctx context.Context, profiles ports.ProfileRepository, userID string) (*player.Profile, error) {
	p, err := profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUsuarioNaoEncontrado
	}
	return p, nil
}

// ProfileUseCases cuida da edição do perfil e do catálogo de avatares.
type ProfileUseCases struct {
	profiles ports.ProfileRepository
	avatars  ports.AvatarRepository
}

func NewProfileUseCases(profiles ports.ProfileRepository, avatars ports.AvatarRepository) *ProfileUseCases {
	return &ProfileUseCases{profiles: profiles, avatars: avatars}
}

// UpdateProfileInput são os campos editáveis. Sem idAvatar, o avatar atual é mantido.
type UpdateProfileInput struct {
	Pseudo   string `json:"pseudo"`
	AvatarID *int64 `json:"idAvatar,omitempty"`
}

// ListAvatars devolve o catálogo completo.
func (uc *ProfileUseCases) ListAvatars(ctx context.Context) ([]player.Avatar, error) {
	return uc.avatars.List(ctx)
}

// UpdateProfile troca pseudo e, opcionalmente, avatar do jogador logado.
func (uc *ProfileUseCases) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*player.Profile, error) {
	pseudo := strings.TrimSpace(input.Pseudo)
	if pseudo == "" {
		return nil, account.ErrPseudoObrigatorio
	}

	p, err := profileOf(ctx, uc.profiles, userID)
	if err != nil {
		return nil, err
	}

	avatar := p.Avatar
	if input.AvatarID != nil {
		a, err := uc.avatars.FindByID(ctx, *input.AvatarID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, apperr.NotFound("Avatar introuvable")
		}
		avatar = a.URL
	}

	if err := uc.profiles.UpdateProfile(ctx, p.ID, pseudo, avatar); err != nil {
		return nil, err
	}
	p.Pseudo, p.Avatar = pseudo, avatar
	logger.Info("Perfil atualizado", "perfil", p.ID)
	return p, nil
}
