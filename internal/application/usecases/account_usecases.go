package usecases

import (
	"context"
	"strings"

	"quizsalon/internal/domain/account"
	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/player"
	"quizsalon/internal/ports"
)

// RegisterUseCase coordena o registro de um novo jogador (conta + perfil).
type RegisterUseCase struct {
	accounts ports.AccountRepository
	profiles ports.ProfileRepository
	hasher   ports.PasswordHasher
}

func NewRegisterUseCase(accounts ports.AccountRepository, profiles ports.ProfileRepository, hasher ports.PasswordHasher) *RegisterUseCase {
	return &RegisterUseCase{accounts: accounts, profiles: profiles, hasher: hasher}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Pseudo   string `json:"pseudo"`
}

type RegisterOutput struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	ProfileID int64  `json:"profileId"`
	Pseudo    string `json:"pseudo"`
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	// 1. Cria entidade com validações de domínio
	acc, err := account.NewAccount(input.Email, input.Password, input.Pseudo)
	if err != nil {
		return nil, err
	}

	// 2. Verifica se email já existe
	existing, err := uc.accounts.FindByEmail(ctx, acc.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailDuplicado
	}

	// 3. Hash da senha
	hashed, err := uc.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, "hash de senha", err)
	}
	acc.SetPassword(hashed)

	// 4. Persiste conta e perfil (elo inicial 0)
	if err := uc.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}
	profile := &player.Profile{UserID: acc.ID, Pseudo: strings.TrimSpace(input.Pseudo)}
	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	return &RegisterOutput{
		ID:        acc.ID,
		Email:     acc.Email,
		ProfileID: profile.ID,
		Pseudo:    profile.Pseudo,
	}, nil
}

// LoginUseCase coordena o login.
type LoginUseCase struct {
	accounts     ports.AccountRepository
	hasher       ports.PasswordHasher
	tokenService ports.TokenService
}

func NewLoginUseCase(accounts ports.AccountRepository, hasher ports.PasswordHasher, tokenService ports.TokenService) *LoginUseCase {
	return &LoginUseCase{accounts: accounts, hasher: hasher, tokenService: tokenService}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"` // Segundos
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	acc, err := uc.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrCredenciaisInvalidas
	}

	if err := uc.hasher.ComparePassword(acc.PasswordHash, input.Password); err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	token, expiresIn, err := uc.tokenService.GenerateToken(acc.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, "geração de token", err)
	}

	return &LoginOutput{AccessToken: token, ExpiresIn: expiresIn}, nil
}

// GetMeUseCase retorna o perfil do jogador logado.
type GetMeUseCase struct {
	profiles ports.ProfileRepository
}

func NewGetMeUseCase(profiles ports.ProfileRepository) *GetMeUseCase {
	return &GetMeUseCase{profiles: profiles}
}

func (uc *GetMeUseCase) Execute(ctx context.Context, userID string) (*player.Profile, error) {
	p, err := uc.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUsuarioNaoEncontrado
	}
	return p, nil
}

// IdentityUseCase resolve o bearer token de uma conexão em identidade de jogador.
type IdentityUseCase struct {
	tokenService ports.TokenService
	profiles     ports.ProfileRepository
}

func NewIdentityUseCase(tokenService ports.TokenService, profiles ports.ProfileRepository) *IdentityUseCase {
	return &IdentityUseCase{tokenService: tokenService, profiles: profiles}
}

// ResolveIdentity valida o token e carrega o perfil. Qualquer falha é Unauthenticated.
func (uc *IdentityUseCase) ResolveIdentity(ctx context.Context, bearerToken string) (player.Identity, error) {
	if bearerToken == "" {
		return player.Identity{}, apperr.New(apperr.KindUnauthenticated, "Token manquant")
	}
	userID, err := uc.tokenService.ValidateToken(bearerToken)
	if err != nil {
		return player.Identity{}, apperr.Wrap(apperr.KindUnauthenticated, "Token invalide ou expiré", err)
	}

	profile, err := uc.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return player.Identity{}, apperr.Wrap(apperr.KindUnauthenticated, "Profil indisponible", err)
	}
	if profile == nil {
		return player.Identity{}, apperr.New(apperr.KindUnauthenticated, "Profil introuvable")
	}
	return player.Identity{UserID: userID, Profile: *profile}, nil
}

// RefreshUseCase emite um novo token para uma sessão ainda válida.
type RefreshUseCase struct {
	tokenService ports.TokenService
	profiles     ports.ProfileRepository
}

func NewRefreshUseCase(tokenService ports.TokenService, profiles ports.ProfileRepository) *RefreshUseCase {
	return &RefreshUseCase{tokenService: tokenService, profiles: profiles}
}

// Execute confere que o perfil ainda existe e devolve um token com validade renovada.
func (uc *RefreshUseCase) Execute(ctx context.Context, userID string) (*LoginOutput, error) {
	if _, err := profileOf(ctx, uc.profiles, userID); err != nil {
		return nil, err
	}

	token, expiresIn, err := uc.tokenService.GenerateToken(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, "geração de token", err)
	}
	return &LoginOutput{AccessToken: token, ExpiresIn: expiresIn}, nil
}
