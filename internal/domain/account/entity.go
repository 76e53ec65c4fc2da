package account

import (
	"regexp"
	"strings"
	"time"

	"quizsalon/internal/domain/apperr"

	"github.com/google/uuid"
)

var (
	ErrPseudoObrigatorio = apperr.Validation("le pseudo est requis")
	ErrEmailInvalido     = apperr.Validation("l'email est invalide")
	ErrSenhaCurta        = apperr.Validation("le mot de passe doit contenir au moins 6 caractères")
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// Account representa as credenciais de um jogador.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // nunca serializado
	CreatedAt    time.Time `json:"createdAt"`
}

// NewAccount cria uma conta validada. O hash da senha é definido depois via SetPassword.
func NewAccount(email, password, pseudo string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if strings.TrimSpace(pseudo) == "" {
		return nil, ErrPseudoObrigatorio
	}
	if !emailRegex.MatchString(email) {
		return nil, ErrEmailInvalido
	}
	if len(password) < 6 {
		return nil, ErrSenhaCurta
	}

	return &Account{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetPassword define o hash da senha.
func (a *Account) SetPassword(hash string) {
	a.PasswordHash = hash
}
