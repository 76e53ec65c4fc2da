package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrSenhaIncorreta é devolvido quando a senha não confere com o hash.
var ErrSenhaIncorreta = errors.New("senha incorreta")

// BcryptHasher implementa PasswordHasher usando bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cria um hasher com o custo padrão.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptHasherWithCost permite um custo menor (testes) ou maior (produção).
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword devolve ErrSenhaIncorreta se a senha não confere.
func (h *BcryptHasher) ComparePassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrSenhaIncorreta
	}
	return err
}
