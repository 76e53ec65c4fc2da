package usecases

import (
	"errors"

	"quizsalon/internal/domain/apperr"
)

// Casos de erro comuns
var (
	ErrEmailDuplicado       = apperr.New(apperr.KindValidation, "email déjà utilisé")
	ErrCredenciaisInvalidas = apperr.New(apperr.KindUnauthenticated, "email ou mot de passe invalide")
	ErrUsuarioNaoEncontrado = apperr.NotFound("utilisateur introuvable")
)

// internalMessage é o texto enviado ao cliente para falhas de infraestrutura.
const internalMessage = "Erreur interne, veuillez réessayer"

// PublicMessage devolve o texto que pode ser mostrado ao cliente.
// Falhas de banco nunca vazam detalhes.
func PublicMessage(err error) string {
	if apperr.IsInternal(err) {
		return internalMessage
	}
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
