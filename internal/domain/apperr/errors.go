package apperr

import (
	"errors"
	"fmt"
)

// Kind classifica a falha para que o gateway saiba como reportá-la.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindNotAMember       Kind = "not_a_member"
	KindPhaseViolation   Kind = "phase_violation"
	KindCapacity         Kind = "capacity_exceeded"
	KindAlreadyStarted   Kind = "already_started"
	KindNotAllReady      Kind = "not_all_ready"
	KindNoQuestions      Kind = "no_questions_available"
	KindUnauthenticated  Kind = "unauthenticated"
	KindStoreUnavailable Kind = "store_unavailable"
	KindDataUnavailable  Kind = "data_unavailable"
)

// Error é o erro tipado devolvido por todos os casos de uso.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite comparar com os sentinelas abaixo apenas pelo Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinelas para uso com errors.Is.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrNotAMember       = &Error{Kind: KindNotAMember}
	ErrPhaseViolation   = &Error{Kind: KindPhaseViolation}
	ErrCapacity         = &Error{Kind: KindCapacity}
	ErrAlreadyStarted   = &Error{Kind: KindAlreadyStarted}
	ErrNotAllReady      = &Error{Kind: KindNotAllReady}
	ErrNoQuestions      = &Error{Kind: KindNoQuestions}
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated}
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
	ErrDataUnavailable  = &Error{Kind: KindDataUnavailable}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func PhaseViolation(message string) *Error { return New(KindPhaseViolation, message) }

// Store envolve uma falha do banco relacional.
func Store(op string, err error) *Error {
	return Wrap(KindStoreUnavailable, op, err)
}

// KindOf devolve o Kind de err, ou StoreUnavailable para erros não tipados.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreUnavailable
}

// IsInternal indica falhas que devem ser reportadas de forma genérica ao cliente.
func IsInternal(err error) bool {
	k := KindOf(err)
	return k == KindStoreUnavailable || k == KindDataUnavailable
}
