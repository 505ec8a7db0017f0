package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind clasifica las fallas del núcleo. El handler HTTP lo traduce a un
// código de estado; el mensaje viaja tal cual al cliente.
type Kind int

const (
	KindValidation   Kind = iota // entrada inválida o incompleta
	KindNotFound                 // la entidad referenciada no existe
	KindInvalidState             // la operación no corresponde al estado actual
	KindPersistence              // falla del almacenamiento, incluye transacción abortada
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // causa subyacente, opcional
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func InvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

func Persistence(msg string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: cause}
}

// StatusCode mapea el tipo de error al código HTTP de la respuesta.
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindInvalidState:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// IsKind informa si err es un *Error del tipo dado.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
