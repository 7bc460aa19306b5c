package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies why a backend call failed.
type Kind int

const (
	KindUnreachable Kind = iota + 1
	KindUnauthorized
	KindValidation
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against a *Error of the matching kind.
var (
	ErrUnreachable  = errors.New("backend unreachable")
	ErrUnauthorized = errors.New("authentication failed")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("backend server error")
)

// Error is the single failure type every gateway returns.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnreachable:
		return e.Kind == KindUnreachable
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

func validationError(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

// kindForStatus maps an HTTP failure status onto the error taxonomy.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

// KindOf returns the kind of a gateway error, or 0 for anything else.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return 0
}

// stockMarkers are the fragments the orders backend uses in insufficient-stock messages.
// TODO: switch to a structured error code once the orders backend exposes one.
var stockMarkers = []string{"stock", "insuficiente"}

// IsStockError reports a validation failure caused by insufficient stock.
func IsStockError(err error) bool {
	var gwErr *Error
	if !errors.As(err, &gwErr) || gwErr.Kind != KindValidation {
		return false
	}
	msg := strings.ToLower(gwErr.Message)
	for _, marker := range stockMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// UserMessage renders err as the inline message shown next to the triggering action.
// Validation messages come from the backend verbatim.
func UserMessage(err error) string {
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		return "Error inesperado. Intenta de nuevo."
	}
	switch gwErr.Kind {
	case KindUnreachable:
		return "No se pudo conectar con el servidor"
	case KindUnauthorized:
		return "Email o contraseña incorrectos"
	case KindNotFound:
		return "No encontrado"
	case KindValidation:
		if gwErr.Message != "" {
			return gwErr.Message
		}
		return "Datos inválidos. Verifica la información."
	default:
		return "Error en el servidor. Intenta más tarde."
	}
}
