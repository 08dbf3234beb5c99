package inventory

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrValidation        = errors.New("geçersiz istek")
	ErrNotFound          = errors.New("kayıt bulunamadı")
	ErrInsufficientStock = errors.New("yetersiz stok")
)

// Error: kullanıcıya gösterilecek Türkçe mesajı taşır, Kind ile errors.Is yapılır
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Status: HTTP karşılığı
func (e *Error) Status() int {
	switch {
	case errors.Is(e.Kind, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(e.Kind, ErrValidation), errors.Is(e.Kind, ErrInsufficientStock):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func failf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
