package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// ErrInvalidTransition y ErrCurrencyMismatch siempre se envuelven junto a ErrInvalidInput,
// por lo que errors.Is(err, ErrInvalidInput) basta para rechazar la petición.
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrCurrencyMismatch  = errors.New("monedas distintas en la misma operación")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicate         = errors.New("recurso duplicado")
)
