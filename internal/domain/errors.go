package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrUnauthorized: el rol del actor no permite la transición desde el estado actual.
	ErrUnauthorized = errors.New("el rol no permite esta transición")
	// ErrInvalidState: la entidad no está en el estado de origen esperado (vista vieja o concurrencia).
	ErrInvalidState = errors.New("estado inválido para la transición")
	// ErrInsufficientStock: un descuento no pudo cubrir la cantidad pedida.
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrLedgerInconsistency: pending/available quedaría negativo. Indica un defecto previo.
	ErrLedgerInconsistency = errors.New("inconsistencia en el libro de inventario")
)

// InsufficientStockError detalla el ítem y el faltante. errors.Is(err, ErrInsufficientStock) es true.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %d, disponible %d (faltan %d)",
		e.ItemName, e.Requested, e.Available, e.Shortfall())
}

// Shortfall unidades que faltan.
func (e *InsufficientStockError) Shortfall() int64 { return e.Requested - e.Available }

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// LedgerInconsistencyError describe qué campo del ledger quedaría negativo.
type LedgerInconsistencyError struct {
	ItemID string
	Field  string // "pending" | "available"
	Have   int64
	Delta  int64
}

func (e *LedgerInconsistencyError) Error() string {
	return fmt.Sprintf("ledger %s: %s=%d no cubre %d", e.ItemID, e.Field, e.Have, e.Delta)
}

func (e *LedgerInconsistencyError) Is(target error) bool { return target == ErrLedgerInconsistency }

// ValidationError entrada malformada detectada antes de abrir la transacción.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Reason
	}
	return fmt.Sprintf("validación: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid atajo para construir un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
