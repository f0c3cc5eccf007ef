// Package ledger contiene las reglas puras del libro de inventario (servicio de dominio).
// No conoce transacciones: el llamador entrega la fila ya bloqueada y persiste el resultado.
//
// Invariantes: Available >= 0 y Pending >= 0 siempre. Ninguna función recorta a cero;
// si una operación dejaría un campo negativo devuelve error y no modifica la fila.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// NameKey normaliza el nombre para la clave (nombre, categoría): espacios y mayúsculas no distinguen.
func NameKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// ValidateQuantity las cantidades del ledger son enteros positivos.
func ValidateQuantity(qty int64) error {
	if qty <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	return nil
}

// Reserve suma qty a Pending. Pending no tiene tope.
func Reserve(item *entity.LedgerItem, qty int64) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	item.Pending += qty
	return nil
}

// CommitPending mueve qty de Pending a Available y actualiza el precio al último observado.
func CommitPending(item *entity.LedgerItem, qty int64, newPrice decimal.Decimal) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	if item.Pending < qty {
		return &domain.LedgerInconsistencyError{ItemID: item.ID, Field: "pending", Have: item.Pending, Delta: qty}
	}
	item.Pending -= qty
	item.Available += qty
	if !newPrice.IsNegative() {
		item.Price = newPrice
	}
	return nil
}

// ReleasePending resta qty de Pending sin pasarlo a Available (rechazo o borrado).
func ReleasePending(item *entity.LedgerItem, qty int64) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	if item.Pending < qty {
		return &domain.LedgerInconsistencyError{ItemID: item.ID, Field: "pending", Have: item.Pending, Delta: qty}
	}
	item.Pending -= qty
	return nil
}

// Deduct resta qty de Available. Falla con InsufficientStockError si no alcanza.
func Deduct(item *entity.LedgerItem, qty int64) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	if item.Available < qty {
		return &domain.InsufficientStockError{ItemID: item.ID, ItemName: item.Name, Requested: qty, Available: item.Available}
	}
	item.Available -= qty
	return nil
}

// Restock devuelve qty a Available (deshace un Deduct).
func Restock(item *entity.LedgerItem, qty int64) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	item.Available += qty
	return nil
}

// ReverseCommit deshace un CommitPending ya aprobado restando de Available.
// Si las unidades ya se consumieron no se puede revertir.
func ReverseCommit(item *entity.LedgerItem, qty int64) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	if item.Available < qty {
		return &domain.InsufficientStockError{ItemID: item.ID, ItemName: item.Name, Requested: qty, Available: item.Available}
	}
	item.Available -= qty
	return nil
}

// Check verifica los invariantes de la fila.
func Check(item *entity.LedgerItem) error {
	if item.Available < 0 {
		return &domain.LedgerInconsistencyError{ItemID: item.ID, Field: "available", Have: item.Available}
	}
	if item.Pending < 0 {
		return &domain.LedgerInconsistencyError{ItemID: item.ID, Field: "pending", Have: item.Pending}
	}
	return nil
}
