package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de inventario.
const (
	CategoryDevelopmentBoards    = "Development Boards"
	CategorySensors              = "Sensors"
	CategoryICsSemiconductors    = "ICs & Semiconductors"
	CategoryModules              = "Modules"
	CategoryPassiveComponents    = "Passive Components"
	CategoryConnectors           = "Connectors"
	CategoryWires                = "Wires"
	CategoryPowerSupplies        = "Power Supplies"
	CategoryMechanicalComponents = "Mechanical Components"
	CategoryMiscellaneous        = "Miscellaneous"
)

// Categories lista ordenada de categorías válidas.
var Categories = []string{
	CategoryDevelopmentBoards, CategorySensors, CategoryICsSemiconductors, CategoryModules,
	CategoryPassiveComponents, CategoryConnectors, CategoryWires, CategoryPowerSupplies,
	CategoryMechanicalComponents, CategoryMiscellaneous,
}

// ValidCategory indica si c pertenece a Categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// LedgerItem fila del libro de inventario: una por (nombre, categoría).
// Available son unidades aprobadas; Pending unidades reservadas por envíos en curso.
type LedgerItem struct {
	ID        string
	Name      string
	NameKey   string // nombre normalizado (case folding) para la clave única
	Category  string
	Price     decimal.Decimal // último precio de compra observado
	Available int64
	Pending   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Total available + pending.
func (i *LedgerItem) Total() int64 { return i.Available + i.Pending }
