// Package bom reglas del Bill of Materials: validación, costo y reparto por faltante.
// Nada de este paquete toca el ledger.
package bom

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// PurchasePrefix prefijo de los ids sintéticos de líneas Purchase.
const PurchasePrefix = "new-"

// NewPurchaseID genera un id sintético para una línea Purchase.
func NewPurchaseID() string {
	return PurchasePrefix + uuid.New().String()
}

// Validate revisa cantidades, precios y origen de cada línea.
func Validate(items []entity.BomItem) error {
	for i, it := range items {
		field := fmt.Sprintf("bom[%d]", i)
		if strings.TrimSpace(it.Name) == "" {
			return domain.Invalid(field+".name", "es obligatorio")
		}
		if it.QuantityNeeded <= 0 {
			return domain.Invalid(field+".quantity_needed", "debe ser mayor que cero")
		}
		if it.Price.IsNegative() {
			return domain.Invalid(field+".price", "no puede ser negativo")
		}
		switch it.Source {
		case entity.SourceInventory:
			if it.InventoryItemID == "" {
				return domain.Invalid(field+".inventory_item_id", "es obligatorio para origen Inventory")
			}
		case entity.SourcePurchase:
		default:
			return domain.Invalid(field+".source", "debe ser Inventory o Purchase")
		}
	}
	return nil
}

// Costs costo total dividido por origen.
type Costs struct {
	Inventory decimal.Decimal
	Purchase  decimal.Decimal
}

// Total Inventory + Purchase.
func (c Costs) Total() decimal.Decimal { return c.Inventory.Add(c.Purchase) }

// CostOf suma QuantityNeeded × Price por origen.
func CostOf(items []entity.BomItem) Costs {
	c := Costs{Inventory: decimal.Zero, Purchase: decimal.Zero}
	for _, it := range items {
		if it.Source == entity.SourceInventory {
			c.Inventory = c.Inventory.Add(it.LineCost())
		} else {
			c.Purchase = c.Purchase.Add(it.LineCost())
		}
	}
	return c
}

// SplitResult BOM reequilibrado y mensajes informativos para el usuario.
type SplitResult struct {
	Items    []entity.BomItem
	Messages []string
}

// SplitOnShortfall parte cada línea Inventory cuya demanda acumulada supera lo
// disponible en una línea Inventory por lo que hay y una Purchase por el faltante.
// available mapea id del ledger → unidades disponibles; un id ausente cuenta como 0.
func SplitOnShortfall(items []entity.BomItem, available map[string]int64) SplitResult {
	remaining := make(map[string]int64, len(available))
	for id, q := range available {
		remaining[id] = q
	}
	res := SplitResult{Items: make([]entity.BomItem, 0, len(items))}
	for _, it := range items {
		if it.Source != entity.SourceInventory {
			res.Items = append(res.Items, it)
			continue
		}
		have := remaining[it.InventoryItemID]
		if have < 0 {
			have = 0
		}
		if it.QuantityNeeded <= have {
			remaining[it.InventoryItemID] = have - it.QuantityNeeded
			res.Items = append(res.Items, it)
			continue
		}
		shortfall := it.QuantityNeeded - have
		if have > 0 {
			inv := it
			inv.QuantityNeeded = have
			res.Items = append(res.Items, inv)
		}
		remaining[it.InventoryItemID] = 0
		res.Items = append(res.Items, entity.BomItem{
			InventoryItemID: NewPurchaseID(),
			Name:            it.Name,
			QuantityNeeded:  shortfall,
			Price:           it.Price,
			Source:          entity.SourcePurchase,
		})
		res.Messages = append(res.Messages, fmt.Sprintf(
			"%s: solo hay %d en inventario; %d se agregan como compra", it.Name, have, shortfall))
	}
	return res
}
