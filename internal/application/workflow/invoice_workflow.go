package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/application/validation"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// ExpensePrefix prefijo del id sintético de líneas Expense (no referencian el ledger).
const ExpensePrefix = "exp-"

// InvoiceWorkflow flujo de aprobación de facturas de compra. Registrar reserva unidades
// en el ledger por línea; aprobar las compromete; rechazar o borrar las libera.
type InvoiceWorkflow struct {
	engine
}

// NewInvoiceWorkflow construye el workflow.
func NewInvoiceWorkflow(d Deps) *InvoiceWorkflow {
	return &InvoiceWorkflow{engine: newEngine(d, "invoice_workflow")}
}

// InvoiceSubject vista de la factura para la máquina de estados.
func InvoiceSubject(inv *entity.Invoice) approval.Subject {
	return approval.Subject{Kind: approval.KindInvoice, Status: inv.Status, SubmittedBy: inv.SubmittedBy}
}

func invoiceLockKey(id string) string { return "invoice:" + id }

// lineDemand agrega cantidades por fila del ledger; el precio es el de la última línea.
func lineDemand(lines []entity.PurchaseRecord) (map[string]int64, map[string]decimal.Decimal) {
	qty := make(map[string]int64)
	price := make(map[string]decimal.Decimal)
	for _, l := range lines {
		if !l.TouchesLedger() {
			continue
		}
		qty[l.InventoryItemID] += l.Quantity
		price[l.InventoryItemID] = l.PricePerUnit
	}
	return qty, price
}

func (w *InvoiceWorkflow) commitLines(ctx context.Context, repo repository.LedgerRepository, lines []entity.PurchaseRecord) error {
	qty, price := lineDemand(lines)
	for _, id := range sortedIDs(qty) {
		if _, err := w.ledger.CommitPending(ctx, repo, id, qty[id], price[id]); err != nil {
			return err
		}
	}
	return nil
}

func (w *InvoiceWorkflow) releaseLines(ctx context.Context, repo repository.LedgerRepository, lines []entity.PurchaseRecord) error {
	qty, _ := lineDemand(lines)
	for _, id := range sortedIDs(qty) {
		if _, err := w.ledger.ReleasePending(ctx, repo, id, qty[id]); err != nil {
			return err
		}
	}
	return nil
}

func (w *InvoiceWorkflow) reverseLines(ctx context.Context, repo repository.LedgerRepository, lines []entity.PurchaseRecord) error {
	qty, _ := lineDemand(lines)
	for _, id := range sortedIDs(qty) {
		if _, err := w.ledger.ReverseCommit(ctx, repo, id, qty[id]); err != nil {
			return err
		}
	}
	return nil
}

// Submit registra la factura y reserva cada línea que no sea Expense, resolviendo la fila del
// ledger por id o por (nombre, categoría) y creándola si no existe. Authorizer y Super Admin
// registran directamente en APPROVED: reserva y compromiso en la misma transacción.
func (w *InvoiceWorkflow) Submit(ctx context.Context, actor entity.Actor, in InvoiceInput) (*entity.Invoice, []entity.PurchaseRecord, error) {
	if err := approval.CanCreate(actor); err != nil {
		return nil, nil, err
	}
	if err := validation.Struct(&in); err != nil {
		return nil, nil, err
	}
	for i, l := range in.Lines {
		if err := validation.NonNegative(fmt.Sprintf("lines[%d].price_per_unit", i), l.PricePerUnit); err != nil {
			return nil, nil, err
		}
	}
	id := uuid.New().String()
	docRef, err := w.upload(ctx, "invoices/"+id, in.Document)
	if err != nil {
		return nil, nil, err
	}
	status, fast := approval.InitialStatus(actor)

	var inv *entity.Invoice
	lines := make([]entity.PurchaseRecord, len(in.Lines))
	err = w.transact(ctx, "", func(ctx context.Context, r Repos) error {
		now := w.now()
		inv = &entity.Invoice{
			ID:             id,
			Vendor:         in.Vendor,
			Date:           in.Date,
			CostCenter:     in.CostCenter,
			DocumentRef:    docRef,
			Status:         status,
			SubmittedBy:    actor.Username,
			SubmissionDate: now,
			UpdatedAt:      now,
		}
		if fast {
			inv.ApprovedBy = actor.Username
		}
		var reserve []Reservation
		var reserved []int
		for i, l := range in.Lines {
			costCenter := l.CostCenter
			if costCenter == "" {
				costCenter = in.CostCenter
			}
			lines[i] = entity.PurchaseRecord{
				ID:              uuid.New().String(),
				InvoiceID:       id,
				ItemName:        l.ItemName,
				Category:        l.Category,
				InventoryItemID: l.InventoryItemID,
				Quantity:        l.Quantity,
				PricePerUnit:    l.PricePerUnit,
				PurchaseFor:     l.PurchaseFor,
				CostCenter:      costCenter,
			}
			if !lines[i].TouchesLedger() {
				lines[i].InventoryItemID = ExpensePrefix + uuid.New().String()
				continue
			}
			reserve = append(reserve, Reservation{
				Line:  i + 1,
				Ref:   ItemRef{ID: l.InventoryItemID, Name: l.ItemName, Category: l.Category},
				Price: l.PricePerUnit,
				Qty:   l.Quantity,
			})
			reserved = append(reserved, i)
		}
		items, err := w.ledger.ReserveAll(ctx, r.Ledger, reserve)
		if err != nil {
			return err
		}
		for k, i := range reserved {
			lines[i].InventoryItemID = items[k].ID
			lines[i].Category = items[k].Category
		}
		if fast {
			if err := w.commitLines(ctx, r.Ledger, lines); err != nil {
				return err
			}
		}
		return r.Invoices.Create(ctx, inv, lines)
	})
	if err != nil {
		return nil, nil, err
	}
	w.fx.record(context.WithoutCancel(ctx), actor, entity.InvoiceSubmitted{
		InvoiceID: inv.ID,
		Vendor:    inv.Vendor,
		Lines:     len(lines),
		Total:     entity.InvoiceTotal(lines).StringFixed(2),
		Status:    inv.Status,
	})
	return inv, lines, nil
}

// Transition aplica submit-for-approval, approve o reject sobre toda la factura.
func (w *InvoiceWorkflow) Transition(ctx context.Context, id string, action approval.Action, actor entity.Actor) (*entity.Invoice, error) {
	if err := transitionAction(action); err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	var d approval.Decision
	err := w.transact(ctx, invoiceLockKey(id), func(ctx context.Context, r Repos) error {
		cur, err := r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d, err = approval.Decide(InvoiceSubject(cur), action, actor); err != nil {
			return err
		}
		lines, err := r.Invoices.GetLines(ctx, id)
		if err != nil {
			return err
		}
		switch action {
		case approval.ActionSubmitForApproval:
			cur.CheckedBy = actor.Username
		case approval.ActionApprove:
			if err := w.commitLines(ctx, r.Ledger, lines); err != nil {
				return err
			}
			cur.ApprovedBy = actor.Username
		case approval.ActionReject:
			if err := w.releaseLines(ctx, r.Ledger, lines); err != nil {
				return err
			}
		}
		cur.Status = d.To
		cur.UpdatedAt = w.now()
		inv = cur
		return r.Invoices.UpdateStatus(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	w.logTransition(approval.KindInvoice, id, action, actor, d)
	detached := context.WithoutCancel(ctx)
	w.fx.record(detached, actor, entity.InvoiceStatusChanged{InvoiceID: inv.ID, Vendor: inv.Vendor, From: d.From, To: d.To})
	w.notifyTransition(detached, action, inv.SubmittedBy, inv.ID,
		fmt.Sprintf("La factura de %s %s", inv.Vendor, statusVerbInvoice(action)))
	return inv, nil
}

// SubmitForApproval PENDING_REVIEW → PENDING_APPROVAL.
func (w *InvoiceWorkflow) SubmitForApproval(ctx context.Context, id string, actor entity.Actor) (*entity.Invoice, error) {
	return w.Transition(ctx, id, approval.ActionSubmitForApproval, actor)
}

// Approve compromete todas las líneas y pasa a APPROVED.
func (w *InvoiceWorkflow) Approve(ctx context.Context, id string, actor entity.Actor) (*entity.Invoice, error) {
	return w.Transition(ctx, id, approval.ActionApprove, actor)
}

// Reject libera las reservas y pasa a REJECTED.
func (w *InvoiceWorkflow) Reject(ctx context.Context, id string, actor entity.Actor) (*entity.Invoice, error) {
	return w.Transition(ctx, id, approval.ActionReject, actor)
}

// Delete borra la factura y sus líneas. Antes de aprobarse libera las reservas; una
// factura APPROVED solo la borra Super Admin y se revierte lo comprometido. La cabecera
// se bloquea y se borra en la misma transacción: una segunda reversión recibe ErrNotFound.
func (w *InvoiceWorkflow) Delete(ctx context.Context, id string, actor entity.Actor) error {
	var inv *entity.Invoice
	var d approval.Decision
	err := w.transact(ctx, invoiceLockKey(id), func(ctx context.Context, r Repos) error {
		cur, err := r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d, err = approval.Decide(InvoiceSubject(cur), approval.ActionDelete, actor); err != nil {
			return err
		}
		lines, err := r.Invoices.GetLines(ctx, id)
		if err != nil {
			return err
		}
		switch d.Effect {
		case approval.EffectRelease:
			err = w.releaseLines(ctx, r.Ledger, lines)
		case approval.EffectReverse:
			err = w.reverseLines(ctx, r.Ledger, lines)
		}
		if err != nil {
			return err
		}
		inv = cur
		return r.Invoices.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	w.logTransition(approval.KindInvoice, id, approval.ActionDelete, actor, d)
	w.fx.record(context.WithoutCancel(ctx), actor,
		entity.InvoiceDeleted{InvoiceID: inv.ID, Vendor: inv.Vendor, Status: inv.Status})
	return nil
}

func statusVerbInvoice(action approval.Action) string {
	switch action {
	case approval.ActionApprove:
		return "fue aprobada"
	case approval.ActionReject:
		return "fue rechazada"
	}
	return statusVerb(action)
}
