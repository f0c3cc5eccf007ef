package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Aprobaciones-api/internal/application/validation"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// InventoryWorkflow flujo de aprobación de altas de inventario. El envío reserva en la
// fila (nombre, categoría) del ledger; la aprobación fusiona las unidades en available.
type InventoryWorkflow struct {
	engine
}

// NewInventoryWorkflow construye el workflow.
func NewInventoryWorkflow(d Deps) *InventoryWorkflow {
	return &InventoryWorkflow{engine: newEngine(d, "inventory_workflow")}
}

// SubmissionSubject vista del envío para la máquina de estados.
func SubmissionSubject(s *entity.InventorySubmission) approval.Subject {
	return approval.Subject{Kind: approval.KindInventoryItem, Status: s.Status, SubmittedBy: s.SubmittedBy}
}

func submissionLockKey(id string) string { return "inventory_item:" + id }

// Submit registra el alta y reserva la cantidad. Authorizer y Super Admin la fusionan
// en la misma transacción (camino rápido a APPROVED).
func (w *InventoryWorkflow) Submit(ctx context.Context, actor entity.Actor, in SubmissionInput) (*entity.InventorySubmission, error) {
	if err := approval.CanCreate(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	if err := validation.NonNegative("price", in.Price); err != nil {
		return nil, err
	}
	status, fast := approval.InitialStatus(actor)

	var s *entity.InventorySubmission
	err := w.transact(ctx, "", func(ctx context.Context, r Repos) error {
		items, err := w.ledger.ReserveAll(ctx, r.Ledger, []Reservation{{
			Line:  1,
			Ref:   ItemRef{Name: in.Name, Category: in.Category},
			Price: in.Price,
			Qty:   in.Quantity,
		}})
		if err != nil {
			return err
		}
		item := items[0]
		if fast {
			if item, err = w.ledger.MergeOrCreate(ctx, r.Ledger, in.Name, in.Category, in.Quantity, in.Price); err != nil {
				return err
			}
		}
		now := w.now()
		s = &entity.InventorySubmission{
			ID:             uuid.New().String(),
			Name:           item.Name,
			Category:       item.Category,
			Quantity:       in.Quantity,
			Price:          in.Price,
			Status:         status,
			LedgerItemID:   item.ID,
			SubmittedBy:    actor.Username,
			SubmissionDate: now,
			UpdatedAt:      now,
		}
		if fast {
			s.ApprovedBy = actor.Username
		}
		return r.Submissions.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	w.fx.record(context.WithoutCancel(ctx), actor, entity.InventoryItemCreated{
		SubmissionID: s.ID,
		Name:         s.Name,
		Category:     s.Category,
		Quantity:     s.Quantity,
		Status:       s.Status,
	})
	return s, nil
}

// Transition aplica submit-for-approval, approve o reject.
func (w *InventoryWorkflow) Transition(ctx context.Context, id string, action approval.Action, actor entity.Actor) (*entity.InventorySubmission, error) {
	if err := transitionAction(action); err != nil {
		return nil, err
	}
	var s *entity.InventorySubmission
	var d approval.Decision
	err := w.transact(ctx, submissionLockKey(id), func(ctx context.Context, r Repos) error {
		cur, err := r.Submissions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d, err = approval.Decide(SubmissionSubject(cur), action, actor); err != nil {
			return err
		}
		switch action {
		case approval.ActionSubmitForApproval:
			cur.CheckedBy = actor.Username
		case approval.ActionApprove:
			item, err := w.ledger.MergeOrCreate(ctx, r.Ledger, cur.Name, cur.Category, cur.Quantity, cur.Price)
			if err != nil {
				return err
			}
			cur.LedgerItemID = item.ID
			cur.ApprovedBy = actor.Username
		case approval.ActionReject:
			if _, err := w.ledger.ReleasePending(ctx, r.Ledger, cur.LedgerItemID, cur.Quantity); err != nil {
				return err
			}
		}
		cur.Status = d.To
		cur.UpdatedAt = w.now()
		s = cur
		return r.Submissions.Update(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	w.logTransition(approval.KindInventoryItem, id, action, actor, d)
	detached := context.WithoutCancel(ctx)
	w.fx.record(detached, actor, entity.InventoryItemStatusChanged{SubmissionID: s.ID, Name: s.Name, From: d.From, To: d.To})
	w.notifyTransition(detached, action, s.SubmittedBy, s.ID,
		fmt.Sprintf("El alta de %d × %s %s", s.Quantity, s.Name, statusVerb(action)))
	return s, nil
}

// SubmitForApproval PENDING_REVIEW → PENDING_APPROVAL.
func (w *InventoryWorkflow) SubmitForApproval(ctx context.Context, id string, actor entity.Actor) (*entity.InventorySubmission, error) {
	return w.Transition(ctx, id, approval.ActionSubmitForApproval, actor)
}

// Approve fusiona la cantidad en la fila del ledger y pasa a APPROVED.
func (w *InventoryWorkflow) Approve(ctx context.Context, id string, actor entity.Actor) (*entity.InventorySubmission, error) {
	return w.Transition(ctx, id, approval.ActionApprove, actor)
}

// Reject libera la reserva y pasa a REJECTED.
func (w *InventoryWorkflow) Reject(ctx context.Context, id string, actor entity.Actor) (*entity.InventorySubmission, error) {
	return w.Transition(ctx, id, approval.ActionReject, actor)
}

// Delete borra el envío liberando su reserva; uno APPROVED solo lo borra Super Admin,
// revirtiendo las unidades fusionadas.
func (w *InventoryWorkflow) Delete(ctx context.Context, id string, actor entity.Actor) error {
	var s *entity.InventorySubmission
	var d approval.Decision
	err := w.transact(ctx, submissionLockKey(id), func(ctx context.Context, r Repos) error {
		cur, err := r.Submissions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d, err = approval.Decide(SubmissionSubject(cur), approval.ActionDelete, actor); err != nil {
			return err
		}
		switch d.Effect {
		case approval.EffectRelease:
			_, err = w.ledger.ReleasePending(ctx, r.Ledger, cur.LedgerItemID, cur.Quantity)
		case approval.EffectReverse:
			_, err = w.ledger.ReverseCommit(ctx, r.Ledger, cur.LedgerItemID, cur.Quantity)
		}
		if err != nil {
			return err
		}
		s = cur
		return r.Submissions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	w.logTransition(approval.KindInventoryItem, id, approval.ActionDelete, actor, d)
	w.fx.record(context.WithoutCancel(ctx), actor,
		entity.InventoryItemUpdated{SubmissionID: s.ID, Name: s.Name, Deleted: true})
	return nil
}
