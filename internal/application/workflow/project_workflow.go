package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Aprobaciones-api/internal/application/validation"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/bom"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// ProjectWorkflow flujo de aprobación de proyectos. Aprobar descuenta del ledger todas las
// líneas Inventory del BOM de forma atómica.
type ProjectWorkflow struct {
	engine
}

// NewProjectWorkflow construye el workflow.
func NewProjectWorkflow(d Deps) *ProjectWorkflow {
	return &ProjectWorkflow{engine: newEngine(d, "project_workflow")}
}

// ProjectSubject vista del proyecto para la máquina de estados.
func ProjectSubject(p *entity.Project) approval.Subject {
	return approval.Subject{
		Kind:           approval.KindProject,
		Status:         p.Status,
		SubmittedBy:    p.SubmittedBy,
		LastEditorRole: p.LastEditorRole,
	}
}

func projectLockKey(id string) string { return "project:" + id }

// availability lee el disponible de cada línea Inventory; ErrNotFound (como ValidationError)
// si alguna no referencia una fila viva del ledger.
func availability(ctx context.Context, repo repository.LedgerRepository, items []entity.BomItem) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, it := range items {
		if it.Source != entity.SourceInventory {
			continue
		}
		if _, ok := out[it.InventoryItemID]; ok {
			continue
		}
		row, err := repo.GetByID(ctx, it.InventoryItemID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("bom.inventory_item_id", "no existe en inventario: "+it.InventoryItemID)
		}
		if err != nil {
			return nil, err
		}
		out[it.InventoryItemID] = row.Available
	}
	return out, nil
}

func (w *ProjectWorkflow) validate(in *ProjectInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	return bom.Validate(in.BOM)
}

func (w *ProjectWorkflow) uploadFiles(ctx context.Context, id string, in *ProjectInput) (details, costing string, err error) {
	if details, err = w.upload(ctx, "projects/"+id, in.DetailsFile); err != nil {
		return "", "", err
	}
	if costing, err = w.upload(ctx, "projects/"+id, in.CostingFile); err != nil {
		return "", "", err
	}
	return details, costing, nil
}

func applyInput(p *entity.Project, in *ProjectInput, items []entity.BomItem, detailsRef, costingRef string) {
	p.Name = in.Name
	p.CostCenter = in.CostCenter
	p.Details = in.Details
	p.BOM = items
	p.Timeline = in.Timeline
	p.Team = in.Team
	p.Approvers = in.Approvers
	if detailsRef != "" {
		p.DocumentRef = detailsRef
	}
	if costingRef != "" {
		p.CostingRef = costingRef
	}
}

// Create registra un proyecto. Las líneas Inventory que superan el disponible se parten
// (Inventory + Purchase) y se devuelven los avisos. Authorizer y Super Admin crean
// directamente en APPROVED y el BOM se descuenta en la misma transacción.
func (w *ProjectWorkflow) Create(ctx context.Context, actor entity.Actor, in ProjectInput) (*entity.Project, []string, error) {
	if err := approval.CanCreate(actor); err != nil {
		return nil, nil, err
	}
	if err := w.validate(&in); err != nil {
		return nil, nil, err
	}
	id := uuid.New().String()
	detailsRef, costingRef, err := w.uploadFiles(ctx, id, &in)
	if err != nil {
		return nil, nil, err
	}
	status, fast := approval.InitialStatus(actor)

	var p *entity.Project
	var notices []string
	err = w.transact(ctx, "", func(ctx context.Context, r Repos) error {
		avail, err := availability(ctx, r.Ledger, in.BOM)
		if err != nil {
			return err
		}
		split := bom.SplitOnShortfall(in.BOM, avail)
		now := w.now()
		p = &entity.Project{
			ID:             id,
			Status:         status,
			SubmittedBy:    actor.Username,
			SubmissionDate: now,
			UpdatedAt:      now,
		}
		applyInput(p, &in, split.Items, detailsRef, costingRef)
		if fast {
			p.ApprovedBy = actor.Username
			if err := w.ledger.DeductAll(ctx, r.Ledger, p.InventoryDemand()); err != nil {
				return err
			}
		}
		notices = split.Messages
		return r.Projects.Create(ctx, p)
	})
	if err != nil {
		return nil, nil, err
	}
	detached := context.WithoutCancel(ctx)
	w.fx.record(detached, actor, entity.ProjectCreated{ProjectID: p.ID, ProjectName: p.Name, Status: p.Status})
	return p, notices, nil
}

// Transition aplica submit-for-approval, approve o reject.
func (w *ProjectWorkflow) Transition(ctx context.Context, id string, action approval.Action, actor entity.Actor) (*entity.Project, error) {
	if err := transitionAction(action); err != nil {
		return nil, err
	}
	var p *entity.Project
	var d approval.Decision
	err := w.transact(ctx, projectLockKey(id), func(ctx context.Context, r Repos) error {
		cur, err := r.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d, err = approval.Decide(ProjectSubject(cur), action, actor); err != nil {
			return err
		}
		switch action {
		case approval.ActionSubmitForApproval:
			cur.CheckedBy = actor.Username
		case approval.ActionApprove:
			if err := w.ledger.DeductAll(ctx, r.Ledger, cur.InventoryDemand()); err != nil {
				return err
			}
			cur.ApprovedBy = actor.Username
		}
		cur.Status = d.To
		cur.UpdatedAt = w.now()
		p = cur
		return r.Projects.Update(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	w.logTransition(approval.KindProject, id, action, actor, d)
	detached := context.WithoutCancel(ctx)
	w.fx.record(detached, actor, entity.ProjectStatusChanged{ProjectID: p.ID, ProjectName: p.Name, From: d.From, To: d.To})
	w.notifyTransition(detached, action, p.SubmittedBy, p.ID, fmt.Sprintf("El proyecto %q %s", p.Name, statusVerb(action)))
	return p, nil
}

// SubmitForApproval PENDING_REVIEW → PENDING_APPROVAL.
func (w *ProjectWorkflow) SubmitForApproval(ctx context.Context, id string, actor entity.Actor) (*entity.Project, error) {
	return w.Transition(ctx, id, approval.ActionSubmitForApproval, actor)
}

// Approve descuenta el BOM y pasa a APPROVED.
func (w *ProjectWorkflow) Approve(ctx context.Context, id string, actor entity.Actor) (*entity.Project, error) {
	return w.Transition(ctx, id, approval.ActionApprove, actor)
}

// Reject pasa a REJECTED.
func (w *ProjectWorkflow) Reject(ctx context.Context, id string, actor entity.Actor) (*entity.Project, error) {
	return w.Transition(ctx, id, approval.ActionReject, actor)
}

// Edit modifica un proyecto en revisión. Si edita el autor, el proyecto vuelve a
// PENDING_REVIEW; si edita un revisor, queda en AWAITING_ACKNOWLEDGMENT hasta que el
// autor confirme los cambios.
func (w *ProjectWorkflow) Edit(ctx context.Context, id string, actor entity.Actor, in ProjectInput) (*entity.Project, []string, error) {
	if err := w.validate(&in); err != nil {
		return nil, nil, err
	}
	detailsRef, costingRef, err := w.uploadFiles(ctx, id, &in)
	if err != nil {
		return nil, nil, err
	}
	var (
		p       *entity.Project
		d       approval.Decision
		action  approval.Action
		notices []string
	)
	err = w.transact(ctx, projectLockKey(id), func(ctx context.Context, r Repos) error {
		cur, err := r.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		action = approval.ActionReviewerEdit
		if cur.SubmittedBy == actor.Username {
			action = approval.ActionOwnerEdit
		}
		if d, err = approval.Decide(ProjectSubject(cur), action, actor); err != nil {
			return err
		}
		avail, err := availability(ctx, r.Ledger, in.BOM)
		if err != nil {
			return err
		}
		split := bom.SplitOnShortfall(in.BOM, avail)
		notices = split.Messages
		applyInput(cur, &in, split.Items, detailsRef, costingRef)
		now := w.now()
		if action == approval.ActionReviewerEdit {
			cur.LastEditor = actor.Username
			cur.LastEditorRole = actor.Role
			cur.LastEditDate = &now
		} else {
			cur.CheckedBy = ""
		}
		cur.Status = d.To
		cur.UpdatedAt = now
		p = cur
		return r.Projects.Update(ctx, cur)
	})
	if err != nil {
		return nil, nil, err
	}
	w.logTransition(approval.KindProject, id, action, actor, d)
	detached := context.WithoutCancel(ctx)
	byReviewer := action == approval.ActionReviewerEdit
	w.fx.record(detached, actor, entity.ProjectUpdated{ProjectID: p.ID, ProjectName: p.Name, ByReviewer: byReviewer})
	if byReviewer {
		w.notifyTransition(detached, action, p.SubmittedBy, p.ID,
			fmt.Sprintf("El proyecto %q %s (%s)", p.Name, statusVerb(action), actor.Username))
	}
	return p, notices, nil
}

// Acknowledge el autor acepta la edición del revisor; el flujo se reanuda en la etapa
// del revisor (Checker → PENDING_REVIEW, Authorizer/Super Admin → PENDING_APPROVAL).
func (w *ProjectWorkflow) Acknowledge(ctx context.Context, id string, actor entity.Actor) (*entity.Project, error) {
	var p *entity.Project
	var d approval.Decision
	err := w.transact(ctx, projectLockKey(id), func(ctx context.Context, r Repos) error {
		cur, err := r.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d, err = approval.Decide(ProjectSubject(cur), approval.ActionAcknowledge, actor); err != nil {
			return err
		}
		cur.ClearLastEdit()
		cur.Status = d.To
		cur.UpdatedAt = w.now()
		p = cur
		return r.Projects.Update(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	w.logTransition(approval.KindProject, id, approval.ActionAcknowledge, actor, d)
	w.fx.record(context.WithoutCancel(ctx), actor,
		entity.ProjectAcknowledged{ProjectID: p.ID, ProjectName: p.Name, ResumedAt: d.To})
	return p, nil
}

// Delete borra el proyecto. Un proyecto APPROVED solo lo borra Super Admin y el BOM
// descontado vuelve al inventario en la misma transacción.
func (w *ProjectWorkflow) Delete(ctx context.Context, id string, actor entity.Actor) error {
	var p *entity.Project
	var d approval.Decision
	err := w.transact(ctx, projectLockKey(id), func(ctx context.Context, r Repos) error {
		cur, err := r.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d, err = approval.Decide(ProjectSubject(cur), approval.ActionDelete, actor); err != nil {
			return err
		}
		if d.Effect == approval.EffectReverse {
			if err := w.ledger.RestockAll(ctx, r.Ledger, cur.InventoryDemand()); err != nil {
				return err
			}
		}
		p = cur
		return r.Projects.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	w.logTransition(approval.KindProject, id, approval.ActionDelete, actor, d)
	w.fx.record(context.WithoutCancel(ctx), actor,
		entity.ProjectDeleted{ProjectID: p.ID, ProjectName: p.Name, Status: p.Status})
	return nil
}

// Plan aplica el reparto por faltante sin persistir nada (vista previa del BOM).
func (w *ProjectWorkflow) Plan(ctx context.Context, items []entity.BomItem) (bom.SplitResult, error) {
	if err := bom.Validate(items); err != nil {
		return bom.SplitResult{}, err
	}
	var res bom.SplitResult
	err := w.transact(ctx, "", func(ctx context.Context, r Repos) error {
		avail, err := availability(ctx, r.Ledger, items)
		if err != nil {
			return err
		}
		res = bom.SplitOnShortfall(items, avail)
		return nil
	})
	return res, err
}
