// Package approval define la máquina de estados de aprobación compartida por
// proyectos, facturas y envíos de inventario. La tabla de transiciones es la única
// fuente de verdad para el control por rol: los workflows la consultan con Decide
// y las vistas con AllowedActions.
package approval

import (
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// Kind tipo de entidad sujeta al flujo.
type Kind string

const (
	KindProject       Kind = "project"
	KindInvoice       Kind = "invoice"
	KindInventoryItem Kind = "inventory_item"
)

// Action acción solicitada sobre una entidad.
type Action string

const (
	ActionSubmitForApproval Action = "submit-for-approval"
	ActionApprove           Action = "approve"
	ActionReject            Action = "reject"
	ActionReviewerEdit      Action = "edit-by-reviewer"
	ActionAcknowledge       Action = "acknowledge"
	ActionOwnerEdit         Action = "edit-by-owner"
	ActionDelete            Action = "delete"
)

// Effect efecto sobre el ledger que el workflow debe aplicar dentro de la transacción.
type Effect int

const (
	EffectNone    Effect = iota
	EffectCommit         // aprobar: descontar BOM / comprometer reservas / fusionar
	EffectRelease        // liberar reservas pendientes
	EffectReverse        // deshacer efectos ya comprometidos (borrado privilegiado de APPROVED)
)

// Subject vista mínima de la entidad que necesita la máquina de estados.
type Subject struct {
	Kind           Kind
	Status         entity.ApprovalStatus
	SubmittedBy    string // username del autor
	LastEditorRole string // rol del revisor que dejó la entidad en AWAITING_ACKNOWLEDGMENT
}

// Decision resultado de una transición válida.
type Decision struct {
	From   entity.ApprovalStatus
	To     entity.ApprovalStatus // vacío si Delete
	Delete bool
	Effect Effect
}

type ownership int

const (
	anyone ownership = iota
	ownerOnly
	notOwner
)

type rule struct {
	action Action
	from   entity.ApprovalStatus
	roles  []string // nil = cualquier rol (la restricción la pone ownership)
	owner  ownership
	to     entity.ApprovalStatus
	delete bool
	effect Effect
	kinds  []Kind // nil = todos
}

var (
	reviewers   = []string{entity.RoleChecker, entity.RoleAuthorizer, entity.RoleSuperAdmin}
	authorizers = []string{entity.RoleAuthorizer, entity.RoleSuperAdmin}
	checkers    = []string{entity.RoleChecker, entity.RoleSuperAdmin}
	superAdmin  = []string{entity.RoleSuperAdmin}
	projectOnly = []Kind{KindProject}
)

// table transiciones permitidas. El destino de acknowledge se resuelve en Decide.
var table = []rule{
	{action: ActionSubmitForApproval, from: entity.StatusPendingReview, roles: checkers, to: entity.StatusPendingApproval},
	{action: ActionApprove, from: entity.StatusPendingApproval, roles: authorizers, to: entity.StatusApproved, effect: EffectCommit},

	{action: ActionReject, from: entity.StatusPendingReview, roles: reviewers, to: entity.StatusRejected, effect: EffectRelease},
	{action: ActionReject, from: entity.StatusPendingApproval, roles: authorizers, to: entity.StatusRejected, effect: EffectRelease},

	{action: ActionReviewerEdit, from: entity.StatusPendingReview, roles: reviewers, owner: notOwner, to: entity.StatusAwaitingAck, kinds: projectOnly},
	{action: ActionReviewerEdit, from: entity.StatusPendingApproval, roles: reviewers, owner: notOwner, to: entity.StatusAwaitingAck, kinds: projectOnly},
	{action: ActionAcknowledge, from: entity.StatusAwaitingAck, owner: ownerOnly, kinds: projectOnly},
	{action: ActionOwnerEdit, from: entity.StatusPendingReview, owner: ownerOnly, to: entity.StatusPendingReview, kinds: projectOnly},
	{action: ActionOwnerEdit, from: entity.StatusPendingApproval, owner: ownerOnly, to: entity.StatusPendingReview, kinds: projectOnly},

	{action: ActionDelete, from: entity.StatusPendingReview, roles: reviewers, delete: true, effect: EffectRelease},
	{action: ActionDelete, from: entity.StatusPendingApproval, roles: authorizers, delete: true, effect: EffectRelease},
	{action: ActionDelete, from: entity.StatusRejected, roles: authorizers, delete: true},
	{action: ActionDelete, from: entity.StatusAwaitingAck, roles: superAdmin, delete: true, kinds: projectOnly},
	{action: ActionDelete, from: entity.StatusApproved, roles: superAdmin, delete: true, effect: EffectReverse},
}

func (r rule) appliesTo(k Kind) bool {
	if r.kinds == nil {
		return true
	}
	for _, v := range r.kinds {
		if v == k {
			return true
		}
	}
	return false
}

func (r rule) roleAllowed(role string) bool {
	if r.roles == nil {
		return true
	}
	for _, v := range r.roles {
		if v == role {
			return true
		}
	}
	return false
}

func (r rule) permits(s Subject, actor entity.Actor) bool {
	if !r.roleAllowed(actor.Role) {
		return false
	}
	isOwner := s.SubmittedBy != "" && s.SubmittedBy == actor.Username
	switch r.owner {
	case ownerOnly:
		return isOwner
	case notOwner:
		return !isOwner
	}
	return true
}

// Decide valida la acción del actor sobre la entidad y devuelve la transición.
//
// Orden de errores:
//  1. acción no definida para el tipo → ErrInvalidInput
//  2. el rol del actor no aparece en ninguna fila de la acción → ErrUnauthorized
//  3. no hay fila para el estado actual (incluye estados terminales) → ErrInvalidState
//  4. la fila existe pero rol/autoría no la satisfacen → ErrUnauthorized
func Decide(s Subject, action Action, actor entity.Actor) (Decision, error) {
	var defined, roleKnown bool
	var matched []rule
	for _, r := range table {
		if r.action != action || !r.appliesTo(s.Kind) {
			continue
		}
		defined = true
		if r.roleAllowed(actor.Role) {
			roleKnown = true
		}
		if r.from == s.Status {
			matched = append(matched, r)
		}
	}
	if !defined {
		return Decision{}, domain.Invalid("action", string(action)+" no aplica a "+string(s.Kind))
	}
	if !entity.ValidRole(actor.Role) || !roleKnown {
		return Decision{}, domain.ErrUnauthorized
	}
	if len(matched) == 0 {
		return Decision{}, domain.ErrInvalidState
	}
	for _, r := range matched {
		if !r.permits(s, actor) {
			continue
		}
		d := Decision{From: s.Status, To: r.to, Delete: r.delete, Effect: r.effect}
		if action == ActionAcknowledge {
			d.To = ResumeStatus(s.LastEditorRole)
		}
		return d, nil
	}
	return Decision{}, domain.ErrUnauthorized
}

// Can indica si Decide aceptaría la acción.
func Can(s Subject, action Action, actor entity.Actor) bool {
	_, err := Decide(s, action, actor)
	return err == nil
}

// AllowedActions acciones que el actor puede ejecutar ahora (para habilitar botones en la UI).
func AllowedActions(s Subject, actor entity.Actor) []Action {
	seen := make(map[Action]bool)
	var out []Action
	for _, r := range table {
		if seen[r.action] || !r.appliesTo(s.Kind) {
			continue
		}
		if Can(s, r.action, actor) {
			seen[r.action] = true
			out = append(out, r.action)
		}
	}
	return out
}

// ResumeStatus etapa en la que se reanuda el flujo tras acknowledge:
// si editó un Checker vuelve a revisión; si editó Authorizer/Super Admin, a aprobación.
func ResumeStatus(editorRole string) entity.ApprovalStatus {
	if editorRole == entity.RoleChecker || editorRole == "" {
		return entity.StatusPendingReview
	}
	return entity.StatusPendingApproval
}

// InitialStatus estado de creación. Autores privilegiados toman el camino rápido
// a APPROVED y el workflow compromete los efectos en la misma transacción.
func InitialStatus(actor entity.Actor) (status entity.ApprovalStatus, fastPath bool) {
	if actor.IsPrivileged() {
		return entity.StatusApproved, true
	}
	return entity.StatusPendingReview, false
}

// CanCreate todos los roles válidos pueden registrar entidades.
func CanCreate(actor entity.Actor) error {
	if !entity.ValidRole(actor.Role) {
		return domain.ErrUnauthorized
	}
	return nil
}
