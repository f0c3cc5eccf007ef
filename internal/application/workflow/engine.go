// Package workflow orquesta las transiciones de aprobación de proyectos, facturas y altas
// de inventario: valida la entrada, abre una transacción con las filas bloqueadas, aplica
// la decisión de la máquina de estados y los efectos sobre el ledger, y tras el commit
// dispara los observadores (actividad y notificaciones).
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// Deps dependencias compartidas por los workflows. Locker, Docs, Activity y Notifier son opcionales.
type Deps struct {
	Tx       TxRunner
	Users    UserDirectory
	Locker   TransitionLocker
	Docs     DocumentStore
	Activity ActivityRecorder
	Notifier Notifier
	Logger   zerolog.Logger
	Now      func() time.Time
}

type engine struct {
	tx     TxRunner
	locker TransitionLocker
	docs   DocumentStore
	ledger *Ledger
	fx     effects
	log    zerolog.Logger
	now    func() time.Time
}

func newEngine(d Deps, component string) engine {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	log := d.Logger.With().Str("component", component).Logger()
	return engine{
		tx:     d.Tx,
		locker: d.Locker,
		docs:   d.Docs,
		ledger: NewLedger(now),
		fx:     effects{activity: d.Activity, notifier: d.Notifier, users: d.Users, log: log},
		log:    log,
		now:    now,
	}
}

// transact toma el lock de la entidad (si hay locker), y ejecuta fn en una transacción
// desligada de la cancelación del request: una transición no se interrumpe a medias.
func (e *engine) transact(ctx context.Context, lockKey string, fn func(ctx context.Context, r Repos) error) error {
	ctx = context.WithoutCancel(ctx)
	if e.locker != nil && lockKey != "" {
		unlock, err := e.locker.Lock(ctx, lockKey)
		if err != nil {
			return err
		}
		defer unlock()
	}
	err := e.tx.Run(ctx, func(r Repos) error { return fn(ctx, r) })
	if err != nil && errors.Is(err, domain.ErrLedgerInconsistency) {
		e.log.Error().Err(err).Str("lock_key", lockKey).Msg("inconsistencia del ledger; transacción revertida")
	}
	return err
}

// upload sube el adjunto antes de abrir la transacción.
func (e *engine) upload(ctx context.Context, prefix string, a *Attachment) (string, error) {
	if a == nil || len(a.Data) == 0 {
		return "", nil
	}
	if e.docs == nil {
		return "", fmt.Errorf("almacenamiento de documentos no configurado")
	}
	ref, err := e.docs.Put(ctx, prefix+"/"+a.Name, a.ContentType, a.Data)
	if err != nil {
		return "", fmt.Errorf("subir documento: %w", err)
	}
	return ref, nil
}

// notifyTransition destinatarios según la acción: enviar a aprobación → Authorizers;
// aprobar/rechazar/edición del revisor → autor.
func (e *engine) notifyTransition(ctx context.Context, action approval.Action, submittedBy, entityID, message string) {
	switch action {
	case approval.ActionSubmitForApproval:
		e.fx.notifyRole(ctx, entity.RoleAuthorizer, message, entityID)
	case approval.ActionApprove, approval.ActionReject, approval.ActionReviewerEdit:
		e.fx.notifyUsername(ctx, submittedBy, message, entityID)
	}
}

func (e *engine) logTransition(kind approval.Kind, id string, action approval.Action, actor entity.Actor, d approval.Decision) {
	e.log.Debug().
		Str("kind", string(kind)).
		Str("id", id).
		Str("action", string(action)).
		Str("actor", actor.Username).
		Str("from", string(d.From)).
		Str("to", string(d.To)).
		Bool("delete", d.Delete).
		Msg("transición aplicada")
}

// statusVerb texto corto para mensajes de notificación.
func statusVerb(action approval.Action) string {
	switch action {
	case approval.ActionSubmitForApproval:
		return "espera aprobación"
	case approval.ActionApprove:
		return "fue aprobado"
	case approval.ActionReject:
		return "fue rechazado"
	case approval.ActionReviewerEdit:
		return "fue editado por un revisor y requiere tu confirmación"
	}
	return "cambió de estado"
}

func transitionAction(action approval.Action) error {
	switch action {
	case approval.ActionSubmitForApproval, approval.ActionApprove, approval.ActionReject:
		return nil
	}
	return domain.Invalid("action", "acción no soportada: "+string(action))
}
