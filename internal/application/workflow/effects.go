package workflow

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// effects observadores posteriores al commit: log de actividad y notificaciones.
// Sus errores se registran y nunca se devuelven al llamador.
type effects struct {
	activity ActivityRecorder
	notifier Notifier
	users    UserDirectory
	log      zerolog.Logger
}

func (e *effects) record(ctx context.Context, actor entity.Actor, details entity.ActivityDetails) {
	if e.activity == nil {
		return
	}
	if err := e.activity.Record(ctx, actor, details); err != nil {
		e.log.Error().Err(err).
			Str("action", string(details.Action())).
			Str("actor", actor.Username).
			Msg("no se pudo registrar la actividad")
	}
}

// notifyUsername notifica al usuario con ese username (normalmente el autor).
func (e *effects) notifyUsername(ctx context.Context, username, message, entityID string) {
	if e.notifier == nil || e.users == nil || username == "" {
		return
	}
	u, err := e.users.GetByUsername(ctx, username)
	if err != nil {
		e.log.Error().Err(err).Str("username", username).Str("entity_id", entityID).
			Msg("destinatario de notificación no encontrado")
		return
	}
	e.send(ctx, u.ID, message, entityID)
}

// notifyRole notifica a todos los usuarios con el rol dado.
func (e *effects) notifyRole(ctx context.Context, role, message, entityID string) {
	if e.notifier == nil || e.users == nil {
		return
	}
	users, err := e.users.ListByRole(ctx, role)
	if err != nil {
		e.log.Error().Err(err).Str("role", role).Str("entity_id", entityID).
			Msg("no se pudieron listar destinatarios")
		return
	}
	for _, u := range users {
		e.send(ctx, u.ID, message, entityID)
	}
}

func (e *effects) send(ctx context.Context, recipientID, message, entityID string) {
	if err := e.notifier.Notify(ctx, recipientID, message, entityID); err != nil {
		e.log.Error().Err(err).Str("recipient_id", recipientID).Str("entity_id", entityID).
			Msg("no se pudo enviar la notificación")
	}
}
