package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// recordActivity registra la entrada; un fallo se loguea y no se devuelve.
func recordActivity(ctx context.Context, rec workflow.ActivityRecorder, log zerolog.Logger, actor entity.Actor, details entity.ActivityDetails) {
	if rec == nil {
		return
	}
	if err := rec.Record(ctx, actor, details); err != nil {
		log.Error().Err(err).
			Str("action", string(details.Action())).
			Str("actor", actor.Username).
			Msg("no se pudo registrar la actividad")
	}
}
