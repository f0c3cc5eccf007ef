// Package notification bandeja de notificaciones por usuario con publicación opcional
// hacia un bus de eventos.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// Publisher reenvía notificaciones ya guardadas a consumidores externos.
type Publisher interface {
	Publish(ctx context.Context, n *entity.Notification) error
}

// UseCase implementa workflow.Notifier y la bandeja de entrada.
type UseCase struct {
	repo repository.NotificationRepository
	pub  Publisher
	log  zerolog.Logger
	now  func() time.Time
}

// NewUseCase construye el caso de uso; pub puede ser nil.
func NewUseCase(repo repository.NotificationRepository, pub Publisher, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, pub: pub, log: log, now: time.Now}
}

// Notify guarda la notificación en la bandeja del destinatario y la publica.
// Un fallo al publicar solo se registra: la bandeja ya tiene el mensaje.
func (uc *UseCase) Notify(ctx context.Context, recipientUserID, message, relatedEntityID string) error {
	n := &entity.Notification{
		ID:              uuid.New().String(),
		RecipientID:     recipientUserID,
		Message:         message,
		RelatedEntityID: relatedEntityID,
		CreatedAt:       uc.now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("guardar notificación: %w", err)
	}
	if uc.pub != nil {
		if err := uc.pub.Publish(ctx, n); err != nil {
			uc.log.Warn().Err(err).Str("notification_id", n.ID).Msg("no se pudo publicar la notificación")
		}
	}
	return nil
}

// Inbox notificaciones del usuario, más recientes primero.
func (uc *UseCase) Inbox(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.repo.ListByRecipient(ctx, userID, unreadOnly, limit)
}

// MarkRead marca como leída una notificación propia.
func (uc *UseCase) MarkRead(ctx context.Context, id, userID string) error {
	return uc.repo.MarkRead(ctx, id, userID)
}
