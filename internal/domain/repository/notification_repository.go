package repository

import (
	"context"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// NotificationRepository bandeja de notificaciones por usuario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*entity.Notification, error)
	// MarkRead ErrNotFound si la notificación no existe o no es del destinatario.
	MarkRead(ctx context.Context, id, recipientID string) error
}
