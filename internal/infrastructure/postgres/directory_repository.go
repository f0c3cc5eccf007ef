package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var (
	_ repository.ActivityRepository     = (*ActivityRepo)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
	_ repository.TimeLogRepository      = (*TimeLogRepo)(nil)
)

// ActivityRepo log de actividad; details se guarda como JSONB junto con la acción.
type ActivityRepo struct {
	q Querier
}

func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

func (r *ActivityRepo) Append(ctx context.Context, e *entity.ActivityEntry) error {
	raw, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("encode activity details: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO activity_log (id, ts, actor_id, actor_name, action, details)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Timestamp, e.ActorID, e.ActorName, string(e.Details.Action()), raw)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// List más recientes primero. Details se decodifica en la variante de su acción.
func (r *ActivityRepo) List(ctx context.Context, limit, offset int) ([]*entity.ActivityEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, ts, actor_id, actor_name, action, details FROM activity_log
		ORDER BY ts DESC LIMIT NULLIF($1::int, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityEntry
	for rows.Next() {
		var e entity.ActivityEntry
		var action string
		var raw []byte
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ActorID, &e.ActorName, &action, &raw); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		details, err := entity.DecodeActivityDetails(entity.ActivityAction(action), raw)
		if err != nil {
			return nil, fmt.Errorf("activity %s: %w", e.ID, err)
		}
		e.Details = details
		list = append(list, &e)
	}
	return list, rows.Err()
}

// NotificationRepo bandeja de notificaciones.
type NotificationRepo struct {
	q Querier
}

func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, recipient_id, message, related_entity_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.RecipientID, n.Message, n.RelatedEntityID, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, recipient_id, message, related_entity_id, read, created_at FROM notifications
		WHERE recipient_id = $1 AND (NOT $2 OR NOT read)
		ORDER BY created_at DESC LIMIT NULLIF($3::int, 0)`, recipientID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.RelatedEntityID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TimeLogRepo horas registradas por proyecto.
type TimeLogRepo struct {
	q Querier
}

func NewTimeLogRepository(q Querier) *TimeLogRepo {
	return &TimeLogRepo{q: q}
}

const timeLogColumns = `id, project_id, user_id, username, date, hours, description, created_at`

func (r *TimeLogRepo) Create(ctx context.Context, e *entity.TimeLogEntry) error {
	_, err := r.q.Exec(ctx, `INSERT INTO time_logs (`+timeLogColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.ProjectID, e.UserID, e.Username, e.Date, e.Hours, e.Description, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert time log: %w", err)
	}
	return nil
}

func (r *TimeLogRepo) scan(ctx context.Context, query string, args ...any) ([]*entity.TimeLogEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.TimeLogEntry
	for rows.Next() {
		var e entity.TimeLogEntry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.UserID, &e.Username, &e.Date, &e.Hours,
			&e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan time log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func (r *TimeLogRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.TimeLogEntry, error) {
	return r.scan(ctx, `SELECT `+timeLogColumns+` FROM time_logs WHERE project_id = $1 ORDER BY date, created_at`, projectID)
}

func (r *TimeLogRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.TimeLogEntry, error) {
	return r.scan(ctx, `
		SELECT `+timeLogColumns+` FROM time_logs WHERE user_id = $1
		ORDER BY created_at DESC LIMIT NULLIF($2::int, 0) OFFSET $3`, userID, limit, offset)
}
