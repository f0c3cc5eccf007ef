package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.ActivityRepository     = (*ActivityRepository)(nil)
	_ repository.NotificationRepository = (*NotificationRepository)(nil)
	_ repository.TimeLogRepository      = (*TimeLogRepository)(nil)
)

// UserRepository usuarios.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return access(r.s, nil, func(s *Store, _ *tx) error {
		for _, cur := range s.users {
			if sameFold(cur.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
			if sameFold(cur.Username, u.Username) {
				return domain.ErrDuplicate
			}
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := access(r.s, nil, func(s *Store, _ *tx) error {
		for _, u := range s.users {
			if match(u) {
				u := u
				out = &u
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return out, err
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return sameFold(u.Email, email) })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	return access(r.s, nil, func(s *Store, _ *tx) error {
		if _, ok := s.users[u.ID]; !ok {
			return domain.ErrUserNotFound
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) list(match func(entity.User) bool) []*entity.User {
	var out []*entity.User
	_ = access(r.s, nil, func(s *Store, _ *tx) error {
		for _, u := range s.users {
			if match(u) {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	return page(r.list(func(entity.User) bool { return true }), limit, offset), nil
}

func (r *UserRepository) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	return r.list(func(u entity.User) bool { return u.Role == role && u.Status == entity.UserStatusActive }), nil
}

// ActivityRepository log de actividad (solo inserción).
type ActivityRepository struct {
	s *Store
}

func (r *ActivityRepository) Append(_ context.Context, e *entity.ActivityEntry) error {
	return access(r.s, nil, func(s *Store, _ *tx) error {
		s.activity = append(s.activity, *e)
		return nil
	})
}

// List más recientes primero.
func (r *ActivityRepository) List(_ context.Context, limit, offset int) ([]*entity.ActivityEntry, error) {
	var out []*entity.ActivityEntry
	_ = access(r.s, nil, func(s *Store, _ *tx) error {
		for i := len(s.activity) - 1; i >= 0; i-- {
			e := s.activity[i]
			out = append(out, &e)
		}
		return nil
	})
	return page(out, limit, offset), nil
}

// NotificationRepository bandeja de notificaciones.
type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Create(_ context.Context, n *entity.Notification) error {
	return access(r.s, nil, func(s *Store, t *tx) error {
		s.notifications = append(s.notifications, *n)
		t.emit(workflow.CollectionNotifications, workflow.OpInsert, n.ID, "", n.RecipientID)
		return nil
	})
}

func (r *NotificationRepository) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	_ = access(r.s, nil, func(s *Store, _ *tx) error {
		for i := len(s.notifications) - 1; i >= 0; i-- {
			n := s.notifications[i]
			if n.RecipientID != recipientID || (unreadOnly && n.Read) {
				continue
			}
			out = append(out, &n)
		}
		return nil
	})
	return page(out, limit, 0), nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, recipientID string) error {
	return access(r.s, nil, func(s *Store, t *tx) error {
		for i := range s.notifications {
			if s.notifications[i].ID == id && s.notifications[i].RecipientID == recipientID {
				s.notifications[i].Read = true
				t.emit(workflow.CollectionNotifications, workflow.OpUpdate, id, "", recipientID)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// TimeLogRepository horas registradas (solo inserción).
type TimeLogRepository struct {
	s *Store
}

func (r *TimeLogRepository) Create(_ context.Context, e *entity.TimeLogEntry) error {
	return access(r.s, nil, func(s *Store, _ *tx) error {
		s.timeLogs = append(s.timeLogs, *e)
		return nil
	})
}

func (r *TimeLogRepository) ListByProject(_ context.Context, projectID string) ([]*entity.TimeLogEntry, error) {
	var out []*entity.TimeLogEntry
	_ = access(r.s, nil, func(s *Store, _ *tx) error {
		for _, e := range s.timeLogs {
			if e.ProjectID == projectID {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	return out, nil
}

func (r *TimeLogRepository) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.TimeLogEntry, error) {
	var out []*entity.TimeLogEntry
	_ = access(r.s, nil, func(s *Store, _ *tx) error {
		for i := len(s.timeLogs) - 1; i >= 0; i-- {
			e := s.timeLogs[i]
			if e.UserID == userID {
				out = append(out, &e)
			}
		}
		return nil
	})
	return page(out, limit, offset), nil
}
