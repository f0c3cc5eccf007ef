package workflow

import (
	"context"
	"time"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Ledger      repository.LedgerRepository
	Projects    repository.ProjectRepository
	Invoices    repository.InvoiceRepository
	Submissions repository.InventorySubmissionRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// ActivityRecorder registra una entrada en el log de actividad.
type ActivityRecorder interface {
	Record(ctx context.Context, actor entity.Actor, details entity.ActivityDetails) error
}

// Notifier entrega un mensaje a la bandeja de un usuario.
type Notifier interface {
	Notify(ctx context.Context, recipientUserID, message, relatedEntityID string) error
}

// UserDirectory resuelve destinatarios de notificaciones.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ListByRole(ctx context.Context, role string) ([]*entity.User, error)
}

// TransitionLocker serializa transiciones sobre una misma entidad entre réplicas.
// El bloqueo de fila en la BD sigue siendo la garantía; este lock solo evita trabajo inútil.
type TransitionLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// DocumentStore guarda archivos adjuntos y devuelve una referencia opaca.
type DocumentStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (ref string, err error)
}

// Colecciones observables por el change feed.
const (
	CollectionProjects      = "projects"
	CollectionInvoices      = "invoices"
	CollectionSubmissions   = "inventory_submissions"
	CollectionLedger        = "ledger_items"
	CollectionNotifications = "notifications"
)

// Operaciones del change feed.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// ChangeEvent cambio sobre una fila de una colección.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	ID         string    `json:"id"`
	Status     string    `json:"status,omitempty"`
	Owner      string    `json:"owner,omitempty"` // submitted_by o recipient_id según la colección
	At         time.Time `json:"at"`
}

// ChangeFilter filtra eventos; campos vacíos no filtran.
type ChangeFilter struct {
	ID     string
	Status string
	Owner  string
}

// Match indica si ev pasa el filtro.
func (f ChangeFilter) Match(ev ChangeEvent) bool {
	if f.ID != "" && f.ID != ev.ID {
		return false
	}
	if f.Status != "" && f.Status != ev.Status {
		return false
	}
	if f.Owner != "" && f.Owner != ev.Owner {
		return false
	}
	return true
}

// ChangeFeed suscripción a cambios de una colección. El canal se cierra al cancelar ctx.
type ChangeFeed interface {
	Subscribe(ctx context.Context, collection string, filter ChangeFilter) (<-chan ChangeEvent, error)
}

// Attachment archivo subido junto con una entidad.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}
