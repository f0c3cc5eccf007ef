// Package memory implementa los puertos de persistencia en memoria. Una transacción toma
// un mutex global y trabaja sobre el estado vivo; si fn falla se restaura la copia tomada
// al inicio, de modo que el rollback es completo. Se usa en tests y con APP_STORE=memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/feed"
)

// Store estado completo de la aplicación.
type Store struct {
	mu sync.Mutex

	ledger      map[string]entity.LedgerItem
	projects    map[string]entity.Project
	invoices    map[string]entity.Invoice
	lines       map[string][]entity.PurchaseRecord
	submissions map[string]entity.InventorySubmission

	users         map[string]entity.User
	activity      []entity.ActivityEntry
	notifications []entity.Notification
	timeLogs      []entity.TimeLogEntry

	feed *feed.Broadcaster
	now  func() time.Time
}

// NewStore crea un store vacío; los cambios se publican en b (puede ser nil).
func NewStore(b *feed.Broadcaster) *Store {
	return &Store{
		ledger:      make(map[string]entity.LedgerItem),
		projects:    make(map[string]entity.Project),
		invoices:    make(map[string]entity.Invoice),
		lines:       make(map[string][]entity.PurchaseRecord),
		submissions: make(map[string]entity.InventorySubmission),
		users:       make(map[string]entity.User),
		feed:        b,
		now:         time.Now,
	}
}

type snapshot struct {
	ledger      map[string]entity.LedgerItem
	projects    map[string]entity.Project
	invoices    map[string]entity.Invoice
	lines       map[string][]entity.PurchaseRecord
	submissions map[string]entity.InventorySubmission
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		ledger:      make(map[string]entity.LedgerItem, len(s.ledger)),
		projects:    make(map[string]entity.Project, len(s.projects)),
		invoices:    make(map[string]entity.Invoice, len(s.invoices)),
		lines:       make(map[string][]entity.PurchaseRecord, len(s.lines)),
		submissions: make(map[string]entity.InventorySubmission, len(s.submissions)),
	}
	for k, v := range s.ledger {
		snap.ledger[k] = v
	}
	for k, v := range s.projects {
		snap.projects[k] = cloneProject(v)
	}
	for k, v := range s.invoices {
		snap.invoices[k] = v
	}
	for k, v := range s.lines {
		snap.lines[k] = append([]entity.PurchaseRecord(nil), v...)
	}
	for k, v := range s.submissions {
		snap.submissions[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.ledger = snap.ledger
	s.projects = snap.projects
	s.invoices = snap.invoices
	s.lines = snap.lines
	s.submissions = snap.submissions
}

// tx transacción en curso: acumula eventos que solo se publican tras el commit.
type tx struct {
	s      *Store
	events []workflow.ChangeEvent
}

func (t *tx) emit(collection, op, id, status, owner string) {
	ev := workflow.ChangeEvent{Collection: collection, Op: op, ID: id, Status: status, Owner: owner, At: t.s.now()}
	t.events = append(t.events, ev)
}

// TxRunner implementa workflow.TxRunner sobre el Store.
type TxRunner struct {
	s *Store
}

var _ workflow.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run serializa fn con el resto de transacciones; rollback completo si fn devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(repos workflow.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{s: r.s}
	repos := workflow.Repos{
		Ledger:      &LedgerRepository{t: t},
		Projects:    &ProjectRepository{t: t},
		Invoices:    &InvoiceRepository{t: t},
		Submissions: &InventorySubmissionRepository{t: t},
	}
	if err := r.exclusive(func() error { return fn(repos) }); err != nil {
		return err
	}
	if r.s.feed != nil {
		for _, ev := range t.events {
			r.s.feed.Publish(ev)
		}
	}
	return nil
}

// exclusive ejecuta fn con el mutex tomado. Si fn falla o entra en pánico se restaura la
// instantánea y el mutex queda libre.
func (r *TxRunner) exclusive(fn func() error) (err error) {
	r.s.mu.Lock()
	snap := r.s.snapshot()
	done := false
	defer func() {
		if !done {
			r.s.restore(snap)
		}
		r.s.mu.Unlock()
	}()
	if err = fn(); err != nil {
		return err
	}
	done = true
	return nil
}

// Ledger repositorio fuera de transacción (lecturas).
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{s: s} }

// Projects repositorio fuera de transacción.
func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{s: s} }

// Invoices repositorio fuera de transacción.
func (s *Store) Invoices() *InvoiceRepository { return &InvoiceRepository{s: s} }

// Submissions repositorio fuera de transacción.
func (s *Store) Submissions() *InventorySubmissionRepository {
	return &InventorySubmissionRepository{s: s}
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Activity repositorio del log de actividad.
func (s *Store) Activity() *ActivityRepository { return &ActivityRepository{s: s} }

// Notifications repositorio de notificaciones.
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s: s} }

// TimeLogs repositorio de horas.
func (s *Store) TimeLogs() *TimeLogRepository { return &TimeLogRepository{s: s} }

// access ejecuta fn con el estado: dentro de una tx el mutex ya está tomado; fuera se toma
// y los eventos se publican al terminar.
func access(s *Store, t *tx, fn func(s *Store, t *tx) error) error {
	if t != nil {
		return fn(t.s, t)
	}
	local := &tx{s: s}
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s, local)
	}()
	if err == nil && s.feed != nil {
		for _, ev := range local.events {
			s.feed.Publish(ev)
		}
	}
	return err
}

func cloneProject(p entity.Project) entity.Project {
	p.BOM = append([]entity.BomItem(nil), p.BOM...)
	p.Timeline = append([]entity.Milestone(nil), p.Timeline...)
	p.Team = append([]entity.TeamMember(nil), p.Team...)
	p.Approvers = append([]entity.TeamMember(nil), p.Approvers...)
	if p.LastEditDate != nil {
		d := *p.LastEditDate
		p.LastEditDate = &d
	}
	return p
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
