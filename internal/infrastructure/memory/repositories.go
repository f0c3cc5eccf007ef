package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var (
	_ repository.LedgerRepository              = (*LedgerRepository)(nil)
	_ repository.ProjectRepository             = (*ProjectRepository)(nil)
	_ repository.InvoiceRepository             = (*InvoiceRepository)(nil)
	_ repository.InventorySubmissionRepository = (*InventorySubmissionRepository)(nil)
)

// LedgerRepository filas del ledger. Dentro de una tx el mutex global ya actúa como FOR UPDATE.
type LedgerRepository struct {
	s *Store
	t *tx
}

func (r *LedgerRepository) GetByID(_ context.Context, id string) (*entity.LedgerItem, error) {
	var out *entity.LedgerItem
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		it, ok := s.ledger[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &it
		return nil
	})
	return out, err
}

func (r *LedgerRepository) GetForUpdate(ctx context.Context, id string) (*entity.LedgerItem, error) {
	return r.GetByID(ctx, id)
}

func (r *LedgerRepository) GetByKeyForUpdate(_ context.Context, nameKey, category string) (*entity.LedgerItem, error) {
	var out *entity.LedgerItem
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		for _, it := range s.ledger {
			if it.NameKey == nameKey && it.Category == category {
				it := it
				out = &it
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *LedgerRepository) Create(_ context.Context, item *entity.LedgerItem) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		if _, ok := s.ledger[item.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, it := range s.ledger {
			if it.NameKey == item.NameKey && it.Category == item.Category {
				return domain.ErrDuplicate
			}
		}
		s.ledger[item.ID] = *item
		t.emit(workflow.CollectionLedger, workflow.OpInsert, item.ID, "", "")
		return nil
	})
}

func (r *LedgerRepository) EnsureByKey(_ context.Context, item *entity.LedgerItem) (*entity.LedgerItem, error) {
	var out *entity.LedgerItem
	err := access(r.s, r.t, func(s *Store, t *tx) error {
		for _, it := range s.ledger {
			if it.NameKey == item.NameKey && it.Category == item.Category {
				it := it
				out = &it
				return nil
			}
		}
		if _, ok := s.ledger[item.ID]; ok {
			return domain.ErrDuplicate
		}
		s.ledger[item.ID] = *item
		t.emit(workflow.CollectionLedger, workflow.OpInsert, item.ID, "", "")
		cp := *item
		out = &cp
		return nil
	})
	return out, err
}

func (r *LedgerRepository) Save(_ context.Context, item *entity.LedgerItem) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		if _, ok := s.ledger[item.ID]; !ok {
			return domain.ErrNotFound
		}
		s.ledger[item.ID] = *item
		t.emit(workflow.CollectionLedger, workflow.OpUpdate, item.ID, "", "")
		return nil
	})
}

func (r *LedgerRepository) List(_ context.Context, category string) ([]*entity.LedgerItem, error) {
	var out []*entity.LedgerItem
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		for _, it := range s.ledger {
			if category != "" && it.Category != category {
				continue
			}
			it := it
			out = append(out, &it)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].NameKey < out[j].NameKey
	})
	return out, err
}

// ProjectRepository proyectos.
type ProjectRepository struct {
	s *Store
	t *tx
}

func (r *ProjectRepository) Create(_ context.Context, p *entity.Project) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		if _, ok := s.projects[p.ID]; ok {
			return domain.ErrDuplicate
		}
		s.projects[p.ID] = cloneProject(*p)
		t.emit(workflow.CollectionProjects, workflow.OpInsert, p.ID, string(p.Status), p.SubmittedBy)
		return nil
	})
}

func (r *ProjectRepository) GetByID(_ context.Context, id string) (*entity.Project, error) {
	var out *entity.Project
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		p, ok := s.projects[id]
		if !ok {
			return domain.ErrNotFound
		}
		c := cloneProject(p)
		out = &c
		return nil
	})
	return out, err
}

func (r *ProjectRepository) GetForUpdate(ctx context.Context, id string) (*entity.Project, error) {
	return r.GetByID(ctx, id)
}

func (r *ProjectRepository) Update(_ context.Context, p *entity.Project) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		if _, ok := s.projects[p.ID]; !ok {
			return domain.ErrNotFound
		}
		s.projects[p.ID] = cloneProject(*p)
		t.emit(workflow.CollectionProjects, workflow.OpUpdate, p.ID, string(p.Status), p.SubmittedBy)
		return nil
	})
}

func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		p, ok := s.projects[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(s.projects, id)
		t.emit(workflow.CollectionProjects, workflow.OpDelete, id, string(p.Status), p.SubmittedBy)
		return nil
	})
}

func (r *ProjectRepository) List(_ context.Context, f repository.ProjectFilter, limit, offset int) ([]*entity.Project, error) {
	var out []*entity.Project
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		for _, p := range s.projects {
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if f.SubmittedBy != "" && p.SubmittedBy != f.SubmittedBy {
				continue
			}
			if f.CostCenter != "" && p.CostCenter != f.CostCenter {
				continue
			}
			c := cloneProject(p)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.After(out[j].SubmissionDate) })
	return page(out, limit, offset), err
}

// InvoiceRepository facturas y sus líneas.
type InvoiceRepository struct {
	s *Store
	t *tx
}

func (r *InvoiceRepository) Create(_ context.Context, inv *entity.Invoice, lines []entity.PurchaseRecord) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		if _, ok := s.invoices[inv.ID]; ok {
			return domain.ErrDuplicate
		}
		s.invoices[inv.ID] = *inv
		s.lines[inv.ID] = append([]entity.PurchaseRecord(nil), lines...)
		t.emit(workflow.CollectionInvoices, workflow.OpInsert, inv.ID, string(inv.Status), inv.SubmittedBy)
		return nil
	})
}

func (r *InvoiceRepository) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		inv, ok := s.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &inv
		return nil
	})
	return out, err
}

func (r *InvoiceRepository) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepository) GetLines(_ context.Context, invoiceID string) ([]entity.PurchaseRecord, error) {
	var out []entity.PurchaseRecord
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		out = append([]entity.PurchaseRecord(nil), s.lines[invoiceID]...)
		return nil
	})
	return out, err
}

func (r *InvoiceRepository) UpdateStatus(_ context.Context, inv *entity.Invoice) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		cur, ok := s.invoices[inv.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = inv.Status
		cur.CheckedBy = inv.CheckedBy
		cur.ApprovedBy = inv.ApprovedBy
		cur.UpdatedAt = inv.UpdatedAt
		s.invoices[inv.ID] = cur
		t.emit(workflow.CollectionInvoices, workflow.OpUpdate, inv.ID, string(inv.Status), cur.SubmittedBy)
		return nil
	})
}

func (r *InvoiceRepository) Delete(_ context.Context, id string) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		inv, ok := s.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(s.invoices, id)
		delete(s.lines, id)
		t.emit(workflow.CollectionInvoices, workflow.OpDelete, id, string(inv.Status), inv.SubmittedBy)
		return nil
	})
}

func (r *InvoiceRepository) List(_ context.Context, f repository.InvoiceFilter, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		for _, inv := range s.invoices {
			if f.Status != "" && inv.Status != f.Status {
				continue
			}
			if f.SubmittedBy != "" && inv.SubmittedBy != f.SubmittedBy {
				continue
			}
			if f.CostCenter != "" && inv.CostCenter != f.CostCenter {
				continue
			}
			inv := inv
			out = append(out, &inv)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.After(out[j].SubmissionDate) })
	return page(out, limit, offset), err
}

// InventorySubmissionRepository altas de inventario.
type InventorySubmissionRepository struct {
	s *Store
	t *tx
}

func (r *InventorySubmissionRepository) Create(_ context.Context, sub *entity.InventorySubmission) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		if _, ok := s.submissions[sub.ID]; ok {
			return domain.ErrDuplicate
		}
		s.submissions[sub.ID] = *sub
		t.emit(workflow.CollectionSubmissions, workflow.OpInsert, sub.ID, string(sub.Status), sub.SubmittedBy)
		return nil
	})
}

func (r *InventorySubmissionRepository) GetByID(_ context.Context, id string) (*entity.InventorySubmission, error) {
	var out *entity.InventorySubmission
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		sub, ok := s.submissions[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &sub
		return nil
	})
	return out, err
}

func (r *InventorySubmissionRepository) GetForUpdate(ctx context.Context, id string) (*entity.InventorySubmission, error) {
	return r.GetByID(ctx, id)
}

func (r *InventorySubmissionRepository) Update(_ context.Context, sub *entity.InventorySubmission) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		if _, ok := s.submissions[sub.ID]; !ok {
			return domain.ErrNotFound
		}
		s.submissions[sub.ID] = *sub
		t.emit(workflow.CollectionSubmissions, workflow.OpUpdate, sub.ID, string(sub.Status), sub.SubmittedBy)
		return nil
	})
}

func (r *InventorySubmissionRepository) Delete(_ context.Context, id string) error {
	return access(r.s, r.t, func(s *Store, t *tx) error {
		sub, ok := s.submissions[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(s.submissions, id)
		t.emit(workflow.CollectionSubmissions, workflow.OpDelete, id, string(sub.Status), sub.SubmittedBy)
		return nil
	})
}

func (r *InventorySubmissionRepository) List(_ context.Context, status entity.ApprovalStatus, limit, offset int) ([]*entity.InventorySubmission, error) {
	var out []*entity.InventorySubmission
	err := access(r.s, r.t, func(s *Store, _ *tx) error {
		for _, sub := range s.submissions {
			if status != "" && sub.Status != status {
				continue
			}
			sub := sub
			out = append(out, &sub)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.After(out[j].SubmissionDate) })
	return page(out, limit, offset), err
}

func sameFold(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
