package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func actionNames(actions []approval.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, string(a))
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ToProjectResponse proyecto con costo total y acciones habilitadas para actor.
func ToProjectResponse(p *entity.Project, actor entity.Actor) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:             p.ID,
		Name:           p.Name,
		CostCenter:     p.CostCenter,
		Details:        p.Details,
		DocumentRef:    p.DocumentRef,
		CostingRef:     p.CostingRef,
		BOM:            orEmpty(p.BOM),
		Timeline:       orEmpty(p.Timeline),
		Team:           orEmpty(p.Team),
		Approvers:      orEmpty(p.Approvers),
		TotalCost:      p.TotalCost(),
		Status:         p.Status,
		SubmittedBy:    p.SubmittedBy,
		SubmissionDate: p.SubmissionDate,
		CheckedBy:      p.CheckedBy,
		ApprovedBy:     p.ApprovedBy,
		LastEditor:     p.LastEditor,
		LastEditorRole: p.LastEditorRole,
		LastEditDate:   p.LastEditDate,
		AllowedActions: actionNames(approval.AllowedActions(workflow.ProjectSubject(p), actor)),
	}
}

// ToInvoiceResponse cabecera y total; el detalle de líneas solo si withLines.
func ToInvoiceResponse(inv *entity.Invoice, lines []entity.PurchaseRecord, withLines bool, actor entity.Actor) dto.InvoiceResponse {
	out := dto.InvoiceResponse{
		ID:             inv.ID,
		Vendor:         inv.Vendor,
		Date:           inv.Date.Format(dateLayout),
		CostCenter:     inv.CostCenter,
		DocumentRef:    inv.DocumentRef,
		Status:         inv.Status,
		SubmittedBy:    inv.SubmittedBy,
		SubmissionDate: inv.SubmissionDate,
		CheckedBy:      inv.CheckedBy,
		ApprovedBy:     inv.ApprovedBy,
		Total:          entity.InvoiceTotal(lines),
		AllowedActions: actionNames(approval.AllowedActions(workflow.InvoiceSubject(inv), actor)),
	}
	if withLines {
		out.Lines = make([]dto.PurchaseRecordResponse, 0, len(lines))
		for _, l := range lines {
			out.Lines = append(out.Lines, dto.PurchaseRecordResponse{
				ID:              l.ID,
				ItemName:        l.ItemName,
				Category:        l.Category,
				InventoryItemID: l.InventoryItemID,
				Quantity:        l.Quantity,
				PricePerUnit:    l.PricePerUnit,
				TotalCost:       l.TotalCost(),
				PurchaseFor:     l.PurchaseFor,
				CostCenter:      l.CostCenter,
			})
		}
	}
	return out
}

// ToSubmissionResponse envío de inventario con acciones habilitadas.
func ToSubmissionResponse(s *entity.InventorySubmission, actor entity.Actor) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		ID:             s.ID,
		Name:           s.Name,
		Category:       s.Category,
		Quantity:       s.Quantity,
		Price:          s.Price,
		Status:         s.Status,
		LedgerItemID:   s.LedgerItemID,
		SubmittedBy:    s.SubmittedBy,
		SubmissionDate: s.SubmissionDate,
		CheckedBy:      s.CheckedBy,
		ApprovedBy:     s.ApprovedBy,
		AllowedActions: actionNames(approval.AllowedActions(workflow.SubmissionSubject(s), actor)),
	}
}

// ToLedgerItemResponse fila del libro con Total y Value derivados.
func ToLedgerItemResponse(i *entity.LedgerItem) dto.LedgerItemResponse {
	return dto.LedgerItemResponse{
		ID:        i.ID,
		Name:      i.Name,
		Category:  i.Category,
		Price:     i.Price,
		Available: i.Available,
		Pending:   i.Pending,
		Total:     i.Total(),
		Value:     i.Price.Mul(decimal.NewFromInt(i.Available)),
		UpdatedAt: i.UpdatedAt,
	}
}

// BuildLedger arma el listado con sus totales; allocated puede ser nil.
func BuildLedger(items []*entity.LedgerItem, allocated map[string]int64) dto.LedgerResponse {
	out := dto.LedgerResponse{Items: make([]dto.LedgerItemResponse, 0, len(items)), TotalValue: decimal.Zero}
	for _, it := range items {
		r := ToLedgerItemResponse(it)
		r.Allocated = allocated[it.ID]
		out.Items = append(out.Items, r)
		out.TotalAvailable += r.Available
		out.TotalPending += r.Pending
		out.TotalAllocated += r.Allocated
		out.TotalValue = out.TotalValue.Add(r.Value)
	}
	return out
}

// ToTimeLogResponse entrada del registro de horas.
func ToTimeLogResponse(e *entity.TimeLogEntry) dto.TimeLogResponse {
	return dto.TimeLogResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		UserID:      e.UserID,
		Username:    e.Username,
		Date:        e.Date.Format(dateLayout),
		Hours:       e.Hours,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// ToActivityResponse entrada del log con sus detalles tipados.
func ToActivityResponse(e *entity.ActivityEntry) dto.ActivityResponse {
	out := dto.ActivityResponse{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		ActorID:   e.ActorID,
		ActorName: e.ActorName,
		Details:   e.Details,
	}
	if e.Details != nil {
		out.Action = string(e.Details.Action())
	}
	return out
}

// ToNotificationResponse mensaje de la bandeja.
func ToNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:              n.ID,
		Message:         n.Message,
		RelatedEntityID: n.RelatedEntityID,
		Read:            n.Read,
		CreatedAt:       n.CreatedAt,
	}
}

func parseStatus(s string) (entity.ApprovalStatus, error) {
	if s == "" {
		return "", nil
	}
	st := entity.ApprovalStatus(s)
	if !st.Valid() {
		return "", errInvalidStatus(s)
	}
	return st, nil
}
