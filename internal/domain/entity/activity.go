package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityAction enumeración cerrada de acciones registradas.
type ActivityAction string

const (
	ActionUserRegistered             ActivityAction = "USER_REGISTERED"
	ActionUserLogin                  ActivityAction = "USER_LOGIN"
	ActionRoleChanged                ActivityAction = "ROLE_CHANGED"
	ActionProjectCreated             ActivityAction = "PROJECT_CREATED"
	ActionProjectUpdated             ActivityAction = "PROJECT_UPDATED"
	ActionProjectStatusChanged       ActivityAction = "PROJECT_STATUS_CHANGED"
	ActionProjectDeleted             ActivityAction = "PROJECT_DELETED"
	ActionProjectAcknowledged        ActivityAction = "PROJECT_ACKNOWLEDGED"
	ActionInventoryItemCreated       ActivityAction = "INVENTORY_ITEM_CREATED"
	ActionInventoryItemUpdated       ActivityAction = "INVENTORY_ITEM_UPDATED"
	ActionInventoryItemStatusChanged ActivityAction = "INVENTORY_ITEM_STATUS_CHANGED"
	ActionInvoiceSubmitted           ActivityAction = "INVOICE_SUBMITTED"
	ActionInvoiceStatusChanged       ActivityAction = "INVOICE_STATUS_CHANGED"
	ActionInvoiceDeleted             ActivityAction = "INVOICE_DELETED"
	ActionTimeLogged                 ActivityAction = "TIME_LOGGED"
)

// ActivityDetails payload tipado de una entrada; una variante por ActivityAction.
// El método sellado impide variantes fuera de este paquete.
type ActivityDetails interface {
	Action() ActivityAction
	Describe() string
	sealed()
}

// ActivityEntry registro inmutable de actividad.
type ActivityEntry struct {
	ID        string
	Timestamp time.Time
	ActorID   string
	ActorName string
	Details   ActivityDetails
}

type UserRegistered struct {
	Role string `json:"role"`
}

type UserLogin struct{}

type RoleChanged struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	From     string `json:"from"`
	To       string `json:"to"`
}

type ProjectCreated struct {
	ProjectID   string         `json:"project_id"`
	ProjectName string         `json:"project_name"`
	Status      ApprovalStatus `json:"status"`
}

type ProjectUpdated struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	ByReviewer  bool   `json:"by_reviewer"`
}

type ProjectStatusChanged struct {
	ProjectID   string         `json:"project_id"`
	ProjectName string         `json:"project_name"`
	From        ApprovalStatus `json:"from"`
	To          ApprovalStatus `json:"to"`
}

type ProjectDeleted struct {
	ProjectID   string         `json:"project_id"`
	ProjectName string         `json:"project_name"`
	Status      ApprovalStatus `json:"status"`
}

type ProjectAcknowledged struct {
	ProjectID   string         `json:"project_id"`
	ProjectName string         `json:"project_name"`
	ResumedAt   ApprovalStatus `json:"resumed_at"`
}

type InventoryItemCreated struct {
	SubmissionID string         `json:"submission_id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Quantity     int64          `json:"quantity"`
	Status       ApprovalStatus `json:"status"`
}

type InventoryItemUpdated struct {
	SubmissionID string `json:"submission_id"`
	Name         string `json:"name"`
	Deleted      bool   `json:"deleted"`
}

type InventoryItemStatusChanged struct {
	SubmissionID string         `json:"submission_id"`
	Name         string         `json:"name"`
	From         ApprovalStatus `json:"from"`
	To           ApprovalStatus `json:"to"`
}

type InvoiceSubmitted struct {
	InvoiceID string         `json:"invoice_id"`
	Vendor    string         `json:"vendor"`
	Lines     int            `json:"lines"`
	Total     string         `json:"total"`
	Status    ApprovalStatus `json:"status"`
}

type InvoiceStatusChanged struct {
	InvoiceID string         `json:"invoice_id"`
	Vendor    string         `json:"vendor"`
	From      ApprovalStatus `json:"from"`
	To        ApprovalStatus `json:"to"`
}

type InvoiceDeleted struct {
	InvoiceID string         `json:"invoice_id"`
	Vendor    string         `json:"vendor"`
	Status    ApprovalStatus `json:"status"`
}

type TimeLogged struct {
	ProjectID string `json:"project_id"`
	Hours     string `json:"hours"`
}

func (UserRegistered) Action() ActivityAction             { return ActionUserRegistered }
func (UserLogin) Action() ActivityAction                  { return ActionUserLogin }
func (RoleChanged) Action() ActivityAction                { return ActionRoleChanged }
func (ProjectCreated) Action() ActivityAction             { return ActionProjectCreated }
func (ProjectUpdated) Action() ActivityAction             { return ActionProjectUpdated }
func (ProjectStatusChanged) Action() ActivityAction       { return ActionProjectStatusChanged }
func (ProjectDeleted) Action() ActivityAction             { return ActionProjectDeleted }
func (ProjectAcknowledged) Action() ActivityAction        { return ActionProjectAcknowledged }
func (InventoryItemCreated) Action() ActivityAction       { return ActionInventoryItemCreated }
func (InventoryItemUpdated) Action() ActivityAction       { return ActionInventoryItemUpdated }
func (InventoryItemStatusChanged) Action() ActivityAction { return ActionInventoryItemStatusChanged }
func (InvoiceSubmitted) Action() ActivityAction           { return ActionInvoiceSubmitted }
func (InvoiceStatusChanged) Action() ActivityAction       { return ActionInvoiceStatusChanged }
func (InvoiceDeleted) Action() ActivityAction             { return ActionInvoiceDeleted }
func (TimeLogged) Action() ActivityAction                 { return ActionTimeLogged }

func (UserRegistered) sealed()             {}
func (UserLogin) sealed()                  {}
func (RoleChanged) sealed()                {}
func (ProjectCreated) sealed()             {}
func (ProjectUpdated) sealed()             {}
func (ProjectStatusChanged) sealed()       {}
func (ProjectDeleted) sealed()             {}
func (ProjectAcknowledged) sealed()        {}
func (InventoryItemCreated) sealed()       {}
func (InventoryItemUpdated) sealed()       {}
func (InventoryItemStatusChanged) sealed() {}
func (InvoiceSubmitted) sealed()           {}
func (InvoiceStatusChanged) sealed()       {}
func (InvoiceDeleted) sealed()             {}
func (TimeLogged) sealed()                 {}

func (d UserRegistered) Describe() string { return "registro con rol " + d.Role }
func (UserLogin) Describe() string        { return "inicio de sesión" }
func (d RoleChanged) Describe() string {
	return fmt.Sprintf("rol de %s: %s → %s", d.Username, d.From, d.To)
}
func (d ProjectCreated) Describe() string {
	return fmt.Sprintf("proyecto %q creado en %s", d.ProjectName, d.Status)
}
func (d ProjectUpdated) Describe() string {
	if d.ByReviewer {
		return fmt.Sprintf("proyecto %q editado por revisor", d.ProjectName)
	}
	return fmt.Sprintf("proyecto %q editado", d.ProjectName)
}
func (d ProjectStatusChanged) Describe() string {
	return fmt.Sprintf("proyecto %q: %s → %s", d.ProjectName, d.From, d.To)
}
func (d ProjectDeleted) Describe() string {
	return fmt.Sprintf("proyecto %q eliminado (%s)", d.ProjectName, d.Status)
}
func (d ProjectAcknowledged) Describe() string {
	return fmt.Sprintf("cambios en %q confirmados, vuelve a %s", d.ProjectName, d.ResumedAt)
}
func (d InventoryItemCreated) Describe() string {
	return fmt.Sprintf("alta de %d × %s (%s) en %s", d.Quantity, d.Name, d.Category, d.Status)
}
func (d InventoryItemUpdated) Describe() string {
	if d.Deleted {
		return fmt.Sprintf("envío de inventario %s eliminado", d.Name)
	}
	return fmt.Sprintf("envío de inventario %s actualizado", d.Name)
}
func (d InventoryItemStatusChanged) Describe() string {
	return fmt.Sprintf("envío %s: %s → %s", d.Name, d.From, d.To)
}
func (d InvoiceSubmitted) Describe() string {
	return fmt.Sprintf("factura de %s con %d líneas por %s (%s)", d.Vendor, d.Lines, d.Total, d.Status)
}
func (d InvoiceStatusChanged) Describe() string {
	return fmt.Sprintf("factura %s de %s: %s → %s", d.InvoiceID, d.Vendor, d.From, d.To)
}
func (d InvoiceDeleted) Describe() string {
	return fmt.Sprintf("factura %s de %s eliminada (%s)", d.InvoiceID, d.Vendor, d.Status)
}
func (d TimeLogged) Describe() string {
	return fmt.Sprintf("%s horas en proyecto %s", d.Hours, d.ProjectID)
}

// DecodeActivityDetails reconstruye la variante de action a partir de su JSON.
func DecodeActivityDetails(action ActivityAction, raw []byte) (ActivityDetails, error) {
	switch action {
	case ActionUserRegistered:
		return decodeDetails[UserRegistered](raw)
	case ActionUserLogin:
		return decodeDetails[UserLogin](raw)
	case ActionRoleChanged:
		return decodeDetails[RoleChanged](raw)
	case ActionProjectCreated:
		return decodeDetails[ProjectCreated](raw)
	case ActionProjectUpdated:
		return decodeDetails[ProjectUpdated](raw)
	case ActionProjectStatusChanged:
		return decodeDetails[ProjectStatusChanged](raw)
	case ActionProjectDeleted:
		return decodeDetails[ProjectDeleted](raw)
	case ActionProjectAcknowledged:
		return decodeDetails[ProjectAcknowledged](raw)
	case ActionInventoryItemCreated:
		return decodeDetails[InventoryItemCreated](raw)
	case ActionInventoryItemUpdated:
		return decodeDetails[InventoryItemUpdated](raw)
	case ActionInventoryItemStatusChanged:
		return decodeDetails[InventoryItemStatusChanged](raw)
	case ActionInvoiceSubmitted:
		return decodeDetails[InvoiceSubmitted](raw)
	case ActionInvoiceStatusChanged:
		return decodeDetails[InvoiceStatusChanged](raw)
	case ActionInvoiceDeleted:
		return decodeDetails[InvoiceDeleted](raw)
	case ActionTimeLogged:
		return decodeDetails[TimeLogged](raw)
	}
	return nil, fmt.Errorf("acción de actividad desconocida: %s", action)
}

func decodeDetails[T ActivityDetails](raw []byte) (ActivityDetails, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %T: %w", v, err)
	}
	return v, nil
}
