package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectCostResponse costo consolidado de un proyecto.
type ProjectCostResponse struct {
	ProjectID     string          `json:"project_id"`
	ProjectName   string          `json:"project_name"`
	CostCenter    string          `json:"cost_center"`
	Status        string          `json:"status"`
	BOM           CostBreakdown   `json:"bom"`
	InvoicedTotal decimal.Decimal `json:"invoiced_total"`
	InvoiceLines  int             `json:"invoice_lines"`
	Hours         decimal.Decimal `json:"hours"`
	Total         decimal.Decimal `json:"total"`
}

// HoursByUser horas registradas por un usuario.
type HoursByUser struct {
	Username string          `json:"username"`
	Hours    decimal.Decimal `json:"hours"`
}

// ProjectHoursResponse resumen de horas de un proyecto.
type ProjectHoursResponse struct {
	ProjectID  string            `json:"project_id"`
	TotalHours decimal.Decimal   `json:"total_hours"`
	ByUser     []HoursByUser     `json:"by_user"`
	Entries    []TimeLogResponse `json:"entries"`
}

// TimeLogRequest registro de horas. Date en formato YYYY-MM-DD.
type TimeLogRequest struct {
	ProjectID   string          `json:"project_id" validate:"required"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description" validate:"required,max=1000"`
}

// TimeLogResponse entrada del registro de horas.
type TimeLogResponse struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	UserID      string          `json:"user_id"`
	Username    string          `json:"username"`
	Date        string          `json:"date"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ActivityResponse entrada del log de actividad.
type ActivityResponse struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	ActorID   string      `json:"actor_id"`
	ActorName string      `json:"actor_name"`
	Action    string      `json:"action"`
	Details   interface{} `json:"details"`
}

// NotificationResponse mensaje de la bandeja.
type NotificationResponse struct {
	ID              string    `json:"id"`
	Message         string    `json:"message"`
	RelatedEntityID string    `json:"related_entity_id,omitempty"`
	Read            bool      `json:"read"`
	CreatedAt       time.Time `json:"created_at"`
}
