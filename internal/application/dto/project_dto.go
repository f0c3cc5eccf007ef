package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// ProjectRequest alta o edición de un proyecto (JSON o campo "data" de un multipart).
type ProjectRequest struct {
	Name       string              `json:"name"`
	CostCenter string              `json:"cost_center"`
	Details    string              `json:"details"`
	BOM        []entity.BomItem    `json:"bom"`
	Timeline   []entity.Milestone  `json:"timeline"`
	Team       []entity.TeamMember `json:"team"`
	Approvers  []entity.TeamMember `json:"approvers"`
}

// PlanRequest BOM a previsualizar contra el stock actual.
type PlanRequest struct {
	BOM []entity.BomItem `json:"bom"`
}

// PlanResponse BOM partido por faltantes.
type PlanResponse struct {
	BOM      []entity.BomItem `json:"bom"`
	Messages []string         `json:"messages"`
	Cost     CostBreakdown    `json:"cost"`
}

// CostBreakdown costo del BOM por origen.
type CostBreakdown struct {
	Inventory decimal.Decimal `json:"inventory"`
	Purchase  decimal.Decimal `json:"purchase"`
	Total     decimal.Decimal `json:"total"`
}

// ProjectResponse proyecto con su costo derivado y las acciones que el usuario puede ejecutar.
type ProjectResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	CostCenter     string                `json:"cost_center"`
	Details        string                `json:"details"`
	DocumentRef    string                `json:"document_ref,omitempty"`
	CostingRef     string                `json:"costing_ref,omitempty"`
	BOM            []entity.BomItem      `json:"bom"`
	Timeline       []entity.Milestone    `json:"timeline"`
	Team           []entity.TeamMember   `json:"team"`
	Approvers      []entity.TeamMember   `json:"approvers"`
	TotalCost      decimal.Decimal       `json:"total_cost"`
	Status         entity.ApprovalStatus `json:"status"`
	SubmittedBy    string                `json:"submitted_by"`
	SubmissionDate time.Time             `json:"submission_date"`
	CheckedBy      string                `json:"checked_by,omitempty"`
	ApprovedBy     string                `json:"approved_by,omitempty"`
	LastEditor     string                `json:"last_editor,omitempty"`
	LastEditorRole string                `json:"last_editor_role,omitempty"`
	LastEditDate   *time.Time            `json:"last_edit_date,omitempty"`
	AllowedActions []string              `json:"allowed_actions"`
	Messages       []string              `json:"messages,omitempty"`
}

// ProjectListQuery filtros del listado.
type ProjectListQuery struct {
	PageRequest
	Status      string `query:"status"`
	SubmittedBy string `query:"submitted_by"`
	CostCenter  string `query:"cost_center"`
}
