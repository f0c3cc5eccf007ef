package entity

// ApprovalStatus estado compartido por proyectos, facturas y envíos de inventario.
type ApprovalStatus string

// Estados del flujo de aprobación.
const (
	StatusPendingReview   ApprovalStatus = "Pending Review"
	StatusPendingApproval ApprovalStatus = "Pending Approval"
	StatusApproved        ApprovalStatus = "Approved"
	StatusRejected        ApprovalStatus = "Rejected"
	StatusAwaitingAck     ApprovalStatus = "Awaiting Acknowledgment" // solo proyectos
)

// Valid indica si el valor es uno de los estados conocidos.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPendingReview, StatusPendingApproval, StatusApproved, StatusRejected, StatusAwaitingAck:
		return true
	}
	return false
}

// Terminal APPROVED y REJECTED no admiten más transiciones (salvo borrado privilegiado).
func (s ApprovalStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}
