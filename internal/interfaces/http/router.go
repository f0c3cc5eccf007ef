package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/application/activity"
	"github.com/jhoicas/Aprobaciones-api/internal/application/auth"
	"github.com/jhoicas/Aprobaciones-api/internal/application/notification"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/approval"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC *auth.AuthUseCase
	UserUC *usecase.UserUseCase

	ProjectWF   *workflow.ProjectWorkflow
	InvoiceWF   *workflow.InvoiceWorkflow
	InventoryWF *workflow.InventoryWorkflow

	ProjectUC   *usecase.ProjectUseCase
	InvoiceUC   *usecase.InvoiceUseCase
	InventoryUC *usecase.InventoryUseCase
	TimeLogUC   *usecase.TimeLogUseCase
	ReportUC    *usecase.ReportUseCase

	Activity      *activity.UseCase
	Notifications *notification.UseCase
	Changes       workflow.ChangeFeed

	JWTSecret string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	r := responder{log: deps.Logger}
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, r)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Usuarios y bitácora
	userHandler := NewUserHandler(deps.UserUC, deps.Activity, r)
	users := protected.Group("/users")
	users.Get("/me", userHandler.Me)
	users.Get("/", RequireRole(entity.RoleSuperAdmin), userHandler.List)
	users.Put("/:id/role", RequireRole(entity.RoleSuperAdmin), userHandler.ChangeRole)
	protected.Get("/activity", userHandler.Activity)

	// Proyectos
	projectHandler := NewProjectHandler(deps.ProjectWF, deps.ProjectUC, deps.ReportUC, r)
	projects := protected.Group("/projects")
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Post("/plan", projectHandler.Plan)
	projects.Get("/:id", projectHandler.GetByID)
	projects.Put("/:id", projectHandler.Edit)
	projects.Delete("/:id", projectHandler.Delete)
	projects.Post("/:id/submit", projectHandler.Transition(approval.ActionSubmitForApproval))
	projects.Post("/:id/approve", projectHandler.Transition(approval.ActionApprove))
	projects.Post("/:id/reject", projectHandler.Transition(approval.ActionReject))
	projects.Post("/:id/acknowledge", projectHandler.Transition(approval.ActionAcknowledge))
	projects.Get("/:id/cost", projectHandler.Cost)
	projects.Get("/:id/hours", projectHandler.Hours)
	projects.Get("/:id/cost-sheet.pdf", projectHandler.CostSheet)

	// Facturas de compra
	invoiceHandler := NewInvoiceHandler(deps.InvoiceWF, deps.InvoiceUC, r)
	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/submit", invoiceHandler.Transition(approval.ActionSubmitForApproval))
	invoices.Post("/:id/approve", invoiceHandler.Transition(approval.ActionApprove))
	invoices.Post("/:id/reject", invoiceHandler.Transition(approval.ActionReject))

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.InventoryWF, deps.InventoryUC, deps.ReportUC, r)
	inv := protected.Group("/inventory")
	inv.Get("/ledger", inventoryHandler.Ledger)
	inv.Get("/ledger/export.xlsx", inventoryHandler.LedgerExport)
	inv.Get("/ledger/:id", inventoryHandler.LedgerItem)
	inv.Post("/submissions", inventoryHandler.Submit)
	inv.Get("/submissions", inventoryHandler.ListSubmissions)
	inv.Get("/submissions/:id", inventoryHandler.GetSubmission)
	inv.Delete("/submissions/:id", inventoryHandler.Delete)
	inv.Post("/submissions/:id/submit", inventoryHandler.Transition(approval.ActionSubmitForApproval))
	inv.Post("/submissions/:id/approve", inventoryHandler.Transition(approval.ActionApprove))
	inv.Post("/submissions/:id/reject", inventoryHandler.Transition(approval.ActionReject))

	// Horas
	timeLogHandler := NewTimeLogHandler(deps.TimeLogUC, r)
	protected.Post("/timelogs", timeLogHandler.Create)
	protected.Get("/timelogs/me", timeLogHandler.Mine)

	// Notificaciones
	notificationHandler := NewNotificationHandler(deps.Notifications, r)
	protected.Get("/notifications", notificationHandler.Inbox)
	protected.Post("/notifications/:id/read", notificationHandler.MarkRead)

	// Cambios en tiempo real (SSE)
	changesHandler := NewChangesHandler(deps.Changes, deps.Logger)
	protected.Get("/changes/:collection", changesHandler.Stream)
}
