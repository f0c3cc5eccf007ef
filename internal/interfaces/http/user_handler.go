package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/activity"
	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/notification"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
)

// UserHandler perfil, administración de roles y bitácora.
type UserHandler struct {
	responder
	users    *usecase.UserUseCase
	activity *activity.UseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, act *activity.UseCase, r responder) *UserHandler {
	return &UserHandler{responder: r, users: users, activity: act}
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200   {object}  dto.UserResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.users.GetByID(c.UserContext(), GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar usuarios (Super Admin)
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 200"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {array}   dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.users.List(c.UserContext(), GetActor(c), page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ChangeRole godoc
// @Summary      Cambiar el rol de un usuario (Super Admin)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "id del usuario"
// @Param        body  body  dto.ChangeRoleRequest  true  "role"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.users.ChangeRole(c.UserContext(), GetActor(c), c.Params("id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Bitácora de actividad, más reciente primero
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 200"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {array}   dto.ActivityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/activity [get]
func (h *UserHandler) Activity(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	page.DefaultPage()
	entries, err := h.activity.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, usecase.ToActivityResponse(e))
	}
	return c.JSON(out)
}

// NotificationHandler bandeja del usuario autenticado.
type NotificationHandler struct {
	responder
	uc *notification.UseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notification.UseCase, r responder) *NotificationHandler {
	return &NotificationHandler{responder: r, uc: uc}
}

// Inbox godoc
// @Summary      Notificaciones del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "solo no leídas"
// @Param        limit   query  int   false  "máximo"
// @Success      200   {array}   dto.NotificationResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) Inbox(c *fiber.Ctx) error {
	list, err := h.uc.Inbox(c.UserContext(), GetUserID(c), c.QueryBool("unread"), c.QueryInt("limit", 50))
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, usecase.ToNotificationResponse(n))
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la notificación"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TimeLogHandler registro de horas sobre proyectos.
type TimeLogHandler struct {
	responder
	uc *usecase.TimeLogUseCase
}

// NewTimeLogHandler construye el handler.
func NewTimeLogHandler(uc *usecase.TimeLogUseCase, r responder) *TimeLogHandler {
	return &TimeLogHandler{responder: r, uc: uc}
}

// Create godoc
// @Summary      Registrar horas sobre un proyecto
// @Tags         timelogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TimeLogRequest  true  "project_id, date, hours, description"
// @Success      201   {object}  dto.TimeLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/timelogs [post]
func (h *TimeLogHandler) Create(c *fiber.Ctx) error {
	var req dto.TimeLogRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Log(c.UserContext(), GetActor(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Mine godoc
// @Summary      Horas registradas por el usuario
// @Tags         timelogs
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 200"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {array}   dto.TimeLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/timelogs/me [get]
func (h *TimeLogHandler) Mine(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.ByUser(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
