package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
)

const heartbeatInterval = 30 * time.Second

var observable = map[string]bool{
	workflow.CollectionProjects:      true,
	workflow.CollectionInvoices:      true,
	workflow.CollectionSubmissions:   true,
	workflow.CollectionLedger:        true,
	workflow.CollectionNotifications: true,
}

// ChangesHandler publica por SSE los cambios de una colección.
type ChangesHandler struct {
	feed workflow.ChangeFeed
	log  zerolog.Logger
}

// NewChangesHandler construye el handler.
func NewChangesHandler(feed workflow.ChangeFeed, log zerolog.Logger) *ChangesHandler {
	return &ChangesHandler{feed: feed, log: log.With().Str("component", "sse").Logger()}
}

// Stream godoc
// @Summary      Cambios en tiempo real (SSE)
// @Description  El token también puede ir en ?access_token= (EventSource no envía headers).
// @Tags         changes
// @Security     Bearer
// @Produce      text/event-stream
// @Param        collection    path   string  true   "projects, invoices, inventory_submissions, ledger, notifications"
// @Param        id            query  string  false  "filtrar por id"
// @Param        status        query  string  false  "filtrar por estado"
// @Param        access_token  query  string  false  "token para EventSource"
// @Success      200   {string}  string  "text/event-stream"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/changes/{collection} [get]
func (h *ChangesHandler) Stream(c *fiber.Ctx) error {
	collection := c.Params("collection")
	if !observable[collection] {
		return badRequest(c, "UNKNOWN_COLLECTION", "colección no observable: "+collection)
	}
	filter := workflow.ChangeFilter{
		ID:     c.Query("id"),
		Status: c.Query("status"),
		Owner:  c.Query("owner"),
	}
	// Cada usuario solo ve sus propias notificaciones.
	if collection == workflow.CollectionNotifications {
		filter.Owner = GetUserID(c)
	}

	ctx, cancel := context.WithCancel(context.Background())
	events, err := h.feed.Subscribe(ctx, collection, filter)
	if err != nil {
		cancel()
		return badRequest(c, "SUBSCRIBE_FAILED", err.Error())
	}

	clientID := uuid.NewString()
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := h.log.With().Str("client_id", clientID).Str("collection", collection).Logger()
	log.Debug().Msg("suscripción abierta")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer log.Debug().Msg("suscripción cerrada")

		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(ev)
				if err != nil {
					log.Error().Err(err).Msg("serializar evento")
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Op, data)
			case <-heartbeat.C:
				fmt.Fprint(w, ": keepalive\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
