// Package nats publica las notificaciones de aprobación en NATS para consumidores externos
// (correo, push). La bandeja en base de datos sigue siendo la fuente de verdad.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/application/notification"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// EventNotificationCreated tipo de evento publicado por cada notificación nueva.
const EventNotificationCreated = "notification_created"

// conn subconjunto de *nats.Conn usado por el publisher.
type conn interface {
	Publish(subject string, data []byte) error
}

// NotificationEvent esquema JSON publicado.
type NotificationEvent struct {
	EventType       string    `json:"event_type"`
	NotificationID  string    `json:"notification_id"`
	RecipientID     string    `json:"recipient_id"`
	Message         string    `json:"message"`
	RelatedEntityID string    `json:"related_entity_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Publisher implementa notification.Publisher.
// Subject: <prefix>.approvals.<event_type>
type Publisher struct {
	nc     conn
	prefix string
	log    zerolog.Logger
}

var _ notification.Publisher = (*Publisher)(nil)

// Connect abre la conexión con reconexión indefinida.
func Connect(url, name string, log zerolog.Logger) (*natsgo.Conn, error) {
	nc, err := natsgo.Connect(url,
		natsgo.Name(name),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats: desconectado")
			}
		}),
		natsgo.ReconnectHandler(func(c *natsgo.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats: reconectado")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar nats: %w", err)
	}
	return nc, nil
}

// NewPublisher construye el publisher sobre una conexión abierta.
func NewPublisher(nc *natsgo.Conn, prefix string, log zerolog.Logger) *Publisher {
	return newPublisher(nc, prefix, log)
}

func newPublisher(nc conn, prefix string, log zerolog.Logger) *Publisher {
	return &Publisher{nc: nc, prefix: prefix, log: log.With().Str("component", "nats_publisher").Logger()}
}

// Subject subject de un tipo de evento.
func (p *Publisher) Subject(eventType string) string {
	return fmt.Sprintf("%s.approvals.%s", p.prefix, eventType)
}

// Publish serializa y publica la notificación.
func (p *Publisher) Publish(_ context.Context, n *entity.Notification) error {
	ev := NotificationEvent{
		EventType:       EventNotificationCreated,
		NotificationID:  n.ID,
		RecipientID:     n.RecipientID,
		Message:         n.Message,
		RelatedEntityID: n.RelatedEntityID,
		CreatedAt:       n.CreatedAt,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	subject := p.Subject(ev.EventType)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publicar %s: %w", subject, err)
	}
	p.log.Debug().Str("subject", subject).Str("recipient_id", n.RecipientID).Msg("notificación publicada")
	return nil
}
