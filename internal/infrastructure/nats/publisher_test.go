package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

type captureConn struct {
	subject string
	data    []byte
	err     error
}

func (c *captureConn) Publish(subject string, data []byte) error {
	c.subject, c.data = subject, data
	return c.err
}

func TestPublisher_Publish(t *testing.T) {
	c := &captureConn{}
	p := newPublisher(c, "notifications", zerolog.Nop())
	n := &entity.Notification{
		ID:              "n1",
		RecipientID:     "u-carol",
		Message:         "El proyecto MCU espera aprobación",
		RelatedEntityID: "p1",
		CreatedAt:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), n))
	assert.Equal(t, "notifications.approvals.notification_created", c.subject)

	var ev NotificationEvent
	require.NoError(t, json.Unmarshal(c.data, &ev))
	assert.Equal(t, EventNotificationCreated, ev.EventType)
	assert.Equal(t, "u-carol", ev.RecipientID)
	assert.Equal(t, "p1", ev.RelatedEntityID)
	assert.True(t, n.CreatedAt.Equal(ev.CreatedAt))
}

func TestPublisher_PublishError(t *testing.T) {
	c := &captureConn{err: errors.New("nats: connection closed")}
	p := newPublisher(c, "notifications", zerolog.Nop())

	err := p.Publish(context.Background(), &entity.Notification{ID: "n1"})
	assert.ErrorContains(t, err, "notifications.approvals.notification_created")
}
