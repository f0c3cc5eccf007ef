package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
)

// ChangeChannel canal NOTIFY que alimentan los triggers del esquema.
const ChangeChannel = "entity_changes"

// Publisher destino de los eventos recibidos (feed.Broadcaster).
type Publisher interface {
	Publish(ev workflow.ChangeEvent)
}

// ChangeListener mantiene una conexión dedicada con LISTEN y reenvía cada NOTIFY.
type ChangeListener struct {
	pool *pgxpool.Pool
	pub  Publisher
	log  zerolog.Logger
}

// NewChangeListener construye el listener.
func NewChangeListener(pool *pgxpool.Pool, pub Publisher, log zerolog.Logger) *ChangeListener {
	return &ChangeListener{pool: pool, pub: pub, log: log.With().Str("component", "change_listener").Logger()}
}

// Run escucha hasta que ctx termina; ante un error de conexión reintenta con espera.
func (l *ChangeListener) Run(ctx context.Context) {
	backoff := time.Second
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Warn().Err(err).Dur("retry_in", backoff).Msg("LISTEN interrumpido")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *ChangeListener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.log.Info().Str("channel", ChangeChannel).Msg("escuchando cambios")
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		ev, err := decodeChange(n.Payload)
		if err != nil {
			l.log.Warn().Err(err).Str("payload", n.Payload).Msg("evento de cambio inválido")
			continue
		}
		l.pub.Publish(ev)
	}
}

func decodeChange(payload string) (workflow.ChangeEvent, error) {
	var ev workflow.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, err
	}
	if ev.Collection == "" || ev.ID == "" {
		return ev, errors.New("faltan collection o id")
	}
	return ev, nil
}
