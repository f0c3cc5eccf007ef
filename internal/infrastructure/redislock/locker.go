// Package redislock serializa las transiciones sobre una misma entidad entre réplicas
// con un lock en Redis. El bloqueo de filas en PostgreSQL sigue siendo la garantía final.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
)

const keyPrefix = "lock:approval:"

// Locker implementa workflow.TransitionLocker.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
	log    zerolog.Logger
}

var _ workflow.TransitionLocker = (*Locker)(nil)

// NewClient abre el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// New construye el locker. Un request concurrente espera hasta ~1s antes de desistir.
func New(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Locker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
		log:    log.With().Str("component", "redislock").Logger(),
	}
}

// Lock toma el lock de key. Si otro request lo tiene, ErrInvalidState: la entidad está
// en plena transición y el estado que vio el llamador probablemente ya no vale.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, keyPrefix+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if err != nil {
		return nil, obtainError(key, err)
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock")
		}
	}, nil
}

func obtainError(key string, err error) error {
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("%w: %s en transición", domain.ErrInvalidState, key)
	}
	return fmt.Errorf("lock %s: %w", key, err)
}
