// Package feed difusión en memoria de eventos de cambio hacia suscriptores.
// Lo usan el store en memoria (publica al hacer commit) y el listener de PostgreSQL
// (publica cada NOTIFY recibido).
package feed

import (
	"context"
	"sync"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
)

// Buffer por suscriptor. Un suscriptor lento pierde eventos en lugar de bloquear al publicador.
const subscriberBuffer = 64

type subscriber struct {
	collection string
	filter     workflow.ChangeFilter
	ch         chan workflow.ChangeEvent
}

// Broadcaster implementa workflow.ChangeFeed.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
}

var _ workflow.ChangeFeed = (*Broadcaster)(nil)

// NewBroadcaster crea un broadcaster vacío.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*subscriber]struct{})}
}

// Subscribe devuelve un canal con los eventos de collection que pasan filter.
// El canal se cierra cuando ctx termina o al cerrar el broadcaster.
func (b *Broadcaster) Subscribe(ctx context.Context, collection string, filter workflow.ChangeFilter) (<-chan workflow.ChangeEvent, error) {
	s := &subscriber{collection: collection, filter: filter, ch: make(chan workflow.ChangeEvent, subscriberBuffer)}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(s.ch)
		return s.ch, nil
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(s)
	}()
	return s.ch, nil
}

func (b *Broadcaster) remove(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
	}
}

// Publish entrega ev a los suscriptores interesados sin bloquear.
func (b *Broadcaster) Publish(ev workflow.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		if s.collection != ev.Collection || !s.filter.Match(ev) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Close cierra todas las suscripciones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		close(s.ch)
	}
}
