package storage

import (
	"context"
	"sync"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
)

// Memory DocumentStore en proceso (tests y APP_STORE=memory sin bucket).
type Memory struct {
	mu   sync.RWMutex
	docs map[string]document
}

type document struct {
	contentType string
	data        []byte
}

var _ workflow.DocumentStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]document)}
}

// Put guarda una copia de data; la referencia es mem://objeto.
func (m *Memory) Put(_ context.Context, name, contentType string, data []byte) (string, error) {
	ref := "mem://" + ObjectName(name)
	m.mu.Lock()
	m.docs[ref] = document{contentType: contentType, data: append([]byte(nil), data...)}
	m.mu.Unlock()
	return ref, nil
}

// Get devuelve el documento guardado con ref.
func (m *Memory) Get(ref string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[ref]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return d.data, d.contentType, nil
}
