package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/storage"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "a/b.pdf", storage.ObjectName("a/b.pdf"))
	assert.Equal(t, "projects/p1/cost_sheet.pdf", storage.ObjectName(" /projects/p1/cost sheet.pdf"))
}

func TestMemory_PutGet(t *testing.T) {
	m := storage.NewMemory()
	data := []byte("%PDF-1.4")
	ref, err := m.Put(context.Background(), "invoices/i1/factura.pdf", "application/pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "mem://invoices/i1/factura.pdf", ref)

	data[0] = 'X'
	got, ct, err := m.Get(ref)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))
	assert.Equal(t, "application/pdf", ct)

	_, _, err = m.Get("mem://otro")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
