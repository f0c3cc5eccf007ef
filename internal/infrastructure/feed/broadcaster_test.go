package feed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/feed"
)

func TestBroadcaster_FiltersByCollectionAndStatus(t *testing.T) {
	b := feed.NewBroadcaster()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, workflow.CollectionProjects, workflow.ChangeFilter{Status: "Approved"})
	require.NoError(t, err)

	b.Publish(workflow.ChangeEvent{Collection: workflow.CollectionInvoices, ID: "i1", Status: "Approved"})
	b.Publish(workflow.ChangeEvent{Collection: workflow.CollectionProjects, ID: "p1", Status: "Pending Review"})
	b.Publish(workflow.ChangeEvent{Collection: workflow.CollectionProjects, ID: "p2", Status: "Approved"})

	select {
	case ev := <-ch:
		assert.Equal(t, "p2", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("no llegó el evento")
	}
	select {
	case ev := <-ch:
		t.Fatalf("evento inesperado: %+v", ev)
	default:
	}
}

func TestBroadcaster_ClosesOnCancel(t *testing.T) {
	b := feed.NewBroadcaster()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, workflow.CollectionLedger, workflow.ChangeFilter{})
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("el canal no se cerró")
	}
}
