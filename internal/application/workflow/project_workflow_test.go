package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

func TestProject_ApproveDeductsInventory(t *testing.T) {
	f := newFixture(t)
	mcu := f.seed(t, "MCU", entity.CategoryDevelopmentBoards, 150, "4.50")

	p, notices, err := f.projects.Create(f.ctx, alice, projectInput("Weather Station", inventoryLine(mcu, "MCU", 10, "4.50")))
	require.NoError(t, err)
	assert.Empty(t, notices)
	assert.Equal(t, entity.StatusPendingReview, p.Status)

	p, err = f.projects.SubmitForApproval(f.ctx, p.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingApproval, p.Status)
	assert.Equal(t, "bob", p.CheckedBy)
	assert.Len(t, f.inboxOf(t, carol), 1)

	p, err = f.projects.Approve(f.ctx, p.ID, carol)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, p.Status)
	assert.Equal(t, "carol", p.ApprovedBy)
	assert.Equal(t, int64(140), f.item(t, mcu).Available)
	assert.Len(t, f.inboxOf(t, alice), 1)
}

func TestProject_ApproveTwiceIsInvalidState(t *testing.T) {
	f := newFixture(t)
	mcu := f.seed(t, "MCU", entity.CategoryDevelopmentBoards, 150, "4.50")
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P", inventoryLine(mcu, "MCU", 10, "4.50")))
	require.NoError(t, err)
	_, err = f.projects.SubmitForApproval(f.ctx, p.ID, bob)
	require.NoError(t, err)
	_, err = f.projects.Approve(f.ctx, p.ID, carol)
	require.NoError(t, err)

	_, err = f.projects.Approve(f.ctx, p.ID, carol)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(140), f.item(t, mcu).Available)
}

func TestProject_ApproveIsAtomicWhenALineFails(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "Part A", entity.CategoryModules, 10, "1")
	b := f.seed(t, "Part B", entity.CategoryModules, 10, "1")
	c := f.seed(t, "Part C", entity.CategoryModules, 5, "1")

	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P",
		inventoryLine(a, "Part A", 2, "1"),
		inventoryLine(b, "Part B", 2, "1"),
		inventoryLine(c, "Part C", 5, "1"),
	))
	require.NoError(t, err)
	// otro proyecto consume Part C antes de la aprobación
	_, _, err = f.projects.Create(f.ctx, root, projectInput("Q", inventoryLine(c, "Part C", 5, "1")))
	require.NoError(t, err)
	require.Equal(t, int64(0), f.item(t, c).Available)

	_, err = f.projects.SubmitForApproval(f.ctx, p.ID, bob)
	require.NoError(t, err)
	_, err = f.projects.Approve(f.ctx, p.ID, carol)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Part C", ise.ItemName)
	assert.Equal(t, int64(5), ise.Shortfall())

	assert.Equal(t, int64(10), f.item(t, a).Available)
	assert.Equal(t, int64(10), f.item(t, b).Available)
	got, err := f.store.Projects().GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingApproval, got.Status)
	assert.Empty(t, got.ApprovedBy)
}

func TestProject_UnauthorizedLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	mcu := f.seed(t, "MCU", entity.CategoryDevelopmentBoards, 150, "4.50")
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P", inventoryLine(mcu, "MCU", 10, "4.50")))
	require.NoError(t, err)

	_, err = f.projects.SubmitForApproval(f.ctx, p.ID, alice)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.projects.Approve(f.ctx, p.ID, carol)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := f.store.Projects().GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingReview, got.Status)
	assert.Equal(t, int64(150), f.item(t, mcu).Available)
}

func TestProject_ReviewerEditThenAcknowledge(t *testing.T) {
	f := newFixture(t)
	mcu := f.seed(t, "MCU", entity.CategoryDevelopmentBoards, 150, "4.50")
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P", inventoryLine(mcu, "MCU", 10, "4.50")))
	require.NoError(t, err)

	edited := projectInput("P", inventoryLine(mcu, "MCU", 12, "4.50"))
	p, _, err = f.projects.Edit(f.ctx, p.ID, bob, edited)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAwaitingAck, p.Status)
	assert.Equal(t, "bob", p.LastEditor)
	assert.Equal(t, entity.RoleChecker, p.LastEditorRole)
	require.NotNil(t, p.LastEditDate)
	require.Len(t, f.inboxOf(t, alice), 1)
	assert.Equal(t, p.ID, f.inboxOf(t, alice)[0].RelatedEntityID)

	// solo el autor confirma
	_, err = f.projects.Acknowledge(f.ctx, p.ID, carol)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	p, err = f.projects.Acknowledge(f.ctx, p.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingReview, p.Status)
	assert.Empty(t, p.LastEditor)
	assert.Empty(t, p.LastEditorRole)
	assert.Nil(t, p.LastEditDate)
	assert.Equal(t, int64(12), p.BOM[0].QuantityNeeded)
}

func TestProject_AuthorizerEditResumesAtApproval(t *testing.T) {
	f := newFixture(t)
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P"))
	require.NoError(t, err)
	_, err = f.projects.SubmitForApproval(f.ctx, p.ID, bob)
	require.NoError(t, err)

	_, _, err = f.projects.Edit(f.ctx, p.ID, carol, projectInput("P renamed"))
	require.NoError(t, err)
	p, err = f.projects.Acknowledge(f.ctx, p.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingApproval, p.Status)
	assert.Equal(t, "P renamed", p.Name)
}

func TestProject_OwnerEditReopensReview(t *testing.T) {
	f := newFixture(t)
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P"))
	require.NoError(t, err)
	_, err = f.projects.SubmitForApproval(f.ctx, p.ID, bob)
	require.NoError(t, err)

	p, _, err = f.projects.Edit(f.ctx, p.ID, alice, projectInput("P v2"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingReview, p.Status)
	assert.Empty(t, p.CheckedBy)
}

func TestProject_CreateSplitsShortfall(t *testing.T) {
	f := newFixture(t)
	mcu := f.seed(t, "MCU", entity.CategoryDevelopmentBoards, 150, "4.50")

	p, notices, err := f.projects.Create(f.ctx, alice, projectInput("P", inventoryLine(mcu, "MCU", 200, "4.50")))
	require.NoError(t, err)
	require.Len(t, p.BOM, 2)
	assert.Equal(t, int64(150), p.BOM[0].QuantityNeeded)
	assert.Equal(t, entity.SourcePurchase, p.BOM[1].Source)
	assert.Equal(t, int64(50), p.BOM[1].QuantityNeeded)
	assert.Len(t, notices, 1)
	assert.Equal(t, int64(150), f.item(t, mcu).Available)
}

func TestProject_CreateRejectsUnknownInventoryItem(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.projects.Create(f.ctx, alice, projectInput("P", inventoryLine("nope", "Ghost", 1, "1")))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProject_SuperAdminDeleteOfApprovedRestocks(t *testing.T) {
	f := newFixture(t)
	mcu := f.seed(t, "MCU", entity.CategoryDevelopmentBoards, 150, "4.50")
	p, _, err := f.projects.Create(f.ctx, carol, projectInput("P", inventoryLine(mcu, "MCU", 10, "4.50")))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, p.Status)
	assert.Equal(t, int64(140), f.item(t, mcu).Available)

	assert.ErrorIs(t, f.projects.Delete(f.ctx, p.ID, carol), domain.ErrUnauthorized)
	require.NoError(t, f.projects.Delete(f.ctx, p.ID, root))
	assert.Equal(t, int64(150), f.item(t, mcu).Available)
	assert.ErrorIs(t, f.projects.Delete(f.ctx, p.ID, root), domain.ErrNotFound)
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (func(), error) {
	return nil, domain.ErrInvalidState
}

func TestProject_LockNotObtained(t *testing.T) {
	f := newFixture(t, func(d *workflow.Deps) { d.Locker = failingLocker{} })
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P"))
	require.NoError(t, err)

	_, err = f.projects.SubmitForApproval(f.ctx, p.ID, bob)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

type brokenRecorder struct{ calls int }

func (b *brokenRecorder) Record(context.Context, entity.Actor, entity.ActivityDetails) error {
	b.calls++
	return errors.New("log caído")
}

func TestProject_ObserverFailureDoesNotFailTransition(t *testing.T) {
	rec := &brokenRecorder{}
	f := newFixture(t, func(d *workflow.Deps) { d.Activity = rec })
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P"))
	require.NoError(t, err)

	p, err = f.projects.SubmitForApproval(f.ctx, p.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingApproval, p.Status)
	assert.Equal(t, 2, rec.calls)
}

func TestProject_TransitionSurvivesCanceledRequest(t *testing.T) {
	f := newFixture(t)
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, err = f.projects.SubmitForApproval(ctx, p.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingApproval, p.Status)
}

func TestProject_ActivityTrail(t *testing.T) {
	f := newFixture(t)
	p, _, err := f.projects.Create(f.ctx, alice, projectInput("P"))
	require.NoError(t, err)
	_, err = f.projects.SubmitForApproval(f.ctx, p.ID, bob)
	require.NoError(t, err)
	_, err = f.projects.Reject(f.ctx, p.ID, carol)
	require.NoError(t, err)

	entries, err := f.activity.List(f.ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.ActionProjectStatusChanged, entries[0].Details.Action())
	changed := entries[0].Details.(entity.ProjectStatusChanged)
	assert.Equal(t, entity.StatusRejected, changed.To)
	assert.Equal(t, entity.ActionProjectCreated, entries[2].Details.Action())
}
