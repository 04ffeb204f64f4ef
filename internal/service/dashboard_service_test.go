package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/academic-support/internal/domain"
	apperrors "github.com/spec-kit/academic-support/pkg/util/errorutil"
)

func newDashboard(repo *fakeTicketRepo) *DashboardService {
	return NewDashboardService(DashboardDependencies{
		TicketRepo: repo,
		Logger:     zap.NewNop(),
	})
}

func TestRefreshLoadsWorkingSet(t *testing.T) {
	repo := &fakeTicketRepo{tickets: sampleTickets()}
	svc := newDashboard(repo)

	require.NoError(t, svc.Refresh(context.Background()))
	view := svc.List(NewFilterState())
	require.Len(t, view.Items, 3)
	assert.Equal(t, "t1", view.Items[0].ID)
}

func TestRefreshFailureSurfacesStoreError(t *testing.T) {
	repo := &fakeTicketRepo{listErr: errors.New("query failed")}
	svc := newDashboard(repo)

	err := svc.Refresh(context.Background())
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "STORE_ERROR", domainErr.Code)
}

func TestUpdateStatusMirrorsAfterRemoteSuccess(t *testing.T) {
	repo := &fakeTicketRepo{tickets: sampleTickets()}
	svc := newDashboard(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	updated, err := svc.UpdateStatus(context.Background(), "t1", domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)

	// Immediate re-read of the working set reflects the change.
	ticket, err := svc.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)

	require.Len(t, repo.updates, 1)
	assert.Equal(t, statusUpdate{id: "t1", status: domain.TicketStatusResolved}, repo.updates[0])
}

func TestUpdateStatusRemoteFailureLeavesWorkingSetUnchanged(t *testing.T) {
	repo := &fakeTicketRepo{tickets: sampleTickets(), updateErr: errors.New("update rejected")}
	svc := newDashboard(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	_, err := svc.UpdateStatus(context.Background(), "t1", domain.TicketStatusResolved)
	require.Error(t, err)

	ticket, getErr := svc.Get("t1")
	require.NoError(t, getErr)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
}

func TestUpdateStatusAllowsAnyTransition(t *testing.T) {
	repo := &fakeTicketRepo{tickets: sampleTickets()}
	svc := newDashboard(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	// t3 is resolved; moving it back to pending is permitted.
	updated, err := svc.UpdateStatus(context.Background(), "t3", domain.TicketStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, updated.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := &fakeTicketRepo{tickets: sampleTickets()}
	svc := newDashboard(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	_, err := svc.UpdateStatus(context.Background(), "t1", domain.TicketStatus("archived"))
	require.Error(t, err)
	assert.Empty(t, repo.updates)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateStatusDoesNotReorderWorkingSet(t *testing.T) {
	repo := &fakeTicketRepo{tickets: sampleTickets()}
	svc := newDashboard(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	_, err := svc.UpdateStatus(context.Background(), "t2", domain.TicketStatusResolved)
	require.NoError(t, err)

	view := svc.List(NewFilterState())
	require.Len(t, view.Items, 3)
	assert.Equal(t, []string{"t1", "t2", "t3"}, []string{view.Items[0].ID, view.Items[1].ID, view.Items[2].ID})
}

func TestStatsCountsWorkingSetByStatus(t *testing.T) {
	repo := &fakeTicketRepo{tickets: sampleTickets()}
	svc := newDashboard(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	stats := svc.Stats()
	assert.Equal(t, StatsView{Total: 3, Pending: 1, InProgress: 1, Resolved: 1}, stats)
}

func TestStatsReflectStatusUpdates(t *testing.T) {
	repo := &fakeTicketRepo{tickets: sampleTickets()}
	svc := newDashboard(repo)
	require.NoError(t, svc.Refresh(context.Background()))

	_, err := svc.UpdateStatus(context.Background(), "t1", domain.TicketStatusResolved)
	require.NoError(t, err)

	stats := svc.Stats()
	assert.Equal(t, StatsView{Total: 3, Pending: 0, InProgress: 1, Resolved: 2}, stats)
}

func TestStatsOnEmptyWorkingSet(t *testing.T) {
	svc := newDashboard(&fakeTicketRepo{})
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, StatsView{}, svc.Stats())
}

func TestGetUnknownTicket(t *testing.T) {
	svc := newDashboard(&fakeTicketRepo{})
	_, err := svc.Get("missing")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
