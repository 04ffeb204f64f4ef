package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/academic-support/internal/domain"
	"github.com/spec-kit/academic-support/internal/events"
	"github.com/spec-kit/academic-support/internal/repository"
	apperrors "github.com/spec-kit/academic-support/pkg/util/errorutil"
)

// DashboardService maintains the administrator's working set of tickets and
// serves the filtered, paginated projections over it.
type DashboardService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu      sync.RWMutex
	working []domain.Ticket
}

// DashboardDependencies bundles collaborators for the dashboard service.
type DashboardDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	return &DashboardService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Refresh loads the full collection, ordered by creation timestamp
// descending, into the working set.
func (s *DashboardService) Refresh(ctx context.Context) error {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return apperrors.NewStoreError(err)
	}
	s.mu.Lock()
	s.working = tickets
	s.mu.Unlock()
	return nil
}

// List projects the working set through the filter state.
func (s *DashboardService) List(state FilterState) PageView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ApplyFilter(s.working, state)
}

// StatsView tallies the ticket collection by status.
type StatsView struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
}

// Stats counts the full working set per status. The active list filters do
// not narrow the tallies.
func (s *DashboardService) Stats() StatsView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StatsView{Total: len(s.working)}
	for i := range s.working {
		switch s.working[i].Status {
		case domain.TicketStatusPending:
			stats.Pending++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		}
	}
	return stats
}

// Get returns one ticket from the working set.
func (s *DashboardService) Get(id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.working {
		if s.working[i].ID == id {
			ticket := s.working[i]
			return &ticket, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
}

// UpdateStatus issues the partial status update to the document store and,
// only after that succeeds, mirrors the change onto the working set by
// replacing the matching element. A remote failure leaves the working set
// untouched.
func (s *DashboardService) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(status)})
	}

	if err := s.tickets.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("status update failed", zap.String("ticket_id", id), zap.Error(err))
		return nil, apperrors.MapError(err)
	}

	s.mu.Lock()
	var updated *domain.Ticket
	var oldStatus domain.TicketStatus
	for i := range s.working {
		if s.working[i].ID == id {
			replacement := s.working[i]
			oldStatus = replacement.Status
			replacement.Status = status
			s.working[i] = replacement
			copied := replacement
			updated = &copied
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		// Remote update succeeded but the ticket was not in the working set;
		// the next refresh picks it up.
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}

	s.publishStatusChange(ctx, id, oldStatus, status)
	return updated, nil
}

func (s *DashboardService) publishStatusChange(ctx context.Context, ticketID string, oldStatus, newStatus domain.TicketStatus) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketStatusChanged,
		TicketID:  ticketID,
		Timestamp: time.Now(),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
}
