package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/academic-support/internal/domain"
	"github.com/spec-kit/academic-support/internal/events"
	"github.com/spec-kit/academic-support/internal/repository"
	"github.com/spec-kit/academic-support/internal/store"
	apperrors "github.com/spec-kit/academic-support/pkg/util/errorutil"
)

// SubmissionFile is one selected file destined for an attachment slot.
type SubmissionFile struct {
	Slot    domain.AttachmentSlot
	Name    string
	Content io.Reader
}

// IntakeService orchestrates the submission workflow: validation, sequential
// uploads, record assembly, and document creation.
type IntakeService struct {
	tickets    repository.TicketRepository
	blobs      store.BlobStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	TicketRepo repository.TicketRepository
	BlobStore  store.BlobStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		tickets:    deps.TicketRepo,
		blobs:      deps.BlobStore,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
		inFlight:   make(map[string]struct{}),
	}
}

// Submit validates the draft and, when valid, uploads the category-relevant
// files and creates the ticket document. It returns either field errors or
// the created ticket. Uploads are awaited strictly before creation, creation
// strictly before success.
func (s *IntakeService) Submit(ctx context.Context, draft domain.TicketDraft, files []SubmissionFile) (*domain.Ticket, domain.FieldErrors, error) {
	relevant := relevantFiles(draft.Category, files)

	attached := make([]domain.AttachmentSlot, 0, len(relevant))
	for _, file := range relevant {
		attached = append(attached, file.Slot)
	}
	if errs := domain.ValidateDraft(draft, attached); len(errs) > 0 {
		return nil, errs, nil
	}

	if !s.acquire(draft.StudentCode) {
		return nil, nil, apperrors.NewConflict("a submission for this student is already in progress", nil)
	}
	defer s.release(draft.StudentCode)

	submittedAt := s.now()

	ticket := &domain.Ticket{
		FirstName:   draft.FirstName,
		LastName:    draft.LastName,
		Email:       draft.Email,
		Phone:       draft.Phone,
		StudentCode: draft.StudentCode,
		Subject:     draft.Subject,
		Category:    draft.Category,
		Status:      domain.TicketStatusPending,
		CreatedAt:   submittedAt,
	}

	// Sequential uploads: the file count is at most five and the
	// upload-to-slot attribution stays trivial. Already-uploaded blobs are
	// not rolled back when a later step fails.
	for _, file := range relevant {
		key := fmt.Sprintf("support/%d_%s", s.now().UnixMilli(), file.Name)
		handle, err := s.blobs.Upload(ctx, key, file.Content)
		if err != nil {
			s.logger.Error("attachment upload failed",
				zap.String("slot", string(file.Slot)),
				zap.String("key", key),
				zap.Error(err))
			return nil, nil, apperrors.NewStoreError(err)
		}
		ticket.Attachments.SetRef(file.Slot, s.blobs.DownloadURL(handle))
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error("ticket create failed", zap.Error(err))
		return nil, nil, apperrors.NewStoreError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: ticket.ID,
		Payload: events.TicketSubmittedPayload{
			Category:        ticket.Category,
			StudentCode:     ticket.StudentCode,
			AttachmentCount: len(relevant),
		},
	})
	return ticket, nil, nil
}

// relevantFiles keeps only files whose slot is meaningful for the category.
func relevantFiles(category domain.TicketCategory, files []SubmissionFile) []SubmissionFile {
	slots := domain.SlotsForCategory(category)
	kept := make([]SubmissionFile, 0, len(files))
	for _, file := range files {
		for _, slot := range slots {
			if file.Slot == slot {
				kept = append(kept, file)
				break
			}
		}
	}
	return kept
}

func (s *IntakeService) acquire(studentCode string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[studentCode]; busy {
		return false
	}
	s.inFlight[studentCode] = struct{}{}
	return true
}

func (s *IntakeService) release(studentCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, studentCode)
}

func (s *IntakeService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
