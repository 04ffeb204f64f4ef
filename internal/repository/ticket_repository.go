package repository

import (
	"context"
	"fmt"
	"time"

	json "github.com/json-iterator/go"

	"github.com/spec-kit/academic-support/internal/domain"
	"github.com/spec-kit/academic-support/internal/store"
)

// TicketCollection is the document collection holding support tickets.
const TicketCollection = "support_tickets"

const orderField = "created_at"

// TicketRepository encapsulates ticket persistence over the document store.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
}

type ticketRepository struct {
	docs store.DocumentStore
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(docs store.DocumentStore) TicketRepository {
	return &ticketRepository{docs: docs}
}

// ticketRecord is the wire shape of a ticket document.
type ticketRecord struct {
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	StudentCode       string  `json:"student_code"`
	Subject           string  `json:"subject"`
	Category          string  `json:"category"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
	ApprovalRecord    *string `json:"approval_record,omitempty"`
	ProfileFile       *string `json:"profile_file,omitempty"`
	UncorrectedDraft  *string `json:"uncorrected_draft,omitempty"`
	CorrectedDraft    *string `json:"corrected_draft,omitempty"`
	EmailConfirmation *string `json:"email_confirmation,omitempty"`
}

// Create persists the ticket and assigns its store-issued identity.
func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	id, err := r.docs.Create(ctx, TicketCollection, toRecord(ticket))
	if err != nil {
		return err
	}
	ticket.ID = id
	return nil
}

// ListAll returns every ticket ordered by creation timestamp descending. The
// ordering is established here, at fetch time, and preserved downstream.
func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	docs, err := r.docs.QueryAll(ctx, TicketCollection, orderField, true)
	if err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(docs))
	for _, doc := range docs {
		ticket, err := fromRecord(doc)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// UpdateStatus issues a partial update touching only the status field.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	return r.docs.UpdateFields(ctx, TicketCollection, id, map[string]any{
		"status": string(status),
	})
}

func toRecord(ticket *domain.Ticket) ticketRecord {
	return ticketRecord{
		FirstName:         ticket.FirstName,
		LastName:          ticket.LastName,
		Email:             ticket.Email,
		Phone:             ticket.Phone,
		StudentCode:       ticket.StudentCode,
		Subject:           ticket.Subject,
		Category:          string(ticket.Category),
		Status:            string(ticket.Status),
		CreatedAt:         ticket.CreatedAt.UTC().Format(time.RFC3339Nano),
		ApprovalRecord:    ticket.Attachments.ApprovalRecord,
		ProfileFile:       ticket.Attachments.ProfileFile,
		UncorrectedDraft:  ticket.Attachments.UncorrectedDraft,
		CorrectedDraft:    ticket.Attachments.CorrectedDraft,
		EmailConfirmation: ticket.Attachments.EmailConfirmation,
	}
}

func fromRecord(doc store.Document) (domain.Ticket, error) {
	var record ticketRecord
	if err := json.Unmarshal(doc.Data, &record); err != nil {
		return domain.Ticket{}, fmt.Errorf("decode ticket %s: %w", doc.ID, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, record.CreatedAt)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("decode ticket %s created_at: %w", doc.ID, err)
	}

	category := domain.TicketCategory(record.Category)
	if !domain.IsValidCategory(category) {
		category = domain.CategoryGeneralInquiry
	}
	status := domain.TicketStatus(record.Status)
	if !domain.IsValidStatus(status) {
		status = domain.TicketStatusPending
	}

	return domain.Ticket{
		ID:          doc.ID,
		FirstName:   record.FirstName,
		LastName:    record.LastName,
		Email:       record.Email,
		Phone:       record.Phone,
		StudentCode: record.StudentCode,
		Subject:     record.Subject,
		Category:    category,
		Status:      status,
		CreatedAt:   createdAt,
		Attachments: domain.AttachmentRefs{
			ApprovalRecord:    record.ApprovalRecord,
			ProfileFile:       record.ProfileFile,
			UncorrectedDraft:  record.UncorrectedDraft,
			CorrectedDraft:    record.CorrectedDraft,
			EmailConfirmation: record.EmailConfirmation,
		},
	}, nil
}
