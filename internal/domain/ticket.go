package domain

import "time"

// TicketStatus enumerates triage states for support tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// TicketCategory classifies the kind of academic support requested.
type TicketCategory string

const (
	CategoryThesisDraft    TicketCategory = "thesis_draft"
	CategoryDefenseProcess TicketCategory = "defense_process"
	CategoryGeneralInquiry TicketCategory = "general_inquiry"
)

// AttachmentSlot names one of the optional file-reference fields on a ticket.
type AttachmentSlot string

const (
	SlotApprovalRecord    AttachmentSlot = "approval_record"
	SlotProfileFile       AttachmentSlot = "profile_file"
	SlotUncorrectedDraft  AttachmentSlot = "uncorrected_draft"
	SlotCorrectedDraft    AttachmentSlot = "corrected_draft"
	SlotEmailConfirmation AttachmentSlot = "email_confirmation"
)

// AttachmentRefs holds the stable download references per slot. A slot is
// either absent or set exactly once, at creation.
type AttachmentRefs struct {
	ApprovalRecord    *string
	ProfileFile       *string
	UncorrectedDraft  *string
	CorrectedDraft    *string
	EmailConfirmation *string
}

// Ticket is the aggregate for one student support request. Only Status is
// mutable after creation.
type Ticket struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	StudentCode string
	Subject     string
	Category    TicketCategory
	Status      TicketStatus
	CreatedAt   time.Time
	Attachments AttachmentRefs
}

// IsValidStatus reports whether the value belongs to the closed status set.
func IsValidStatus(status TicketStatus) bool {
	switch status {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// IsValidCategory reports whether the value belongs to the closed category set.
func IsValidCategory(category TicketCategory) bool {
	switch category {
	case CategoryThesisDraft, CategoryDefenseProcess, CategoryGeneralInquiry:
		return true
	}
	return false
}

// SlotsForCategory returns the attachment slots that are meaningful for the
// given category. General inquiries carry no attachments.
func SlotsForCategory(category TicketCategory) []AttachmentSlot {
	switch category {
	case CategoryThesisDraft:
		return []AttachmentSlot{SlotApprovalRecord, SlotProfileFile}
	case CategoryDefenseProcess:
		return []AttachmentSlot{SlotUncorrectedDraft, SlotCorrectedDraft, SlotEmailConfirmation}
	default:
		return nil
	}
}

// Ref returns the download reference stored in the given slot, if any.
func (a AttachmentRefs) Ref(slot AttachmentSlot) *string {
	switch slot {
	case SlotApprovalRecord:
		return a.ApprovalRecord
	case SlotProfileFile:
		return a.ProfileFile
	case SlotUncorrectedDraft:
		return a.UncorrectedDraft
	case SlotCorrectedDraft:
		return a.CorrectedDraft
	case SlotEmailConfirmation:
		return a.EmailConfirmation
	}
	return nil
}

// SetRef stores a download reference into the given slot.
func (a *AttachmentRefs) SetRef(slot AttachmentSlot, url string) {
	switch slot {
	case SlotApprovalRecord:
		a.ApprovalRecord = &url
	case SlotProfileFile:
		a.ProfileFile = &url
	case SlotUncorrectedDraft:
		a.UncorrectedDraft = &url
	case SlotCorrectedDraft:
		a.CorrectedDraft = &url
	case SlotEmailConfirmation:
		a.EmailConfirmation = &url
	}
}
