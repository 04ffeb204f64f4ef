package domain

import (
	"regexp"
	"strings"
)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// TicketDraft carries the raw form values of a submission before validation.
type TicketDraft struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	StudentCode string
	Subject     string
	Category    TicketCategory
}

// FieldDocuments is the pseudo-field carrying the combined attachment error.
const FieldDocuments = "documents"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateDraft checks every rule without short-circuiting so all errors
// surface together. attached lists the slots for which a file was selected.
func ValidateDraft(draft TicketDraft, attached []AttachmentSlot) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(draft.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(draft.LastName) == "" {
		errs["last_name"] = "last name is required"
	}
	if strings.TrimSpace(draft.Email) == "" {
		errs["email"] = "email is required"
	}
	if strings.TrimSpace(draft.Phone) == "" {
		errs["phone"] = "phone number is required"
	}
	if strings.TrimSpace(draft.StudentCode) == "" {
		errs["student_code"] = "student code is required"
	}
	if strings.TrimSpace(draft.Subject) == "" {
		errs["subject"] = "description is required"
	}

	// Format check runs independently of the non-empty check.
	if draft.Email != "" && !emailPattern.MatchString(draft.Email) {
		errs["email"] = "email format is invalid"
	}

	if msg := validateAttachments(draft.Category, attached); msg != "" {
		errs[FieldDocuments] = msg
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateAttachments enforces the category-conditional rule: thesis drafts
// and defense processes each need at least one of their slots filled.
func validateAttachments(category TicketCategory, attached []AttachmentSlot) string {
	required := SlotsForCategory(category)
	if len(required) == 0 {
		return ""
	}
	for _, slot := range required {
		for _, have := range attached {
			if have == slot {
				return ""
			}
		}
	}
	switch category {
	case CategoryThesisDraft:
		return "at least one thesis draft document must be attached"
	default:
		return "at least one defense process document must be attached"
	}
}
