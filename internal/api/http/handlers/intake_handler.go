package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/academic-support/internal/api/dto"
	"github.com/spec-kit/academic-support/internal/domain"
	"github.com/spec-kit/academic-support/internal/observability"
	"github.com/spec-kit/academic-support/internal/service"
	apperrors "github.com/spec-kit/academic-support/pkg/util/errorutil"
)

// IntakeHandler manages the public submission endpoint.
type IntakeHandler struct {
	intake  *service.IntakeService
	metrics *observability.Metrics
}

// NewIntakeHandler constructs the handler.
func NewIntakeHandler(intake *service.IntakeService, metrics *observability.Metrics) *IntakeHandler {
	return &IntakeHandler{intake: intake, metrics: metrics}
}

// allSlots lists every attachment form field the intake form can carry.
var allSlots = []domain.AttachmentSlot{
	domain.SlotApprovalRecord,
	domain.SlotProfileFile,
	domain.SlotUncorrectedDraft,
	domain.SlotCorrectedDraft,
	domain.SlotEmailConfirmation,
}

// SubmitTicket POST /tickets. Accepts a multipart form with the applicant
// fields plus one optional file part per attachment slot.
func (h *IntakeHandler) SubmitTicket(c *fiber.Ctx) error {
	category := domain.TicketCategory(c.FormValue("category"))
	if category == "" {
		category = domain.CategoryGeneralInquiry
	}
	if !domain.IsValidCategory(category) {
		return apperrors.NewValidationError("validation failed", map[string]any{
			"category": "unknown category",
		})
	}

	draft := domain.TicketDraft{
		FirstName:   c.FormValue("first_name"),
		LastName:    c.FormValue("last_name"),
		Email:       c.FormValue("email"),
		Phone:       c.FormValue("phone"),
		StudentCode: c.FormValue("student_code"),
		Subject:     c.FormValue("subject"),
		Category:    category,
	}

	files, closeFiles, err := collectFiles(c)
	if err != nil {
		return err
	}
	defer closeFiles()

	ticket, fieldErrs, err := h.intake.Submit(c.Context(), draft, files)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		details := make(map[string]any, len(fieldErrs))
		for field, msg := range fieldErrs {
			details[field] = msg
		}
		return apperrors.NewValidationError("validation failed", details)
	}

	h.metrics.RecordSubmission()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.SubmitTicketResponse{
		ID:        ticket.ID,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt,
	}})
}

func collectFiles(c *fiber.Ctx) ([]service.SubmissionFile, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	files := make([]service.SubmissionFile, 0, len(allSlots))
	for _, slot := range allSlots {
		header, err := c.FormFile(string(slot))
		if err != nil {
			continue // slot not provided
		}
		content, err := header.Open()
		if err != nil {
			closeAll()
			return nil, nil, apperrors.NewValidationError("unreadable file upload", map[string]any{
				string(slot): "file could not be read",
			})
		}
		opened = append(opened, content)
		files = append(files, service.SubmissionFile{
			Slot:    slot,
			Name:    header.Filename,
			Content: content,
		})
	}
	return files, closeAll, nil
}
