package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/academic-support/internal/api/dto"
	"github.com/spec-kit/academic-support/internal/auth"
	"github.com/spec-kit/academic-support/internal/domain"
	"github.com/spec-kit/academic-support/internal/service"
	apperrors "github.com/spec-kit/academic-support/pkg/util/errorutil"
)

// AdminHandler manages the dashboard endpoints.
type AdminHandler struct {
	authService *service.AdminAuthService
	dashboard   *service.DashboardService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(authService *service.AdminAuthService, dashboard *service.DashboardService) *AdminHandler {
	return &AdminHandler{authService: authService, dashboard: dashboard}
}

// Login POST /auth/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	token, expiresAt, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{Token: token, ExpiresAt: expiresAt}})
}

// Logout POST /auth/admin/logout.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	if err := h.authService.Logout(c.Context(), principal.SessionID); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// ListTickets GET /admin/tickets. Refreshes the working set from the document
// store, then projects it through the requested filters.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	if err := h.dashboard.Refresh(c.Context()); err != nil {
		return err
	}
	view := h.dashboard.List(parseFilterState(c))

	items := make([]dto.TicketSummary, 0, len(view.Items))
	for i := range view.Items {
		items = append(items, ticketSummary(&view.Items[i]))
	}
	return c.JSON(dto.TicketListResponse{
		Data:       items,
		Page:       view.Page,
		PageSize:   view.PageSize,
		TotalItems: view.TotalItems,
		TotalPages: view.TotalPages,
	})
}

// TicketStats GET /admin/tickets/stats. Counts the full collection per
// status; list filters do not narrow the tallies.
func (h *AdminHandler) TicketStats(c *fiber.Ctx) error {
	if err := h.dashboard.Refresh(c.Context()); err != nil {
		return err
	}
	stats := h.dashboard.Stats()
	return c.JSON(fiber.Map{"data": dto.TicketStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Resolved:   stats.Resolved,
	}})
}

// GetTicket GET /admin/tickets/:id.
func (h *AdminHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.dashboard.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// UpdateStatus PATCH /admin/tickets/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.dashboard.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// DownloadAttachment GET /admin/tickets/:id/attachments/:slot redirects to
// the stable download reference recorded on the ticket.
func (h *AdminHandler) DownloadAttachment(c *fiber.Ctx) error {
	ticket, err := h.dashboard.Get(c.Params("id"))
	if err != nil {
		return err
	}
	slot := domain.AttachmentSlot(c.Params("slot"))
	ref := ticket.Attachments.Ref(slot)
	if ref == nil {
		return apperrors.NewNotFound("attachment", map[string]any{"slot": string(slot)})
	}
	return c.Redirect(*ref, fiber.StatusFound)
}

func parseFilterState(c *fiber.Ctx) service.FilterState {
	state := service.NewFilterState()

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.TicketStatus(raw)
		if domain.IsValidStatus(status) {
			state = state.WithStatus(&status)
		}
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category := domain.TicketCategory(raw)
		if domain.IsValidCategory(category) {
			state = state.WithCategory(&category)
		}
	}
	if q := c.Query("q"); q != "" {
		state = state.WithQuery(q)
	}

	state.PageSize = parsePositiveInt(c.Query("page_size"), service.DefaultPageSize)
	return state.WithPage(parsePositiveInt(c.Query("page"), 1))
}

func parsePositiveInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	attachments := map[string]string{}
	for _, slot := range []domain.AttachmentSlot{
		domain.SlotApprovalRecord,
		domain.SlotProfileFile,
		domain.SlotUncorrectedDraft,
		domain.SlotCorrectedDraft,
		domain.SlotEmailConfirmation,
	} {
		if ref := ticket.Attachments.Ref(slot); ref != nil {
			attachments[string(slot)] = *ref
		}
	}
	if len(attachments) == 0 {
		attachments = nil
	}
	return dto.TicketSummary{
		ID:          ticket.ID,
		FirstName:   ticket.FirstName,
		LastName:    ticket.LastName,
		Email:       ticket.Email,
		Phone:       ticket.Phone,
		StudentCode: ticket.StudentCode,
		Subject:     ticket.Subject,
		Category:    ticket.Category,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		Attachments: attachments,
	}
}
