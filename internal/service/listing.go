package service

import (
	"strings"

	"github.com/spec-kit/academic-support/internal/domain"
)

// DefaultPageSize is the dashboard page size when none is requested.
const DefaultPageSize = 10

// FilterState captures the active dashboard filters and pagination cursor.
// It is ephemeral and never persisted.
type FilterState struct {
	Status   *domain.TicketStatus
	Category *domain.TicketCategory
	Query    string
	Page     int
	PageSize int
}

// NewFilterState returns the unfiltered first page.
func NewFilterState() FilterState {
	return FilterState{Page: 1, PageSize: DefaultPageSize}
}

// WithStatus changes the status filter and resets pagination.
func (f FilterState) WithStatus(status *domain.TicketStatus) FilterState {
	f.Status = status
	f.Page = 1
	return f
}

// WithCategory changes the category filter and resets pagination.
func (f FilterState) WithCategory(category *domain.TicketCategory) FilterState {
	f.Category = category
	f.Page = 1
	return f
}

// WithQuery changes the free-text filter and resets pagination.
func (f FilterState) WithQuery(query string) FilterState {
	f.Query = query
	f.Page = 1
	return f
}

// WithPage moves to the requested page without touching filters.
func (f FilterState) WithPage(page int) FilterState {
	f.Page = page
	return f
}

// PageView is the paginated projection consumed by the presentation layer.
type PageView struct {
	Items      []domain.Ticket
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// ApplyFilter projects the ordered working set through the filter state.
// The input ordering (creation timestamp descending, established at fetch
// time) is preserved; no re-sort happens here.
func ApplyFilter(tickets []domain.Ticket, state FilterState) PageView {
	filtered := make([]domain.Ticket, 0, len(tickets))
	query := strings.ToLower(strings.TrimSpace(state.Query))
	for _, ticket := range tickets {
		if state.Status != nil && ticket.Status != *state.Status {
			continue
		}
		if state.Category != nil && ticket.Category != *state.Category {
			continue
		}
		if query != "" && !matchesQuery(ticket, query) {
			continue
		}
		filtered = append(filtered, ticket)
	}

	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalItems := len(filtered)
	totalPages := (totalItems + pageSize - 1) / pageSize

	page := state.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return PageView{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// matchesQuery matches the query against each candidate field independently,
// not against their concatenation.
func matchesQuery(ticket domain.Ticket, query string) bool {
	fields := []string{
		ticket.FirstName,
		ticket.LastName,
		ticket.Email,
		ticket.StudentCode,
		ticket.Subject,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
