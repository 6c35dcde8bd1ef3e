package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-dashboard/internal/api/dto"
	"github.com/spec-kit/support-dashboard/internal/domain"
	"github.com/spec-kit/support-dashboard/internal/query"
	"github.com/spec-kit/support-dashboard/internal/repository"
	"github.com/spec-kit/support-dashboard/internal/service"
	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

// SessionHeader carries the client session used to detect duplicate submissions.
const SessionHeader = "X-Session-ID"

// TicketsHandler manages dashboard and ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Dashboard GET /api/dashboard.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	criteria, err := query.ParseCriteria(c.Query("search"), c.Query("status"), c.Query("priority"))
	if err != nil {
		return err
	}
	view := h.service.Dashboard(criteria)

	rows := make([]dto.TicketSummary, 0, len(view.Tickets))
	for _, row := range view.Tickets {
		rows = append(rows, ticketSummary(row.Ticket, row.CommentCount))
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Filters: dto.DashboardFilters{
			Search:   view.Criteria.SearchTerm,
			Status:   view.Criteria.Status,
			Priority: view.Criteria.Priority,
		},
		Tickets: rows,
		Stats: dto.TicketStatsResponse{
			Total:      view.Stats.Total,
			Open:       view.Stats.Open,
			InProgress: view.Stats.InProgress,
			Closed:     view.Stats.Closed,
		},
	}})
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pending, err := h.service.SubmitCreate(c.UserContext(), session(c), repository.TicketInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Reporter:    req.Reporter,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return respond(c, pending, http.StatusCreated, func(ticket domain.Ticket) any {
		return ticketSummary(ticket, 0)
	})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Ticket(id, c.QueryBool("internal", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pending, err := h.service.SubmitStatus(c.UserContext(), session(c), id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, pending, http.StatusOK, h.summary)
}

// UpdatePriority PATCH /api/tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pending, err := h.service.SubmitPriority(c.UserContext(), session(c), id, req.Priority)
	if err != nil {
		return err
	}
	return respond(c, pending, http.StatusOK, h.summary)
}

// ListComments GET /api/tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	comments, err := h.service.Comments(id, c.QueryBool("internal", false))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponses(comments)})
}

// AddComment POST /api/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	pending, err := h.service.SubmitComment(c.UserContext(), session(c), id, service.CommentInput{
		Author:     req.Author,
		Content:    req.Content,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		return err
	}
	return respond(c, pending, http.StatusCreated, func(comment domain.Comment) any {
		return commentResponse(comment)
	})
}

// ListHistory GET /api/tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	history, err := h.service.History(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(history)})
}

// summary renders a mutated ticket with its current comment count.
func (h *TicketsHandler) summary(ticket domain.Ticket) any {
	count := 0
	if comments, err := h.service.Comments(ticket.ID, true); err == nil {
		count = len(comments)
	}
	return ticketSummary(ticket, count)
}

// respond waits for a queued mutation. When the request deadline passes
// first the mutation still applies, so the client gets 202 instead of an error.
func respond[T any](c *fiber.Ctx, pending *service.Pending[T], status int, render func(T) any) error {
	value, err := pending.Wait(c.UserContext())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "pending"}})
		}
		return err
	}
	return c.Status(status).JSON(fiber.Map{"data": render(value)})
}

func session(c *fiber.Ctx) string {
	return c.Get(SessionHeader)
}

func ticketID(c *fiber.Ctx) (int64, error) {
	return parseID(c, "id")
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	raw := c.Params(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("", map[string]string{
			param: "must be a positive integer",
		})
	}
	return id, nil
}

func ticketSummary(ticket domain.Ticket, commentCount int) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		Category:     ticket.Category,
		Assignee:     ticket.Assignee,
		CommentCount: commentCount,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := detail.Ticket
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.TicketDetailResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		Assignee:    ticket.Assignee,
		Reporter:    ticket.Reporter,
		Tags:        tags,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		Comments:    commentResponses(detail.Comments),
	}
}

func commentResponses(comments []domain.Comment) []dto.CommentResponse {
	resp := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		resp = append(resp, commentResponse(comment))
	}
	return resp
}

func commentResponse(comment domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         comment.ID,
		Author:     comment.Author,
		Initials:   comment.Initials(),
		Content:    comment.Content,
		Timestamp:  comment.Timestamp,
		IsInternal: comment.IsInternal,
	}
}

func historyResponses(entries []domain.TicketHistory) []dto.TicketHistoryResponse {
	resp := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TicketHistoryResponse{
			ID:         entry.ID,
			ChangeType: string(entry.ChangeType),
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return resp
}
