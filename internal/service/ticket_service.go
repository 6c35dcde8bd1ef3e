package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-dashboard/internal/domain"
	"github.com/spec-kit/support-dashboard/internal/events"
	"github.com/spec-kit/support-dashboard/internal/query"
	"github.com/spec-kit/support-dashboard/internal/repository"
)

// Operation names used in submission keys.
const (
	opCreate   = "create"
	opStatus   = "status"
	opPriority = "priority"
	opComment  = "comment"
	opRedeem   = "redeem"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets       *repository.TicketStore
	threads       *repository.ThreadRegistry
	history       repository.TicketHistoryRepository
	dispatcher    events.Dispatcher
	runner        *MutationRunner
	logger        *zap.Logger
	delays        Delays
	defaultAuthor string
}

// Delays is the simulated latency applied before each kind of mutation.
type Delays struct {
	Create   time.Duration
	Mutation time.Duration
	Comment  time.Duration
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketStore   *repository.TicketStore
	Threads       *repository.ThreadRegistry
	HistoryRepo   repository.TicketHistoryRepository
	Dispatcher    events.Dispatcher
	Runner        *MutationRunner
	Logger        *zap.Logger
	Delays        Delays
	DefaultAuthor string
}

// CommentInput is the comment form payload.
type CommentInput struct {
	Author     string
	Content    string
	IsInternal bool
}

// TicketView is a list row: the ticket plus its derived comment count.
type TicketView struct {
	Ticket       domain.Ticket
	CommentCount int
}

// DashboardView is the filtered list together with stats over every ticket.
type DashboardView struct {
	Criteria query.Criteria
	Tickets  []TicketView
	Stats    domain.TicketStats
}

// TicketDetail is a ticket with its ordered thread.
type TicketDetail struct {
	Ticket   domain.Ticket
	Comments []domain.Comment
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	history := deps.HistoryRepo
	if history == nil {
		history = repository.NewTicketHistoryRepository()
	}
	author := strings.TrimSpace(deps.DefaultAuthor)
	if author == "" {
		author = "Current User"
	}
	return &TicketService{
		tickets:       deps.TicketStore,
		threads:       deps.Threads,
		history:       history,
		dispatcher:    deps.Dispatcher,
		runner:        deps.Runner,
		logger:        logger,
		delays:        deps.Delays,
		defaultAuthor: author,
	}
}

// SubmitCreate validates the form and queues the creation.
func (s *TicketService) SubmitCreate(ctx context.Context, session string, input repository.TicketInput) (*Pending[domain.Ticket], error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return enqueue(ctx, s.runner, submissionKey(session, opCreate, 0), laneNewTickets, s.delays.Create, func() (domain.Ticket, error) {
		return s.createTicket(input)
	})
}

// SubmitStatus queues a status change.
func (s *TicketService) SubmitStatus(ctx context.Context, session string, ticketID int64, rawStatus string) (*Pending[domain.Ticket], error) {
	status, err := domain.ParseTicketStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if _, err := s.tickets.Get(ticketID); err != nil {
		return nil, err
	}
	return enqueue(ctx, s.runner, submissionKey(session, opStatus, ticketID), ticketLane(ticketID), s.delays.Mutation, func() (domain.Ticket, error) {
		return s.updateStatus(ticketID, status)
	})
}

// SubmitPriority queues a priority change.
func (s *TicketService) SubmitPriority(ctx context.Context, session string, ticketID int64, rawPriority string) (*Pending[domain.Ticket], error) {
	priority, err := domain.ParseTicketPriority(rawPriority)
	if err != nil {
		return nil, err
	}
	if _, err := s.tickets.Get(ticketID); err != nil {
		return nil, err
	}
	return enqueue(ctx, s.runner, submissionKey(session, opPriority, ticketID), ticketLane(ticketID), s.delays.Mutation, func() (domain.Ticket, error) {
		return s.updatePriority(ticketID, priority)
	})
}

// SubmitComment validates the content and queues the append.
func (s *TicketService) SubmitComment(ctx context.Context, session string, ticketID int64, input CommentInput) (*Pending[domain.Comment], error) {
	if err := repository.ValidateCommentContent(input.Content); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.Get(ticketID)
	if err != nil {
		return nil, err
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = s.defaultAuthor
	}
	return enqueue(ctx, s.runner, submissionKey(session, opComment, ticketID), ticketLane(ticketID), s.delays.Comment, func() (domain.Comment, error) {
		return s.addComment(ticket, author, input.Content, input.IsInternal)
	})
}

// Dashboard filters the collection and computes stats over all of it.
func (s *TicketService) Dashboard(criteria query.Criteria) DashboardView {
	all := s.tickets.List()
	filtered := query.Filter(all, criteria)

	rows := make([]TicketView, 0, len(filtered))
	for _, ticket := range filtered {
		rows = append(rows, TicketView{
			Ticket:       ticket,
			CommentCount: s.threads.Count(ticket.ThreadID),
		})
	}
	return DashboardView{
		Criteria: criteria,
		Tickets:  rows,
		Stats:    query.Aggregate(all),
	}
}

// Ticket returns the detail record. Internal comments are dropped unless includeInternal.
func (s *TicketService) Ticket(ticketID int64, includeInternal bool) (*TicketDetail, error) {
	ticket, err := s.tickets.Get(ticketID)
	if err != nil {
		return nil, err
	}
	return &TicketDetail{
		Ticket:   ticket,
		Comments: s.comments(ticket, includeInternal),
	}, nil
}

// Comments returns a ticket's thread, oldest first.
func (s *TicketService) Comments(ticketID int64, includeInternal bool) ([]domain.Comment, error) {
	ticket, err := s.tickets.Get(ticketID)
	if err != nil {
		return nil, err
	}
	return s.comments(ticket, includeInternal), nil
}

// History returns the audit trail of a ticket.
func (s *TicketService) History(ticketID int64) ([]domain.TicketHistory, error) {
	if _, err := s.tickets.Get(ticketID); err != nil {
		return nil, err
	}
	return s.history.ListByTicket(ticketID)
}

func (s *TicketService) comments(ticket domain.Ticket, includeInternal bool) []domain.Comment {
	thread, ok := s.threads.Lookup(ticket.ThreadID)
	if !ok {
		return []domain.Comment{}
	}
	if includeInternal {
		return thread.Comments()
	}
	return thread.VisibleComments()
}

func (s *TicketService) createTicket(input repository.TicketInput) (domain.Ticket, error) {
	ticket, err := s.tickets.Create(input)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Info("ticket created", zap.Int64("ticket_id", ticket.ID), zap.String("priority", string(ticket.Priority)))
	s.publishEvent(events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

func (s *TicketService) updateStatus(ticketID int64, status domain.TicketStatus) (domain.Ticket, error) {
	ticket, oldStatus, err := s.tickets.SetStatus(ticketID, status)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := s.history.Create(&domain.TicketHistory{
		TicketID:   ticketID,
		ChangeType: domain.ChangeTypeStatus,
		OldValue:   string(oldStatus),
		NewValue:   string(status),
		CreatedAt:  ticket.UpdatedAt,
	}); err != nil {
		s.logger.Warn("record status change", zap.Int64("ticket_id", ticketID), zap.Error(err))
	}
	s.publishEvent(events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return ticket, nil
}

func (s *TicketService) updatePriority(ticketID int64, priority domain.TicketPriority) (domain.Ticket, error) {
	ticket, oldPriority, err := s.tickets.SetPriority(ticketID, priority)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := s.history.Create(&domain.TicketHistory{
		TicketID:   ticketID,
		ChangeType: domain.ChangeTypePriority,
		OldValue:   string(oldPriority),
		NewValue:   string(priority),
		CreatedAt:  ticket.UpdatedAt,
	}); err != nil {
		s.logger.Warn("record priority change", zap.Int64("ticket_id", ticketID), zap.Error(err))
	}
	s.publishEvent(events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticketID,
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: priority,
		},
	})
	return ticket, nil
}

func (s *TicketService) addComment(ticket domain.Ticket, author, content string, isInternal bool) (domain.Comment, error) {
	comment, err := s.threads.Thread(ticket.ThreadID).Add(author, content, isInternal)
	if err != nil {
		return domain.Comment{}, err
	}
	s.publishEvent(events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    author,
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			Author:      author,
			IsInternal:  isInternal,
			BodyPreview: stringPreview(content, 120),
		},
	})
	return comment, nil
}

func (s *TicketService) publishEvent(event events.Event) {
	publishEvent(s.dispatcher, event)
}

func publishEvent(dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(context.Background(), event)
}

// stringPreview shortens body to at most max runes.
func stringPreview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
