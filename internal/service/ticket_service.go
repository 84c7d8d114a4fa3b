package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/antelcha/itsm-playground/internal/domain"
	"github.com/antelcha/itsm-playground/internal/events"
	"github.com/antelcha/itsm-playground/internal/policy"
	"github.com/antelcha/itsm-playground/internal/repository"
	apperrors "github.com/antelcha/itsm-playground/pkg/util"
)

// TicketService orchestrates the policy engine and the ticket store
// for every ticket and comment operation.
type TicketService struct {
	tickets         repository.TicketRepository
	comments        repository.CommentRepository
	classifications repository.ClassificationRepository
	dispatcher      events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo         repository.TicketRepository
	CommentRepo        repository.CommentRepository
	ClassificationRepo repository.ClassificationRepository
	Dispatcher         events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	StatusID    string
	PriorityID  string
	CategoryID  string
	AssignedTo  *string
}

// TicketPatch describes a partial ticket update. Nil fields are left
// untouched. ClearAssignee moves the ticket back to the unassigned
// pool; it wins over AssignedTo when both are set.
type TicketPatch struct {
	Title         *string
	Description   *string
	StatusID      *string
	PriorityID    *string
	CategoryID    *string
	AssignedTo    *string
	ClearAssignee bool
}

// CommentInput describes comment creation and full-replace payloads.
type CommentInput struct {
	Content  string
	IsPublic bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:         deps.TicketRepo,
		comments:        deps.CommentRepo,
		classifications: deps.ClassificationRepo,
		dispatcher:      deps.Dispatcher,
	}
}

// List returns the tickets visible to the principal in creation order.
// The visibility predicate is pushed into the store query.
func (s *TicketService) List(ctx context.Context, p domain.Principal) ([]domain.Ticket, error) {
	scope := policy.ScopeFor(p)
	filter := repository.TicketFilter{
		CreatedBy:        scope.CreatedBy,
		AssignedToOrFree: scope.AssignedToOrFree,
		MatchNone:        !scope.All && scope.CreatedBy == nil && scope.AssignedToOrFree == nil,
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Get fetches one ticket. A nonexistent id and an id outside the
// principal's visible set produce the same not-found error, so callers
// cannot probe for existence.
func (s *TicketService) Get(ctx context.Context, p domain.Principal, ticketID string) (*domain.Ticket, error) {
	return s.getVisible(ctx, p, ticketID)
}

// Create opens a ticket on behalf of the principal. Any authenticated
// principal may create one; classification references must point at
// existing, active entities.
func (s *TicketService) Create(ctx context.Context, p domain.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	fieldErrs := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		fieldErrs["title"] = "required"
	}
	s.checkClassification(ctx, fieldErrs, "status", domain.KindStatus, input.StatusID)
	s.checkClassification(ctx, fieldErrs, "priority", domain.KindPriority, input.PriorityID)
	s.checkClassification(ctx, fieldErrs, "category", domain.KindCategory, input.CategoryID)
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket", fieldErrs)
	}

	creator := p.ID
	ticket := &domain.Ticket{
		CreatedBy:   &creator,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		StatusID:    input.StatusID,
		PriorityID:  input.PriorityID,
		CategoryID:  input.CategoryID,
	}
	// assigned_to is outside the end-user editable surface; the field
	// is dropped silently rather than rejected.
	if input.AssignedTo != nil && policy.CanEditAssignment(p.Role) {
		ticket.AssignedTo = input.AssignedTo
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: p.ID, Role: p.Role},
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			StatusID:   ticket.StatusID,
			PriorityID: ticket.PriorityID,
			CategoryID: ticket.CategoryID,
		},
	})
	return ticket, nil
}

// Update applies a partial patch. Invisible tickets read as not found;
// visible tickets the principal may not write to return forbidden.
func (s *TicketService) Update(ctx context.Context, p domain.Principal, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.getVisible(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanWriteTicket(p, ticket) {
		return nil, apperrors.NewForbidden("not allowed to modify this ticket")
	}

	if !policy.CanEditAssignment(p.Role) {
		patch.AssignedTo = nil
		patch.ClearAssignee = false
	}

	fieldErrs := map[string]any{}
	changed := []string{}
	assignmentChanged := false

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			fieldErrs["title"] = "required"
		}
		ticket.Title = title
		changed = append(changed, "title")
	}
	if patch.Description != nil {
		ticket.Description = strings.TrimSpace(*patch.Description)
		changed = append(changed, "description")
	}
	if patch.StatusID != nil {
		s.checkClassification(ctx, fieldErrs, "status", domain.KindStatus, *patch.StatusID)
		ticket.StatusID = *patch.StatusID
		changed = append(changed, "status")
	}
	if patch.PriorityID != nil {
		s.checkClassification(ctx, fieldErrs, "priority", domain.KindPriority, *patch.PriorityID)
		ticket.PriorityID = *patch.PriorityID
		changed = append(changed, "priority")
	}
	if patch.CategoryID != nil {
		s.checkClassification(ctx, fieldErrs, "category", domain.KindCategory, *patch.CategoryID)
		ticket.CategoryID = *patch.CategoryID
		changed = append(changed, "category")
	}
	if patch.ClearAssignee {
		ticket.AssignedTo = nil
		changed = append(changed, "assigned_to")
		assignmentChanged = true
	} else if patch.AssignedTo != nil {
		ticket.AssignedTo = patch.AssignedTo
		changed = append(changed, "assigned_to")
		assignmentChanged = true
	}

	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket", fieldErrs)
	}
	if len(changed) == 0 {
		return ticket, nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	eventType := events.EventTicketUpdated
	var payload any = events.TicketUpdatedPayload{ChangedFields: changed}
	if assignmentChanged {
		eventType = events.EventTicketAssigned
		payload = events.TicketAssignedPayload{AssignedTo: ticket.AssignedTo}
	}
	s.publish(ctx, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: p.ID, Role: p.Role},
		Payload:  payload,
	})
	return ticket, nil
}

// Delete removes a ticket and all of its comments.
func (s *TicketService) Delete(ctx context.Context, p domain.Principal, ticketID string) error {
	ticket, err := s.getVisible(ctx, p, ticketID)
	if err != nil {
		return err
	}
	if !policy.CanWriteTicket(p, ticket) {
		return apperrors.NewForbidden("not allowed to delete this ticket")
	}

	if err := s.comments.DeleteByTicket(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: p.ID, Role: p.Role},
	})
	return nil
}

// ListComments returns the thread of a visible ticket.
func (s *TicketService) ListComments(ctx context.Context, p domain.Principal, ticketID string) ([]domain.TicketComment, error) {
	ticket, err := s.getVisible(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadComments(p, ticket) {
		return nil, apperrors.NewNotFound("ticket")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// GetComment fetches one comment under the same visibility rules as
// its parent ticket.
func (s *TicketService) GetComment(ctx context.Context, p domain.Principal, ticketID, commentID string) (*domain.TicketComment, error) {
	ticket, err := s.getVisible(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	return s.getCommentOn(ctx, ticket, commentID)
}

// AddComment appends a comment; visibility into the parent ticket is
// the only requirement.
func (s *TicketService) AddComment(ctx context.Context, p domain.Principal, ticketID string, input CommentInput) (*domain.TicketComment, error) {
	ticket, err := s.getVisible(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanComment(p, ticket) {
		return nil, apperrors.NewNotFound("ticket")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("invalid comment", map[string]any{"content": "required"})
	}

	author := p.ID
	comment := &domain.TicketComment{
		TicketID: ticket.ID,
		UserID:   &author,
		Content:  strings.TrimSpace(input.Content),
		IsPublic: input.IsPublic,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: p.ID, Role: p.Role},
		Payload: events.CommentAddedPayload{
			CommentID: comment.ID,
			IsPublic:  comment.IsPublic,
			Preview:   preview(comment.Content, 120),
		},
	})
	return comment, nil
}

// UpdateComment replaces a comment wholesale. Admins may edit any
// comment; everyone else only their own.
func (s *TicketService) UpdateComment(ctx context.Context, p domain.Principal, ticketID, commentID string, input CommentInput) (*domain.TicketComment, error) {
	ticket, err := s.getVisible(ctx, p, ticketID)
	if err != nil {
		return nil, err
	}
	comment, err := s.getCommentOn(ctx, ticket, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyComment(p, comment, ticket) {
		return nil, apperrors.NewForbidden("not allowed to modify this comment")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("invalid comment", map[string]any{"content": "required"})
	}

	comment.Content = strings.TrimSpace(input.Content)
	comment.IsPublic = input.IsPublic
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// DeleteComment removes a single comment under the same rules as
// UpdateComment. The parent ticket is untouched.
func (s *TicketService) DeleteComment(ctx context.Context, p domain.Principal, ticketID, commentID string) error {
	ticket, err := s.getVisible(ctx, p, ticketID)
	if err != nil {
		return err
	}
	comment, err := s.getCommentOn(ctx, ticket, commentID)
	if err != nil {
		return err
	}
	if !policy.CanModifyComment(p, comment, ticket) {
		return apperrors.NewForbidden("not allowed to delete this comment")
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// getVisible loads a ticket and collapses "absent" and "invisible"
// into one not-found error.
func (s *TicketService) getVisible(ctx context.Context, p domain.Principal, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, apperrors.MapError(err)
	}
	if !policy.CanReadTicket(p, ticket) {
		return nil, apperrors.NewNotFound("ticket")
	}
	return ticket, nil
}

func (s *TicketService) getCommentOn(ctx context.Context, ticket *domain.Ticket, commentID string) (*domain.TicketComment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment")
		}
		return nil, apperrors.MapError(err)
	}
	if comment.TicketID != ticket.ID {
		return nil, apperrors.NewNotFound("comment")
	}
	return comment, nil
}

func (s *TicketService) checkClassification(ctx context.Context, fieldErrs map[string]any, field string, kind domain.ClassificationKind, id string) {
	if id == "" {
		fieldErrs[field] = "required"
		return
	}
	ok, err := s.classifications.ActiveExists(ctx, kind, id)
	if err != nil {
		fieldErrs[field] = "lookup failed"
		return
	}
	if !ok {
		fieldErrs[field] = "must reference an existing active " + field
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
