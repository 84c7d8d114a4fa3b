package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antelcha/itsm-playground/internal/domain"
	apperrors "github.com/antelcha/itsm-playground/pkg/util"
)

type ticketFixture struct {
	svc        *TicketService
	tickets    *fakeTicketRepo
	comments   *fakeCommentRepo
	statusID   string
	priorityID string
	categoryID string
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	classifications := newFakeClassificationRepo()
	f := &ticketFixture{
		tickets:    newFakeTicketRepo(),
		comments:   newFakeCommentRepo(),
		statusID:   classifications.seed(domain.KindStatus, "Open", true),
		priorityID: classifications.seed(domain.KindPriority, "High", true),
		categoryID: classifications.seed(domain.KindCategory, "Hardware", true),
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:         f.tickets,
		CommentRepo:        f.comments,
		ClassificationRepo: classifications,
	})
	return f
}

func (f *ticketFixture) createTicket(t *testing.T, p domain.Principal) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), p, TicketCreateInput{
		Title:       "broken laptop",
		Description: "does not boot",
		StatusID:    f.statusID,
		PriorityID:  f.priorityID,
		CategoryID:  f.categoryID,
	})
	require.NoError(t, err)
	return ticket
}

var (
	userU1 = domain.Principal{ID: "u1", Role: domain.RoleEndUser}
	userU2 = domain.Principal{ID: "u2", Role: domain.RoleEndUser}
	agent1 = domain.Principal{ID: "a1", Role: domain.RoleAgent}
	agent2 = domain.Principal{ID: "a2", Role: domain.RoleAgent}
	admin1 = domain.Principal{ID: "adm", Role: domain.RoleAdmin}
)

func TestCreateStampsCreatorAndTimestamps(t *testing.T) {
	f := newTicketFixture(t)

	ticket := f.createTicket(t, userU1)

	require.NotNil(t, ticket.CreatedBy)
	assert.Equal(t, "u1", *ticket.CreatedBy)
	assert.Nil(t, ticket.AssignedTo)
	assert.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)
}

func TestCreateRejectsInactiveClassification(t *testing.T) {
	f := newTicketFixture(t)
	classifications := newFakeClassificationRepo()
	inactive := classifications.seed(domain.KindStatus, "Retired", false)
	f.svc.classifications = classifications

	_, err := f.svc.Create(context.Background(), userU1, TicketCreateInput{
		Title:      "x",
		StatusID:   inactive,
		PriorityID: "nope",
		CategoryID: "",
	})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "status")
	assert.Contains(t, domainErr.Details, "priority")
	assert.Contains(t, domainErr.Details, "category")
}

func TestCreateStripsAssignmentForEndUsers(t *testing.T) {
	f := newTicketFixture(t)
	target := "a1"

	ticket, err := f.svc.Create(context.Background(), userU1, TicketCreateInput{
		Title:      "assign me",
		StatusID:   f.statusID,
		PriorityID: f.priorityID,
		CategoryID: f.categoryID,
		AssignedTo: &target,
	})
	require.NoError(t, err)
	assert.Nil(t, ticket.AssignedTo, "end-user payloads must not set assigned_to")
}

func TestGetCollapsesAbsentAndInvisible(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, userU1)

	_, missingErr := f.svc.Get(context.Background(), userU2, "no-such-id")
	_, invisibleErr := f.svc.Get(context.Background(), userU2, ticket.ID)

	require.Error(t, missingErr)
	require.Error(t, invisibleErr)
	assert.Equal(t, apperrors.ToDomainError(missingErr).Code, apperrors.ToDomainError(invisibleErr).Code)
	assert.Equal(t, apperrors.ToDomainError(missingErr).Message, apperrors.ToDomainError(invisibleErr).Message)

	got, err := f.svc.Get(context.Background(), userU1, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
}

func TestUpdateAdvancesUpdatedAt(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, userU1)

	newTitle := "still broken"
	updated, err := f.svc.Update(context.Background(), userU1, ticket.ID, TicketPatch{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "still broken", updated.Title)
	assert.Equal(t, ticket.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestUpdateByEndUserNeverChangesAssignment(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, userU1)

	target := "a2"
	newTitle := "please reassign"
	updated, err := f.svc.Update(context.Background(), userU1, ticket.ID, TicketPatch{
		Title:      &newTitle,
		AssignedTo: &target,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo, "assigned_to is silently stripped for end-users")
	assert.Equal(t, "please reassign", updated.Title)
}

func TestAgentAssignmentNarrowsVisibility(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, userU1)
	ctx := context.Background()

	// Unassigned: both agents see it.
	listA1, err := f.svc.List(ctx, agent1)
	require.NoError(t, err)
	listA2, err := f.svc.List(ctx, agent2)
	require.NoError(t, err)
	assert.Len(t, listA1, 1)
	assert.Len(t, listA2, 1)

	// Agent 1 assigns it to self.
	self := "a1"
	_, err = f.svc.Update(ctx, agent1, ticket.ID, TicketPatch{AssignedTo: &self})
	require.NoError(t, err)

	listA1, err = f.svc.List(ctx, agent1)
	require.NoError(t, err)
	listA2, err = f.svc.List(ctx, agent2)
	require.NoError(t, err)
	assert.Len(t, listA1, 1)
	assert.Empty(t, listA2, "assigned tickets disappear for other agents")

	// Admin still sees it; agent 2 can no longer touch it.
	listAdmin, err := f.svc.List(ctx, admin1)
	require.NoError(t, err)
	assert.Len(t, listAdmin, 1)

	_, err = f.svc.Get(ctx, agent2, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestEndUserListOnlyOwnTickets(t *testing.T) {
	f := newTicketFixture(t)
	f.createTicket(t, userU1)
	f.createTicket(t, userU2)
	f.createTicket(t, userU1)

	list, err := f.svc.List(context.Background(), userU1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, ticket := range list {
		assert.True(t, ticket.CreatedByUser("u1"))
	}
}

func TestUnrecognizedRoleListsNothing(t *testing.T) {
	f := newTicketFixture(t)
	f.createTicket(t, userU1)

	ghost := domain.Principal{ID: "g", Role: domain.Role("root")}
	list, err := f.svc.List(context.Background(), ghost)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteCascadesComments(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, userU1)
	ctx := context.Background()

	_, err := f.svc.AddComment(ctx, userU1, ticket.ID, CommentInput{Content: "any update?"})
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, admin1, ticket.ID, CommentInput{Content: "working on it", IsPublic: true})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, userU1, ticket.ID))

	assert.Empty(t, f.comments.comments, "ticket deletion removes its comments")
	_, err = f.svc.Get(ctx, admin1, ticket.ID)
	assert.Error(t, err)
}

func TestCommentsFollowTicketVisibility(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, userU1)
	ctx := context.Background()

	_, err := f.svc.AddComment(ctx, userU1, ticket.ID, CommentInput{Content: "hello"})
	require.NoError(t, err)

	// The creator and any agent (ticket unassigned) see the thread.
	thread, err := f.svc.ListComments(ctx, userU1, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, thread, 1)

	_, err = f.svc.ListComments(ctx, agent1, ticket.ID)
	require.NoError(t, err)

	// A different end-user cannot even observe the ticket exists.
	_, err = f.svc.ListComments(ctx, userU2, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCommentMutationGates(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, userU1)
	ctx := context.Background()

	comment, err := f.svc.AddComment(ctx, userU1, ticket.ID, CommentInput{Content: "v1"})
	require.NoError(t, err)

	// The author may replace their comment.
	updated, err := f.svc.UpdateComment(ctx, userU1, ticket.ID, comment.ID, CommentInput{Content: "v2", IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
	assert.True(t, updated.IsPublic)

	// An agent with ticket visibility but no authorship is forbidden.
	_, err = f.svc.UpdateComment(ctx, agent1, ticket.ID, comment.ID, CommentInput{Content: "hijack"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	// Admin may delete unconditionally.
	require.NoError(t, f.svc.DeleteComment(ctx, admin1, ticket.ID, comment.ID))
}

func TestCommentUnderWrongTicketIsNotFound(t *testing.T) {
	f := newTicketFixture(t)
	first := f.createTicket(t, userU1)
	second := f.createTicket(t, userU1)
	ctx := context.Background()

	comment, err := f.svc.AddComment(ctx, userU1, first.ID, CommentInput{Content: "on first"})
	require.NoError(t, err)

	_, err = f.svc.GetComment(ctx, userU1, second.ID, comment.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
