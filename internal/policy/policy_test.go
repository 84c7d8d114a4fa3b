package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antelcha/itsm-playground/internal/domain"
)

func strPtr(s string) *string { return &s }

func ticket(createdBy, assignedTo string) domain.Ticket {
	t := domain.Ticket{ID: "t1", Title: "printer on fire"}
	if createdBy != "" {
		t.CreatedBy = strPtr(createdBy)
	}
	if assignedTo != "" {
		t.AssignedTo = strPtr(assignedTo)
	}
	return t
}

func TestScopeForAdminSeesEverything(t *testing.T) {
	admin := domain.Principal{ID: "adm", Role: domain.RoleAdmin}
	tickets := []domain.Ticket{
		ticket("u1", ""),
		ticket("u2", "a1"),
		ticket("", "a2"),
	}
	assert.Len(t, FilterTickets(admin, tickets), 3)
}

func TestScopeForAgent(t *testing.T) {
	agent := domain.Principal{ID: "a1", Role: domain.RoleAgent}

	mine := ticket("u1", "a1")
	free := ticket("u1", "")
	other := ticket("u1", "a2")

	assert.True(t, CanReadTicket(agent, &mine))
	assert.True(t, CanReadTicket(agent, &free), "unassigned tickets are visible to every agent")
	assert.False(t, CanReadTicket(agent, &other), "tickets assigned elsewhere are invisible")

	visible := FilterTickets(agent, []domain.Ticket{mine, free, other})
	assert.Len(t, visible, 2)
}

func TestScopeForEndUser(t *testing.T) {
	user := domain.Principal{ID: "u1", Role: domain.RoleEndUser}

	own := ticket("u1", "a1")
	foreign := ticket("u2", "")

	assert.True(t, CanReadTicket(user, &own))
	assert.False(t, CanReadTicket(user, &foreign))
}

func TestWriteAccessFollowsVisibility(t *testing.T) {
	assigned := ticket("u1", "a1")

	a1 := domain.Principal{ID: "a1", Role: domain.RoleAgent}
	a2 := domain.Principal{ID: "a2", Role: domain.RoleAgent}
	admin := domain.Principal{ID: "adm", Role: domain.RoleAdmin}

	assert.True(t, CanWriteTicket(a1, &assigned))
	assert.False(t, CanWriteTicket(a2, &assigned), "once assigned, only the assignee agent keeps write access")
	assert.True(t, CanWriteTicket(admin, &assigned))
}

func TestUnrecognizedRoleFailsClosed(t *testing.T) {
	nobody := domain.Principal{ID: "x", Role: domain.Role("superuser")}
	free := ticket("u1", "")

	assert.False(t, CanReadTicket(nobody, &free))
	assert.False(t, CanWriteTicket(nobody, &free))
	assert.Empty(t, FilterTickets(nobody, []domain.Ticket{free}))
	assert.False(t, CanManageClassifications(nobody.Role))
	assert.False(t, CanViewDashboard(nobody.Role))
}

func TestDeletedCreatorMatchesNobody(t *testing.T) {
	orphan := domain.Ticket{ID: "t1"} // created_by nulled after account deletion
	user := domain.Principal{ID: "u1", Role: domain.RoleEndUser}
	assert.False(t, CanReadTicket(user, &orphan))
}

func TestCommentVisibilityIsTransitive(t *testing.T) {
	parent := ticket("u1", "a1")

	owner := domain.Principal{ID: "u1", Role: domain.RoleEndUser}
	stranger := domain.Principal{ID: "u2", Role: domain.RoleEndUser}
	otherAgent := domain.Principal{ID: "a2", Role: domain.RoleAgent}
	admin := domain.Principal{ID: "adm", Role: domain.RoleAdmin}

	assert.True(t, CanReadComments(owner, &parent))
	assert.False(t, CanReadComments(stranger, &parent))
	assert.False(t, CanReadComments(otherAgent, &parent))
	assert.True(t, CanReadComments(admin, &parent))
}

func TestCommentMutationRequiresAuthorship(t *testing.T) {
	parent := ticket("u1", "")
	comment := domain.TicketComment{ID: "c1", TicketID: "t1", UserID: strPtr("u1")}

	author := domain.Principal{ID: "u1", Role: domain.RoleEndUser}
	agent := domain.Principal{ID: "a1", Role: domain.RoleAgent}
	admin := domain.Principal{ID: "adm", Role: domain.RoleAdmin}

	assert.True(t, CanModifyComment(author, &comment, &parent))
	assert.False(t, CanModifyComment(agent, &comment, &parent), "ticket visibility alone does not grant comment edits")
	assert.True(t, CanModifyComment(admin, &comment, &parent))
}

func TestClassificationAndDashboardGates(t *testing.T) {
	assert.False(t, CanManageClassifications(domain.RoleEndUser))
	assert.True(t, CanManageClassifications(domain.RoleAgent))
	assert.True(t, CanManageClassifications(domain.RoleAdmin))

	assert.False(t, CanViewDashboard(domain.RoleEndUser))
	assert.True(t, CanViewDashboard(domain.RoleAgent))
	assert.True(t, CanViewDashboard(domain.RoleAdmin))

	assert.False(t, CanListUsers(domain.RoleEndUser))
	assert.True(t, CanListUsers(domain.RoleAgent))
}

func TestEndUserAssignmentEditExcluded(t *testing.T) {
	assert.False(t, CanEditAssignment(domain.RoleEndUser))
	assert.True(t, CanEditAssignment(domain.RoleAgent))
	assert.True(t, CanEditAssignment(domain.RoleAdmin))
}
