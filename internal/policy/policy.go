package policy

import (
	"github.com/antelcha/itsm-playground/internal/domain"
)

// TicketScope is the per-role ticket predicate in a form the
// repository can push into SQL. Exactly one of the three shapes is
// populated; a zero scope matches nothing (fail-closed).
type TicketScope struct {
	// All grants unrestricted access (admins).
	All bool
	// CreatedBy restricts to tickets opened by this user (end-users).
	CreatedBy *string
	// AssignedToOrFree restricts to tickets assigned to this agent or
	// not assigned at all (agents).
	AssignedToOrFree *string
}

// Matches evaluates the scope against a single ticket, mirroring the
// SQL predicate the repository builds from the same value.
func (s TicketScope) Matches(t *domain.Ticket) bool {
	switch {
	case s.All:
		return true
	case s.CreatedBy != nil:
		return t.CreatedByUser(*s.CreatedBy)
	case s.AssignedToOrFree != nil:
		return t.Unassigned() || t.AssignedToAgent(*s.AssignedToOrFree)
	default:
		return false
	}
}

// ScopeFor computes the visible-ticket predicate for a principal.
func ScopeFor(p domain.Principal) TicketScope {
	switch p.Role {
	case domain.RoleAdmin:
		return TicketScope{All: true}
	case domain.RoleAgent:
		id := p.ID
		return TicketScope{AssignedToOrFree: &id}
	case domain.RoleEndUser:
		id := p.ID
		return TicketScope{CreatedBy: &id}
	default:
		return TicketScope{}
	}
}

// CanReadTicket reports whether the ticket is inside the principal's
// visible set.
func CanReadTicket(p domain.Principal, t *domain.Ticket) bool {
	return ScopeFor(p).Matches(t)
}

// CanWriteTicket reports whether the principal may update or delete
// the ticket. Write access follows the same predicate as visibility:
// an agent cannot act on a ticket assigned to a different agent, an
// end-user only touches their own tickets, admins touch everything.
func CanWriteTicket(p domain.Principal, t *domain.Ticket) bool {
	return ScopeFor(p).Matches(t)
}

// CanEditAssignment reports whether the role may change assigned_to.
// End-users have the field excluded from their editable surface; the
// service strips it from their patches rather than rejecting them.
func CanEditAssignment(role domain.Role) bool {
	switch role {
	case domain.RoleAgent, domain.RoleAdmin:
		return true
	default:
		return false
	}
}

// FilterTickets returns the subset of items visible to the principal,
// preserving input order.
func FilterTickets(p domain.Principal, items []domain.Ticket) []domain.Ticket {
	scope := ScopeFor(p)
	visible := make([]domain.Ticket, 0, len(items))
	for i := range items {
		if scope.Matches(&items[i]) {
			visible = append(visible, items[i])
		}
	}
	return visible
}

// CanReadComments reports whether comments on the ticket are visible.
// Comment visibility is transitive through the parent ticket, except
// admins see every comment unconditionally. The is_public flag is a
// client rendering hint and is deliberately not enforced here.
func CanReadComments(p domain.Principal, parent *domain.Ticket) bool {
	if p.Role == domain.RoleAdmin {
		return true
	}
	return CanReadTicket(p, parent)
}

// CanComment reports whether the principal may add a comment to the
// ticket. Anyone with visibility into the parent may comment.
func CanComment(p domain.Principal, parent *domain.Ticket) bool {
	return CanReadComments(p, parent)
}

// CanModifyComment reports whether the principal may update or delete
// the comment. Admins always may; everyone else must be the comment's
// author and still hold visibility into the parent ticket.
func CanModifyComment(p domain.Principal, c *domain.TicketComment, parent *domain.Ticket) bool {
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent, domain.RoleEndUser:
		return c.AuthoredBy(p.ID) && CanReadTicket(p, parent)
	default:
		return false
	}
}

// CanManageClassifications reports whether the role may create, update
// or delete status/priority/category reference data. Reads are open to
// any authenticated principal.
func CanManageClassifications(role domain.Role) bool {
	switch role {
	case domain.RoleAgent, domain.RoleAdmin:
		return true
	default:
		return false
	}
}

// CanViewDashboard gates the reporting rollups. The dashboard reads
// the whole store, so its authorization is a coarse role gate rather
// than per-record filtering.
func CanViewDashboard(role domain.Role) bool {
	switch role {
	case domain.RoleAgent, domain.RoleAdmin:
		return true
	default:
		return false
	}
}

// CanListUsers gates the full account directory.
func CanListUsers(role domain.Role) bool {
	return role.IsStaff()
}
