package domain

import "time"

// Ticket is the aggregate for support requests. CreatedBy and
// AssignedTo are weak references to users: deleting the underlying
// account nulls the pointer, it never cascades to the ticket. A nil
// AssignedTo means the ticket is unassigned and eligible for any
// agent.
type Ticket struct {
	ID          string
	CreatedBy   *string
	AssignedTo  *string
	Title       string
	Description string
	StatusID    string
	PriorityID  string
	CategoryID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatedByUser reports whether the ticket was opened by the given
// account. Tickets whose creator was deleted match nobody.
func (t *Ticket) CreatedByUser(userID string) bool {
	return t.CreatedBy != nil && *t.CreatedBy == userID
}

// AssignedToAgent reports whether the ticket is assigned to the given
// agent.
func (t *Ticket) AssignedToAgent(agentID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == agentID
}

// Unassigned reports whether any agent may pick the ticket up.
func (t *Ticket) Unassigned() bool {
	return t.AssignedTo == nil
}
