package domain

import "time"

// TicketComment is a note on a ticket thread. UserID is a weak
// reference like Ticket.CreatedBy. IsPublic is a rendering hint for
// clients; the backend stores and returns it without enforcing it.
type TicketComment struct {
	ID        string
	TicketID  string
	UserID    *string
	Content   string
	IsPublic  bool
	CreatedAt time.Time
}

// AuthoredBy reports whether the comment was written by the given
// account.
func (c *TicketComment) AuthoredBy(userID string) bool {
	return c.UserID != nil && *c.UserID == userID
}
