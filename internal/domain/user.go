package domain

import "time"

// User is the domain model for any account that can authenticate:
// end-users submitting tickets, agents triaging them, administrators.
// The role field drives every visibility decision downstream.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Department   string
	EmployeeID   string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal extracts the policy-facing view of the account.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}
