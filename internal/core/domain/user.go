package domain

import "time"

type UserID string

type User struct {
	ID           UserID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       AccountStatus
	CreatedAt    time.Time
}

type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
	RoleAdmin  Role = "admin"
)

type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusPending  AccountStatus = "pending"
	StatusInactive AccountStatus = "inactive"
)

// Identity is the snapshot of a user attached to a realtime connection at
// handshake time. It is never refreshed for the lifetime of the connection.
type Identity struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// RolePolicy describes what a role may do on the realtime layer.
type RolePolicy struct {
	// GatedPendingApproval blocks the realtime handshake while the
	// account status is pending. REST access is unaffected.
	GatedPendingApproval bool
}

var rolePolicies = map[Role]RolePolicy{
	RoleMentor: {GatedPendingApproval: true},
	RoleMentee: {GatedPendingApproval: false},
	RoleAdmin:  {GatedPendingApproval: false},
}

// PolicyFor returns the realtime policy for a role. Unknown roles get the
// most restrictive policy.
func PolicyFor(role Role) RolePolicy {
	if p, ok := rolePolicies[role]; ok {
		return p
	}
	return RolePolicy{GatedPendingApproval: true}
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role Role) bool {
	_, ok := rolePolicies[role]
	return ok
}

// Identity returns the connection snapshot for this user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Role: u.Role}
}

// CanConnect reports whether this user may establish a realtime connection.
func (u *User) CanConnect() error {
	switch u.Status {
	case StatusInactive:
		return ErrAccountInactive
	case StatusPending:
		if PolicyFor(u.Role).GatedPendingApproval {
			return ErrApprovalPending
		}
	}
	return nil
}
