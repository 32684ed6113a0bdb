// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted user administration
	RoleSuperuser UserRole = "superuser"

	// Default role for standard registered users
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleSuperuser:
		return 40
	case RoleMember:
		return 10
	default:
		return 0
	}
}

// # Identity

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID      int64
	Email       string
	Username    string
	IsSuperuser bool
}

// Role derives the caller's role from its flags.
func (i *Identity) Role() UserRole {
	if i.IsSuperuser {
		return RoleSuperuser
	}
	return RoleMember
}
