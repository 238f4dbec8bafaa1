// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set is closed: every stored role is one of the three constants below.
// Capability checks ([AuthClaims.IsAdmin], [AuthClaims.IsModerator]) are the
// only sanctioned way to branch on a role — handlers and services must never
// compare role strings directly.
type UserRole string

const (
	// Unrestricted access: user management, catalog mutation, moderation
	RoleAdmin UserRole = "admin"

	// Can edit or remove any review and comment
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// IsValid reports whether r is one of the closed set of roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	default:
		return false
	}
}

// # Capability Checks

// IsAdmin reports whether the claims grant administrator capability.
//
// A superuser is an admin regardless of the stored role, mirroring the
// bootstrap account created outside the signup flow.
func (c *AuthClaims) IsAdmin() bool {
	if c == nil {
		return false
	}
	return UserRole(c.Role) == RoleAdmin || c.IsSuperuser
}

// IsModerator reports whether the claims grant moderation capability.
//
// Note that moderator does NOT imply admin: moderators manage content
// (reviews, comments) but never users or the catalog.
func (c *AuthClaims) IsModerator() bool {
	if c == nil {
		return false
	}
	return UserRole(c.Role) == RoleModerator
}
