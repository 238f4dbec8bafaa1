// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "time"

// # Ownership Policy

// Authored is the capability set shared by user-generated content.
//
// Reviews and comments both satisfy it, which lets the moderation policy
// below treat them uniformly without knowing the concrete entity type.
type Authored interface {
	// AuthorID returns the account ID of the content's author.
	AuthorID() string

	// PublishedAt returns the server-assigned publication timestamp.
	PublishedAt() time.Time
}

// CanModerate reports whether the caller may mutate the given content.
//
// # Policy
//
// A mutation on authored content is allowed if the caller is its author,
// a moderator, or an admin. Anonymous callers can never mutate.
//
// Read access is not gated here: all authored content is publicly readable,
// so a denied mutation leaks no existence information that a GET would not
// already reveal.
func CanModerate(claims *AuthClaims, content Authored) bool {
	if claims == nil {
		return false
	}

	if claims.UserID == content.AuthorID() {
		return true
	}

	return claims.IsModerator() || claims.IsAdmin()
}
