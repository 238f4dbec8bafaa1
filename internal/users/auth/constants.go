// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// There is no refresh flow: an expired token means signing up again
	// is unnecessary, but a new exchange is — so a full day is used.
	AccessTokenTTL = 24 * time.Hour

	// MaxLenUsername bounds account names.
	MaxLenUsername = 150

	// MaxLenEmail bounds email addresses (RFC 5321 limit).
	MaxLenEmail = 254

	// ConfirmationCodeLength is the digit count of the mailed one-time code.
	ConfirmationCodeLength = 6

	// SignupResendCooldown is the minimum interval between two confirmation
	// mails for the same account.
	SignupResendCooldown = 60 * time.Second

	// ExchangeMaxAttempts is how many wrong codes a caller may submit per
	// window before the exchange endpoint starts refusing.
	ExchangeMaxAttempts = 5

	// ExchangeAttemptWindow is the sliding window for wrong-code attempts.
	ExchangeAttemptWindow = 10 * time.Minute
)

// # Mail Content

const (
	confirmationMailSubject = "Your Kritika confirmation code"
)
