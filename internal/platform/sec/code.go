// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// # Confirmation Codes

// Inclusive bounds of the 6-digit numeric confirmation code space.
const (
	codeMin = 100000
	codeMax = 999999
)

// GenerateConfirmationCode returns a fresh 6-digit numeric code drawn from
// crypto/rand. The code is the one-time secret mailed to the user during
// signup and exchanged for an access token.
func GenerateConfirmationCode() (string, error) {
	span := big.NewInt(codeMax - codeMin + 1)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

// HashConfirmationCode hashes a plain-text confirmation code using bcrypt.
//
// Codes are stored hashed so a database leak does not expose outstanding
// one-time secrets.
func HashConfirmationCode(plainCode string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainCode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash confirmation code: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckConfirmationCode compares a plain-text code with its stored hash.
func CheckConfirmationCode(plainCode, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainCode))
	return err == nil
}
