// Package auth holds credential primitives: bcrypt password hashing and
// signed bearer tokens carrying the authenticated user id.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte input limit.
var ErrPasswordTooLong = errors.New("password too long")

// HashPassword returns a salted bcrypt hash of pw. A cost outside bcrypt's
// accepted range falls back to bcrypt.DefaultCost.
func HashPassword(pw string, cost int) (string, error) {
	if len(pw) > 72 {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), EffectiveCost(cost))
	return string(b), err
}

// EffectiveCost is the bcrypt cost HashPassword actually uses for cost.
func EffectiveCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// VerifyPassword reports whether pw matches hash. The comparison is constant-time.
func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// TimingPad returns a throwaway hash at the same effective cost as
// HashPassword(_, cost). Comparing against it when a username does not exist
// makes that path cost as much as a wrong password.
func TimingPad(cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte("friend-app-timing-pad"), EffectiveCost(cost))
}

// BurnCompare performs a throwaway comparison against pad.
func BurnCompare(pad []byte, pw string) {
	_ = bcrypt.CompareHashAndPassword(pad, []byte(pw))
}
