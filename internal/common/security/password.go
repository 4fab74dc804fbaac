package security

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePasswordStrength applies the registration password policy: at least
// eight characters and not entirely numeric. Returns an empty string when the
// password passes, otherwise a client-facing reason.
func ValidatePasswordStrength(password string) string {
	if len(password) < minPasswordLength {
		return "This password is too short. It must contain at least 8 characters."
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return "This password is entirely numeric."
	}
	return ""
}
