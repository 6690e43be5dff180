// Package password hashes dashboard passwords and checks them against the password policy.
package password

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Policy describes the password requirements for API error messages.
const Policy = "must be at least 8 characters and include an uppercase letter, a lowercase letter, a digit and a special character"

func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare returns nil when plain matches hash.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// Strong reports whether plain satisfies Policy.
func Strong(plain string) bool {
	if len(plain) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, char := range plain {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}
