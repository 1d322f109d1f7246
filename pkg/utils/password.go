package utils

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is lowered by tests to keep hashing fast.
var BcryptCost = bcrypt.DefaultCost

const minPasswordLength = 8

var ErrPasswordPolicy = errors.New("password must be at least 8 characters and contain uppercase, " +
	"lowercase, number and special symbol")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash with a candidate. An empty or malformed
// hash never matches.
func CheckPassword(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

func ValidatePassword(password string) error {
	var hasUpper, hasLower, hasNumber, hasSpecial bool

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if len(password) < minPasswordLength || !hasUpper || !hasLower || !hasNumber || !hasSpecial {
		return ErrPasswordPolicy
	}

	return nil
}
