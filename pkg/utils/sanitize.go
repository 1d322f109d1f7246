package utils

import (
	"fmt"
	"path"
	"strings"
	"unicode"
)

// SanitizeString trims and drops control characters from a single-line value.
// Markup is stored as submitted; escaping is left to whatever renders it.
func SanitizeString(input string) string {
	return strings.TrimSpace(removeControlChars(input, false))
}

// SanitizeEmail lowercases and cleans an email address.
func SanitizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	return removeControlChars(email, false)
}

// SanitizePhone keeps digits and the usual phone punctuation.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var result strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) || r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// SanitizeText cleans multi-line input, keeping newlines and tabs.
func SanitizeText(input string) string {
	return strings.TrimSpace(removeControlChars(input, true))
}

// SanitizeFileName reduces an uploaded file reference to its base name.
// Returns "" for names that carry no usable file component.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(SanitizeString(name), "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

func removeControlChars(input string, keepLineBreaks bool) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsControl(r) {
			if keepLineBreaks && (r == '\n' || r == '\t' || r == '\r') {
				result.WriteRune(r)
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// ValidateAndSanitizeEmail validates and sanitizes email
func ValidateAndSanitizeEmail(email string) (string, error) {
	sanitized := SanitizeEmail(email)
	if !IsValidEmail(sanitized) {
		return "", fmt.Errorf("invalid email format")
	}
	return sanitized, nil
}
