// Package validation holds input validation rules shared by handlers and
// services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"roamly/internal/models"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8
	MinTitleLength    = 5
	MaxImagesPerPost  = 10
	MaxQueryChars     = 500
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername checks length and character-set constraints.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return models.NewValidationError(
			fmt.Sprintf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if !usernameRe.MatchString(username) {
		return models.NewValidationError("username may only contain letters, digits and underscores")
	}
	return nil
}

// ValidateEmail checks the address has a plausible mailbox@domain shape.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return models.NewValidationError("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum policy: at least MinPasswordLength
// characters containing at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return models.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return models.NewValidationError("password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateAdventureTitle enforces the minimum title length.
func ValidateAdventureTitle(title string) error {
	if len(strings.TrimSpace(title)) < MinTitleLength {
		return models.NewValidationError(
			fmt.Sprintf("title must be at least %d characters", MinTitleLength))
	}
	return nil
}

// ValidateChatQuery bounds the size of a chat question before it reaches the
// embedding service.
func ValidateChatQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return models.NewValidationError("query must not be empty")
	}
	if len([]rune(query)) > MaxQueryChars {
		return models.NewValidationError(
			fmt.Sprintf("query must be at most %d characters", MaxQueryChars))
	}
	return nil
}

// IsEmail reports whether a login identifier looks like an email address,
// deciding whether login resolves the account by email or by username.
func IsEmail(identifier string) bool {
	return emailRe.MatchString(identifier)
}
