package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxMessageLength bounds a single chat message payload.
	MaxMessageLength = 2000
	// MaxGroupIDLength bounds ad-hoc room identifiers.
	MaxGroupIDLength = 100
)

var (
	// EmailRegex validates email format
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// IDRegex validates user and group identifier format
	IDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateEmail validates email address
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long (max 254 characters)")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateMessageContent validates a chat message body
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("message content is required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return fmt.Errorf("message is too long (max %d characters)", MaxMessageLength)
	}
	return nil
}

// ValidateGroupID validates an ad-hoc room identifier
func ValidateGroupID(id string) error {
	if id == "" {
		return fmt.Errorf("group id is required")
	}
	if len(id) > MaxGroupIDLength {
		return fmt.Errorf("group id is too long (max %d characters)", MaxGroupIDLength)
	}
	if !IDRegex.MatchString(id) {
		return fmt.Errorf("group id contains invalid characters (only letters, numbers, _, - allowed)")
	}
	return nil
}
