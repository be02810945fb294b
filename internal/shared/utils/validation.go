// Package utils holds input validation shared by the HTTP and WebSocket
// surfaces.
package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits (in bytes)
const (
	MaxJSONSize    = 1 * 1024 * 1024 // request bodies
	MaxLineSize    = 64 * 1024       // one shell input line, edit buffers included
	MaxContentSize = 1 * 1024 * 1024 // content written through the API
)

// String length limits
const (
	MaxUsernameLength = 32
	MinUsernameLength = 1
	MaxIDLength       = 128
)

var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// ToolIDPattern allows service.tool identifiers
	ToolIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+$`)
	// UsernamePattern follows the usual POSIX login name shape
	UsernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)
)

// ValidateString checks length and UTF-8 validity.
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("%s must be valid UTF-8", fieldName)
	}
	n := utf8.RuneCountInString(value)
	if n < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if maxLen > 0 && n > maxLen {
		return fmt.Errorf("%s must be at most %d characters", fieldName, maxLen)
	}
	return nil
}

// ValidateID checks a prefixed identifier such as a session ID.
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}
	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateToolID checks the service.tool format.
func ValidateToolID(id string) error {
	if err := ValidateString(id, "tool_id", 3, MaxIDLength, true); err != nil {
		return err
	}
	if !ToolIDPattern.MatchString(id) {
		return fmt.Errorf("tool_id must have the form service.tool")
	}
	return nil
}

// ValidateUsername checks a shell user name. The name becomes a path
// segment under /home, so separators and dots are rejected.
func ValidateUsername(username string) error {
	if err := ValidateString(username, "username", MinUsernameLength, MaxUsernameLength, true); err != nil {
		return err
	}
	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username must start with a lowercase letter or underscore and contain only [a-z0-9_-]")
	}
	return nil
}

// ValidateLine checks one shell input line.
func ValidateLine(line string) error {
	if len(line) > MaxLineSize {
		return fmt.Errorf("line exceeds %d bytes", MaxLineSize)
	}
	if !utf8.ValidString(line) {
		return fmt.Errorf("line must be valid UTF-8")
	}
	if strings.ContainsRune(line, 0) {
		return fmt.Errorf("line contains a NUL byte")
	}
	return nil
}
