package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateEventID validates an event identifier for safety and correctness.
// IDs end up as file names, Redis keys, Mongo document IDs and ICS UID
// lines, so the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
//
// Backend-specific constraints should be checked separately by the stores.
func ValidateEventID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidEvent, "event ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidEvent, "event ID too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEvent, "event ID contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidEvent, "event ID contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateTraceFilename validates a recorded trace filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateTraceFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidTrace, "trace filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidTrace, "trace filename cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidTrace, "trace filename cannot be a hidden file")
	}

	return nil
}

// ValidateStoreKey validates a key relative to a store's root directory.
// It prevents path traversal attacks and ensures reasonable key length.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateStoreKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidPath, "store key cannot be empty")
	}

	const maxKeyLength = 500
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidPath, "store key too long (max %d characters)", maxKeyLength)
	}

	// Check for null bytes and control characters
	for _, r := range key {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "store key contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidPath, "store key must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidPath, "store key cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(key, "\\") {
		return New(ErrCodeInvalidPath, "store key cannot contain backslashes")
	}

	return nil
}

// ValidateDSN validates a store connection string.
// It ensures the DSN carries a scheme one of the backends understands.
func ValidateDSN(dsn string) error {
	if dsn == "" {
		return New(ErrCodeInvalidInput, "store DSN cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	for _, scheme := range []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://"} {
		if strings.HasPrefix(dsn, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "store DSN must use a redis or mongodb scheme")
}

// hexColorRegex matches #RGB and #RRGGBB display hints.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates an event's display color hint. Empty is allowed;
// renderers fall back to the calendar default.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}

	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #RGB or #RRGGBB)", color)
	}

	return nil
}

// calendarIDRegex matches calendar identifiers: a lowercase slug as used in
// feed URLs and config keys.
var calendarIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateCalendarID validates a calendar identifier.
func ValidateCalendarID(id string) error {
	if err := ValidateEventID(id); err != nil {
		return err
	}

	// Calendar IDs must be lowercase
	if strings.ToLower(id) != id {
		return New(ErrCodeInvalidInput, "calendar IDs must be lowercase: %q", id)
	}

	if !calendarIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid calendar ID: %q", id)
	}

	return nil
}
