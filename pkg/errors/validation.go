package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxKeyLength bounds storage keys across every backend (Redis, MongoDB _id,
// SQLite primary key, file names).
const maxKeyLength = 200

// ValidateStorageKey validates a key under which a build is persisted.
//
// Keys end up as file names in the file backend, so the rules are
// conservative:
//   - No empty keys
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 200 characters
func ValidateStorageKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "storage key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "storage key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "storage key contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "storage key contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a user-supplied file path for import/export.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// hexColorRegex matches CSS-style hex colors (#rgb or #rrggbb).
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a color override. The empty string is accepted and
// means "use the definition color".
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "color must be #rgb or #rrggbb: %q", color)
	}
	return nil
}

// typeIDRegex matches catalog identifiers such as "brick-2x4".
var typeIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateTypeID validates a brick type identifier in a palette file.
func ValidateTypeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidCatalog, "brick type id cannot be empty")
	}
	if !typeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidCatalog, "invalid brick type id: %q", id)
	}
	return nil
}
