package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds author and blueprint names accepted from users.
const maxNameLength = 256

// ValidatePathSegment validates a value placed into a URL as a single
// path segment. Escaping takes care of separators; only the dot segments,
// which a server resolves against the parent path, are rejected. An empty
// value is valid.
func ValidatePathSegment(kind, value string) error {
	if value == "." || value == ".." {
		return New(ErrCodeInvalidName, "%s cannot be %q", kind, value)
	}
	return nil
}

// ValidateBlueprintName validates a blueprint name selected by the user.
func ValidateBlueprintName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "blueprint name cannot be empty")
	}
	return validateName("blueprint name", name)
}

// validateName rejects names that could be used for path traversal or
// that contain control characters.
func validateName(kind, name string) error {
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "%s too long (max %d characters)", kind, maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s contains invalid control characters", kind)
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}
