package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from files and requests.
const MaxNodeIDLength = 256

// ValidateNodeID validates a string node identifier read from external input.
//
// The rules are:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of MaxNodeIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node ID cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidNode, "node ID too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node ID contains invalid control characters")
		}
	}

	return nil
}

// ValidateSnapshotName validates a human-readable snapshot name.
// It rejects names that could be used for path traversal in file-backed stores.
func ValidateSnapshotName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "snapshot name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "snapshot name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "snapshot name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "snapshot name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a backend connection URL.
// The URL must start with one of the given schemes followed by "://".
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidConfig, "URL must use one of the schemes %v", schemes)
}
