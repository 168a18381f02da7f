package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSourceBytes is the default upper bound on diagram source accepted by
// ValidateSource.
const MaxSourceBytes = 1 << 20

// ValidateSource checks diagram text before it reaches the parser.
//
// The rules are intentionally conservative:
//   - No empty or whitespace-only input
//   - Valid UTF-8 only
//   - No control characters other than tab, newline and carriage return
//   - At most limit bytes (MaxSourceBytes when limit <= 0)
func ValidateSource(src string, limit int) error {
	if limit <= 0 {
		limit = MaxSourceBytes
	}
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidInput, "diagram source cannot be empty")
	}
	if len(src) > limit {
		return New(ErrCodeTooLarge, "diagram source too large (max %d bytes)", limit)
	}
	if !utf8.ValidString(src) {
		return New(ErrCodeInvalidInput, "diagram source is not valid UTF-8")
	}
	for _, r := range src {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "diagram source contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates an output path for safety.
// It prevents writing through NUL bytes or control characters and
// rejects empty paths.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
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
