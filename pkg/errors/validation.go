package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from user input.
const MaxNodeIDLength = 64

// ValidateNodeID validates a graph or tree node identifier.
//
// Identifiers are labels drawn on screen and keys in request payloads, so the
// rules are conservative:
//   - No empty identifiers
//   - No control characters
//   - No structural delimiters (',', ':', ';', '[', ']', '{', '}')
//   - Maximum length of MaxNodeIDLength characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node identifier cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node identifier %q too long (max %d characters)", id, MaxNodeIDLength).WithField(id)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node identifier %q contains control characters", id).WithField(id)
		}
	}

	if strings.ContainsAny(id, ",:;[]{}") {
		return New(ErrCodeInvalidInput, "node identifier %q contains a delimiter", id).WithField(id)
	}

	return nil
}

// ValidateAlgorithmName validates the shape of an algorithm name before it is
// looked up in the catalog. Names are lowercase words joined by hyphens.
func ValidateAlgorithmName(name string) error {
	if name == "" {
		return New(ErrCodeUnknownAlgorithm, "algorithm name cannot be empty")
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return New(ErrCodeUnknownAlgorithm, "algorithm name %q contains invalid characters", name).WithField(name)
		}
	}
	return nil
}
