package library

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks lookups where no object, tag, group, or entry
	// matches the given identifier.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous marks prefix or name lookups with multiple candidates.
	// The message enumerates the candidates.
	ErrAmbiguous = errors.New("ambiguous match")
	// ErrDuplicate marks constraint violations: tag name collisions,
	// duplicate tag assignments, re-import of identical content.
	ErrDuplicate = errors.New("duplicate")
	// ErrMalformed marks rejected input: unsupported extensions, invalid
	// locators, unparseable resegmentation output.
	ErrMalformed = errors.New("malformed input")
	// ErrExternal marks failures of collaborator services. Calls are not
	// retried by the library.
	ErrExternal = errors.New("external service failure")
	// ErrCycle marks group nestings that would make a group its own
	// ancestor.
	ErrCycle = errors.New("cycle detected")
)

// Wrap builds an error message with operation context while tagging it with
// the provided marker for classification via errors.Is. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrExternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "library failure"
	}
	return strings.Join(parts, ": ")
}
