package services

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks invalid arguments caught before any external call.
	ErrValidation = errors.New("validation error")
	// ErrExternalTool marks recoverable failures from external processes or
	// unreadable media. The wrapped message is safe to surface; diagnostic
	// detail travels in the wrapped cause.
	ErrExternalTool = errors.New("external tool error")
	// ErrUnavailable marks a missing runtime dependency. Unlike
	// ErrExternalTool it should not be retried per call.
	ErrUnavailable = errors.New("dependency unavailable")
	// ErrNotFound marks lookups of unknown identifiers.
	ErrNotFound = errors.New("not found")
)

type wrappedError struct {
	marker error
	detail string
	cause  error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return e.marker.Error() + ": " + e.detail + ": " + e.cause.Error()
	}
	return e.marker.Error() + ": " + e.detail
}

func (e *wrappedError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.marker, e.cause}
	}
	return []error{e.marker}
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalTool
	}
	return &wrappedError{
		marker: marker,
		detail: buildDetail(component, operation, message),
		cause:  err,
	}
}

// UserMessage returns the portion of a wrapped error that is safe to present,
// stripping the sentinel prefix and any diagnostic tail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var wrapped *wrappedError
	if errors.As(err, &wrapped) {
		return wrapped.detail
	}
	return err.Error()
}

// IsFatal reports whether an error signals a missing runtime dependency that
// makes further recognition calls pointless.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
