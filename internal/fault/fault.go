// Package fault defines the stable error taxonomy the service layer reports
// to callers. Every named failure carries a machine-readable kind and a
// human-readable message; anything else is Internal.
package fault

import (
	"errors"
	"fmt"
)

type Kind string

const (
	Unauthenticated     Kind = "unauthenticated"
	AuthorizationDenied Kind = "authorization_denied"
	NotFound            Kind = "not_found"
	ValidationFailed    Kind = "validation_failed"
	PreconditionFailed  Kind = "precondition_failed"
	Internal            Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or Internal if err is not a fault.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

// IsKind reports whether err carries exactly the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
