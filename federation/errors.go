package federation

import (
	"errors"
	"fmt"
)

// Processing error taxonomy. Anything not listed here that surfaces from a
// store is a storage failure and is propagated unchanged.
var (
	// ErrMalformedActivity means the payload failed structural validation.
	ErrMalformedActivity = errors.New("malformed activity")

	// ErrActorMismatch means a compound activity's outer actor does not
	// match its inner activity's actor.
	ErrActorMismatch = errors.New("actor mismatch")

	// ErrDuplicate means the activity id already exists in the ledger. It is
	// a successful no-op outcome, not a failure: the activity was processed
	// before and its effects must not be reapplied.
	ErrDuplicate = errors.New("duplicate activity")

	// ErrObjectNotFound means the activity's object resolved to nothing we
	// know locally.
	ErrObjectNotFound = errors.New("object not found")

	// ErrForbidden means the actor is not authorized for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotImplemented means the object kind is explicitly unsupported.
	ErrNotImplemented = errors.New("not implemented")
)

// DomainRejectedError is returned when the federation domain policy denies
// an activity or actor domain.
type DomainRejectedError struct {
	Domain string
	Reason string
}

func (e *DomainRejectedError) Error() string {
	return fmt.Sprintf("domain %s rejected: %s", e.Domain, e.Reason)
}

// IsDomainRejected reports whether err is a policy denial.
func IsDomainRejected(err error) bool {
	var dre *DomainRejectedError
	return errors.As(err, &dre)
}
