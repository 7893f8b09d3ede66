package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCredentialNotFound is returned when no candidate credential can be
// resolved from the supplied evidence. Terminal for the whole request.
var ErrCredentialNotFound = errors.New("no such credential")

// ErrRunNotFound is returned when a verification run id is unknown or expired
var ErrRunNotFound = errors.New("verification run not found")

// ErrContentFetch is returned when the content store fetch failed after the
// bounded retry. The digest check downgrades to unknown instead of false.
var ErrContentFetch = errors.New("content fetch failed")

// AllCandidatesRejectedError is a special error type used to signal that
// every located candidate failed verification. It carries the union of the
// per-candidate rejection reasons.
type AllCandidatesRejectedError struct {
	Reasons []string
}

// Error satisfies error interface for AllCandidatesRejectedError
func (e *AllCandidatesRejectedError) Error() string {
	return fmt.Sprintf("all candidates rejected: %s", strings.Join(e.Reasons, "; "))
}
