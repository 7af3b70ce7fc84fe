package domain

import "errors"

// ErrorKind classifies domain failures that complete the turn normally but
// could not fulfill the request. It is exposed alongside ok=true so callers
// can branch without parsing response text.
type ErrorKind string

const (
	ErrKindUserNotFound ErrorKind = "user_not_found"
	ErrKindFoodNotFound ErrorKind = "food_not_found"
	ErrKindLookupMiss   ErrorKind = "lookup_miss"
)

// DomainError is a collaborator failure with a machine-readable kind.
// It is surfaced as plain response text, never as a pipeline failure.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// ErrUserNotFound builds the canonical user-not-found domain error.
func ErrUserNotFound() *DomainError {
	return &DomainError{Kind: ErrKindUserNotFound, Message: "User not found"}
}

// ErrFoodNotFound builds the canonical food-not-found domain error.
func ErrFoodNotFound() *DomainError {
	return &DomainError{Kind: ErrKindFoodNotFound, Message: "Food not found"}
}

// ErrParse is returned by an intent classifier whose output could not be
// decoded as the expected structure. It is recovered silently by the
// heuristic fallback and never surfaced to the user.
var ErrParse = errors.New("model output not structured as expected")

// ErrContextNotFound is returned when no prior clarification context exists
// for a user in the context store.
var ErrContextNotFound = errors.New("context not found")
