package challenge

import "errors"

// Kind classifies service failures so transports can map them to status
// codes without string matching.
type Kind string

const (
	KindAuthenticationRequired Kind = "AUTHENTICATION_REQUIRED"
	KindUnauthorized           Kind = "UNAUTHORIZED"
	KindInvalidToken           Kind = "INVALID_TOKEN"
	KindNotFound               Kind = "NOT_FOUND"
	KindSelfChallenge          Kind = "SELF_CHALLENGE"
	KindNotEligible            Kind = "NOT_ELIGIBLE"
	KindDuplicateChallenge     Kind = "DUPLICATE_ACTIVE_CHALLENGE"
	KindInvalidTransition      Kind = "INVALID_TRANSITION"
	KindInvalidWinner          Kind = "INVALID_WINNER"
	KindInvalidReporter        Kind = "INVALID_REPORTER"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the classification from a service error. The second return
// is false for errors that did not originate here.
func KindOf(err error) (Kind, bool) {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind, true
	}
	return "", false
}
