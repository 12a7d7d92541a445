package globetrotter

import "errors"

// Error kinds. Every error returned by the core either is one of these or
// unwraps to one; anything else is an internal failure.
var (
	ErrInvalid         = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInactive        = errors.New("challenge is not active")
	ErrCatalogTooSmall = errors.New("not enough destinations in the catalog")
)

// kindError carries a client-facing message and unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NewError returns an error with message msg that satisfies
// errors.Is(err, kind).
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrUserNotFound        = NewError(ErrNotFound, "user not found")
	ErrRecipientNotFound   = NewError(ErrNotFound, "recipient not found")
	ErrDestinationNotFound = NewError(ErrNotFound, "destination not found")
	ErrChallengeNotFound   = NewError(ErrNotFound, "challenge not found")
	ErrInviteNotFound      = NewError(ErrNotFound, "invite not found")
	ErrSessionNotFound     = NewError(ErrNotFound, "game session not found")

	ErrUsernameTaken     = NewError(ErrConflict, "username already exists")
	ErrInviteAccepted    = NewError(ErrConflict, "invite has already been accepted")
	ErrDestinationPlayed = NewError(ErrConflict, "you have already played this destination")
	ErrChallengePlayed   = NewError(ErrConflict, "you have already played this challenge")
	ErrDestinationSolved = NewError(ErrConflict, "you have already guessed this destination correctly")
	ErrChallengeInactive = NewError(ErrInactive, "challenge is no longer active")
)

// Kind reports which error kind err belongs to, or nil for internal
// failures.
func Kind(err error) error {
	for _, k := range []error{ErrInvalid, ErrNotFound, ErrConflict, ErrInactive, ErrCatalogTooSmall} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
