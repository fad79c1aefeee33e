package chatguard

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for chatguard operations.
var (
	// ErrRosterFetch is returned when the administrator roster of a chat
	// could not be fetched from the roster source.
	ErrRosterFetch = errors.New("chatguard: roster fetch failed")

	// ErrMembershipLookup is returned when a single membership record
	// could not be fetched.
	ErrMembershipLookup = errors.New("chatguard: membership lookup failed")

	// ErrUnknownActor is returned when a decision needs the acting user
	// but the request carries none. It is an outcome, not a failure.
	ErrUnknownActor = errors.New("chatguard: unknown actor")

	// ErrDenied is returned by a gated operation whose predicate did not hold.
	ErrDenied = errors.New("chatguard: denied")

	// ErrInvalidTier is returned when a tier name or value is not recognised.
	ErrInvalidTier = errors.New("chatguard: invalid tier")

	// ErrDatabaseError is returned when a privilege store operation fails.
	ErrDatabaseError = errors.New("chatguard: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err     error  // Underlying sentinel error
	Message string // Additional context
	ChatID  ChatID // Chat involved (if applicable)
	UserID  UserID // User involved (if applicable)
	Tier    Tier   // Tier involved (if applicable)
	Cause   error  // Error reported by a collaborator (if any)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.ChatID != 0 {
		msg += " (chat " + strconv.FormatInt(int64(e.ChatID), 10) + ")"
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the sentinel and the collaborator cause for errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithChat adds chat information to the error.
func (e *Error) WithChat(chatID ChatID) *Error {
	e.ChatID = chatID
	return e
}

// WithUser adds user information to the error.
func (e *Error) WithUser(userID UserID) *Error {
	e.UserID = userID
	return e
}

// WithTier adds tier information to the error.
func (e *Error) WithTier(tier Tier) *Error {
	e.Tier = tier
	return e
}

// WithCause records the collaborator error that triggered this one.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// IsDenied checks if an error reports a denied gate.
func IsDenied(err error) bool {
	return errors.Is(err, ErrDenied)
}

// IsUnknownActor checks if an error reports a request without an actor.
func IsUnknownActor(err error) bool {
	return errors.Is(err, ErrUnknownActor)
}

// IsRosterFetch checks if an error is due to a failed roster fetch.
func IsRosterFetch(err error) bool {
	return errors.Is(err, ErrRosterFetch)
}

// IsMembershipLookup checks if an error is due to a failed membership lookup.
func IsMembershipLookup(err error) bool {
	return errors.Is(err, ErrMembershipLookup)
}

// IsUndecided reports whether err means the privilege question could not be
// answered at all: a collaborator failed. Denials and unknown actors are
// decided outcomes and return false.
func IsUndecided(err error) bool {
	return err != nil && !IsDenied(err) && !IsUnknownActor(err)
}
