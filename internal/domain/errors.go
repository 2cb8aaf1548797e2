package domain

import "errors"

// ErrorKind classifies a failure so callers can map it to a transport outcome.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a typed domain failure. Two errors are equal under errors.Is when
// their codes match, so a detailed validation error still matches ErrValidation.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Validation errors
var (
	ErrValidation = &Error{Kind: KindValidation, Code: "validation_failed", Message: "validation failed"}
)

// User errors
var (
	ErrDisplayNameTaken = &Error{Kind: KindConflict, Code: "display_name_taken", Message: "display name already exists"}
	ErrUserNotFound     = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "user not found"}
)

// Sleep session errors
var (
	ErrActiveSessionExists = &Error{Kind: KindConflict, Code: "active_session_exists", Message: "an active sleep session already exists"}
	ErrNoActiveSession     = &Error{Kind: KindNotFound, Code: "no_active_session", Message: "no active sleep session found"}
)

// Follow errors
var (
	ErrSelfFollow       = &Error{Kind: KindConflict, Code: "self_follow", Message: "cannot follow yourself"}
	ErrAlreadyFollowing = &Error{Kind: KindConflict, Code: "already_following", Message: "already following this user"}
	ErrNotFollowing     = &Error{Kind: KindNotFound, Code: "not_following", Message: "not following this user"}
	ErrTargetNotFound   = &Error{Kind: KindNotFound, Code: "target_not_found", Message: "user not found"}
)

// Storage errors
var (
	ErrStorage = &Error{Kind: KindStorage, Code: "storage_failure", Message: "storage failure"}
)

// Validation returns a validation error with a specific message.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Code: ErrValidation.Code, Message: message}
}

// Storage wraps an underlying persistence failure. Domain errors pass through
// unchanged.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStorage, Code: ErrStorage.Code, Message: ErrStorage.Message, Err: err}
}

// KindOf reports the kind of err. Anything that is not a domain error is
// treated as a storage failure.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}
