// Package common defines shared constants, sentinel errors and error types used
// across client and server layers of LeaveKeeper. Callers should use errors.Is
// and errors.As to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Client-side taxonomy.
	ErrAuthentication    = errors.New("authentication failed")
	ErrSessionResolution = errors.New("session resolution failed")
	ErrValidation        = errors.New("validation error")
	ErrRemoteService     = errors.New("remote service error")
	ErrBusy              = errors.New("operation already in progress")
)

// RemoteError is returned by remote service calls. Message holds the
// human-readable text sent by the service, if any; Err is the mapped sentinel
// (ErrorUnauthorized, ErrorNotFound, ...) or the transport error.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrRemoteService.Error()
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemoteService}
	}
	return []error{ErrRemoteService, e.Err}
}

// AuthError reports a failed login or registration.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAuthentication}
	}
	return []error{ErrAuthentication, e.Err}
}

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates field errors found before any repository call.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msg := e.Fields[0].Message
	for _, f := range e.Fields[1:] {
		msg += "; " + f.Message
	}
	return msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Message returns the human-readable message carried by a RemoteError or
// AuthError in err's chain, or fallback when there is none.
func Message(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	var ae *AuthError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
