// Package apperr defines the error taxonomy shared by the auth core and the
// HTTP layer. Errors carry a Kind and a machine-readable code; the transport
// decides what status each Kind maps to.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindAuthorization
	KindStorage
	KindToken
	KindMethodNotAllowed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindStorage:
		return "storage"
	case KindToken:
		return "token"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// Codes reported in the error envelope.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeSignup         = "SIGNUP_ERROR"
	CodeLogin          = "LOGIN_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeUserNotFound   = "USER_NOT_FOUND"
	CodeDataNotFound   = "DATA_NOT_FOUND"
	CodeDatabase       = "DATABASE_ERROR"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
	CodeXSS            = "XSS_ATTACK_DETECTED"
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeMethod         = "METHOD_NOT_ALLOWED"
)

// Error is the tagged error value returned by the auth core.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Details maps a field name to its failure reasons.
	Details map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithField attaches a failure reason for field and returns e.
func (e *Error) WithField(field, reason string) *Error {
	if e.Details == nil {
		e.Details = make(map[string][]string)
	}
	e.Details[field] = append(e.Details[field], reason)
	return e
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: msg}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Code: CodeAuthentication, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeUserNotFound, Message: msg}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Code: CodeAuthorization, Message: msg}
}

func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Code: CodeDatabase, Message: msg, Err: err}
}

func Token(msg string, err error) *Error {
	return &Error{Kind: KindToken, Code: CodeInvalidToken, Message: msg, Err: err}
}

func MethodNotAllowed(msg string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Code: CodeMethod, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: msg, Err: err}
}

// KindOf returns the Kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
