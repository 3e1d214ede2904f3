// Package apperr carries business-rule failures from the service layer to
// the API boundary as tagged errors. The boundary is the only place a Kind
// is translated into an HTTP status.
package apperr

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidRequest
	KindForbidden
	KindUnauthorized
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(msg string) *Error       { return &Error{Kind: KindNotFound, Message: msg} }
func InvalidRequest(msg string) *Error { return &Error{Kind: KindInvalidRequest, Message: msg} }
func Forbidden(msg string) *Error      { return &Error{Kind: KindForbidden, Message: msg} }
func Unauthorized(msg string) *Error   { return &Error{Kind: KindUnauthorized, Message: msg} }

// KindOf reports the kind of err, or KindUnknown for anything that is not
// an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
