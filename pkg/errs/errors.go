// Package errs defines the closed set of error kinds shared by every layer
// of the client: the codec, value conversion, the connection and the stream
// facade all surface failures through the same Error type so callers can
// discriminate on Kind without parsing strings.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an operation failed. The set is closed; callers
// switch on it instead of matching error text.
type Kind int

const (
	// Internal means a library invariant was violated, e.g. a connection
	// was reused while a request was already in flight.
	Internal Kind = iota

	// IncorrectConversion means a user value could not be coerced into
	// the requested shape.
	IncorrectConversion

	// Connection means the transport failed to dial, read or write, or
	// the peer closed mid-frame.
	Connection

	// Parse means a RESP frame, entry id, or reply shape was malformed.
	Parse

	// Receive means the server replied with a RESP Error value.
	Receive

	// InvalidOptions means a caller-supplied option is self-inconsistent,
	// e.g. a Bounded range with lo >= hi.
	InvalidOptions
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case IncorrectConversion:
		return "incorrect_conversion"
	case Connection:
		return "connection"
	case Parse:
		return "parse"
	case Receive:
		return "receive"
	case InvalidOptions:
		return "invalid_options"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every package in this
// module. Value carries the offending value for diagnostics when the
// failure originated in a conversion or a reply parse.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
	Value any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap lets callers use errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error with no cause and no offending value attached.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with printf-style formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a lower-level cause to a new Error, capturing a stack
// trace on the cause via pkg/errors so it survives up through Send/Subscribe.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: errors.WithStack(cause)}
}

// WithValue is New plus the offending value, used by conversion and reply
// parsing failures so callers can inspect what they were handed.
func WithValue(kind Kind, msg string, value any) *Error {
	return &Error{Kind: kind, Msg: msg, Value: value}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
