package redistream

import "github.com/vorakit/redistream/pkg/errs"

// Kind and Error are re-exported from pkg/errs so callers never need to
// import it directly; every error this package returns can be type-asserted
// to *Error and discriminated on Kind.
type Kind = errs.Kind

type Error = errs.Error

const (
	Internal            = errs.Internal
	IncorrectConversion = errs.IncorrectConversion
	Connection          = errs.Connection
	Parse               = errs.Parse
	Receive             = errs.Receive
	InvalidOptions      = errs.InvalidOptions
)

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool { return errs.Is(err, kind) }
