package resp

import "github.com/vorakit/redistream/pkg/errs"

// wireErr surfaces a RESP Error value as a Go error, preserving the
// server's message verbatim so callers can match on prefixes such as
// "BUSYGROUP" or "NOGROUP".
func wireErr(text string) error {
	return errs.New(errs.Receive, text)
}
