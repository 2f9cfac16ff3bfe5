package redistream

import "github.com/vorakit/redistream/pkg/errs"

type rangeKind int

const (
	rangeAny rangeKind = iota
	rangeGreaterThan
	rangeLessThan
	rangeBounded
)

// RangeSelector describes the lo/hi bounds of an XRANGE query. Use
// AnyRange, GreaterThan, LessThan or Bounded to build one; Bounded rejects
// lo >= hi at construction so a malformed range can never reach the wire.
type RangeSelector struct {
	kind   rangeKind
	lo, hi EntryID
}

// AnyRange selects the whole stream ("-" to "+").
func AnyRange() RangeSelector { return RangeSelector{kind: rangeAny} }

// GreaterThan selects entries with id >= lo, up to "+".
func GreaterThan(lo EntryID) RangeSelector { return RangeSelector{kind: rangeGreaterThan, lo: lo} }

// LessThan selects entries from "-" up to id <= hi.
func LessThan(hi EntryID) RangeSelector { return RangeSelector{kind: rangeLessThan, hi: hi} }

// Bounded selects entries with lo <= id <= hi. It fails if lo >= hi.
func Bounded(lo, hi EntryID) (RangeSelector, error) {
	if !lo.Less(hi) {
		return RangeSelector{}, errs.Newf(errs.InvalidOptions, "range lower bound %s must be less than upper bound %s", lo, hi)
	}
	return RangeSelector{kind: rangeBounded, lo: lo, hi: hi}, nil
}

func (r RangeSelector) lowerArg() string {
	switch r.kind {
	case rangeGreaterThan, rangeBounded:
		return r.lo.String()
	default:
		return "-"
	}
}

func (r RangeSelector) upperArg() string {
	switch r.kind {
	case rangeLessThan, rangeBounded:
		return r.hi.String()
	default:
		return "+"
	}
}
