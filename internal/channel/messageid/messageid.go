// Package messageid implements the wrapping message identifier used to
// sequence messages on a single channel.
package messageid

import "strconv"

// ID is a wrapping 16-bit message identifier. Comparisons are
// sequence-relative, not numeric: after wraparound a numerically smaller id
// can still be "greater" than a numerically larger one, which is what lets a
// channel run forever without overflowing into stale/fresh confusion.
type ID uint16

// half is the midpoint of the id space: the boundary between "ahead of a"
// and "behind a" in sequence-relative comparisons.
const half = 1 << 15

// Succ returns the next id after x, wrapping at 2^16.
func Succ(x ID) ID {
	return x + 1
}

// Less reports whether a is sequence-relatively less than b, i.e. whether b
// lies in the "ahead" half of the id space relative to a. Equality is never
// Less of itself.
func Less(a, b ID) bool {
	return ID(b-a) > 0 && ID(b-a) < half
}

// LessOrEqual reports whether a == b or a is sequence-relatively less than b.
func LessOrEqual(a, b ID) bool {
	return a == b || Less(a, b)
}

// String renders the id for logging and test failure messages.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
