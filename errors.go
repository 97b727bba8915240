package querystring

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidMapKey reports a key that does not follow the bracket grammar:
// a missing closing bracket, or trailing bytes after a closing bracket that
// are not a fresh opener (for example "a]c=2").
var ErrInvalidMapKey = errors.New("invalid map key")

// ErrInvalidMapValue reports a protocol violation on the pair cursor: a value
// was requested with no preceding key, or twice for the same key.
var ErrInvalidMapValue = errors.New("invalid map value")

// ErrMaximumDepthReached reports input nested deeper than the configured
// ceiling. It guards against unbounded recursion from adversarial keys and
// does not indicate a caller bug.
var ErrMaximumDepthReached = errors.New("maximum depth reached")

// ErrEOFReached reports that a variant tag was required but no pair remained.
var ErrEOFReached = errors.New("eof reached")

// ErrNoValue is returned when a requested value does not exist, for example
// a variant payload on a bare tag.
var ErrNoValue = errors.New("no value")

// ErrNotSupported is returned when a value can not be represented as the
// requested type.
var ErrNotSupported = errors.New("not supported")

type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("type %q is not supported", n.Type)
}
