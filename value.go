package querystring

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// A value is the single decodable unit handed to setters: either a raw
// scalar byte range or an owned nested node. Exactly one of the two shapes
// is populated.
type value struct {
	scalar []byte
	node   *pairMap
}

func scalarValue(b []byte) value {
	return value{scalar: b}
}

func nodeValue(m *pairMap) value {
	return value{node: m}
}

// str returns the scalar with escapes resolved.
// Returns ErrNotSupported on nested nodes.
func (v value) str() (string, error) {
	if v.node != nil {
		return "", ErrNotSupported
	}
	return string(unescape(v.scalar)), nil
}

func (v value) boolean() (bool, error) {
	s, err := v.str()
	if err != nil {
		return false, err
	}
	parsed, err := strconv.ParseBool(s)
	return handleSyntaxErr(s, parsed, err)
}

func (v value) int64(bits int) (int64, error) {
	s, err := v.str()
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.ParseInt(s, 10, bits)
	return handleSyntaxErr(s, parsed, err)
}

func (v value) uint64(bits int) (uint64, error) {
	s, err := v.str()
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.ParseUint(s, 10, bits)
	return handleSyntaxErr(s, parsed, err)
}

func (v value) float64(bits int) (float64, error) {
	s, err := v.str()
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.ParseFloat(s, bits)
	return handleSyntaxErr(s, parsed, err)
}

func handleSyntaxErr[T any](inputValue string, parsed T, err error) (T, error) {
	var zeroValue T
	if errors.Is(err, strconv.ErrSyntax) {
		err := fmt.Errorf("parse %q: %w", inputValue, err)
		return zeroValue, errors.Join(err, ErrNotSupported)
	}

	if err != nil {
		return zeroValue, err
	}

	return parsed, nil
}

// unescape resolves the TeamSpeak escape set in b. Escape-free input is
// returned as the original sub-slice; otherwise a fresh buffer is built,
// leaving the input untouched. Unknown escapes keep the escaped byte.
func unescape(b []byte) []byte {
	i := bytes.IndexByte(b, '\\')
	if i < 0 {
		return b
	}

	out := make([]byte, 0, len(b))
	out = append(out, b[:i]...)

	for ; i < len(b); i++ {
		c := b[i]
		if c != '\\' || i+1 == len(b) {
			out = append(out, c)
			continue
		}

		i++
		switch b[i] {
		case 's':
			out = append(out, ' ')
		case 'p':
			out = append(out, '|')
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		default:
			// '\\', '/' and anything unknown resolve to the byte itself
			out = append(out, b[i])
		}
	}

	return out
}
