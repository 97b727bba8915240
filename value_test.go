package querystring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnescapePassthrough(t *testing.T) {
	in := []byte("plain-value_123")
	out := unescape(in)

	// escape free input comes back as the very same range, not a copy
	require.Same(t, &in[0], &out[0])
	require.Equal(t, "plain-value_123", string(out))
}

func TestUnescapeKnownEscapes(t *testing.T) {
	cases := map[string]string{
		`Sven\sthe\sGreat`: "Sven the Great",
		`a\pb`:             "a|b",
		`back\\slash`:      `back\slash`,
		`slash\/end`:       "slash/end",
		`line\nbreak`:      "line\nbreak",
		`tab\there`:        "tab\there",
		`\a\b\f\r\v`:       "\a\b\f\r\v",
	}

	for in, want := range cases {
		require.Equal(t, want, string(unescape([]byte(in))), "input %q", in)
	}
}

func TestUnescapeLenient(t *testing.T) {
	// unknown escapes keep the escaped byte, a trailing backslash stays
	require.Equal(t, "xqx", string(unescape([]byte(`x\qx`))))
	require.Equal(t, `end\`, string(unescape([]byte(`end\`))))
}

func TestUnescapeDoesNotMutateInput(t *testing.T) {
	in := []byte(`a\sb`)
	_ = unescape(in)
	require.Equal(t, `a\sb`, string(in))
}

func TestScalarParsing(t *testing.T) {
	v, err := scalarValue([]byte("42")).int64(8)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	u, err := scalarValue([]byte("255")).uint64(8)
	require.NoError(t, err)
	require.Equal(t, uint64(255), u)

	f, err := scalarValue([]byte("1.76")).float64(32)
	require.NoError(t, err)
	require.InDelta(t, 1.76, f, 0.001)

	b, err := scalarValue([]byte("true")).boolean()
	require.NoError(t, err)
	require.True(t, b)

	s, err := scalarValue([]byte(`Z\srich`)).str()
	require.NoError(t, err)
	require.Equal(t, "Z rich", s)
}

func TestScalarSyntaxErrors(t *testing.T) {
	// syntax failures surface as ErrNotSupported, range failures do not
	for _, bad := range []string{"foobar", "", "1e4"} {
		_, err := scalarValue([]byte(bad)).int64(64)
		require.ErrorIs(t, err, ErrNotSupported, "input %q", bad)
	}

	_, err := scalarValue([]byte("128")).int64(8)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotSupported)
}

func TestNodeIsNoScalar(t *testing.T) {
	v := nodeValue(newPairMap(8, nil))

	_, err := v.str()
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = v.int64(64)
	require.ErrorIs(t, err, ErrNotSupported)
}
