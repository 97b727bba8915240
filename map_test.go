package querystring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pairsOf(kv ...string) []pair {
	if len(kv)%2 != 0 {
		panic("pairsOf wants key/value pairs")
	}

	var pairs []pair
	for i := 0; i < len(kv); i += 2 {
		pairs = append(pairs, pair{key: []byte(kv[i]), value: []byte(kv[i+1])})
	}
	return pairs
}

func TestParsePairTerminal(t *testing.T) {
	m := newPairMap(8, pairsOf("a]", "1"))

	key, ok, err := m.nextKey()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", string(key))

	v, err := m.nextValue()
	require.NoError(t, err)
	require.Equal(t, "1", string(v))
}

func TestParsePairMissingClosingBracket(t *testing.T) {
	m := newPairMap(8, pairsOf("abc", "1"))

	_, _, err := m.nextKey()
	require.ErrorIs(t, err, ErrInvalidMapKey)
}

func TestParsePairTrailingContent(t *testing.T) {
	// anything after ']' that is not a fresh opener is invalid, as is an
	// opener with nothing behind it
	for _, key := range []string{"a]c", "a][", "a]]"} {
		m := newPairMap(8, pairsOf(key, "2"))

		_, _, err := m.nextKey()
		require.ErrorIs(t, err, ErrInvalidMapKey, "key %q", key)
	}
}

func TestParsePairDefersNestedKeys(t *testing.T) {
	m := newPairMap(8, pairsOf("a][b]", "1"))

	// the only pair continues deeper, so the level itself has no keys left
	_, ok, err := m.nextKey()
	require.NoError(t, err)
	require.False(t, ok)

	key, ok := m.stash.nextKey()
	require.True(t, ok)
	require.Equal(t, "a", string(key))

	child, err := m.stash.nextValueMap()
	require.NoError(t, err)
	require.Equal(t, 7, child.stash.remainingDepth)

	key, ok, err = child.nextKey()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b", string(key))
}

func TestNextValueWithoutKey(t *testing.T) {
	m := newPairMap(8, pairsOf("a]", "1"))

	_, err := m.nextValue()
	require.ErrorIs(t, err, ErrInvalidMapValue)
}

func TestNextValueTwice(t *testing.T) {
	m := newPairMap(8, pairsOf("a]", "1"))

	_, _, err := m.nextKey()
	require.NoError(t, err)

	_, err = m.nextValue()
	require.NoError(t, err)

	_, err = m.nextValue()
	require.ErrorIs(t, err, ErrInvalidMapValue)
}

func TestNextMapKeyDrainsQueueBeforeStash(t *testing.T) {
	m := newPairMap(8, pairsOf(
		"a][x]", "1",
		"b]", "2",
		"a][y]", "3",
	))

	// terminal keys first, in discovery order
	key, ok, err := m.nextMapKey()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b", string(key))

	v, err := m.nextMapValue()
	require.NoError(t, err)
	require.Nil(t, v.node)
	require.Equal(t, "2", string(v.scalar))

	// then the stashed group, with both deferred pairs regrouped
	key, ok, err = m.nextMapKey()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", string(key))

	v, err = m.nextMapValue()
	require.NoError(t, err)
	require.NotNil(t, v.node)
	require.Len(t, v.node.pairs, 2)

	_, ok, err = m.nextMapKey()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNextMapKeyDepthGuard(t *testing.T) {
	m := newPairMap(0, pairsOf("a]", "1"))

	_, _, err := m.nextMapKey()
	require.ErrorIs(t, err, ErrMaximumDepthReached)
}

func TestStashDescentConsumesDepth(t *testing.T) {
	m := newPairMap(1, pairsOf("a][b]", "1"))

	key, ok, err := m.nextMapKey()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", string(key))

	v, err := m.nextMapValue()
	require.NoError(t, err)
	require.NotNil(t, v.node)
	require.Equal(t, 0, v.node.stash.remainingDepth)

	// the child itself has no depth left to resolve keys
	_, _, err = v.node.nextMapKey()
	require.ErrorIs(t, err, ErrMaximumDepthReached)
}

func TestVariantTag(t *testing.T) {
	m := newPairMap(8, pairsOf("dark]", ""))

	tag, err := m.variantTag()
	require.NoError(t, err)
	require.Equal(t, "dark", string(tag))
}

func TestVariantTagEOF(t *testing.T) {
	m := newPairMap(8, nil)

	_, err := m.variantTag()
	require.ErrorIs(t, err, ErrEOFReached)
}
