package querystring

import (
	"bytes"
	"slices"
)

// A pairMap is one nesting level of the reconstructed structure. It owns a
// queue of pairs for its own level and a stash of pairs deferred to deeper
// levels, and it is consumed exactly once: either drained key by key, or
// converted wholesale into a pairSeq.
type pairMap struct {
	// root nodes still carry the leading path segment on every key and
	// split at the first '['; child nodes see segment-stripped keys and
	// follow the "<segment> ']' [ '[' <rest> ]" grammar.
	root bool

	// level-local queue, drained from the front
	pairs []pair

	// single-slot buffer pairing each terminal key with the value request
	// that must follow it
	pending    []byte
	hasPending bool

	stash stash
}

func newPairMap(depth int, pairs []pair) *pairMap {
	return &pairMap{pairs: pairs, stash: stash{remainingDepth: depth}}
}

func newRootMap(depth int) *pairMap {
	return &pairMap{root: true, stash: stash{remainingDepth: depth}}
}

func withOnePair(depth int, p pair) *pairMap {
	return newPairMap(depth, []pair{p})
}

func (m *pairMap) push(p pair) {
	m.pairs = append(m.pairs, p)
}

func (m *pairMap) setPending(v []byte) {
	m.pending = v
	m.hasPending = true
}

// parsePair classifies one pair against this level: it either yields a
// terminal key (buffering the value as pending), defers the pair into the
// stash for the next level, or rejects the key.
func (m *pairMap) parsePair(p pair) ([]byte, bool, error) {
	if m.root {
		i := bytes.IndexByte(p.key, '[')
		if i < 0 {
			m.setPending(p.value)
			return p.key, true, nil
		}
		// anything malformed after the opener surfaces when the child
		// level parses the remainder
		m.stash.add(p.key[:i], p.key[i+1:], p.value)
		return nil, false, nil
	}

	i := bytes.IndexByte(p.key, ']')
	if i < 0 {
		return nil, false, ErrInvalidMapKey
	}

	switch {
	case len(p.key) == i+1:
		// nothing after ']': the path terminates at this level
		m.setPending(p.value)
		return p.key[:i], true, nil

	case len(p.key) > i+2 && p.key[i+1] == '[':
		m.stash.add(p.key[:i], p.key[i+2:], p.value)
		return nil, false, nil

	default:
		// keys like "a]c=2" or "a][=2" are invalid
		return nil, false, ErrInvalidMapKey
	}
}

// nextKey drains the level-local queue until a terminal key is produced or
// the queue is exhausted. Pairs destined deeper move into the stash on the
// way.
func (m *pairMap) nextKey() ([]byte, bool, error) {
	for len(m.pairs) > 0 {
		p := m.pairs[0]
		m.pairs = m.pairs[1:]

		key, ok, err := m.parsePair(p)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return key, true, nil
		}
	}
	return nil, false, nil
}

// nextValue takes the value buffered by the last terminal key.
func (m *pairMap) nextValue() ([]byte, error) {
	if !m.hasPending {
		return nil, ErrInvalidMapValue
	}
	v := m.pending
	m.pending, m.hasPending = nil, false
	return v, nil
}

// nextMapKey yields the next map key at this level: terminal keys from the
// queue first, then unresolved group names from the stash. ok is false only
// once both sources are exhausted.
func (m *pairMap) nextMapKey() ([]byte, bool, error) {
	if m.stash.remainingDepth == 0 {
		return nil, false, ErrMaximumDepthReached
	}

	key, ok, err := m.nextKey()
	if err != nil || ok {
		return key, ok, err
	}

	key, ok = m.stash.nextKey()
	return key, ok, nil
}

// nextMapValue resolves the value for the key just yielded by nextMapKey:
// the pending scalar if one is buffered, otherwise the child node rebuilt
// from the matching stash group.
func (m *pairMap) nextMapValue() (value, error) {
	if v, err := m.nextValue(); err == nil {
		return scalarValue(v), nil
	}

	child, err := m.stash.nextValueMap()
	if err != nil {
		return value{}, err
	}
	return nodeValue(child), nil
}

// variantTag resolves the single mandatory variant tag. It follows the map
// key logic but insists that a tag exists.
func (m *pairMap) variantTag() ([]byte, error) {
	if m.stash.remainingDepth == 0 {
		return nil, ErrMaximumDepthReached
	}

	key, ok, err := m.nextKey()
	if err != nil {
		return nil, err
	}
	if ok {
		return key, nil
	}

	if key, ok = m.stash.nextKey(); ok {
		return key, nil
	}
	return nil, ErrEOFReached
}

// intoSeq consumes the node into an ordered sequence. Terminal pairs come
// first, then the stash groups; every item carries a sort key parsed from
// its key as a bounded index, or the -1 sentinel when the key is not one.
// Emission order is ascending by sort key, ties keeping discovery order,
// so sentinel items precede every explicitly indexed one.
func (m *pairMap) intoSeq() (*pairSeq, error) {
	var items []seqItem

	for {
		key, ok, err := m.nextKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		v, err := m.nextValue()
		if err != nil {
			return nil, err
		}
		items = append(items, seqItem{kind: itemScalar, sort: sortIndex(key), scalar: v})
	}

	for {
		key, ok := m.stash.nextKey()
		if !ok {
			break
		}

		child, err := m.stash.nextValueMap()
		if err != nil {
			return nil, err
		}

		if len(key) == 0 {
			// grouping is not preserved for empty group names; every pair
			// becomes its own single-pair node
			for len(child.pairs) > 0 {
				p := child.pairs[0]
				child.pairs = child.pairs[1:]
				items = append(items, seqItem{kind: itemNode, sort: -1, node: withOnePair(m.stash.remainingDepth-1, p)})
			}
		} else {
			items = append(items, seqItem{kind: itemNode, sort: sortIndex(key), node: child})
		}
	}

	slices.SortStableFunc(items, func(a, b seqItem) int {
		return a.sort - b.sort
	})

	return &pairSeq{items: items}, nil
}
