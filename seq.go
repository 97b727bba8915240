package querystring

import "golang.org/x/exp/constraints"

type itemKind int

const (
	itemScalar itemKind = iota
	itemNode
)

// A seqItem is one already-resolved sequence element: either a scalar byte
// range or an owned child node, tagged by kind.
type seqItem struct {
	kind   itemKind
	sort   int
	scalar []byte
	node   *pairMap
}

// A pairSeq is the ordered sequence form of a consumed pairMap. Items are
// held in final emission order.
type pairSeq struct {
	items []seqItem
}

// next removes and returns the next element in emission order.
func (s *pairSeq) next() (value, bool) {
	if len(s.items) == 0 {
		return value{}, false
	}

	it := s.items[0]
	s.items = s.items[1:]

	if it.kind == itemNode {
		return nodeValue(it.node), true
	}
	return scalarValue(it.scalar), true
}

// sortIndex derives the sequence sort key for key: a bounded non-negative
// index when the key parses as one, else the -1 sentinel that orders the
// item ahead of all explicitly indexed ones.
func sortIndex(key []byte) int {
	if n, ok := parseIndex[uint16](key); ok {
		return int(n)
	}
	return -1
}

// parseIndex parses b as a base-10 index within the range of T. It reads
// raw digits only; escapes are never resolved for ordering.
func parseIndex[T constraints.Unsigned](b []byte) (T, bool) {
	if len(b) == 0 {
		return 0, false
	}

	maxValue := ^T(0)

	var n T
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		d := T(c - '0')
		if n > (maxValue-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}
