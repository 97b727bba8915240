package querystring

import "bytes"

// A stash buffers pairs destined for deeper nesting levels, grouped by the
// name of their next path segment, and rebuilds them into child nodes on
// demand. It is the only place the depth ceiling is consumed: every child
// node it constructs carries exactly one level less than its owner.
type stash struct {
	remainingDepth int
	groups         []group
}

type group struct {
	key   []byte
	pairs []pair
}

// add registers a deferred pair under its next segment name. key and value
// are the segment-stripped remainder destined for the child level.
func (s *stash) add(segment, key, value []byte) {
	for i := range s.groups {
		if bytes.Equal(s.groups[i].key, segment) {
			s.groups[i].pairs = append(s.groups[i].pairs, pair{key: key, value: value})
			return
		}
	}
	s.groups = append(s.groups, group{key: segment, pairs: []pair{{key: key, value: value}}})
}

// nextKey returns the name of the next unresolved group, if any. The group
// stays put until nextValueMap claims it.
func (s *stash) nextKey() ([]byte, bool) {
	if len(s.groups) == 0 {
		return nil, false
	}
	return s.groups[0].key, true
}

// nextValueMap removes the next group and rebuilds it into a child node one
// level deeper. Needing to descend with no depth left is what bounds
// adversarially nested keys.
func (s *stash) nextValueMap() (*pairMap, error) {
	if s.remainingDepth == 0 {
		return nil, ErrMaximumDepthReached
	}
	if len(s.groups) == 0 {
		return nil, ErrInvalidMapValue
	}

	g := s.groups[0]
	s.groups = s.groups[1:]
	return newPairMap(s.remainingDepth-1, g.pairs), nil
}
