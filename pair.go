package querystring

import "bytes"

// A pair is one raw key/value entry of the wire payload. Both ranges are
// sub-slices of the one input buffer; the key holds the remaining bracket
// path from the owning node's level downward.
type pair struct {
	key   []byte
	value []byte
}

// parseQuery splits the raw payload into its entries and queues them on a
// fresh root node. Entries are separated by spaces; each entry splits at
// the first '=' into key and raw value, a bare key carrying an empty value.
// No bytes are copied and no escapes are resolved here; unescaping happens
// at the scalar leaf.
func parseQuery(data []byte, depth int) *pairMap {
	root := newRootMap(depth)

	for len(data) > 0 {
		entry := data
		if i := bytes.IndexByte(data, ' '); i >= 0 {
			entry, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		if len(entry) == 0 {
			continue
		}

		p := pair{key: entry, value: entry[len(entry):]}
		if i := bytes.IndexByte(entry, '='); i >= 0 {
			p.key, p.value = entry[:i], entry[i+1:]
		}
		root.push(p)
	}

	return root
}
