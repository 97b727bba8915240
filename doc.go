// Package querystring decodes TeamSpeak flavored querystrings into Go
// values, similar to [encoding/json] but for the flat key/value wire format
// used by server query interfaces.
//
// A payload is a space separated list of key=value entries whose keys
// encode nested structure with bracket notation:
//
//	name=Albert address[city]=Z\srich tags[0]=a tags[1]=b
//
// [Unmarshal] reconstructs that structure onto the target type:
//
//   - Struct and map targets consume key/value entries; bracketed keys
//     descend into nested targets.
//   - Slice and array targets reconstruct ordering from integer indexed
//     keys, so "tags[1]=b tags[0]=a" yields [a b]. Keys that are not
//     bounded non-negative integers sort ahead of all indexed ones.
//   - Pointer targets are optionals: they stay nil when no entry reaches
//     their level.
//   - Types implementing [VariantUnmarshaler] decode a single tag plus an
//     optional payload, covering enum-like values such as "theme=dark" or
//     "theme[rgb][r]=255".
//   - Scalars parse with [strconv] after resolving the TeamSpeak escape
//     set (\s for space, \p for pipe, \\, \n, \t and friends). Escapes are
//     resolved lazily, so untouched input is never copied.
//
// Nesting depth is bounded: keys nested deeper than the ceiling fail with
// [ErrMaximumDepthReached] instead of growing the call stack on adversarial
// input. The ceiling defaults to [DefaultMaxDepth] and is configurable via
// [Decoder.WithMaxDepth]. Malformed bracket paths fail with
// [ErrInvalidMapKey]. Every failure is terminal for the whole decode; no
// partial result is produced.
//
// Decoding never mutates the input buffer, performs no I/O and keeps no
// state between calls, so the same buffer can be decoded any number of
// times.
package querystring
