package querystring

import "reflect"

// VariantUnmarshaler is implemented by types that are encoded as a single
// variant tag with an optional payload, for example "theme=dark" for a bare
// tag or "theme[rgb][r]=255" for a tag carrying structured data. The
// decoder resolves exactly one tag per value; an empty value fails with
// ErrEOFReached.
type VariantUnmarshaler interface {
	UnmarshalVariant(tag string, payload *Variant) error
}

// A Variant carries the payload attached to a variant tag. What shape it
// decodes as is chosen by the target handed to Decode: a scalar target for
// single-value payloads, a slice for ordered payloads, a struct or map for
// keyed payloads. Tags without payload simply never call Decode.
type Variant struct {
	dec        *Decoder
	payload    value
	hasPayload bool
}

// Decode decodes the variant payload into target, which must be a non-nil
// pointer. It returns ErrNoValue when the variant carries no payload.
func (v *Variant) Decode(target any) error {
	if !v.hasPayload {
		return ErrNoValue
	}

	targetValue := reflect.ValueOf(target).Elem()

	setter, err := v.dec.setterOf(typeSet{}, targetValue.Type())
	if err != nil {
		return err
	}

	return setter(v.payload, targetValue)
}

// setVariant resolves the mandatory tag, then attaches the payload: the
// pending scalar when the tag was terminal, else the child node rebuilt
// from the stash. A scalar source is the bare tag form and never carries a
// payload.
func (d *Decoder) setVariant(v value, target reflect.Value) error {
	u := target.Addr().Interface().(VariantUnmarshaler)

	if v.node == nil {
		tag, err := v.str()
		if err != nil {
			return err
		}
		return u.UnmarshalVariant(tag, &Variant{dec: d})
	}

	tag, err := v.node.variantTag()
	if err != nil {
		return err
	}

	variant := Variant{dec: d}
	if payload, err := v.node.nextValue(); err == nil {
		variant.payload, variant.hasPayload = scalarValue(payload), true
	} else if child, err := v.node.stash.nextValueMap(); err == nil {
		variant.payload, variant.hasPayload = nodeValue(child), true
	}

	return u.UnmarshalVariant(string(unescape(tag)), &variant)
}
