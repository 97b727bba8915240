package querystring

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"
)

// DefaultMaxDepth bounds key nesting when a Decoder does not override it.
const DefaultMaxDepth = 32

// Unmarshal decodes a querystring payload into the value pointed to by
// target using the default Decoder.
func Unmarshal(data []byte, target any) error {
	return defaultDecoder.Unmarshal(data, target)
}

// UnmarshalNew decodes a querystring payload into a fresh T.
func UnmarshalNew[T any](data []byte) (T, error) {
	return UnmarshalNewWith[T](&defaultDecoder, data)
}

func UnmarshalNewWith[T any](dec *Decoder, data []byte) (T, error) {
	var target T
	err := dec.Unmarshal(data, &target)
	return target, err
}

// A setter sets the reflect.Value to a value extracted from the given value
type setter func(value, reflect.Value) error

// A set of types that are currently in construction
type typeSet map[reflect.Type]struct{}

var tyTextUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
var tyVariantUnmarshaler = reflect.TypeOf((*VariantUnmarshaler)(nil)).Elem()

// The default Decoder instance.
var defaultDecoder Decoder

// Decoder can be used to customize unmarshalling. This type is typesafe.
type Decoder struct {
	// the struct tag that is used
	structTag string

	// nesting ceiling; DefaultMaxDepth when zero
	maxDepth int

	// Cache for setters, indexed by reflect.Type
	setterCache sync.Map
}

func NewDecoder() *Decoder {
	return &Decoder{
		structTag: "json",
	}
}

func (d *Decoder) WithTag(structTag string) *Decoder {
	if d.structTag == structTag {
		return d
	}

	return &Decoder{
		structTag: structTag,
		maxDepth:  d.maxDepth,
	}
}

// WithMaxDepth returns a Decoder that refuses keys nested deeper than depth
// levels, failing with ErrMaximumDepthReached.
func (d *Decoder) WithMaxDepth(depth int) *Decoder {
	if d.maxDepth == depth {
		return d
	}

	return &Decoder{
		structTag: d.structTag,
		maxDepth:  depth,
	}
}

func (d *Decoder) Unmarshal(data []byte, target any) error {
	targetValue := reflect.ValueOf(target).Elem()

	// build the setter for the targets type
	setter, err := d.setterOf(typeSet{}, targetValue.Type())
	if err != nil {
		return err
	}

	depth := d.maxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}

	return setter(nodeValue(parseQuery(data, depth)), targetValue)
}

func (d *Decoder) setterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if cached, ok := d.setterCache.Load(ty); ok {
		return cached.(setter), nil
	}

	if _, ok := inConstruction[ty]; ok {
		// detected a cycle. return a setter that does a cache lookup when executed.
		// we assume that the actual setter will be in the cache once this setter is executed.
		lazySetter := func(v value, target reflect.Value) error {
			cached, _ := d.setterCache.Load(ty)
			return cached.(setter)(v, target)
		}

		return lazySetter, nil
	}

	inConstruction[ty] = struct{}{}

	setter, err := d.makeSetterOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	d.setterCache.Store(ty, setter)

	return setter, nil
}

func (d *Decoder) makeSetterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if reflect.PointerTo(ty).Implements(tyVariantUnmarshaler) {
		return d.setVariant, nil
	}

	if reflect.PointerTo(ty).Implements(tyTextUnmarshaler) {
		return setTextUnmarshaler, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return setBool, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return makeSetInt(ty.Bits()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return makeSetUint(ty.Bits()), nil

	case reflect.Float32, reflect.Float64:
		return makeSetFloat(ty.Bits()), nil

	case reflect.String:
		return setString, nil

	case reflect.Pointer:
		return d.makeSetPointer(inConstruction, ty)

	case reflect.Struct:
		return d.makeSetStruct(inConstruction, ty)

	case reflect.Slice:
		return d.makeSetSlice(inConstruction, ty)

	case reflect.Array:
		return d.makeSetArray(inConstruction, ty)

	case reflect.Map:
		return d.makeSetMap(inConstruction, ty)

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

func (d *Decoder) makeSetStruct(inConstruction typeSet, ty reflect.Type) (setter, error) {
	structTag := d.structTag
	if structTag == "" {
		structTag = "json"
	}

	fields := fieldsToSerialize(ty, structTag)

	setters := make([]setter, len(fields))
	byName := make(map[string]int, len(fields))

	for idx, field := range fields {
		de, err := d.setterOf(inConstruction, field.Type)
		if err != nil {
			return nil, fmt.Errorf("setter for field %q: %w", field.Name, err)
		}

		setters[idx] = de
		byName[field.Name] = idx
	}

	setter := func(v value, target reflect.Value) error {
		node := v.node
		if node == nil {
			return ErrNotSupported
		}

		for {
			key, ok, err := node.nextMapKey()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			// the value must be consumed even when no field matches the
			// key, to keep the key/value protocol paired up
			fieldSource, err := node.nextMapValue()
			if err != nil {
				return err
			}

			name := string(unescape(key))
			idx, known := byName[name]
			if !known {
				continue
			}

			fieldValue := target.FieldByIndex(fields[idx].Index)
			if err := setters[idx](fieldSource, fieldValue); err != nil {
				return fmt.Errorf("set field %q on %q: %w", name, target.Type(), err)
			}
		}
	}

	return setter, nil
}

func (d *Decoder) makeSetMap(inConstruction typeSet, ty reflect.Type) (setter, error) {
	keySetter, err := d.setterOf(inConstruction, ty.Key())
	if err != nil {
		return nil, fmt.Errorf("setter for key type %q: %w", ty, err)
	}

	valueSetter, err := d.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for value type %q: %w", ty, err)
	}

	keyType := ty.Key()
	valueType := ty.Elem()

	setter := func(v value, target reflect.Value) error {
		node := v.node
		if node == nil {
			return ErrNotSupported
		}

		mapTarget := reflect.MakeMap(ty)

		for {
			key, ok, err := node.nextMapKey()
			if err != nil {
				return err
			}
			if !ok {
				break
			}

			valueSource, err := node.nextMapValue()
			if err != nil {
				return err
			}

			keyTarget := reflect.New(keyType).Elem()
			if err := keySetter(scalarValue(key), keyTarget); err != nil {
				return fmt.Errorf("set key: %w", err)
			}

			valueTarget := reflect.New(valueType).Elem()
			if err := valueSetter(valueSource, valueTarget); err != nil {
				return fmt.Errorf("set value: %w", err)
			}

			mapTarget.SetMapIndex(keyTarget, valueTarget)
		}

		target.Set(mapTarget)

		return nil
	}

	return setter, nil
}

func (d *Decoder) makeSetSlice(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := d.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// a empty element
	placeholderValue := reflect.New(ty.Elem()).Elem()

	setter := func(v value, target reflect.Value) error {
		if v.node == nil {
			// a bare scalar promotes to a one element sequence
			target.Set(reflect.Append(target, placeholderValue))
			if err := elementSetter(v, target.Index(target.Len()-1)); err != nil {
				return fmt.Errorf("set element idx=0: %w", err)
			}
			return nil
		}

		seq, err := v.node.intoSeq()
		if err != nil {
			return err
		}

		for {
			elementSource, ok := seq.next()
			if !ok {
				return nil
			}

			// add an empty element to grow the list
			target.Set(reflect.Append(target, placeholderValue))

			idx := target.Len() - 1
			if err := elementSetter(elementSource, target.Index(idx)); err != nil {
				return fmt.Errorf("set element idx=%d: %w", idx, err)
			}
		}
	}

	return setter, nil
}

func (d *Decoder) makeSetArray(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := d.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// number of elements in the array
	elementCount := ty.Len()

	setter := func(v value, target reflect.Value) error {
		if v.node == nil {
			if elementCount == 0 {
				return nil
			}
			if err := elementSetter(v, target.Index(0)); err != nil {
				return fmt.Errorf("set element idx=0: %w", err)
			}
			return nil
		}

		seq, err := v.node.intoSeq()
		if err != nil {
			return err
		}

		for idx := 0; idx < elementCount; idx++ {
			elementSource, ok := seq.next()
			if !ok {
				break
			}

			if err := elementSetter(elementSource, target.Index(idx)); err != nil {
				return fmt.Errorf("set element idx=%d: %w", idx, err)
			}
		}

		return nil
	}

	return setter, nil
}

func (d *Decoder) makeSetPointer(inConstruction typeSet, ty reflect.Type) (setter, error) {
	pointeeType := ty.Elem()

	pointeeSetter, err := d.setterOf(inConstruction, pointeeType)
	if err != nil {
		return nil, err
	}

	setter := func(v value, target reflect.Value) error {
		// a node with an empty level-local queue is an absent optional;
		// the pointer stays nil
		if v.node != nil && len(v.node.pairs) == 0 {
			return nil
		}

		// newValue is now a pointer to an instance of the pointeeType
		newValue := reflect.New(pointeeType)
		if err := pointeeSetter(v, newValue.Elem()); err != nil {
			return err
		}

		// set pointer to the new value
		target.Set(newValue)

		return nil
	}

	return setter, err
}

func setBool(v value, target reflect.Value) error {
	boolValue, err := v.boolean()
	if err != nil {
		return fmt.Errorf("get bool value: %w", err)
	}

	target.SetBool(boolValue)
	return nil
}

func makeSetInt(bits int) setter {
	return func(v value, target reflect.Value) error {
		intValue, err := v.int64(bits)
		if err != nil {
			return fmt.Errorf("get int%d value: %w", bits, err)
		}

		target.SetInt(intValue)
		return nil
	}
}

func makeSetUint(bits int) setter {
	return func(v value, target reflect.Value) error {
		uintValue, err := v.uint64(bits)
		if err != nil {
			return fmt.Errorf("get uint%d value: %w", bits, err)
		}

		target.SetUint(uintValue)
		return nil
	}
}

func makeSetFloat(bits int) setter {
	return func(v value, target reflect.Value) error {
		floatValue, err := v.float64(bits)
		if err != nil {
			return fmt.Errorf("get float%d value: %w", bits, err)
		}

		target.SetFloat(floatValue)
		return nil
	}
}

func setString(v value, target reflect.Value) error {
	stringValue, err := v.str()
	if err != nil {
		return fmt.Errorf("get string value: %w", err)
	}

	target.SetString(stringValue)

	return nil
}

func setTextUnmarshaler(v value, target reflect.Value) error {
	text, err := v.str()
	if err != nil {
		return fmt.Errorf("get string value: %w", err)
	}

	m := target.Addr().Interface().(encoding.TextUnmarshaler)
	return m.UnmarshalText([]byte(text))
}
