package querystring

import (
	"reflect"
	"strings"
)

// A field is one decodable struct field, addressed by its wire name and its
// index path through embedded structs.
type field struct {
	Name  string
	Type  reflect.Type
	Index []int
}

// fieldName resolves the wire name of fi from the struct tag. An empty name
// marks the field as skipped.
func fieldName(fi reflect.StructField, structTag string) (name string, explicit bool) {
	tag := fi.Tag.Get(structTag)

	if tag == "" {
		// tag is empty, take the original name
		return fi.Name, false
	}

	if tag == "-" {
		// skip this field
		return "", true
	}

	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}

	if tag == "" {
		// no alias before the comma, keep the field name
		return fi.Name, false
	}

	return tag, true
}

// fieldsToSerialize walks ty breadth first, descending into embedded
// structs, and resolves which field owns each wire name: the shallowest
// field wins, an explicitly tagged one breaks ties, and names that stay
// ambiguous are dropped without error.
func fieldsToSerialize(ty reflect.Type, structTag string) []field {
	if ty.Kind() != reflect.Struct {
		panic("not a struct")
	}

	type queued struct {
		ty          reflect.Type
		parentIndex []int
	}

	type candidate struct {
		explicit bool
		field    field
	}

	queue := []queued{{ty: ty}}

	candidates := map[string][]candidate{}

	var order []string

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for idx := 0; idx < item.ty.NumField(); idx++ {
			fi := item.ty.Field(idx)
			if !fi.IsExported() {
				continue
			}

			name, explicit := fieldName(fi, structTag)
			if name == "" {
				continue
			}

			// force a fresh backing array so sibling branches do not
			// share the parent's index slice
			parent := item.parentIndex
			index := append(parent[:len(parent):len(parent)], fi.Index...)

			if fi.Anonymous && !explicit {
				// embedded field without an explicit name. descend if it
				// is a struct, ignore otherwise
				if fi.Type.Kind() != reflect.Struct {
					continue
				}

				queue = append(queue, queued{fi.Type, index})
				continue
			}

			if len(candidates[name]) == 0 {
				order = append(order, name)
			}

			candidates[name] = append(candidates[name], candidate{
				explicit: explicit,
				field:    field{Name: name, Index: index, Type: fi.Type},
			})
		}
	}

	var fields []field

	for _, name := range order {
		named := candidates[name]

		// the bfs walk emits candidates shallowest first; only the
		// shallowest ones compete for the name
		depth := len(named[0].field.Index)

		visible := named
		for i, c := range named {
			if len(c.field.Index) > depth {
				visible = named[:i]
				break
			}
		}

		if len(visible) == 1 {
			fields = append(fields, visible[0].field)
			continue
		}

		var explicit []candidate
		for _, c := range visible {
			if c.explicit {
				explicit = append(explicit, c)
			}
		}

		if len(explicit) == 1 {
			fields = append(fields, explicit[0].field)
			continue
		}

		// no single winner; the name is ignored rather than an error
	}

	return fields
}
