package sheet

import (
	"fmt"

	"cogentcore.org/core/base/keylist"
)

// FieldDescriptor describes one schema field.
type FieldDescriptor struct {
	// Name is the column the field is read from.
	Name string
	// Shape selects the cell grammar.
	Shape Shape
	// Elem names the element type of scalar and list fields.
	Elem string
	// Key and Value name the key and value types of map and pair fields.
	Key   string
	Value string
	// Ignore leaves the field at its zero value whatever the row holds.
	Ignore bool
}

func (d FieldDescriptor) String() string {
	var typ string
	switch d.Shape {
	case ShapeScalar:
		typ = d.Elem
	case ShapeList:
		typ = "[]" + d.Elem
	case ShapeMap:
		typ = fmt.Sprintf("map[%s]%s", d.Key, d.Value)
	case ShapePair:
		typ = fmt.Sprintf("pair[%s,%s]", d.Key, d.Value)
	}
	if d.Ignore {
		return d.Name + " " + typ + " (ignored)"
	}
	return d.Name + " " + typ
}

// Field binds a column of a row to a field of record type R.
type Field[R any] struct {
	FieldDescriptor
	bind func(rec *R, text string) error
}

// Ignored returns a copy of f that is never populated from input.
func (f Field[R]) Ignored() Field[R] {
	f.Ignore = true
	return f
}

func mustAccessor(ctor string, isNil bool) {
	if isNil {
		panic(fmt.Sprintf("sheet.%s: nil accessor", ctor))
	}
}

// Scalar declares a field parsed with the scalar grammar into T.
// A Pair target still uses the pair grammar.
func Scalar[R, T any](name string, get func(*R) *T) Field[R] {
	mustAccessor("Scalar", get == nil)
	return Field[R]{
		FieldDescriptor: FieldDescriptor{Name: name, Shape: ShapeScalar, Elem: TypeName[T]()},
		bind: func(rec *R, text string) error {
			v, err := ParseScalar[T](text)
			if err != nil {
				return err
			}
			*get(rec) = v
			return nil
		},
	}
}

// List declares a field parsed with the list grammar into []T.
func List[R, T any](name string, get func(*R) *[]T) Field[R] {
	mustAccessor("List", get == nil)
	return Field[R]{
		FieldDescriptor: FieldDescriptor{Name: name, Shape: ShapeList, Elem: TypeName[T]()},
		bind: func(rec *R, text string) error {
			v, err := ParseList[T](text)
			if err != nil {
				return err
			}
			*get(rec) = v
			return nil
		},
	}
}

// Map declares a field parsed with the map grammar into map[K]V.
func Map[R any, K comparable, V any](name string, get func(*R) *map[K]V) Field[R] {
	mustAccessor("Map", get == nil)
	return Field[R]{
		FieldDescriptor: FieldDescriptor{Name: name, Shape: ShapeMap, Key: TypeName[K](), Value: TypeName[V]()},
		bind: func(rec *R, text string) error {
			v, err := ParseMap[K, V](text)
			if err != nil {
				return err
			}
			*get(rec) = v
			return nil
		},
	}
}

// OrderedMap declares a map field that keeps entry order.
func OrderedMap[R any, K comparable, V any](name string, get func(*R) **keylist.List[K, V]) Field[R] {
	mustAccessor("OrderedMap", get == nil)
	return Field[R]{
		FieldDescriptor: FieldDescriptor{Name: name, Shape: ShapeMap, Key: TypeName[K](), Value: TypeName[V]()},
		bind: func(rec *R, text string) error {
			v, err := ParseOrderedMap[K, V](text)
			if err != nil {
				return err
			}
			*get(rec) = v
			return nil
		},
	}
}

// PairField declares a field parsed with the pair grammar.
func PairField[R, K, V any](name string, get func(*R) *Pair[K, V]) Field[R] {
	mustAccessor("PairField", get == nil)
	return Field[R]{
		FieldDescriptor: FieldDescriptor{Name: name, Shape: ShapePair, Key: TypeName[K](), Value: TypeName[V]()},
		bind: func(rec *R, text string) error {
			v, err := ParsePair[K, V](text)
			if err != nil {
				return err
			}
			*get(rec) = v
			return nil
		},
	}
}

// Schema is the ordered, read-only list of fields of record type R.
type Schema[R any] struct {
	record string
	fields []Field[R]
}

// NewSchema builds a schema. Field names must be non-empty and unique.
func NewSchema[R any](fields ...Field[R]) (*Schema[R], error) {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.bind == nil {
			return nil, fmt.Errorf("field %d: not declared with a field constructor", i)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: empty name", i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("field %q: %w", f.Name, ErrDuplicateField)
		}
		seen[f.Name] = true
	}

	return &Schema[R]{
		record: TypeName[R](),
		fields: append([]Field[R](nil), fields...),
	}, nil
}

// MustSchema is NewSchema that panics on error, for package-level schemas.
func MustSchema[R any](fields ...Field[R]) *Schema[R] {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(fmt.Sprintf("sheet.MustSchema: %v", err))
	}
	return s
}

// Record names the record type.
func (s *Schema[R]) Record() string {
	return s.record
}

// Fields returns the field descriptors in schema order.
func (s *Schema[R]) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.FieldDescriptor
	}
	return out
}

// Field returns the descriptor of the named field.
func (s *Schema[R]) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.FieldDescriptor, true
		}
	}
	return FieldDescriptor{}, false
}
