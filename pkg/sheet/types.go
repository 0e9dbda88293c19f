package sheet

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pair is a key and a value read from a single cell such as "1,2" or "a=1".
// A Pair target is always parsed with the pair grammar, whatever the shape
// of the field that contains it.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// UnmarshalToken implements TokenUnmarshaler.
func (p *Pair[K, V]) UnmarshalToken(token string) error {
	v, err := ParsePair[K, V](token)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Pair[K, V]) String() string {
	return fmt.Sprintf("(%v, %v)", p.Key, p.Value)
}

// Nullable holds a value that may be absent. An empty token decodes to the
// absent value; anything else must convert to T.
type Nullable[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Nullable.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (n Nullable[T]) Get() (T, bool) {
	return n.Value, n.Valid
}

// UnmarshalToken implements TokenUnmarshaler.
func (n *Nullable[T]) UnmarshalToken(token string) error {
	if strings.TrimSpace(token) == "" {
		*n = Nullable[T]{}
		return nil
	}
	v, err := Coerce[T](token)
	if err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// MarshalJSON encodes an absent value as null.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Integer is the set of underlying types an enumeration may have.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Enum holds the declared constant names of an enumerated type. Parsing is
// an exact, case-sensitive name match.
//
// Typical use:
//
//	type Rarity int
//
//	const (
//	    Common Rarity = iota
//	    Rare
//	)
//
//	var Rarities = sheet.NewEnum[Rarity]("Common", "Rare")
//
//	func (r *Rarity) UnmarshalToken(s string) error { return Rarities.Set(r, s) }
type Enum[E Integer] struct {
	names  []string
	values map[string]E
	byVal  map[E]string
}

// NewEnum declares an enumeration whose i-th name has value E(i).
func NewEnum[E Integer](names ...string) *Enum[E] {
	e := &Enum[E]{
		values: make(map[string]E, len(names)),
		byVal:  make(map[E]string, len(names)),
	}
	for i, name := range names {
		e.add(name, E(i))
	}
	return e
}

// NewEnumValues declares an enumeration with explicit values. Names are
// listed in the order given by names.
func NewEnumValues[E Integer](names []string, values []E) *Enum[E] {
	if len(names) != len(values) {
		panic(fmt.Sprintf("sheet.NewEnumValues: %d names for %d values", len(names), len(values)))
	}
	e := &Enum[E]{
		values: make(map[string]E, len(names)),
		byVal:  make(map[E]string, len(names)),
	}
	for i, name := range names {
		e.add(name, values[i])
	}
	return e
}

func (e *Enum[E]) add(name string, v E) {
	if _, dup := e.values[name]; dup {
		panic(fmt.Sprintf("sheet.Enum: duplicate name %q", name))
	}
	e.names = append(e.names, name)
	e.values[name] = v
	if _, ok := e.byVal[v]; !ok {
		e.byVal[v] = name
	}
}

// Parse returns the constant named token.
func (e *Enum[E]) Parse(token string) (E, error) {
	v, ok := e.values[token]
	if !ok {
		return 0, &FormatError{
			Token: token,
			Type:  TypeName[E](),
			Err:   fmt.Errorf("not one of %v", e.names),
		}
	}
	return v, nil
}

// Set parses token into dst.
func (e *Enum[E]) Set(dst *E, token string) error {
	v, err := e.Parse(token)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// Name returns the declared name of v, or its number when undeclared.
func (e *Enum[E]) Name(v E) string {
	if name, ok := e.byVal[v]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", TypeName[E](), v)
}

// Names returns the declared names in declaration order.
func (e *Enum[E]) Names() []string {
	return append([]string(nil), e.names...)
}
