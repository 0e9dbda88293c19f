package sheet

import (
	"cogentcore.org/core/base/keylist"
)

// ParseScalar converts the whole trimmed text to T.
//
// Example:
//
//	n, err := sheet.ParseScalar[int]("1")    // 1, nil
//	_, err = sheet.ParseScalar[int]("1.1f")  // *FormatError
func ParseScalar[T any](text string) (T, error) {
	cell, err := ParseCell(text, ShapeScalar)
	if err != nil {
		var zero T
		return zero, err
	}
	return Coerce[T](cell.Scalar)
}

// ParseList converts every array token of text to T, in order. Empty text
// yields an empty list.
//
// Example:
//
//	sheet.ParseList[int]("1,[2],{3,4},(5),6") // [1 2 3 4 5 6]
func ParseList[T any](text string) ([]T, error) {
	tokens := SplitArray(text)
	list := make([]T, 0, len(tokens))
	for _, tok := range tokens {
		v, err := Coerce[T](tok)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

// ParseMap reads text as map entries and converts keys to K and values to V.
// Later entries overwrite earlier ones with an equal key.
//
// Example:
//
//	sheet.ParseMap[int, int]("1,2,3,4")  // map[1:2 3:4]
//	sheet.ParseMap[string, int]("a=1,b:2") // map[a:1 b:2]
func ParseMap[K comparable, V any](text string) (map[K]V, error) {
	entries, err := mapTokens(text)
	if err != nil {
		return nil, err
	}
	m := make(map[K]V, len(entries))
	for _, e := range entries {
		k, v, err := coerceEntry[K, V](e)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

// ParseOrderedMap is ParseMap preserving entry order. A repeated key keeps
// its first position and its last value.
func ParseOrderedMap[K comparable, V any](text string) (*keylist.List[K, V], error) {
	entries, err := mapTokens(text)
	if err != nil {
		return nil, err
	}
	m := keylist.New[K, V]()
	for _, e := range entries {
		k, v, err := coerceEntry[K, V](e)
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

// ParsePair reads text as exactly one key and one value.
//
// Example:
//
//	sheet.ParsePair[int, int]("1,2") // (1, 2)
//	sheet.ParsePair[int, int]("1")   // *CardinalityError
func ParsePair[K, V any](text string) (Pair[K, V], error) {
	tokens, err := pairTokens(text)
	if err != nil {
		return Pair[K, V]{}, err
	}
	k, v, err := coerceEntry[K, V](tokens)
	if err != nil {
		return Pair[K, V]{}, err
	}
	return Pair[K, V]{Key: k, Value: v}, nil
}

func coerceEntry[K, V any](e [2]string) (K, V, error) {
	var (
		zk K
		zv V
	)
	k, err := Coerce[K](e[0])
	if err != nil {
		return zk, zv, err
	}
	v, err := Coerce[V](e[1])
	if err != nil {
		return zk, zv, err
	}
	return k, v, nil
}
