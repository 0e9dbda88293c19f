package sheet

import (
	"fmt"
	"strings"

	"cogentcore.org/core/base/keylist"
)

// Shape is the structural form a cell is parsed into.
type Shape int

const (
	// ShapeScalar treats the whole trimmed cell as one token.
	ShapeScalar Shape = iota
	// ShapeList splits the cell on array delimiters.
	ShapeList
	// ShapeMap reads key/value entries, alternating or self-delimited.
	ShapeMap
	// ShapePair reads exactly one key and one value.
	ShapePair
)

// String returns the lower-case shape name.
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeList:
		return "list"
	case ShapeMap:
		return "map"
	case ShapePair:
		return "pair"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape is the inverse of Shape.String.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar":
		return ShapeScalar, nil
	case "list", "array":
		return ShapeList, nil
	case "map", "dictionary":
		return ShapeMap, nil
	case "pair":
		return ShapePair, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", s)
	}
}

const (
	// ArrayDelimiters separate list tokens. Brackets only group visually.
	ArrayDelimiters = ",()[]{}"
	// PairDelimiters separate the key from the value of a self-delimited pair.
	PairDelimiters = ",:<>="
)

// CellValue is the untyped result of the cell grammar. Exactly one of
// Scalar, List, Map or Pair is meaningful, according to Shape.
type CellValue struct {
	Shape  Shape
	Scalar string
	List   []string
	// Map holds entries in grammar order; a repeated key keeps its first
	// position and its last value.
	Map  *keylist.List[string, string]
	Pair [2]string
}

// SplitArray splits text on any array delimiter and returns the trimmed,
// non-empty tokens in order.
//
// Example:
//
//	sheet.SplitArray("1,[2],{3,4},(5),6") // ["1" "2" "3" "4" "5" "6"]
func SplitArray(text string) []string {
	return splitOn(text, ArrayDelimiters)
}

func splitOn(text, delims string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ParseCell applies the cell grammar for the given shape.
func ParseCell(text string, shape Shape) (CellValue, error) {
	cell := CellValue{Shape: shape}

	switch shape {
	case ShapeScalar:
		cell.Scalar = strings.TrimSpace(text)
	case ShapeList:
		cell.List = SplitArray(text)
	case ShapePair:
		pair, err := pairTokens(text)
		if err != nil {
			return CellValue{}, err
		}
		cell.Pair = pair
	case ShapeMap:
		entries, err := mapTokens(text)
		if err != nil {
			return CellValue{}, err
		}
		cell.Map = keylist.New[string, string]()
		for _, e := range entries {
			cell.Map.Set(e[0], e[1])
		}
	default:
		return CellValue{}, fmt.Errorf("unknown shape %v", shape)
	}

	return cell, nil
}

// pairTokens reads a pair cell. The array tokens must number exactly 2. A
// single token holding a pair delimiter, such as "a=1", is split on the pair
// delimiters instead.
func pairTokens(text string) ([2]string, error) {
	tokens := SplitArray(text)
	if len(tokens) == 1 && strings.ContainsAny(tokens[0], PairDelimiters) {
		tokens = splitOn(tokens[0], PairDelimiters)
	}
	if len(tokens) != 2 {
		return [2]string{}, &CardinalityError{
			Text: text,
			Got:  len(tokens),
			Want: 2,
			Msg:  "pair is not exactly 2 elements",
		}
	}
	return [2]string{tokens[0], tokens[1]}, nil
}

// mapTokens reads a map cell into key/value entries in grammar order.
//
// The mode is chosen from the first item only: if it contains a pair
// delimiter every item must be a self-delimited "key=value" pair, otherwise
// items alternate key, value, key, value and must be even in number.
func mapTokens(text string) ([][2]string, error) {
	items := SplitArray(text)
	if len(items) == 0 {
		return nil, nil
	}

	if strings.ContainsAny(items[0], PairDelimiters) {
		entries := make([][2]string, 0, len(items))
		for _, item := range items {
			kv := splitOn(item, PairDelimiters)
			if len(kv) != 2 {
				return nil, &CardinalityError{
					Text: item,
					Got:  len(kv),
					Want: 2,
					Msg:  "map entry is not a key and a value",
				}
			}
			entries = append(entries, [2]string{kv[0], kv[1]})
		}
		return entries, nil
	}

	if len(items)%2 == 1 {
		return nil, &CardinalityError{
			Text: text,
			Got:  len(items),
			Msg:  "map must have an even number of values",
		}
	}

	entries := make([][2]string, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		entries = append(entries, [2]string{items[i], items[i+1]})
	}
	return entries, nil
}
