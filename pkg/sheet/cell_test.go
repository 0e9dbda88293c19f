package sheet

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitArray(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"1", []string{"1"}},
		{"1,[2],{3,4},(5),6", []string{"1", "2", "3", "4", "5", "6"}},
		{" a , b ", []string{"a", "b"}},
		{"[[1]],,2", []string{"1", "2"}},
		{"a=1,b:2", []string{"a=1", "b:2"}},
		{"()[]{}", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SplitArray(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArray(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		cell, err := ParseCell("  1,2  ", ShapeScalar)
		if err != nil {
			t.Fatal(err)
		}
		if cell.Scalar != "1,2" {
			t.Errorf("Scalar = %q, want \"1,2\"", cell.Scalar)
		}
	})

	t.Run("list", func(t *testing.T) {
		cell, err := ParseCell("[a],(b)", ShapeList)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(cell.List, []string{"a", "b"}) {
			t.Errorf("List = %q", cell.List)
		}
	})

	t.Run("pair", func(t *testing.T) {
		cell, err := ParseCell("{x, y}", ShapePair)
		if err != nil {
			t.Fatal(err)
		}
		if cell.Pair != [2]string{"x", "y"} {
			t.Errorf("Pair = %q", cell.Pair)
		}
	})

	t.Run("map keeps order", func(t *testing.T) {
		cell, err := ParseCell("z,1,a,2,m,3", ShapeMap)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(cell.Map.Keys, []string{"z", "a", "m"}) {
			t.Errorf("Map keys = %q", cell.Map.Keys)
		}
		if !reflect.DeepEqual(cell.Map.Values, []string{"1", "2", "3"}) {
			t.Errorf("Map values = %q", cell.Map.Values)
		}
	})

	t.Run("unknown shape", func(t *testing.T) {
		if _, err := ParseCell("1", Shape(42)); err == nil {
			t.Error("ParseCell() expected error for unknown shape")
		}
	})
}

func TestParseCell_Pair(t *testing.T) {
	tests := []struct {
		input   string
		want    [2]string
		wantErr bool
	}{
		{input: "1,2", want: [2]string{"1", "2"}},
		{input: "(1)(2)", want: [2]string{"1", "2"}},
		{input: "a=1", want: [2]string{"a", "1"}},
		{input: "a:1", want: [2]string{"a", "1"}},
		{input: "a<1>", want: [2]string{"a", "1"}},
		{input: "1", wantErr: true},
		{input: "", wantErr: true},
		{input: "1,2,3", wantErr: true},
		{input: "a=1=2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cell, err := ParseCell(tt.input, ShapePair)
			if tt.wantErr {
				if !errors.Is(err, ErrCardinality) {
					t.Errorf("ParseCell(%q) error = %v, want ErrCardinality", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCell(%q) error = %v", tt.input, err)
			}
			if cell.Pair != tt.want {
				t.Errorf("ParseCell(%q) = %q, want %q", tt.input, cell.Pair, tt.want)
			}
		})
	}
}

func TestParseCell_MapModes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		keys    []string
		values  []string
		wantErr bool
	}{
		{name: "alternating", input: "1,2,3,4", keys: []string{"1", "3"}, values: []string{"2", "4"}},
		{name: "self-delimited", input: "a=1,b:2,c<3>", keys: []string{"a", "b", "c"}, values: []string{"1", "2", "3"}},
		{name: "bracketed alternating", input: "{a,1},{b,2}", keys: []string{"a", "b"}, values: []string{"1", "2"}},
		{name: "empty", input: "", keys: nil, values: nil},
		{name: "duplicate key keeps last value", input: "a,1,b,2,a,3", keys: []string{"a", "b"}, values: []string{"3", "2"}},
		{name: "odd alternating", input: "1,2,3", wantErr: true},
		{name: "self-delimited missing value", input: "a=1,b", wantErr: true},

		// The mode comes from the first item only. A plain first item puts the
		// whole cell in alternating mode, so later "k=v" items are taken as
		// single keys or values.
		{name: "first item plain, later delimited", input: "a,b=1", keys: []string{"a"}, values: []string{"b=1"}},
		{name: "first item plain, odd after that", input: "a,b=1,c=2", wantErr: true},
		// A delimited first item forces self-delimited mode for every item.
		{name: "first item delimited, later plain", input: "a=1,b,2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := ParseCell(tt.input, ShapeMap)
			if tt.wantErr {
				if !errors.Is(err, ErrCardinality) {
					t.Errorf("ParseCell(%q) error = %v, want ErrCardinality", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCell(%q) error = %v", tt.input, err)
			}
			if cell.Map.Len() != len(tt.keys) {
				t.Fatalf("ParseCell(%q) has %d entries, want %d", tt.input, cell.Map.Len(), len(tt.keys))
			}
			if len(tt.keys) == 0 {
				return
			}
			if !reflect.DeepEqual(cell.Map.Keys, tt.keys) || !reflect.DeepEqual(cell.Map.Values, tt.values) {
				t.Errorf("ParseCell(%q) = %q/%q, want %q/%q", tt.input, cell.Map.Keys, cell.Map.Values, tt.keys, tt.values)
			}
		})
	}
}

func TestShape_String(t *testing.T) {
	tests := []struct {
		shape Shape
		want  string
	}{
		{ShapeScalar, "scalar"},
		{ShapeList, "list"},
		{ShapeMap, "map"},
		{ShapePair, "pair"},
		{Shape(9), "Shape(9)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.shape.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseShape(t *testing.T) {
	for _, s := range []Shape{ShapeScalar, ShapeList, ShapeMap, ShapePair} {
		got, err := ParseShape(s.String())
		if err != nil || got != s {
			t.Errorf("ParseShape(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, err := ParseShape(" Dictionary "); err != nil || got != ShapeMap {
		t.Errorf("ParseShape(Dictionary) = %v, %v", got, err)
	}
	if _, err := ParseShape("tree"); err == nil {
		t.Error("ParseShape(tree) expected error")
	}
}

// FuzzParseCell checks that the cell grammar never panics and that list
// tokens are always trimmed and non-empty.
// Run with: go test -fuzz=FuzzParseCell -fuzztime=30s ./pkg/sheet
func FuzzParseCell(f *testing.F) {
	seeds := []string{
		"",
		"1",
		"1,[2],{3,4},(5),6",
		"1,2,3,4",
		"a=1,b:2",
		"a,b=1",
		"a<1>",
		"(((",
		" , , ",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		cell, err := ParseCell(input, ShapeList)
		if err != nil {
			t.Fatalf("list grammar failed on %q: %v", input, err)
		}
		for _, tok := range cell.List {
			if tok == "" {
				t.Fatalf("empty token from %q", input)
			}
		}
		_, _ = ParseCell(input, ShapeMap)
		_, _ = ParseCell(input, ShapePair)
	})
}
