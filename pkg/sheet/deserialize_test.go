package sheet

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

type mockEnum int

const mockValue mockEnum = 0

var mockEnums = NewEnum[mockEnum]("MockValue")

func (e *mockEnum) UnmarshalToken(s string) error { return mockEnums.Set(e, s) }

type mockRecord struct {
	Ignored    string
	String     string
	Int        int
	Float      float32
	Double     float64
	Enum       mockEnum
	Array      []int
	List       []int
	Pair       Pair[int, int]
	Dictionary map[int]int
}

var mockSchema = MustSchema(
	Scalar("Ignored", func(m *mockRecord) *string { return &m.Ignored }).Ignored(),
	Scalar("String", func(m *mockRecord) *string { return &m.String }),
	Scalar("Int", func(m *mockRecord) *int { return &m.Int }),
	Scalar("Float", func(m *mockRecord) *float32 { return &m.Float }),
	Scalar("Double", func(m *mockRecord) *float64 { return &m.Double }),
	Scalar("Enum", func(m *mockRecord) *mockEnum { return &m.Enum }),
	List("Array", func(m *mockRecord) *[]int { return &m.Array }),
	List("List", func(m *mockRecord) *[]int { return &m.List }),
	PairField("Pair", func(m *mockRecord) *Pair[int, int] { return &m.Pair }),
	Map("Dictionary", func(m *mockRecord) *map[int]int { return &m.Dictionary }),
)

// collect returns decode options that record warnings instead of logging.
func collect(warnings *[]MissingFieldWarning) DecodeOptions {
	return DecodeOptions{
		WarningCallback: func(w MissingFieldWarning) { *warnings = append(*warnings, w) },
	}
}

func TestDeserialize(t *testing.T) {
	table, err := ConvertToTable(mockSheet)
	if err != nil {
		t.Fatal(err)
	}

	var warnings []MissingFieldWarning
	got, err := mockSchema.DeserializeWithOptions(table[0], collect(&warnings))
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}

	want := mockRecord{
		String:     "text",
		Int:        1,
		Float:      1.1,
		Double:     1.1,
		Enum:       mockValue,
		Array:      []int{1, 2},
		List:       []int{1, 2},
		Pair:       Pair[int, int]{Key: 1, Value: 2},
		Dictionary: map[int]int{1: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deserialize() =\n%+v\nwant\n%+v", got, want)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestDeserialize_MissingFields(t *testing.T) {
	table, err := ConvertToTable("Int,Float\r\n1,1.1")
	if err != nil {
		t.Fatal(err)
	}

	var warnings []MissingFieldWarning
	got, err := mockSchema.DeserializeWithOptions(table[0], collect(&warnings))
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}

	want := mockRecord{Int: 1, Float: 1.1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deserialize() = %+v, want %+v", got, want)
	}

	var fields []string
	for _, w := range warnings {
		fields = append(fields, w.Field)
		if w.Record != "sheet.mockRecord" {
			t.Errorf("warning record = %q, want sheet.mockRecord", w.Record)
		}
	}
	wantFields := []string{"String", "Double", "Enum", "Array", "List", "Pair", "Dictionary"}
	if !reflect.DeepEqual(fields, wantFields) {
		t.Errorf("warned fields = %q, want %q", fields, wantFields)
	}
}

func TestDeserialize_ExtraFields(t *testing.T) {
	with, err := ConvertToTable("Int,Float,ExtraField\r\n1,1.1,extraValue")
	if err != nil {
		t.Fatal(err)
	}
	without, err := ConvertToTable("Int,Float\r\n1,1.1")
	if err != nil {
		t.Fatal(err)
	}

	var w1, w2 []MissingFieldWarning
	a, err := mockSchema.DeserializeWithOptions(with[0], collect(&w1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := mockSchema.DeserializeWithOptions(without[0], collect(&w2))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("extra column changed the record: %+v vs %+v", a, b)
	}
	if !reflect.DeepEqual(w1, w2) {
		t.Errorf("extra column changed the warnings: %v vs %v", w1, w2)
	}
}

func TestDeserialize_IgnoredNeverPopulated(t *testing.T) {
	for _, text := range []string{"x", "", "1,2", "Ignored"} {
		row, err := NewRow([]string{"Ignored"}, []string{text})
		if err != nil {
			t.Fatal(err)
		}
		var warnings []MissingFieldWarning
		got, err := mockSchema.DeserializeWithOptions(row, collect(&warnings))
		if err != nil {
			t.Fatal(err)
		}
		if got.Ignored != "" {
			t.Errorf("Ignored = %q for input %q", got.Ignored, text)
		}
		for _, w := range warnings {
			if w.Field == "Ignored" {
				t.Error("ignored field produced a missing-field warning")
			}
		}
	}
}

func TestDeserialize_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		field     string
		sentinel  error
		wantValue string
	}{
		{"bad int", "Int\r\n1.1f", "Int", ErrFormat, "1.1f"},
		{"bad enum", "Enum\r\nOther", "Enum", ErrFormat, "Other"},
		{"short pair", "Pair\r\n1", "Pair", ErrCardinality, "1"},
		{"odd map", "Dictionary\r\n\"1,2,3\"", "Dictionary", ErrCardinality, "1,2,3"},
		{"bad list element", "List\r\n\"1,a\"", "List", ErrFormat, "1,a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ConvertToTable(tt.input)
			if err != nil {
				t.Fatal(err)
			}

			got, err := mockSchema.DeserializeWithOptions(table[0], DecodeOptions{
				WarningCallback: func(MissingFieldWarning) {},
			})
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not *FieldError", err)
			}
			if fe.Field != tt.field || fe.Text != tt.wantValue {
				t.Errorf("FieldError = %q/%q, want %q/%q", fe.Field, fe.Text, tt.field, tt.wantValue)
			}
			if !reflect.DeepEqual(got, mockRecord{}) {
				t.Errorf("partial record returned: %+v", got)
			}
		})
	}
}

func TestDeserialize_DefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	row, err := NewRow([]string{"Int"}, []string{"3"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mockSchema.DeserializeWithOptions(row, DecodeOptions{Logger: logger}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	want := "the data does not contain the field String for the record of sheet.mockRecord type"
	if !strings.Contains(out, want) {
		t.Errorf("log output %q does not contain %q", out, want)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "field=Dictionary") {
		t.Errorf("log output missing level or field attribute: %q", out)
	}
}

func TestDeserializeTable(t *testing.T) {
	input := "Int,List\r\n1,\"1,2\"\r\n2,\r\n3,[3]"
	table, err := ConvertToTable(input)
	if err != nil {
		t.Fatal(err)
	}

	var warnings []MissingFieldWarning
	got, err := DeserializeTable(mockSchema, table, collect(&warnings))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].Int != 1 || !reflect.DeepEqual(got[0].List, []int{1, 2}) {
		t.Errorf("record 0 = %+v", got[0])
	}
	if got[1].List == nil || len(got[1].List) != 0 {
		t.Errorf("record 1 List = %#v, want empty", got[1].List)
	}
	if !reflect.DeepEqual(got[2].List, []int{3}) {
		t.Errorf("record 2 List = %v", got[2].List)
	}

	table, err = ConvertToTable("Int\r\n1\r\nx")
	if err != nil {
		t.Fatal(err)
	}
	_, err = DeserializeTable(mockSchema, table, collect(&warnings))
	var re *RowError
	if !errors.As(err, &re) || re.Row != 2 {
		t.Fatalf("error = %v, want RowError for row 2", err)
	}
	if !errors.Is(err, ErrFormat) {
		t.Errorf("error %v does not match ErrFormat", err)
	}
}

func TestUnmarshal_RoundTrip(t *testing.T) {
	records := [][]string{
		{"Ignored", "String", "Int", "Float", "Double", "Enum", "Array", "List", "Pair", "Dictionary"},
		{"secret", "a, \"quoted\" text", "-4", "2.5", "0.125", "MockValue", "[1],[2],[3]", "7", "5,6", "{1,2},{3,4}"},
		{"", "", "0", "0", "0", "MockValue", "", "", "(0)(0)", ""},
	}

	got, err := Unmarshal(mockSchema, string(Render(records)))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []mockRecord{
		{
			String:     "a, \"quoted\" text",
			Int:        -4,
			Float:      2.5,
			Double:     0.125,
			Array:      []int{1, 2, 3},
			List:       []int{7},
			Pair:       Pair[int, int]{Key: 5, Value: 6},
			Dictionary: map[int]int{1: 2, 3: 4},
		},
		{
			Array:      []int{},
			List:       []int{},
			Dictionary: map[int]int{},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unmarshal() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestSchema(t *testing.T) {
	fields := mockSchema.Fields()
	if len(fields) != 10 {
		t.Fatalf("Fields() has %d entries, want 10", len(fields))
	}
	if !fields[0].Ignore || fields[1].Ignore {
		t.Error("ignore flags not carried into descriptors")
	}
	if got := fields[8].String(); got != "Pair pair[int,int]" {
		t.Errorf("Pair descriptor = %q", got)
	}
	if got := fields[9].String(); got != "Dictionary map[int]int" {
		t.Errorf("Dictionary descriptor = %q", got)
	}
	if d, ok := mockSchema.Field("Array"); !ok || d.Shape != ShapeList || d.Elem != "int" {
		t.Errorf("Field(Array) = %+v, %v", d, ok)
	}
	if mockSchema.Record() != "sheet.mockRecord" {
		t.Errorf("Record() = %q", mockSchema.Record())
	}

	_, err := NewSchema(
		Scalar("A", func(m *mockRecord) *int { return &m.Int }),
		Scalar("A", func(m *mockRecord) *string { return &m.String }),
	)
	if !errors.Is(err, ErrDuplicateField) {
		t.Errorf("NewSchema() error = %v, want ErrDuplicateField", err)
	}

	if _, err := NewSchema(Field[mockRecord]{}); err == nil {
		t.Error("NewSchema() accepted a zero Field")
	}
}
