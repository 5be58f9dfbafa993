package nosline

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseSeparator(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{"space", ' ', false},
		{"comma", ',', false},
		{"pipe", '|', false},
		{"dot", '.', false},
		{"colon", ':', false},
		{"caret", '^', false},
		{"minus", '-', false},
		{"hash", '#', false},
		{".", '.', false},
		{"~", '~', false},
		{"", 0, true},
		{"..", 0, true},
		{" ", 0, true},
		{"tab", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeparator(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSeparator(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseSeparator(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	tag, err := parseTag("3,list,sep=pipe,elem=.,len=4,after=colon")
	if err != nil {
		t.Fatalf("parseTag() error: %v", err)
	}
	if tag.index != 3 || !tag.list || tag.sep != '|' || tag.elem != '.' || tag.length != 4 || tag.after != ':' {
		t.Errorf("parseTag() = %+v", tag)
	}

	tag, err = parseTag("1,unless=EntityType:1|9,optional")
	if err != nil {
		t.Fatalf("parseTag() error: %v", err)
	}
	if !tag.optional || tag.cond == nil || !tag.cond.Negate {
		t.Fatalf("parseTag() = %+v", tag)
	}
	if tag.cond.Field != "EntityType" || !reflect.DeepEqual(tag.cond.Values, []string{"1", "9"}) {
		t.Errorf("condition = %+v", tag.cond)
	}

	tag, err = parseTag("11,empty")
	if err != nil || tag.empty != 1 {
		t.Errorf("parseTag(empty) = %+v, %v", tag, err)
	}
	tag, err = parseTag("11,empty=2")
	if err != nil || tag.empty != 2 {
		t.Errorf("parseTag(empty=2) = %+v, %v", tag, err)
	}
	tag, err = parseTag("2,null=-")
	if err != nil || !tag.hasNull || tag.null != "-" {
		t.Errorf("parseTag(null) = %+v, %v", tag, err)
	}
}

func TestParseTag_Errors(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"x", "invalid index"},
		{"-1", "invalid index"},
		{"1,bogus", "unknown option"},
		{"1,sep", "invalid separator"},
		{"1,len=0", "invalid len"},
		{"1,empty=x", "invalid empty count"},
		{"1,count=", "count needs a field name"},
		{"1,if=Type", "invalid condition"},
		{"1,if=A:1,unless=B:2", "only one of if and unless"},
		{"1,null=", "null needs a symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := parseTag(tt.raw)
			if err == nil {
				t.Fatalf("parseTag(%q) should fail", tt.raw)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestIsValidOption(t *testing.T) {
	for _, name := range []string{OptOptional, OptGreedy, OptList, OptCount, OptNull, OptEmpty} {
		if !IsValidOption(name) {
			t.Errorf("IsValidOption(%q) = false", name)
		}
	}
	if IsValidOption("omitempty") {
		t.Error("IsValidOption(omitempty) = true")
	}
}

type schemaOK struct {
	Kind     uint8    `nos:"0"`
	Amount   uint8    `nos:"1"`
	Items    []int32  `nos:"2,count=Amount,sep=space"`
	Name     *string  `nos:"3,if=Kind:1"`
	Skipped  string   `nos:"-"`
	Untagged string
	Extra    []uint16 `nos:"5,optional,list,sep=space,elem=pipe"`
}

func TestBuildSchema(t *testing.T) {
	c := NewConverters()
	conv, err := c.Resolve(reflect.TypeFor[schemaOK]())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	fields := conv.(*structConverter).schema.fields

	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	if want := []string{"Kind", "Amount", "Items", "Name", "Extra"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("fields = %v, want %v", names, want)
	}

	items := fields[2]
	if items.List != ListContext || items.LengthField != "Amount" {
		t.Errorf("Items = %s list of %q", items.List, items.LengthField)
	}
	if items.ListSeparator != ' ' || items.ElementSeparator != '.' {
		t.Errorf("Items separators = %q %q", items.ListSeparator, items.ElementSeparator)
	}

	name := fields[3]
	if name.Condition == nil || name.Condition.Field != "Kind" || !name.Nullable {
		t.Errorf("Name = %+v", name)
	}
	if name.NullSymbol != "-" {
		t.Errorf("Name null = %q, want -", name.NullSymbol)
	}

	extra := fields[4]
	if extra.List != ListExplicit || !extra.Optional || extra.ElementSeparator != '|' {
		t.Errorf("Extra = %+v", extra)
	}
}

type schemaNullOverride struct {
	Value *int32 `nos:"0,null=-"`
}

func TestBuildSchema_NullOverride(t *testing.T) {
	c := NewConverters()
	v := schemaNullOverride{}
	if s := encodeAs(t, c, v); s != "-" {
		t.Errorf("encode(nil) = %q, want -", s)
	}
	got, err := decodeAs[schemaNullOverride](t, c, "-")
	if err != nil || got.Value != nil {
		t.Errorf("decode = %+v, %v", got, err)
	}
	got, err = decodeAs[schemaNullOverride](t, c, "-1")
	if err != nil || got.Value == nil || *got.Value != -1 {
		t.Errorf("decode(-1) = %+v, %v", got, err)
	}
}

type (
	schemaBadIndex struct {
		A int `nos:"first"`
	}
	schemaDuplicate struct {
		A int `nos:"0"`
		B int `nos:"0"`
	}
	schemaOptionalValue struct {
		A int `nos:"0,optional"`
	}
	schemaRequiredAfterOptional struct {
		A *int `nos:"0,optional"`
		B int  `nos:"1"`
	}
	schemaGreedyNotLast struct {
		A string `nos:"0,greedy"`
		B int    `nos:"1"`
	}
	schemaUnknownCondition struct {
		A *int `nos:"0,if=Kind:1"`
	}
	schemaLaterCondition struct {
		A *int `nos:"0,if=B:1"`
		B int  `nos:"1"`
	}
	schemaConditionValue struct {
		Kind int `nos:"0"`
		A    int `nos:"1,if=Kind:1"`
	}
	schemaStringCount struct {
		Amount string  `nos:"0"`
		Items  []int32 `nos:"1,count=Amount"`
	}
	schemaBareSlice struct {
		Items []int32 `nos:"0"`
	}
	schemaListNotSlice struct {
		Items int32 `nos:"0,list"`
	}
	schemaListInner struct {
		Items []int32 `nos:"0,list,inner=dot"`
	}
	schemaSepWithoutList struct {
		A int `nos:"0,sep=pipe"`
	}
	schemaListAndCount struct {
		N     int     `nos:"0"`
		Items []int32 `nos:"1,list,count=N"`
	}
	schemaNullOnValue struct {
		A int `nos:"0,null=x"`
	}
	schemaUnsupported struct {
		A map[string]int `nos:"0"`
	}
	schemaUntagged struct {
		A int
		B string
	}
)

func TestBuildSchema_Errors(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"bad index", reflect.TypeFor[schemaBadIndex](), "invalid index"},
		{"duplicate index", reflect.TypeFor[schemaDuplicate](), "index 0 already used by A"},
		{"optional value", reflect.TypeFor[schemaOptionalValue](), "optional field must be"},
		{"required after optional", reflect.TypeFor[schemaRequiredAfterOptional](), "required field follows optional field A"},
		{"greedy not last", reflect.TypeFor[schemaGreedyNotLast](), "greedy field must be the last field"},
		{"unknown condition", reflect.TypeFor[schemaUnknownCondition](), "not an earlier field"},
		{"later condition", reflect.TypeFor[schemaLaterCondition](), "not an earlier field"},
		{"conditional value", reflect.TypeFor[schemaConditionValue](), "conditional field must be"},
		{"string count", reflect.TypeFor[schemaStringCount](), "must be an integer"},
		{"bare slice", reflect.TypeFor[schemaBareSlice](), "slice field needs list or count"},
		{"list not slice", reflect.TypeFor[schemaListNotSlice](), "list field must be a slice"},
		{"list inner", reflect.TypeFor[schemaListInner](), "inner cannot be combined"},
		{"sep without list", reflect.TypeFor[schemaSepWithoutList](), "need list or count"},
		{"list and count", reflect.TypeFor[schemaListAndCount](), "mutually exclusive"},
		{"null on value", reflect.TypeFor[schemaNullOnValue](), "null needs a pointer field"},
		{"untagged", reflect.TypeFor[schemaUntagged](), "no fields carry a nos tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConverters().Resolve(tt.typ)
			if !errors.Is(err, ErrInvalidSchema) {
				t.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected SchemaError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}

	t.Run("unsupported field type", func(t *testing.T) {
		_, err := NewConverters().Resolve(reflect.TypeFor[schemaUnsupported]())
		if !errors.Is(err, ErrTypeConverterNotFound) {
			t.Fatalf("expected ErrTypeConverterNotFound, got %v", err)
		}
		var se *SchemaError
		if !errors.As(err, &se) || se.Field != "A" {
			t.Errorf("expected SchemaError on field A, got %v", err)
		}
	})
}

func TestCondition_Holds(t *testing.T) {
	type guarded struct {
		Kind  uint8
		Flag  bool
		Name  string
		Level *int16
	}
	rt := reflect.TypeFor[guarded]()
	path := func(name string) []int {
		f, _ := rt.FieldByName(name)
		return f.Index
	}
	level := int16(4)
	v := reflect.ValueOf(guarded{Kind: 9, Flag: true, Name: "npc", Level: &level})

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"if matches", Condition{Field: "Kind", Values: []string{"1", "9"}, path: path("Kind")}, true},
		{"if misses", Condition{Field: "Kind", Values: []string{"1"}, path: path("Kind")}, false},
		{"unless matches", Condition{Field: "Kind", Values: []string{"9"}, Negate: true, path: path("Kind")}, false},
		{"unless misses", Condition{Field: "Kind", Values: []string{"1"}, Negate: true, path: path("Kind")}, true},
		{"bool", Condition{Field: "Flag", Values: []string{"1"}, path: path("Flag")}, true},
		{"string", Condition{Field: "Name", Values: []string{"npc"}, path: path("Name")}, true},
		{"pointer", Condition{Field: "Level", Values: []string{"4"}, path: path("Level")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Holds(v); got != tt.want {
				t.Errorf("Holds() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil pointer", func(t *testing.T) {
		empty := reflect.ValueOf(guarded{})
		c := Condition{Field: "Level", Values: []string{"0"}, path: path("Level")}
		if c.Holds(empty) {
			t.Error("a nil field should never match")
		}
		c.Negate = true
		if !c.Holds(empty) {
			t.Error("unless on a nil field should hold")
		}
	})
}

func TestListKind_String(t *testing.T) {
	if ListNone.String() != "none" || ListExplicit.String() != "explicit" || ListContext.String() != "context" {
		t.Error("unexpected ListKind names")
	}
}
