package nosline

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the field tag with sentinel
	sentinel.Tag(TagName)
}

// ListKind tells how a list field finds its length.
type ListKind uint8

const (
	// ListNone marks a field that is not a list.
	ListNone ListKind = iota

	// ListExplicit marks a list that runs until its level ends.
	ListExplicit

	// ListContext marks a list whose length is an earlier field.
	ListContext
)

func (k ListKind) String() string {
	switch k {
	case ListExplicit:
		return "explicit"
	case ListContext:
		return "context"
	default:
		return "none"
	}
}

// Condition makes a field present only when an earlier field equals one of
// Values, or, with Negate, equals none of them.
type Condition struct {
	Field  string
	Values []string
	Negate bool

	path []int
}

// Holds reports whether the field guarded by c is present in v.
func (c *Condition) Holds(v reflect.Value) bool {
	key, ok := conditionKey(v.FieldByIndex(c.path))
	match := false
	if ok {
		for _, want := range c.Values {
			if want == key {
				match = true
				break
			}
		}
	}
	return match != c.Negate
}

// conditionKey formats a value the way condition values are written in tags.
func conditionKey(v reflect.Value) (string, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Bool:
		if v.Bool() {
			return "1", true
		}
		return "0", true
	case reflect.String:
		return v.String(), true
	}
	return "", false
}

// FieldDescriptor describes one wire position of a packet.
type FieldDescriptor struct {
	Name  string
	Index int
	Type  reflect.Type

	Nullable bool
	Optional bool
	Greedy   bool

	Condition *Condition

	List             ListKind
	ListSeparator    byte
	ElementSeparator byte
	MaxLength        int    // explicit lists only, 0 when unbounded
	LengthField      string // context lists only

	InnerSeparator byte
	AfterSeparator byte
	NullSymbol     string
	EmptyTokens    int

	path       []int
	lengthPath []int
	converter  Converter
}

// structSchema is the ordered field table of one struct type.
type structSchema struct {
	typeName string
	fields   []*FieldDescriptor
}

// isNullableType reports whether a zero value of t can stand for "absent".
func isNullableType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice:
		return true
	case reflect.Struct:
		return t.Implements(optionalMarkerType) || t.Implements(nullableMarkerType)
	}
	return false
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// fieldTagOf returns the nos tag of a scanned field, falling back to the raw
// struct tag when the scanner did not capture it.
func fieldTagOf(rt reflect.Type, fm sentinel.FieldMetadata) (string, bool) {
	if raw, ok := fm.Tags[TagName]; ok {
		return raw, true
	}
	if rt.Kind() != reflect.Struct || len(fm.Index) == 0 {
		return "", false
	}
	sf := rt.FieldByIndex(fm.Index)
	return sf.Tag.Lookup(TagName)
}

// buildSchema turns scanned metadata into a validated field table.
// Converters of field types are obtained through resolve.
func buildSchema(rt reflect.Type, meta sentinel.Metadata, resolve ResolveFunc) (*structSchema, error) {
	typeName := meta.TypeName
	if typeName == "" {
		typeName = rt.Name()
	}
	schema := &structSchema{typeName: typeName}

	seen := make(map[int]string)
	for _, fm := range meta.Fields {
		raw, ok := fieldTagOf(rt, fm)
		if !ok || raw == "-" {
			continue
		}
		tag, err := parseTag(raw)
		if err != nil {
			return nil, newSchemaError(typeName, fm.Name, err.Error())
		}
		if other, dup := seen[tag.index]; dup {
			return nil, newSchemaError(typeName, fm.Name, fmt.Sprintf("index %d already used by %s", tag.index, other))
		}
		seen[tag.index] = fm.Name

		ft := fm.ReflectType
		if ft == nil {
			ft = rt.FieldByIndex(fm.Index).Type
		}
		fd := &FieldDescriptor{
			Name:           fm.Name,
			Index:          tag.index,
			Type:           ft,
			Nullable:       isNullableType(ft),
			Optional:       tag.optional,
			Greedy:         tag.greedy,
			Condition:      tag.cond,
			InnerSeparator: tag.inner,
			AfterSeparator: tag.after,
			EmptyTokens:    tag.empty,
			path:           append([]int(nil), fm.Index...),
		}

		switch {
		case tag.list && tag.count != "":
			return nil, newSchemaError(typeName, fm.Name, "list and count are mutually exclusive")
		case tag.list:
			fd.List = ListExplicit
			fd.MaxLength = tag.length
		case tag.count != "":
			if tag.length != 0 {
				return nil, newSchemaError(typeName, fm.Name, "len cannot be combined with count")
			}
			fd.List = ListContext
			fd.LengthField = tag.count
		case tag.length != 0 || tag.sep != 0 || tag.elem != 0:
			return nil, newSchemaError(typeName, fm.Name, "sep, elem and len need list or count")
		}

		if fd.List != ListNone {
			if ft.Kind() != reflect.Slice {
				return nil, newSchemaError(typeName, fm.Name, "list field must be a slice")
			}
			if tag.inner != 0 {
				return nil, newSchemaError(typeName, fm.Name, "inner cannot be combined with a list, use elem")
			}
			fd.ListSeparator = '|'
			if tag.sep != 0 {
				fd.ListSeparator = tag.sep
			}
			fd.ElementSeparator = '.'
			if tag.elem != 0 {
				fd.ElementSeparator = tag.elem
			}
		} else if ft.Kind() == reflect.Slice {
			return nil, newSchemaError(typeName, fm.Name, "slice field needs list or count")
		}

		conv, err := resolve(ft)
		if err != nil {
			return nil, &SchemaError{Err: ErrTypeConverterNotFound, Type: typeName, Field: fm.Name, Reason: err.Error()}
		}
		fd.NullSymbol = nullSymbolOf(conv)
		if tag.hasNull {
			pc, ok := conv.(*pointerConverter)
			if !ok {
				return nil, newSchemaError(typeName, fm.Name, "null needs a pointer field")
			}
			conv = pc.withNull(tag.null)
			fd.NullSymbol = tag.null
		}
		fd.converter = conv

		schema.fields = append(schema.fields, fd)
	}

	// A struct without fields is a bare header; one whose fields all lack
	// a tag is a mistake.
	if len(schema.fields) == 0 && len(meta.Fields) > 0 {
		return nil, newSchemaError(typeName, "", "no fields carry a nos tag")
	}

	sort.SliceStable(schema.fields, func(i, j int) bool {
		return schema.fields[i].Index < schema.fields[j].Index
	})

	if err := schema.validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

// validate checks the ordering rules between fields.
func (s *structSchema) validate() error {
	earlier := make(map[string]*FieldDescriptor, len(s.fields))
	optionalSeen := ""

	for i, f := range s.fields {
		if f.Optional && !f.Nullable {
			return newSchemaError(s.typeName, f.Name, "optional field must be a pointer, slice, Optional or Nullable")
		}
		if f.Condition != nil && !f.Nullable {
			return newSchemaError(s.typeName, f.Name, "conditional field must be a pointer, slice, Optional or Nullable")
		}
		if optionalSeen != "" && !f.Optional && f.Condition == nil {
			return newSchemaError(s.typeName, f.Name, fmt.Sprintf("required field follows optional field %s", optionalSeen))
		}
		if f.Optional && optionalSeen == "" {
			optionalSeen = f.Name
		}
		if f.Greedy && i != len(s.fields)-1 {
			return newSchemaError(s.typeName, f.Name, "greedy field must be the last field")
		}
		if f.Greedy && f.List != ListNone {
			return newSchemaError(s.typeName, f.Name, "greedy field cannot be a list")
		}

		if f.Condition != nil {
			ref, ok := earlier[f.Condition.Field]
			if !ok {
				return newSchemaError(s.typeName, f.Name, fmt.Sprintf("condition references %s, which is not an earlier field", f.Condition.Field))
			}
			if _, ok := conditionKey(reflect.New(ref.Type).Elem()); !ok && ref.Type.Kind() != reflect.Pointer {
				return newSchemaError(s.typeName, f.Name, fmt.Sprintf("condition field %s must be an integer, bool or string", ref.Name))
			}
			f.Condition.path = ref.path
		}

		if f.List == ListContext {
			ref, ok := earlier[f.LengthField]
			if !ok {
				return newSchemaError(s.typeName, f.Name, fmt.Sprintf("count references %s, which is not an earlier field", f.LengthField))
			}
			kind := ref.Type.Kind()
			if kind == reflect.Pointer {
				kind = ref.Type.Elem().Kind()
			}
			if !isIntegerKind(kind) {
				return newSchemaError(s.typeName, f.Name, fmt.Sprintf("count field %s must be an integer", ref.Name))
			}
			f.lengthPath = ref.path
		}

		earlier[f.Name] = f
	}
	return nil
}

// lengthOf reads the element count of a context list from the struct value.
func (f *FieldDescriptor) lengthOf(v reflect.Value) int {
	lv := v.FieldByIndex(f.lengthPath)
	if lv.Kind() == reflect.Pointer {
		if lv.IsNil() {
			return 0
		}
		lv = lv.Elem()
	}
	if lv.CanInt() {
		return int(lv.Int())
	}
	return int(lv.Uint())
}

// scanNestedType scans a nested struct type and returns its metadata.
func scanNestedType(rt reflect.Type) *sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return &meta
	}

	if rt.Kind() != reflect.Struct {
		return nil
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        make(map[string]string),
		}
		if raw, ok := sf.Tag.Lookup(TagName); ok {
			fm.Tags[TagName] = raw
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		meta.Fields = append(meta.Fields, fm)
	}

	return &meta
}
