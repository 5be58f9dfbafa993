package nosline

import (
	"reflect"
)

// structFactory builds interpreters for structs declared with nos tags.
type structFactory struct{}

func (structFactory) Match(t reflect.Type) bool {
	return t.Kind() == reflect.Struct
}

func (structFactory) Build(t reflect.Type, resolve ResolveFunc) (Converter, error) {
	meta := scanNestedType(t)
	if meta == nil {
		return nil, &LookupError{Err: ErrTypeConverterNotFound, Type: t}
	}
	schema, err := buildSchema(t, *meta, resolve)
	if err != nil {
		return nil, err
	}
	return &structConverter{schema: schema}, nil
}

// structConverter walks a field table in declared order.
type structConverter struct {
	schema *structSchema
}

// isAbsent reports whether an optional field holds nothing to write.
func isAbsent(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer:
		return v.IsNil()
	case reflect.Slice:
		return v.Len() == 0
	case reflect.Struct:
		if v.Type().Implements(optionalMarkerType) {
			return !v.Field(1).Bool()
		}
		if v.Type().Implements(nullableMarkerType) {
			return !v.Field(1).Bool()
		}
	}
	return false
}

func (c *structConverter) Serialize(b *Builder, v reflect.Value) error {
	prev := -1
	for _, f := range c.schema.fields {
		// Positions skipped by the declaration are written as zero fillers.
		for gap := prev + 1; gap < f.Index; gap++ {
			b.Append("0")
		}
		prev = f.Index

		if f.Condition != nil && !f.Condition.Holds(v) {
			continue
		}
		fv := v.FieldByIndex(f.path)
		if f.Optional && isAbsent(fv) {
			continue
		}
		if err := serializeField(b, f, fv); err != nil {
			return newFieldError(c.schema.typeName, f.Name, err)
		}
	}
	return nil
}

func serializeField(b *Builder, f *FieldDescriptor, fv reflect.Value) error {
	if f.AfterSeparator != 0 {
		b.SetAfterSeparatorOnce(f.AfterSeparator)
	}

	switch f.List {
	case ListNone:
		if f.InnerSeparator != 0 {
			b.PushLevel(f.InnerSeparator)
		}
		if err := f.converter.Serialize(b, fv); err != nil {
			return err
		}
		if f.InnerSeparator != 0 {
			if err := b.PopLevel(); err != nil {
				return err
			}
		}
	default:
		// A required explicit list keeps its slot when it has no elements.
		if f.List == ListExplicit && fv.Kind() == reflect.Slice && fv.Len() == 0 {
			b.Append(nullList)
			break
		}
		b.PushLevel(f.ListSeparator)
		b.PrepareLevel(f.ElementSeparator)
		if err := f.converter.Serialize(b, fv); err != nil {
			return err
		}
		b.RemovePreparedLevel()
		if err := b.PopLevel(); err != nil {
			return err
		}
	}

	for i := 0; i < f.EmptyTokens; i++ {
		b.Append("")
	}
	return nil
}

func (c *structConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	prev := -1
	for _, f := range c.schema.fields {
		// Positions skipped by the declaration are read and dropped.
		for gap := prev + 1; gap < f.Index; gap++ {
			if last, known := e.IsOnLastToken(); known && last {
				break
			}
			if _, err := e.NextToken(); err != nil {
				return newFieldError(c.schema.typeName, f.Name, err)
			}
		}
		prev = f.Index

		if f.Condition != nil && !f.Condition.Holds(v) {
			continue
		}
		if f.Optional {
			if last, known := e.IsOnLastToken(); !known || last {
				continue
			}
		}
		if err := deserializeField(e, f, v, v.FieldByIndex(f.path)); err != nil {
			return newFieldError(c.schema.typeName, f.Name, err)
		}
	}
	return nil
}

func deserializeField(e *Enumerator, f *FieldDescriptor, parent, fv reflect.Value) error {
	switch f.List {
	case ListNone:
		if err := expectMore(e); err != nil {
			return err
		}
		if f.AfterSeparator != 0 {
			e.SetAfterSeparatorOnce(f.AfterSeparator)
		}
		if f.InnerSeparator != 0 {
			e.PushLevel(f.InnerSeparator)
		}
		if f.Greedy {
			e.SetReadToLast()
		}
		if err := f.converter.Deserialize(e, fv); err != nil {
			return err
		}
		if f.InnerSeparator != 0 {
			if err := drainLevel(e); err != nil {
				return err
			}
			if err := e.PopLevel(); err != nil {
				return err
			}
		}

	case ListExplicit:
		if f.AfterSeparator != 0 {
			e.SetAfterSeparatorOnce(f.AfterSeparator)
		}
		if isNullList(e) {
			if _, err := e.NextToken(); err != nil {
				return err
			}
			fv.Set(reflect.Zero(fv.Type()))
			break
		}
		maxTokens := -1
		if f.MaxLength > 0 {
			maxTokens = f.MaxLength
		}
		if err := deserializeList(e, f, fv, maxTokens); err != nil {
			return err
		}

	case ListContext:
		n := f.lengthOf(parent)
		if n < 0 {
			return newConversionError(ErrCouldNotConvert, "", f.Type, "negative list length")
		}
		if e.limit > 0 && n > e.limit {
			return newTokenizationError(ErrTokenLimit, e.cursor, false)
		}
		if n > 0 {
			if err := expectMore(e); err != nil {
				return err
			}
		}
		if f.AfterSeparator != 0 {
			e.SetAfterSeparatorOnce(f.AfterSeparator)
		}
		if err := deserializeList(e, f, fv, n); err != nil {
			return err
		}
	}

	if f.EmptyTokens > 0 {
		for e.IsOnSeparator() {
			if _, err := e.NextToken(); err != nil {
				return err
			}
		}
	}
	return nil
}

func deserializeList(e *Enumerator, f *FieldDescriptor, fv reflect.Value, maxTokens int) error {
	e.PushLevelN(f.ListSeparator, maxTokens)
	e.PrepareLevel(f.ElementSeparator, -1)
	if err := f.converter.Deserialize(e, fv); err != nil {
		return err
	}
	e.RemovePreparedLevel()
	return e.PopLevel()
}

// nullList stands in for an explicit list without elements.
const nullList = "-"

// isNullList reports whether the next token of the current level is a lone
// nullList symbol.
func isNullList(e *Enumerator) bool {
	if last, known := e.IsOnLastToken(); known && last {
		return false
	}
	tok, err := e.PeekToken()
	return err == nil && tok.Value == nullList
}

// expectMore fails when the current level has certainly ended.
func expectMore(e *Enumerator) error {
	if last, known := e.IsOnLastToken(); known && last {
		return newTokenizationError(ErrPacketEndNotExpected, e.cursor, true)
	}
	return nil
}
