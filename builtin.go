package nosline

import (
	"reflect"
	"strconv"
)

func registerBuiltins(c *Converters) {
	for _, t := range []reflect.Type{
		reflect.TypeFor[int](),
		reflect.TypeFor[int8](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[int64](),
	} {
		c.entries[t] = intConverter{t: t}
	}
	for _, t := range []reflect.Type{
		reflect.TypeFor[uint](),
		reflect.TypeFor[uint8](),
		reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](),
		reflect.TypeFor[uint64](),
	} {
		c.entries[t] = uintConverter{t: t}
	}
	c.entries[reflect.TypeFor[float32]()] = floatConverter{t: reflect.TypeFor[float32]()}
	c.entries[reflect.TypeFor[float64]()] = floatConverter{t: reflect.TypeFor[float64]()}
	c.entries[reflect.TypeFor[bool]()] = boolConverter{t: reflect.TypeFor[bool]()}
	c.entries[reflect.TypeFor[string]()] = stringConverter{t: reflect.TypeFor[string]()}

	// First match wins: wire overrides first, plain structs last.
	c.factories = []ConverterFactory{
		overrideFactory{},
		nullableFactory{},
		optionalFactory{},
		pointerFactory{},
		sliceFactory{},
		kindFactory{},
		structFactory{},
	}
}

// intConverter handles signed integers, including named enum types.
// "-1" is an ordinary value here; only pointers treat it as null.
type intConverter struct {
	t reflect.Type
}

func (c intConverter) Serialize(b *Builder, v reflect.Value) error {
	b.AppendInt(v.Int())
	return nil
}

func (c intConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	tok, err := e.NextToken()
	if err != nil {
		return err
	}
	n, err := strconv.ParseInt(tok.Value, 10, c.t.Bits())
	if err != nil {
		return newConversionError(ErrCouldNotConvert, tok.Value, c.t, err.Error())
	}
	v.SetInt(n)
	return nil
}

func (intConverter) NullSymbol() string { return "-1" }

type uintConverter struct {
	t reflect.Type
}

func (c uintConverter) Serialize(b *Builder, v reflect.Value) error {
	b.AppendUint(v.Uint())
	return nil
}

func (c uintConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	tok, err := e.NextToken()
	if err != nil {
		return err
	}
	n, err := strconv.ParseUint(tok.Value, 10, c.t.Bits())
	if err != nil {
		return newConversionError(ErrCouldNotConvert, tok.Value, c.t, err.Error())
	}
	v.SetUint(n)
	return nil
}

func (uintConverter) NullSymbol() string { return "-1" }

type floatConverter struct {
	t reflect.Type
}

func (c floatConverter) Serialize(b *Builder, v reflect.Value) error {
	b.AppendFloat(v.Float(), c.t.Bits())
	return nil
}

func (c floatConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	tok, err := e.NextToken()
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(tok.Value, c.t.Bits())
	if err != nil {
		return newConversionError(ErrCouldNotConvert, tok.Value, c.t, err.Error())
	}
	v.SetFloat(f)
	return nil
}

func (floatConverter) NullSymbol() string { return "-1" }

// boolConverter reads any token starting with '1' as true.
type boolConverter struct {
	t reflect.Type
}

func (c boolConverter) Serialize(b *Builder, v reflect.Value) error {
	b.AppendBool(v.Bool())
	return nil
}

func (c boolConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	tok, err := e.NextToken()
	if err != nil {
		return err
	}
	switch tok.Value {
	case "-1":
		return newConversionError(ErrDeserializedValueNull, tok.Value, c.t, "")
	case "":
		return newConversionError(ErrCouldNotConvert, tok.Value, c.t, "empty token")
	}
	v.SetBool(tok.Value[0] == '1')
	return nil
}

func (boolConverter) NullSymbol() string { return "-1" }

type stringConverter struct {
	t reflect.Type
}

func (c stringConverter) Serialize(b *Builder, v reflect.Value) error {
	b.Append(v.String())
	return nil
}

func (c stringConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	tok, err := e.NextToken()
	if err != nil {
		return err
	}
	if tok.Value == "-" {
		return newConversionError(ErrDeserializedValueNull, tok.Value, c.t, "")
	}
	v.SetString(tok.Value)
	return nil
}

// kindFactory covers named types such as enums by their underlying kind.
type kindFactory struct{}

func (kindFactory) Match(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool, reflect.String:
		return true
	}
	return false
}

func (kindFactory) Build(t reflect.Type, _ ResolveFunc) (Converter, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intConverter{t: t}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintConverter{t: t}, nil
	case reflect.Float32, reflect.Float64:
		return floatConverter{t: t}, nil
	case reflect.Bool:
		return boolConverter{t: t}, nil
	default:
		return stringConverter{t: t}, nil
	}
}

// pointerFactory makes any convertible type nullable. The null sentinel is
// taken from the element converter.
type pointerFactory struct{}

func (pointerFactory) Match(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer
}

func (pointerFactory) Build(t reflect.Type, resolve ResolveFunc) (Converter, error) {
	elem, err := resolve(t.Elem())
	if err != nil {
		return nil, err
	}
	return &pointerConverter{t: t, elem: elem, null: nullSymbolOf(elem)}, nil
}

type pointerConverter struct {
	t    reflect.Type
	elem Converter
	null string
}

// withNull returns a copy that uses symbol as its null sentinel.
func (c *pointerConverter) withNull(symbol string) *pointerConverter {
	cp := *c
	cp.null = symbol
	return &cp
}

func (c *pointerConverter) Serialize(b *Builder, v reflect.Value) error {
	if v.IsNil() {
		b.Append(c.null)
		return nil
	}
	return c.elem.Serialize(b, v.Elem())
}

func (c *pointerConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	tok, err := e.PeekToken()
	if err != nil {
		return err
	}
	if tok.Value == c.null {
		if _, err := e.NextToken(); err != nil {
			return err
		}
		v.Set(reflect.Zero(c.t))
		return nil
	}
	n := reflect.New(c.t.Elem())
	if err := c.elem.Deserialize(e, n.Elem()); err != nil {
		return err
	}
	v.Set(n)
	return nil
}

func (c *pointerConverter) NullSymbol() string { return c.null }

// sliceFactory builds list converters. The surrounding field pushes the list
// level and prepares the element level before the converter runs.
type sliceFactory struct{}

func (sliceFactory) Match(t reflect.Type) bool {
	return t.Kind() == reflect.Slice
}

func (sliceFactory) Build(t reflect.Type, resolve ResolveFunc) (Converter, error) {
	elem, err := resolve(t.Elem())
	if err != nil {
		return nil, err
	}
	return &listConverter{t: t, elem: elem}, nil
}

type listConverter struct {
	t    reflect.Type
	elem Converter
}

func (c *listConverter) Serialize(b *Builder, v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		if !b.PushPreparedLevel() {
			return newTokenizationError(ErrNoPreparedLevel, b.Len(), false)
		}
		if err := c.elem.Serialize(b, v.Index(i)); err != nil {
			return err
		}
		if err := b.PopLevel(); err != nil {
			return err
		}
	}
	return nil
}

func (c *listConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	out := reflect.MakeSlice(c.t, 0, 4)
	for {
		if last, known := e.IsOnLastToken(); known && last {
			break
		}
		if e.limit > 0 && out.Len() >= e.limit {
			return newTokenizationError(ErrTokenLimit, e.cursor, false)
		}

		start := e.cursor
		e.CaptureReadTokens()
		if !e.PushPreparedLevel() {
			return newTokenizationError(ErrNoPreparedLevel, e.cursor, false)
		}
		item := reflect.New(c.t.Elem()).Elem()
		if err := c.elem.Deserialize(e, item); err != nil {
			return err
		}
		if err := drainLevel(e); err != nil {
			return err
		}
		if err := e.PopLevel(); err != nil {
			return err
		}
		if err := e.IncrementReadTokens(); err != nil {
			return err
		}
		// An element that consumed nothing would repeat forever.
		if e.cursor == start {
			return newTokenizationError(ErrTokenLimit, e.cursor, false)
		}
		out = reflect.Append(out, item)
	}
	if out.Len() == 0 {
		v.Set(reflect.Zero(c.t))
		return nil
	}
	v.Set(out)
	return nil
}

// drainLevel reads the tokens left in the current level while the level is
// known not to have ended.
func drainLevel(e *Enumerator) error {
	for {
		last, known := e.IsOnLastToken()
		if !known || last {
			return nil
		}
		if _, err := e.NextToken(); err != nil {
			return err
		}
	}
}
