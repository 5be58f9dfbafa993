package nosline

import (
	"reflect"
	"strconv"
	"strings"
)

// Nullable holds a value that is written as "-1" when not valid.
// Use it for sub-packets whose null form is "-1" rather than "-".
type Nullable[T any] struct {
	Value T
	Valid bool
}

// NewNullable returns a valid Nullable holding v.
func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Valid: true}
}

func (Nullable[T]) nullableMarker() {}

// Optional holds a value that may be missing from the line altogether.
// A missing value writes nothing; an empty token reads as missing.
type Optional[T any] struct {
	Value   T
	Present bool
}

// NewOptional returns a present Optional holding v.
func NewOptional[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

func (Optional[T]) optionalMarker() {}

type nullableMarker interface{ nullableMarker() }

type optionalMarker interface{ optionalMarker() }

var (
	nullableMarkerType = reflect.TypeFor[nullableMarker]()
	optionalMarkerType = reflect.TypeFor[optionalMarker]()
)

type nullableFactory struct{}

func (nullableFactory) Match(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(nullableMarkerType)
}

func (nullableFactory) Build(t reflect.Type, resolve ResolveFunc) (Converter, error) {
	elem, err := resolve(t.Field(0).Type)
	if err != nil {
		return nil, err
	}
	return &nullableConverter{elem: elem}, nil
}

type nullableConverter struct {
	elem Converter
}

func (c *nullableConverter) Serialize(b *Builder, v reflect.Value) error {
	if !v.Field(1).Bool() {
		b.Append("-1")
		return nil
	}
	return c.elem.Serialize(b, v.Field(0))
}

func (c *nullableConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	tok, err := e.PeekToken()
	if err != nil {
		return err
	}
	if tok.Value == "-1" {
		if _, err := e.NextToken(); err != nil {
			return err
		}
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	if err := c.elem.Deserialize(e, v.Field(0)); err != nil {
		return err
	}
	v.Field(1).SetBool(true)
	return nil
}

func (*nullableConverter) NullSymbol() string { return "-1" }

type optionalFactory struct{}

func (optionalFactory) Match(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(optionalMarkerType)
}

func (optionalFactory) Build(t reflect.Type, resolve ResolveFunc) (Converter, error) {
	elem, err := resolve(t.Field(0).Type)
	if err != nil {
		return nil, err
	}
	return &optionalConverter{elem: elem}, nil
}

type optionalConverter struct {
	elem Converter
}

func (c *optionalConverter) Serialize(b *Builder, v reflect.Value) error {
	if !v.Field(1).Bool() {
		return nil
	}
	return c.elem.Serialize(b, v.Field(0))
}

func (c *optionalConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	if last, known := e.IsOnLastToken(); known && last {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	tok, err := e.PeekToken()
	if err != nil {
		return err
	}
	if tok.Value == "" {
		if _, err := e.NextToken(); err != nil {
			return err
		}
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	if err := c.elem.Deserialize(e, v.Field(0)); err != nil {
		return err
	}
	v.Field(1).SetBool(true)
	return nil
}

// NameString is a name whose spaces travel as '^'.
type NameString string

// MarshalWire implements WireMarshaler.
func (n NameString) MarshalWire(b *Builder) error {
	b.Append(strings.ReplaceAll(string(n), " ", "^"))
	return nil
}

// UnmarshalWire implements WireUnmarshaler.
func (n *NameString) UnmarshalWire(e *Enumerator) error {
	tok, err := e.NextToken()
	if err != nil {
		return err
	}
	if tok.Value == "-" {
		return newConversionError(ErrDeserializedValueNull, tok.Value, reflect.TypeFor[NameString](), "")
	}
	*n = NameString(strings.ReplaceAll(tok.Value, "^", " "))
	return nil
}

// UpgradeRare packs an item upgrade and rarity into one token, upgrade digits
// first and the rarity as the last digit. A zero pair is written as "0".
type UpgradeRare struct {
	Upgrade uint8
	Rare    int8
}

// MarshalWire implements WireMarshaler.
func (u UpgradeRare) MarshalWire(b *Builder) error {
	if u.Upgrade == 0 {
		b.AppendInt(int64(u.Rare))
		return nil
	}
	b.Append(strconv.FormatUint(uint64(u.Upgrade), 10) + strconv.FormatInt(int64(u.Rare), 10))
	return nil
}

// UnmarshalWire implements WireUnmarshaler.
func (u *UpgradeRare) UnmarshalWire(e *Enumerator) error {
	tok, err := e.NextToken()
	if err != nil {
		return err
	}
	t := reflect.TypeFor[UpgradeRare]()
	switch {
	case tok.Value == "-":
		return newConversionError(ErrDeserializedValueNull, tok.Value, t, "")
	case tok.Value == "" || len(tok.Value) > 3:
		return newConversionError(ErrCouldNotConvert, tok.Value, t, "expected one to three digits")
	case len(tok.Value) == 1:
		rare, err := strconv.ParseInt(tok.Value, 10, 8)
		if err != nil {
			return newConversionError(ErrCouldNotConvert, tok.Value, t, err.Error())
		}
		*u = UpgradeRare{Rare: int8(rare)}
		return nil
	}

	split := len(tok.Value) - 1
	upgrade, err := strconv.ParseUint(tok.Value[:split], 10, 8)
	if err != nil {
		return newConversionError(ErrCouldNotConvert, tok.Value, t, err.Error())
	}
	rare, err := strconv.ParseInt(tok.Value[split:], 10, 8)
	if err != nil {
		return newConversionError(ErrCouldNotConvert, tok.Value, t, err.Error())
	}
	*u = UpgradeRare{Upgrade: uint8(upgrade), Rare: int8(rare)}
	return nil
}
