package nosline

import "reflect"

// Override interfaces allow types to bypass the field interpreter.
// When a type implements both interfaces, its converter calls the methods
// instead of walking the nos tags.
//
// This is the hook for generated code: a generator can emit these methods
// from the same tags the interpreter reads, removing reflection from the hot
// path for the busiest packets.

// WireMarshaler writes its own tokens.
type WireMarshaler interface {
	// MarshalWire appends the receiver's tokens to the builder's current level.
	MarshalWire(b *Builder) error
}

// WireUnmarshaler reads its own tokens.
type WireUnmarshaler interface {
	// UnmarshalWire fills the receiver from the enumerator's current level.
	UnmarshalWire(e *Enumerator) error
}

// WireNuller overrides the null sentinel used when a pointer to the type is nil.
type WireNuller interface {
	WireNull() string
}

var (
	wireMarshalerType   = reflect.TypeFor[WireMarshaler]()
	wireUnmarshalerType = reflect.TypeFor[WireUnmarshaler]()
	wireNullerType      = reflect.TypeFor[WireNuller]()
)

type overrideFactory struct{}

func (overrideFactory) Match(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(wireMarshalerType) && reflect.PointerTo(t).Implements(wireUnmarshalerType)
}

func (overrideFactory) Build(t reflect.Type, _ ResolveFunc) (Converter, error) {
	c := overrideConverter{t: t, null: "-"}
	if t.Implements(wireNullerType) {
		c.null = reflect.Zero(t).Interface().(WireNuller).WireNull()
	}
	return c, nil
}

type overrideConverter struct {
	t    reflect.Type
	null string
}

func (c overrideConverter) Serialize(b *Builder, v reflect.Value) error {
	return v.Interface().(WireMarshaler).MarshalWire(b)
}

func (c overrideConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	return v.Addr().Interface().(WireUnmarshaler).UnmarshalWire(e)
}

func (c overrideConverter) NullSymbol() string { return c.null }
