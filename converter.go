package nosline

import (
	"context"
	"reflect"
	"sync"
)

// Converter writes and reads values of one Go type.
//
// Serialize receives the value to write. Deserialize receives a settable value
// and fills it from the enumerator.
type Converter interface {
	Serialize(b *Builder, v reflect.Value) error
	Deserialize(e *Enumerator, v reflect.Value) error
}

// ResolveFunc looks up the converter of a nested type while a factory builds.
type ResolveFunc func(reflect.Type) (Converter, error)

// ConverterFactory builds converters for a family of types, such as every
// slice or every pointer type.
type ConverterFactory interface {
	// Match reports whether the factory can build a converter for t.
	Match(t reflect.Type) bool

	// Build creates the converter for t. Converters of element types are
	// obtained through resolve.
	Build(t reflect.Type, resolve ResolveFunc) (Converter, error)
}

// nullSymboler is implemented by converters whose type does not use "-" as
// its null sentinel.
type nullSymboler interface {
	NullSymbol() string
}

// nullSymbolOf returns the null sentinel used for values written by c.
func nullSymbolOf(c Converter) string {
	if ns, ok := c.(nullSymboler); ok {
		return ns.NullSymbol()
	}
	return "-"
}

// Converters maps Go types to converters.
//
// Lookups are safe for concurrent use. Converters built by factories are
// created under the write lock and published only once complete.
type Converters struct {
	mu        sync.RWMutex
	entries   map[reflect.Type]Converter
	factories []ConverterFactory
}

// NewConverters creates a converter set holding the built-in converters and
// factories.
func NewConverters() *Converters {
	c := &Converters{
		entries: make(map[reflect.Type]Converter),
	}
	registerBuiltins(c)
	return c
}

// Register sets the converter for t, replacing any existing one.
func (c *Converters) Register(t reflect.Type, conv Converter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[t] = conv
}

// RegisterFactory adds a factory. Factories registered later are tried first,
// so user factories take precedence over the built-in ones.
func (c *Converters) RegisterFactory(f ConverterFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories = append([]ConverterFactory{f}, c.factories...)
}

// RegisterConverter sets the converter for T.
func RegisterConverter[T any](c *Converters, conv Converter) {
	c.Register(reflect.TypeFor[T](), conv)
}

// Resolve returns the converter for t: an exact entry first, then the first
// matching factory.
func (c *Converters) Resolve(t reflect.Type) (Converter, error) {
	// Fast path: read-lock lookup
	c.mu.RLock()
	if conv, ok := c.entries[t]; ok {
		c.mu.RUnlock()
		return conv, nil
	}
	c.mu.RUnlock()

	// Slow path: build with write-lock
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveLocked(t, make(map[reflect.Type]*deferredConverter))
}

func (c *Converters) resolveLocked(t reflect.Type, building map[reflect.Type]*deferredConverter) (Converter, error) {
	// Double-check pattern
	if conv, ok := c.entries[t]; ok {
		return conv, nil
	}
	// Self-referencing types get a placeholder filled once the outer build completes.
	if d, ok := building[t]; ok {
		return d, nil
	}

	for _, f := range c.factories {
		if !f.Match(t) {
			continue
		}
		d := &deferredConverter{}
		building[t] = d
		conv, err := f.Build(t, func(rt reflect.Type) (Converter, error) {
			return c.resolveLocked(rt, building)
		})
		delete(building, t)
		if err != nil {
			return nil, err
		}
		d.target = conv
		c.entries[t] = conv
		emitConverterBuilt(context.Background(), t.String())
		return conv, nil
	}

	return nil, &LookupError{Err: ErrTypeConverterNotFound, Type: t}
}

// deferredConverter stands in for a converter that is still being built.
type deferredConverter struct {
	target Converter
}

func (d *deferredConverter) Serialize(b *Builder, v reflect.Value) error {
	return d.target.Serialize(b, v)
}

func (d *deferredConverter) Deserialize(e *Enumerator, v reflect.Value) error {
	return d.target.Deserialize(e, v)
}

func (d *deferredConverter) NullSymbol() string {
	return nullSymbolOf(d.target)
}
