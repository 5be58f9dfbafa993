package nosline

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/zoobzio/sentinel"
)

// PacketDescriptor describes a registered packet type.
type PacketDescriptor struct {
	Type     reflect.Type
	TypeName string
	Headers  []string
	Source   Source
	Fields   []*FieldDescriptor

	converter Converter
}

// Header returns the header written on serialize. Packets registered without
// a header only ever appear nested and cannot be written on their own.
func (d *PacketDescriptor) Header() (string, bool) {
	if len(d.Headers) == 0 {
		return "", false
	}
	return d.Headers[0], true
}

// headerKey combines header and source for lookup.
type headerKey struct {
	header string
	source Source
}

// Registry maps headers and Go types to packet descriptors.
//
// Registration is expected at startup. Lookups are safe for concurrent use
// and never mutate the registry.
type Registry struct {
	mu         sync.RWMutex
	byHeader   map[headerKey]*PacketDescriptor
	byType     map[reflect.Type]*PacketDescriptor
	converters *Converters
}

// NewRegistry creates an empty registry with the built-in converters.
func NewRegistry() *Registry {
	return NewRegistryWith(NewConverters())
}

// NewRegistryWith creates an empty registry resolving field types through c.
func NewRegistryWith(c *Converters) *Registry {
	return &Registry{
		byHeader:   make(map[headerKey]*PacketDescriptor),
		byType:     make(map[reflect.Type]*PacketDescriptor),
		converters: c,
	}
}

// Converters returns the converter set used for field types.
func (r *Registry) Converters() *Converters {
	return r.converters
}

// Register adds packet type T under the given headers. A packet registered
// without headers can be nested but not written on its own.
//
// Registering a header and source pair twice fails with an
// AmbiguousHeaderError; schema violations fail with a SchemaError. Nothing is
// registered when an error is returned.
func Register[T Packet](r *Registry, source Source, headers ...string) error {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return newSchemaError(rt.String(), "", "packet must be a struct type")
	}
	meta := sentinel.Scan[T]()

	schema, err := buildSchema(rt, meta, r.converters.Resolve)
	if err != nil {
		return err
	}
	conv := &structConverter{schema: schema}

	desc := &PacketDescriptor{
		Type:      rt,
		TypeName:  schema.typeName,
		Headers:   append([]string(nil), headers...),
		Source:    source,
		Fields:    schema.fields,
		converter: conv,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byType[rt]; ok {
		return newSchemaError(desc.TypeName, "", fmt.Sprintf("already registered with headers %v", existing.Headers))
	}
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h == "" {
			return newSchemaError(desc.TypeName, "", "empty header")
		}
		if seen[h] {
			return newSchemaError(desc.TypeName, "", fmt.Sprintf("header %q listed twice", h))
		}
		seen[h] = true
		if existing, ok := r.byHeader[headerKey{h, source}]; ok {
			return &AmbiguousHeaderError{
				Header:   h,
				Source:   source,
				Existing: existing.TypeName,
				Incoming: desc.TypeName,
			}
		}
	}

	for _, h := range headers {
		r.byHeader[headerKey{h, source}] = desc
	}
	r.byType[rt] = desc
	r.converters.Register(rt, conv)

	emitPacketRegistered(context.Background(), desc.TypeName, headers, source)
	return nil
}

// MustRegister is like Register but panics on error.
// Use it in init code where a schema error is a programming mistake.
func MustRegister[T Packet](r *Registry, source Source, headers ...string) {
	if err := Register[T](r, source, headers...); err != nil {
		panic(err)
	}
}

// FindPacketInfo finds the descriptor for a header. An exact source match is
// preferred, then a packet registered for any source, then the single packet
// registered for another source. Two candidates from other sources are
// ambiguous.
func (r *Registry) FindPacketInfo(header string, source Source) (*PacketDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.byHeader[headerKey{header, source}]; ok {
		return d, nil
	}
	if d, ok := r.byHeader[headerKey{header, SourceAny}]; ok {
		return d, nil
	}

	var found *PacketDescriptor
	for _, s := range []Source{SourceServer, SourceClient} {
		if s == source {
			continue
		}
		d, ok := r.byHeader[headerKey{header, s}]
		if !ok {
			continue
		}
		if found != nil {
			return nil, &AmbiguousHeaderError{
				Header:   header,
				Source:   source,
				Existing: found.TypeName,
				Incoming: d.TypeName,
			}
		}
		found = d
	}
	if found != nil {
		return found, nil
	}
	return nil, &LookupError{Err: ErrPacketConverterNotFound, Header: header, Source: source}
}

// FindByType finds the descriptor of a registered packet type.
func (r *Registry) FindByType(t reflect.Type) (*PacketDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.byType[t]; ok {
		return d, nil
	}
	return nil, &LookupError{Err: ErrPacketConverterNotFound, Type: t}
}

// Descriptors returns every registered packet, sorted by type name.
func (r *Registry) Descriptors() []*PacketDescriptor {
	r.mu.RLock()
	out := make([]*PacketDescriptor, 0, len(r.byType))
	for _, d := range r.byType {
		out = append(out, d)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].TypeName < out[j].TypeName
	})
	return out
}

// processorKey combines type and registry for cache lookup.
type processorKey struct {
	typ      reflect.Type
	registry *Registry
}

var (
	processors   = make(map[processorKey]any)
	processorsMu sync.RWMutex
)

// Use returns a cached processor or builds a new one.
// The processor is cached by packet type and registry.
// T must already be registered with r.
func Use[T Packet](r *Registry, opts ...Option) (*Processor[T], error) {
	key := processorKey{typ: reflect.TypeFor[T](), registry: r}

	// Fast path: read-lock cache check
	processorsMu.RLock()
	if cached, ok := processors[key]; ok {
		processorsMu.RUnlock()
		return cached.(*Processor[T]), nil
	}
	processorsMu.RUnlock()

	// Slow path: build and cache with write-lock
	processorsMu.Lock()
	defer processorsMu.Unlock()

	// Double-check pattern
	if cached, ok := processors[key]; ok {
		return cached.(*Processor[T]), nil
	}

	p, err := NewProcessor[T](r, opts...)
	if err != nil {
		return nil, err
	}

	processors[key] = p
	return p, nil
}

// Reset clears the processor cache.
// This is primarily useful for test isolation.
func Reset() {
	processorsMu.Lock()
	defer processorsMu.Unlock()
	processors = make(map[processorKey]any)
}
