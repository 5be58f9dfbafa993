package nosline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"
)

// Serializer converts between lines and registered packets.
//
// A Serializer is safe for concurrent use once all packets are registered.
type Serializer struct {
	registry *Registry
	cfg      config
}

// New creates a serializer over the packets registered in r.
func New(r *Registry, opts ...Option) *Serializer {
	return &Serializer{
		registry: r,
		cfg:      buildConfig(opts),
	}
}

// Registry returns the registry the serializer reads from.
func (s *Serializer) Registry() *Registry {
	return s.registry
}

// Serialize writes packet as a line. Both packet values and pointers to them
// are accepted. Unresolved and failed packets are written back verbatim.
func (s *Serializer) Serialize(ctx context.Context, packet Packet) (line string, retErr error) {
	switch p := packet.(type) {
	case UnresolvedPacket:
		return p.Line, nil
	case ParsingFailedPacket:
		return p.Line, nil
	}

	rv := reflect.ValueOf(packet)
	if !rv.IsValid() {
		return "", &LookupError{Err: ErrPacketConverterNotFound, Type: nil}
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", &LookupError{Err: ErrPacketConverterNotFound, Type: rv.Type()}
		}
		rv = rv.Elem()
	}

	desc, err := s.registry.FindByType(rv.Type())
	if err != nil {
		return "", err
	}

	start := time.Now()
	emitSerializeStart(ctx, desc.TypeName)
	defer func() {
		emitSerializeComplete(ctx, desc.TypeName, len(line), time.Since(start), retErr)
	}()

	return serializeWith(desc, rv)
}

func serializeWith(desc *PacketDescriptor, rv reflect.Value) (string, error) {
	header, ok := desc.Header()
	if !ok {
		return "", &SchemaError{Err: ErrPacketMissingHeader, Type: desc.TypeName, Reason: "packet has no header"}
	}

	b := NewBuilder()
	b.Append(header)
	if err := desc.converter.Serialize(b, rv); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Deserialize reads a line. The header is looked up for preferred first; see
// Registry.FindPacketInfo for the fallback order. The returned packet is the
// registered struct value, not a pointer.
func (s *Serializer) Deserialize(ctx context.Context, line string, preferred Source) (packet Packet, retErr error) {
	e := NewEnumerator(line)
	e.SetTokenLimit(s.cfg.maxTokens)

	tok, err := e.NextToken()
	if err != nil {
		return nil, err
	}

	desc, err := s.registry.FindPacketInfo(tok.Value, preferred)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	emitDeserializeStart(ctx, desc.TypeName, tok.Value)
	defer func() {
		emitDeserializeComplete(ctx, desc.TypeName, tok.Value, len(line), time.Since(start), retErr)
	}()

	rv, err := deserializeWith(desc, e)
	if err != nil {
		return nil, err
	}
	p, ok := rv.Interface().(Packet)
	if !ok {
		return nil, fmt.Errorf("%s does not implement Packet", desc.TypeName)
	}
	return p, nil
}

func deserializeWith(desc *PacketDescriptor, e *Enumerator) (reflect.Value, error) {
	rv := reflect.New(desc.Type).Elem()
	if err := desc.converter.Deserialize(e, rv); err != nil {
		return reflect.Value{}, err
	}
	return rv, nil
}

// DeserializeOrUnresolved is Deserialize for receive loops. An unknown header
// yields an UnresolvedPacket and any other failure a ParsingFailedPacket, so
// the result is never nil.
func (s *Serializer) DeserializeOrUnresolved(ctx context.Context, line string, preferred Source) Packet {
	p, err := s.Deserialize(ctx, line, preferred)
	if err == nil {
		return p
	}

	header := line
	if tok, terr := NewEnumerator(line).NextToken(); terr == nil {
		header = tok.Value
	}
	emitPacketUnresolved(ctx, header, preferred, err)

	if errors.Is(err, ErrPacketConverterNotFound) {
		return UnresolvedPacket{Header: header, Line: line}
	}
	return ParsingFailedPacket{Header: header, Line: line, Err: err}
}

// Processor serializes a single registered packet type without interface
// conversions, for code paths that know the type up front.
type Processor[T Packet] struct {
	desc *PacketDescriptor
	cfg  config
}

// NewProcessor creates a processor for T, which must already be registered with r.
func NewProcessor[T Packet](r *Registry, opts ...Option) (*Processor[T], error) {
	desc, err := r.FindByType(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &Processor[T]{desc: desc, cfg: buildConfig(opts)}, nil
}

// Descriptor returns the descriptor of T.
func (p *Processor[T]) Descriptor() *PacketDescriptor {
	return p.desc
}

// Serialize writes v as a line.
func (p *Processor[T]) Serialize(ctx context.Context, v T) (line string, retErr error) {
	start := time.Now()
	emitSerializeStart(ctx, p.desc.TypeName)
	defer func() {
		emitSerializeComplete(ctx, p.desc.TypeName, len(line), time.Since(start), retErr)
	}()

	return serializeWith(p.desc, reflect.ValueOf(v))
}

// Deserialize reads a line whose header must be one of T's headers.
func (p *Processor[T]) Deserialize(ctx context.Context, line string) (out T, retErr error) {
	e := NewEnumerator(line)
	e.SetTokenLimit(p.cfg.maxTokens)

	tok, err := e.NextToken()
	if err != nil {
		return out, err
	}
	if !slices.Contains(p.desc.Headers, tok.Value) {
		return out, &LookupError{Err: ErrPacketConverterNotFound, Header: tok.Value, Source: p.desc.Source}
	}

	start := time.Now()
	emitDeserializeStart(ctx, p.desc.TypeName, tok.Value)
	defer func() {
		emitDeserializeComplete(ctx, p.desc.TypeName, tok.Value, len(line), time.Since(start), retErr)
	}()

	rv, err := deserializeWith(p.desc, e)
	if err != nil {
		return out, err
	}
	return rv.Interface().(T), nil
}
