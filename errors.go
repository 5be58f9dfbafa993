package nosline

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrPacketEndReached indicates a token was requested after the level ended.
	ErrPacketEndReached = errors.New("packet end reached")

	// ErrPacketEndNotExpected indicates a required field found the level already ended.
	ErrPacketEndNotExpected = errors.New("packet end not expected")

	// ErrCouldNotConvert indicates a token does not have the shape the target type needs.
	ErrCouldNotConvert = errors.New("could not convert")

	// ErrAmbiguousHeader indicates two packet types share a header and source.
	ErrAmbiguousHeader = errors.New("ambiguous header")

	// ErrDeserializedValueNull indicates a null sentinel arrived for a non-nullable field.
	ErrDeserializedValueNull = errors.New("deserialized value is null")

	// ErrTypeConverterNotFound indicates no converter exists for a Go type.
	ErrTypeConverterNotFound = errors.New("type converter not found")

	// ErrPacketConverterNotFound indicates no packet type is registered for a header.
	ErrPacketConverterNotFound = errors.New("packet converter not found")

	// ErrPacketMissingHeader indicates a packet type that cannot be written to the wire.
	ErrPacketMissingHeader = errors.New("packet missing header")

	// ErrInvalidSchema indicates a packet struct violates the field rules.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrLevelUnderflow indicates PopLevel was called on the top level.
	ErrLevelUnderflow = errors.New("level underflow")

	// ErrNoPreparedLevel indicates a prepared level was requested but none was set.
	ErrNoPreparedLevel = errors.New("no prepared level")

	// ErrNoCapturedTokens indicates IncrementReadTokens ran without CaptureReadTokens.
	ErrNoCapturedTokens = errors.New("no captured tokens")

	// ErrTokenLimit indicates a level produced more tokens than allowed.
	ErrTokenLimit = errors.New("token limit exceeded")
)

// TokenizationError reports an enumerator failure at a given offset.
type TokenizationError struct {
	Err      error // Underlying sentinel error (ErrPacketEndReached, ErrLevelUnderflow, etc.)
	Offset   int   // Byte offset into the line
	LevelEnd bool  // True when the level ended rather than the whole line
}

func (e *TokenizationError) Error() string {
	if e.LevelEnd {
		return fmt.Sprintf("%s at offset %d (level end)", e.Err.Error(), e.Offset)
	}
	return fmt.Sprintf("%s at offset %d", e.Err.Error(), e.Offset)
}

func (e *TokenizationError) Unwrap() error {
	return e.Err
}

// ConversionError reports a token that could not be turned into a value.
type ConversionError struct {
	Err    error  // Underlying sentinel error (ErrCouldNotConvert, ErrDeserializedValueNull)
	Token  string // Offending token
	Type   string // Target type name
	Reason string // Optional detail
}

func (e *ConversionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %q to %s: %s", e.Err.Error(), e.Token, e.Type, e.Reason)
	}
	return fmt.Sprintf("%s %q to %s", e.Err.Error(), e.Token, e.Type)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// SchemaError reports a packet struct that cannot be registered.
type SchemaError struct {
	Err    error  // Underlying sentinel error (ErrInvalidSchema, ErrTypeConverterNotFound)
	Type   string // Packet type name
	Field  string // Field name, empty for type-level problems
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s.%s: %s", e.Err.Error(), e.Type, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Err.Error(), e.Type, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// LookupError reports a missing converter or packet descriptor.
type LookupError struct {
	Err    error // Underlying sentinel error (ErrTypeConverterNotFound, ErrPacketConverterNotFound)
	Header string
	Source Source
	Type   reflect.Type
}

func (e *LookupError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("%s for type %s", e.Err.Error(), e.Type)
	}
	return fmt.Sprintf("%s for header %q (source %s)", e.Err.Error(), e.Header, e.Source)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// FieldError locates a failure inside a packet.
type FieldError struct {
	Packet string // Packet type name
	Field  string // Field name
	Err    error  // Cause, any of the errors above
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Packet, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// AmbiguousHeaderError reports two packet types registered under one header and source.
type AmbiguousHeaderError struct {
	Header   string
	Source   Source
	Existing string // Type already registered
	Incoming string // Type being registered
}

func (e *AmbiguousHeaderError) Error() string {
	return fmt.Sprintf("%s %q (source %s): %s and %s", ErrAmbiguousHeader.Error(), e.Header, e.Source, e.Existing, e.Incoming)
}

func (e *AmbiguousHeaderError) Unwrap() error {
	return ErrAmbiguousHeader
}

// newTokenizationError creates a TokenizationError at the given offset.
func newTokenizationError(sentinel error, offset int, levelEnd bool) error {
	return &TokenizationError{
		Err:      sentinel,
		Offset:   offset,
		LevelEnd: levelEnd,
	}
}

// newConversionError creates a ConversionError for an offending token.
func newConversionError(sentinel error, token string, t reflect.Type, reason string) error {
	name := "<nil>"
	if t != nil {
		name = t.String()
	}
	return &ConversionError{
		Err:    sentinel,
		Token:  token,
		Type:   name,
		Reason: reason,
	}
}

// newSchemaError creates a SchemaError for a registration failure.
func newSchemaError(typeName, field, reason string) error {
	return &SchemaError{
		Err:    ErrInvalidSchema,
		Type:   typeName,
		Field:  field,
		Reason: reason,
	}
}

// newFieldError wraps err with the packet and field it happened in.
// An existing FieldError is kept so the innermost location wins.
func newFieldError(packet, field string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return err
	}
	return &FieldError{
		Packet: packet,
		Field:  field,
		Err:    err,
	}
}
