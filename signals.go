package nosline

import (
	"context"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalPacketRegistered    = capitan.NewSignal("nosline.packet.registered", "Packet type registered")
	SignalConverterBuilt      = capitan.NewSignal("nosline.converter.built", "Converter built by a factory")
	SignalSerializeStart      = capitan.NewSignal("nosline.serialize.start", "Serialize operation beginning")
	SignalSerializeComplete   = capitan.NewSignal("nosline.serialize.complete", "Serialize operation finished")
	SignalDeserializeStart    = capitan.NewSignal("nosline.deserialize.start", "Deserialize operation beginning")
	SignalDeserializeComplete = capitan.NewSignal("nosline.deserialize.complete", "Deserialize operation finished")
	SignalPacketUnresolved    = capitan.NewSignal("nosline.packet.unresolved", "Line could not be turned into a packet")
)

// Keys for typed event data.
var (
	KeyTypeName = capitan.NewStringKey("type_name")
	KeyHeader   = capitan.NewStringKey("header")
	KeySource   = capitan.NewStringKey("source")
	KeyGoType   = capitan.NewStringKey("go_type")
	KeySize     = capitan.NewIntKey("size")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
)

// emitPacketRegistered emits an event when a packet type is registered.
func emitPacketRegistered(ctx context.Context, typeName string, headers []string, source Source) {
	capitan.Emit(ctx, SignalPacketRegistered,
		KeyTypeName.Field(typeName),
		KeyHeader.Field(strings.Join(headers, ",")),
		KeySource.Field(source.String()),
	)
}

// emitConverterBuilt emits an event when a factory builds a converter.
func emitConverterBuilt(ctx context.Context, goType string) {
	capitan.Emit(ctx, SignalConverterBuilt,
		KeyGoType.Field(goType),
	)
}

// emitSerializeStart emits an event when serialize begins.
func emitSerializeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalSerializeStart,
		KeyTypeName.Field(typeName),
	)
}

// emitSerializeComplete emits an event when serialize finishes.
func emitSerializeComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSerializeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSerializeComplete, fields...)
	}
}

// emitDeserializeStart emits an event when deserialize begins.
func emitDeserializeStart(ctx context.Context, typeName, header string) {
	capitan.Emit(ctx, SignalDeserializeStart,
		KeyTypeName.Field(typeName),
		KeyHeader.Field(header),
	)
}

// emitDeserializeComplete emits an event when deserialize finishes.
func emitDeserializeComplete(ctx context.Context, typeName, header string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyHeader.Field(header),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDeserializeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDeserializeComplete, fields...)
	}
}

// emitPacketUnresolved emits an event when a line is passed on unparsed.
func emitPacketUnresolved(ctx context.Context, header string, source Source, err error) {
	capitan.Error(ctx, SignalPacketUnresolved,
		KeyHeader.Field(header),
		KeySource.Field(source.String()),
		KeyError.Field(err),
	)
}
