// Package nosline encodes and decodes the line-based text protocol spoken by the
// NosTale client and server.
//
// Every packet is one line. The first token is the header that names the packet,
// the remaining tokens are its fields. Fields are separated by spaces at the top
// level; sub-packets and lists nest further levels using their own separators
// such as '.', '|' or ' '.
//
// # Declaring Packets
//
// Packets are plain structs whose field positions are declared with the nos tag:
//
//	type MovePacket struct {
//	    EntityType packets.EntityType `nos:"0"`
//	    EntityID   int64              `nos:"1"`
//	    X          int16              `nos:"2"`
//	    Y          int16              `nos:"3"`
//	    Speed      uint8              `nos:"4"`
//	}
//
//	func (MovePacket) Packet() {}
//
// Tag options:
//
//	optional             - field may be missing at the end of its level
//	greedy               - consume the rest of the level verbatim
//	inner=.              - sub-packet fields separated by '.'
//	after=.              - separator used once after the first token of the field
//	list,sep=|,elem=.    - list terminated by the end of its level
//	len=3                - list holds at most three elements
//	count=Amount         - list length taken from an earlier field
//	if=Type:1|2          - field present only when Type is 1 or 2
//	unless=Type:9        - field present unless Type is 9
//	null=-               - null sentinel for a pointer field
//
// Separators may be written literally or by name: space, comma, pipe, dot,
// colon, caret, minus, hash.
//
// # Null Values
//
// Pointer fields are nullable. Numbers and booleans use "-1" as the null
// sentinel, strings and sub-packets use "-". The Nullable and Optional wrappers
// cover sub-packets that use "-1" and fields that may simply be missing.
//
// # Basic Usage
//
//	reg := nosline.NewRegistry()
//	nosline.MustRegister[MovePacket](reg, nosline.SourceServer, "mv")
//
//	s := nosline.New(reg)
//	p, err := s.Deserialize(ctx, "mv 3 122 15 20 10", nosline.SourceServer)
//	line, err := s.Serialize(ctx, p)
//
// Unknown headers are expected traffic. DeserializeOrUnresolved returns an
// UnresolvedPacket or ParsingFailedPacket instead of an error so a receive loop
// can keep going.
//
// # Override Interfaces
//
// Types can bypass the field interpreter by implementing WireMarshaler and
// WireUnmarshaler. Hand-written or generated code then drives the Builder and
// Enumerator directly.
package nosline

import "fmt"

// Packet is implemented by every type that can be registered with a Registry.
type Packet interface {
	Packet()
}

// Source tells which side of the connection produced a packet.
type Source uint8

const (
	// SourceAny matches packets accepted from either side.
	SourceAny Source = iota

	// SourceServer marks packets sent by the server.
	SourceServer

	// SourceClient marks packets sent by the client.
	SourceClient
)

// String returns the lowercase name of the source.
func (s Source) String() string {
	switch s {
	case SourceServer:
		return "server"
	case SourceClient:
		return "client"
	case SourceAny:
		return "any"
	default:
		return fmt.Sprintf("source(%d)", uint8(s))
	}
}

// ParseSource converts a name produced by Source.String back into a Source.
func ParseSource(name string) (Source, error) {
	switch name {
	case "server", "recv":
		return SourceServer, nil
	case "client", "send":
		return SourceClient, nil
	case "any", "":
		return SourceAny, nil
	default:
		return SourceAny, fmt.Errorf("unknown packet source %q", name)
	}
}

// Codec provides content-type aware marshaling.
// Capture archives are written through a Codec.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
