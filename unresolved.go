package nosline

// UnresolvedPacket is returned for a line whose header is not registered.
// Unknown headers are normal traffic and should be passed on, not treated as
// failures.
type UnresolvedPacket struct {
	Header string
	Line   string
}

// Packet implements Packet.
func (UnresolvedPacket) Packet() {}

// ParsingFailedPacket is returned for a line whose header is registered but
// whose body could not be read.
type ParsingFailedPacket struct {
	Header string
	Line   string
	Err    error
}

// Packet implements Packet.
func (ParsingFailedPacket) Packet() {}

// Unwrap returns the deserialization error.
func (p ParsingFailedPacket) Unwrap() error {
	return p.Err
}
