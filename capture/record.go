// Package capture reads, writes and replays packet captures.
//
// A capture log holds one line per packet, prefixed with the direction it
// travelled:
//
//	[Recv]	mv 3 122 15 20 10
//	[Send]	walk 20 15 1 11
//
// Received lines come from the server and sent lines from the client. Logs
// can be packed into an Archive and stored with any of the codecs in this
// package, optionally zstd compressed.
package capture

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/zoobzio/nosline"
	"golang.org/x/crypto/blake2b"
)

// Direction prefixes of a capture log line.
const (
	PrefixRecv = "[Recv]\t"
	PrefixSend = "[Send]\t"
)

// ErrMalformedLine indicates a capture log line without a direction prefix.
var ErrMalformedLine = errors.New("malformed capture line")

// Record is one captured packet line.
type Record struct {
	Seq         uint64         `json:"seq" xml:"seq,attr" yaml:"seq" msgpack:"seq" bson:"seq"`
	Source      nosline.Source `json:"source" xml:"source,attr" yaml:"source" msgpack:"source" bson:"source"`
	Fingerprint string         `json:"fingerprint" xml:"fingerprint,attr" yaml:"fingerprint" msgpack:"fingerprint" bson:"fingerprint"`
	Line        string         `json:"line" xml:",chardata" yaml:"line" msgpack:"line" bson:"line"`
}

// NewRecord creates a record with its fingerprint filled in.
func NewRecord(seq uint64, source nosline.Source, line string) Record {
	return Record{
		Seq:         seq,
		Source:      source,
		Fingerprint: Fingerprint(source, line),
		Line:        line,
	}
}

// Fingerprint returns the hex blake2b-256 digest of a line and its source.
// Equal lines travelling in different directions get different fingerprints.
func Fingerprint(source nosline.Source, line string) string {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, byte(source))
	buf = append(buf, line...)
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// ParseLine splits a capture log line into its source and packet line.
func ParseLine(s string) (nosline.Source, string, error) {
	s = strings.TrimRight(s, "\r\n")
	switch {
	case strings.HasPrefix(s, PrefixRecv):
		return nosline.SourceServer, s[len(PrefixRecv):], nil
	case strings.HasPrefix(s, PrefixSend):
		return nosline.SourceClient, s[len(PrefixSend):], nil
	}
	return nosline.SourceAny, "", fmt.Errorf("%w: %q", ErrMalformedLine, s)
}

// FormatLine writes a packet line with the prefix of its source. Packets of
// any source are written as received.
func FormatLine(source nosline.Source, line string) string {
	if source == nosline.SourceClient {
		return PrefixSend + line
	}
	return PrefixRecv + line
}
