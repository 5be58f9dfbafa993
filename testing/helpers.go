// Package testing provides test utilities for nosline.
package testing

import (
	"context"
	"strings"
	"testing"

	"github.com/zoobzio/nosline"
	"github.com/zoobzio/nosline/capture"
	"github.com/zoobzio/nosline/packets"
)

// Sample is a wire line known to survive a read and write unchanged.
type Sample struct {
	Name   string
	Line   string
	Source nosline.Source
}

// Samples returns lines covering every field shape of the packet catalog:
// plain values, nullable and optional fields, conditions, nested lists and
// greedy strings.
func Samples() []Sample {
	return []Sample{
		{"mv", "mv 3 122 15 20 10", nosline.SourceServer},
		{"walk", "walk 15 20 1 10", nosline.SourceClient},
		{"pulse", "pulse 60 0", nosline.SourceClient},
		{"say client", "say hello there", nosline.SourceClient},
		{"say server", "say 1 123 0 hello there", nosline.SourceServer},
		{"fc", "fc 1 15122 76 0 0 0 0 0 0 0 0 100 3 10 1000 1 0 0 0 0", nosline.SourceServer},
		{"pinit", "pinit 2 2|345377|0|83|Kliff|-1|319|1|0 2|345384|1|83|@|-1|2105|0|0", nosline.SourceServer},
		{"raid healths", "raid 3 1.100.100 2.90.95 3.95.90", nosline.SourceServer},
		{"in item", "in 9 1046 2871 10 20 5 0 -1", nosline.SourceServer},
		{"st buffs", "st 1 123 99 80 100 100 5000 3000 4.1 7.2 11", nosline.SourceServer},
		{"gidx family", "gidx 1 123 45.2 Big^Family Leader 1|0|1", nosline.SourceServer},
		{"twk short", "twk 1 123 account Hero salt", nosline.SourceServer},
		{"clist_end", "clist_end", nosline.SourceServer},
	}
}

// Serializer returns a serializer over the full packet catalog.
func Serializer(tb testing.TB) *nosline.Serializer {
	tb.Helper()
	reg, err := packets.NewRegistry()
	if err != nil {
		tb.Fatalf("packets.NewRegistry() error: %v", err)
	}
	return nosline.New(reg)
}

// RoundTrip reads the sample line, writes the packet back and fails tb when
// the two lines differ. It returns the packet that was read.
func RoundTrip(tb testing.TB, s *nosline.Serializer, sample Sample) nosline.Packet {
	tb.Helper()
	ctx := context.Background()
	p, err := s.Deserialize(ctx, sample.Line, sample.Source)
	if err != nil {
		tb.Fatalf("%s: Deserialize() error: %v", sample.Name, err)
	}
	line, err := s.Serialize(ctx, p)
	if err != nil {
		tb.Fatalf("%s: Serialize(%T) error: %v", sample.Name, p, err)
	}
	if line != sample.Line {
		tb.Errorf("%s: round trip mismatch\n got: %q\nwant: %q", sample.Name, line, sample.Line)
	}
	return p
}

// CaptureLog renders samples as a capture log.
func CaptureLog(samples []Sample) string {
	var b strings.Builder
	for _, s := range samples {
		b.WriteString(capture.FormatLine(s.Source, s.Line))
		b.WriteByte('\n')
	}
	return b.String()
}
