package dispatch

import (
	"context"
	"reflect"

	"github.com/rs/zerolog"
	"github.com/zoobzio/nosline"
)

// SendFunc delivers a serialized line to the layer below.
type SendFunc func(ctx context.Context, line string) error

// Outbound serializes packets and passes the lines to a SendFunc.
type Outbound struct {
	serializer *nosline.Serializer
	send       SendFunc
	log        zerolog.Logger
	metrics    *Metrics
}

// NewOutbound creates an outbound writer. Only WithLogger and WithMetrics
// apply; other options are ignored.
func NewOutbound(s *nosline.Serializer, send SendFunc, opts ...Option) *Outbound {
	d := New(s, opts...)
	return &Outbound{
		serializer: s,
		send:       send,
		log:        d.log,
		metrics:    d.metrics,
	}
}

// Send serializes p and delivers the line.
func (o *Outbound) Send(ctx context.Context, p nosline.Packet) error {
	name := packetName(p)

	line, err := o.serializer.Serialize(ctx, p)
	if err != nil {
		o.metrics.recordSent(name, false)
		o.log.Error().Err(err).Str("packet", name).Msg("serialize failed")
		return err
	}
	if err := o.send(ctx, line); err != nil {
		o.metrics.recordSent(name, false)
		return err
	}
	o.metrics.recordSent(name, true)
	o.log.Trace().Str("packet", name).Str("line", line).Msg("sent")
	return nil
}

// packetName returns the type name of p, looking through pointers.
func packetName(p nosline.Packet) string {
	t := reflect.TypeOf(p)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
