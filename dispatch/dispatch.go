// Package dispatch routes incoming lines to typed packet handlers.
//
// A Dispatcher reads each line with a nosline.Serializer and calls the handler
// registered for the packet's Go type. Lines with unknown headers and lines
// that fail to parse go to fallback handlers instead of stopping the stream.
//
//	d := dispatch.New(s, dispatch.WithLogger(log))
//	dispatch.Handle(d, func(ctx context.Context, p packets.MovePacket) error {
//	    return world.Move(p.EntityID, p.X, p.Y)
//	})
//	err := d.Run(ctx, lines)
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zoobzio/nosline"
)

// ErrHandlerExists indicates a second handler for the same packet type.
var ErrHandlerExists = errors.New("handler already registered")

// Handler handles one packet type.
type Handler[T nosline.Packet] func(ctx context.Context, p T) error

type handlerFunc func(ctx context.Context, p nosline.Packet) error

// Dispatcher routes lines to handlers. Handlers are registered at startup;
// Dispatch and Run are safe for concurrent use afterwards.
type Dispatcher struct {
	serializer *nosline.Serializer
	source     nosline.Source
	log        zerolog.Logger
	metrics    *Metrics

	mu         sync.RWMutex
	handlers   map[reflect.Type]handlerFunc
	unresolved func(ctx context.Context, p nosline.UnresolvedPacket) error
	failed     func(ctx context.Context, p nosline.ParsingFailedPacket) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSource sets the source preferred when looking up headers.
func WithSource(s nosline.Source) Option {
	return func(d *Dispatcher) {
		d.source = s
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithMetrics records line outcomes and handler failures in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithUnresolved sets the handler for lines whose header is not registered.
func WithUnresolved(fn func(ctx context.Context, p nosline.UnresolvedPacket) error) Option {
	return func(d *Dispatcher) {
		d.unresolved = fn
	}
}

// WithFailed sets the handler for lines that could not be read.
func WithFailed(fn func(ctx context.Context, p nosline.ParsingFailedPacket) error) Option {
	return func(d *Dispatcher) {
		d.failed = fn
	}
}

// New creates a dispatcher reading lines with s.
func New(s *nosline.Serializer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		serializer: s,
		source:     nosline.SourceServer,
		log:        zerolog.Nop(),
		handlers:   make(map[reflect.Type]handlerFunc),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle registers h for packets of type T.
func Handle[T nosline.Packet](d *Dispatcher, h Handler[T]) error {
	t := reflect.TypeFor[T]()

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.handlers[t]; ok {
		return fmt.Errorf("%w: %s", ErrHandlerExists, t)
	}
	d.handlers[t] = func(ctx context.Context, p nosline.Packet) error {
		return h(ctx, p.(T))
	}
	return nil
}

// MustHandle is like Handle but panics on error.
func MustHandle[T nosline.Packet](d *Dispatcher, h Handler[T]) {
	if err := Handle(d, h); err != nil {
		panic(err)
	}
}

// Dispatch reads line with the dispatcher's preferred source and hands the
// packet to its handler.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) (nosline.Packet, error) {
	return d.DispatchFrom(ctx, line, d.source)
}

// DispatchFrom reads line as coming from source and hands the packet to its
// handler. The returned packet is never nil. The error is the handler's;
// lines that cannot be read are reported to the fallbacks, not returned.
func (d *Dispatcher) DispatchFrom(ctx context.Context, line string, source nosline.Source) (nosline.Packet, error) {
	start := time.Now()
	p := d.serializer.DeserializeOrUnresolved(ctx, line, source)

	var (
		outcome string
		err     error
	)
	switch v := p.(type) {
	case nosline.UnresolvedPacket:
		outcome = OutcomeUnresolved
		d.log.Debug().Str("header", v.Header).Stringer("source", source).Msg("unresolved packet")
		if d.unresolved != nil {
			err = d.unresolved(ctx, v)
		}
	case nosline.ParsingFailedPacket:
		outcome = OutcomeFailed
		d.log.Warn().Err(v.Err).Str("header", v.Header).Stringer("source", source).Str("line", v.Line).Msg("packet parsing failed")
		if d.failed != nil {
			err = d.failed(ctx, v)
		}
	default:
		d.mu.RLock()
		h, ok := d.handlers[reflect.TypeOf(p)]
		d.mu.RUnlock()
		if !ok {
			outcome = OutcomeUnhandled
			d.log.Trace().Str("packet", packetName(p)).Msg("no handler")
			break
		}
		outcome = OutcomeHandled
		err = h(ctx, p)
	}

	if err != nil {
		name := packetName(p)
		d.metrics.recordHandlerError(name)
		d.log.Error().Err(err).Str("packet", name).Msg("handler failed")
	}
	d.metrics.recordLine(source.String(), outcome, time.Since(start))
	return p, err
}

// Run dispatches lines until the channel is closed or ctx is done. Handler
// errors are logged and the loop continues. Run returns ctx.Err() when
// cancelled and nil when the channel is drained.
func (d *Dispatcher) Run(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			_, _ = d.Dispatch(ctx, line)
		}
	}
}
