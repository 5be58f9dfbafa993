package dispatch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/zoobzio/nosline"
	"github.com/zoobzio/nosline/packets"
)

func newTestDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()
	r, err := packets.NewRegistry()
	if err != nil {
		t.Fatalf("packets.NewRegistry() error: %v", err)
	}
	return New(nosline.New(r), opts...)
}

func TestDispatch_Handled(t *testing.T) {
	d := newTestDispatcher(t)

	var got packets.MovePacket
	MustHandle(d, Handler[packets.MovePacket](func(_ context.Context, p packets.MovePacket) error {
		got = p
		return nil
	}))

	p, err := d.Dispatch(context.Background(), "mv 3 122 15 20 10")
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if _, ok := p.(packets.MovePacket); !ok {
		t.Errorf("Dispatch() packet = %T", p)
	}
	want := packets.MovePacket{EntityType: packets.EntityMonster, EntityID: 122, X: 15, Y: 20, Speed: 10}
	if got != want {
		t.Errorf("handler got %+v, want %+v", got, want)
	}
}

func TestDispatch_Source(t *testing.T) {
	d := newTestDispatcher(t, WithSource(nosline.SourceClient))

	var clientSays, serverSays int
	MustHandle(d, Handler[packets.SayPacket](func(context.Context, packets.SayPacket) error {
		clientSays++
		return nil
	}))
	MustHandle(d, Handler[packets.SayServerPacket](func(context.Context, packets.SayServerPacket) error {
		serverSays++
		return nil
	}))

	if _, err := d.Dispatch(context.Background(), "say hello"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.DispatchFrom(context.Background(), "say 1 2 10 hello", nosline.SourceServer); err != nil {
		t.Fatal(err)
	}
	if clientSays != 1 || serverSays != 1 {
		t.Errorf("client says = %d, server says = %d; want 1 and 1", clientSays, serverSays)
	}
}

func TestDispatch_Fallbacks(t *testing.T) {
	var unresolved []string
	var failed []error
	d := newTestDispatcher(t,
		WithUnresolved(func(_ context.Context, p nosline.UnresolvedPacket) error {
			unresolved = append(unresolved, p.Header)
			return nil
		}),
		WithFailed(func(_ context.Context, p nosline.ParsingFailedPacket) error {
			failed = append(failed, p.Err)
			return nil
		}),
	)

	p, err := d.Dispatch(context.Background(), "qstlist 1.2.3")
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if _, ok := p.(nosline.UnresolvedPacket); !ok {
		t.Errorf("Dispatch() packet = %T, want UnresolvedPacket", p)
	}

	p, err = d.Dispatch(context.Background(), "mv 3 x")
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if _, ok := p.(nosline.ParsingFailedPacket); !ok {
		t.Errorf("Dispatch() packet = %T, want ParsingFailedPacket", p)
	}

	if len(unresolved) != 1 || unresolved[0] != "qstlist" {
		t.Errorf("unresolved = %v", unresolved)
	}
	if len(failed) != 1 || !errors.Is(failed[0], nosline.ErrCouldNotConvert) {
		t.Errorf("failed = %v", failed)
	}
}

func TestDispatch_Unhandled(t *testing.T) {
	d := newTestDispatcher(t)

	p, err := d.Dispatch(context.Background(), "pulse 60 0")
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if _, ok := p.(packets.PulsePacket); !ok {
		t.Errorf("Dispatch() packet = %T", p)
	}
}

func TestHandle_Duplicate(t *testing.T) {
	d := newTestDispatcher(t)
	h := Handler[packets.MovePacket](func(context.Context, packets.MovePacket) error { return nil })

	if err := Handle(d, h); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if err := Handle(d, h); !errors.Is(err, ErrHandlerExists) {
		t.Errorf("expected ErrHandlerExists, got %v", err)
	}
}

func TestDispatch_HandlerError(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDispatcher(t, WithLogger(zerolog.New(&buf)))

	boom := errors.New("boom")
	MustHandle(d, Handler[packets.MovePacket](func(context.Context, packets.MovePacket) error {
		return boom
	}))

	if _, err := d.Dispatch(context.Background(), "mv 1 1 1 1 1"); !errors.Is(err, boom) {
		t.Errorf("expected handler error, got %v", err)
	}
	if !strings.Contains(buf.String(), `"packet":"MovePacket"`) {
		t.Errorf("handler failure should be logged, got %s", buf.String())
	}
}

func TestRun(t *testing.T) {
	d := newTestDispatcher(t)

	var mu sync.Mutex
	var moves int
	MustHandle(d, Handler[packets.MovePacket](func(context.Context, packets.MovePacket) error {
		mu.Lock()
		defer mu.Unlock()
		moves++
		return errors.New("ignored")
	}))

	lines := make(chan string, 4)
	lines <- "mv 1 1 1 1 1"
	lines <- "unknown"
	lines <- "mv 1 2 1 1 1"
	close(lines)

	if err := d.Run(context.Background(), lines); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if moves != 2 {
		t.Errorf("moves = %d, want 2", moves)
	}
}

func TestRun_Cancelled(t *testing.T) {
	d := newTestDispatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Run(ctx, make(chan string)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics("test", reg)
	if err != nil {
		t.Fatalf("NewMetrics() error: %v", err)
	}
	d := newTestDispatcher(t, WithMetrics(m))
	MustHandle(d, Handler[packets.MovePacket](func(context.Context, packets.MovePacket) error {
		return errors.New("boom")
	}))

	ctx := context.Background()
	_, _ = d.Dispatch(ctx, "mv 1 1 1 1 1")
	_, _ = d.Dispatch(ctx, "qstlist 1")
	_, _ = d.Dispatch(ctx, "qstlist 2")
	_, _ = d.Dispatch(ctx, "mv x")

	checks := []struct {
		outcome string
		want    float64
	}{
		{OutcomeHandled, 1},
		{OutcomeUnresolved, 2},
		{OutcomeFailed, 1},
		{OutcomeUnhandled, 0},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(m.lines.WithLabelValues("server", c.outcome)); got != c.want {
			t.Errorf("lines{%s} = %v, want %v", c.outcome, got, c.want)
		}
	}
	if got := testutil.ToFloat64(m.handlerErrors.WithLabelValues("MovePacket")); got != 1 {
		t.Errorf("handler errors = %v, want 1", got)
	}

	if _, err := NewMetrics("test", reg); err == nil {
		t.Error("registering the same collectors twice should fail")
	}
}

func TestMetrics_Nil(_ *testing.T) {
	// Should not panic
	var m *Metrics
	m.recordLine("server", OutcomeHandled, 0)
	m.recordHandlerError("MovePacket")
	m.recordSent("MovePacket", true)
}
