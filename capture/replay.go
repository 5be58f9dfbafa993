package capture

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/zoobzio/nosline"
	"github.com/zoobzio/nosline/dispatch"
)

// Stats counts the outcome of a replay.
type Stats struct {
	Lines         int
	Resolved      int
	Unresolved    int
	Failed        int
	HandlerErrors int
}

// ReplayOption configures Replay.
type ReplayOption func(*replayConfig)

type replayConfig struct {
	log    zerolog.Logger
	filter func(Record) bool
}

// WithReplayLogger logs a summary line and every handler error.
func WithReplayLogger(log zerolog.Logger) ReplayOption {
	return func(c *replayConfig) {
		c.log = log
	}
}

// OnlySource replays only records travelling from source.
func OnlySource(source nosline.Source) ReplayOption {
	return func(c *replayConfig) {
		c.filter = func(r Record) bool { return r.Source == source }
	}
}

// Replay dispatches every record of r through d, each with the source it was
// captured from. It stops early only when ctx is done or r fails; handler
// errors are counted and the replay continues.
func Replay(ctx context.Context, r RecordReader, d *dispatch.Dispatcher, opts ...ReplayOption) (Stats, error) {
	cfg := replayConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}
		if cfg.filter != nil && !cfg.filter(rec) {
			continue
		}

		stats.Lines++
		p, herr := d.DispatchFrom(ctx, rec.Line, rec.Source)
		switch p.(type) {
		case nosline.UnresolvedPacket:
			stats.Unresolved++
		case nosline.ParsingFailedPacket:
			stats.Failed++
		default:
			stats.Resolved++
		}
		if herr != nil {
			stats.HandlerErrors++
			cfg.log.Debug().Err(herr).Uint64("seq", rec.Seq).Msg("replay handler error")
		}
	}

	cfg.log.Info().
		Int("lines", stats.Lines).
		Int("resolved", stats.Resolved).
		Int("unresolved", stats.Unresolved).
		Int("failed", stats.Failed).
		Int("handler_errors", stats.HandlerErrors).
		Msg("replay complete")
	return stats, nil
}
