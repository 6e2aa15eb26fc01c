package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/danmuck/fieldmux/internal/msg"
	"github.com/danmuck/fieldmux/internal/observability"
	"github.com/danmuck/fieldmux/internal/protocol/wire"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrInvalidConfig = errors.New("router: invalid config")

// Config names a router and bounds the messages it accepts.
type Config struct {
	Name   string
	Limits wire.Limits
}

func DefaultConfig(name string) Config {
	return Config{Name: name, Limits: wire.DefaultLimits()}
}

// Stats counts dispatch outcomes since the router was created.
type Stats struct {
	Handled   uint64
	Unhandled uint64
}

func (s Stats) Total() uint64 {
	return s.Handled + s.Unhandled
}

// Router reads messages of one definition from a stream and dispatches each
// through a handler with a fixed extra argument.
type Router[A any] struct {
	cfg        Config
	def        *msg.Definition
	dispatcher msg.Dispatcher[A]
	arg        A
	logger     zerolog.Logger
	counters   observability.DispatchCounters

	handled   atomic.Uint64
	unhandled atomic.Uint64
}

func New[A any](cfg Config, def *msg.Definition, d msg.Dispatcher[A], arg A) (*Router[A], error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidConfig)
	}
	if def == nil {
		return nil, fmt.Errorf("%w: missing message definition", ErrInvalidConfig)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: missing dispatcher", ErrInvalidConfig)
	}
	return &Router[A]{
		cfg:        cfg,
		def:        def,
		dispatcher: d,
		arg:        arg,
		logger:     log.With().Str("router", cfg.Name).Str("message", def.Name()).Logger(),
		counters:   observability.NewDispatchCounters(cfg.Name),
	}, nil
}

// Dispatch hands one message to the handler and records the outcome.
func (r *Router[A]) Dispatch(m msg.Message) bool {
	handled := r.dispatcher.Handle(m, r.arg)
	r.counters.RecordDispatch(handled)
	if handled {
		r.handled.Add(1)
		return true
	}
	r.unhandled.Add(1)
	if e := r.logger.Debug(); e.Enabled() {
		e.Stringer("msg", m).Msg("router.Dispatch unhandled")
	}
	return false
}

// Serve dispatches messages from in until the stream ends (nil), ctx is done
// (ctx.Err()), or a read fails. Cancellation is observed between messages.
func (r *Router[A]) Serve(ctx context.Context, in io.Reader) error {
	reader, err := wire.NewReader(in, r.def, r.cfg.Limits)
	if err != nil {
		return err
	}
	r.logger.Info().Int("words", r.def.Words()).Msg("router.Serve start")
	for {
		if err := ctx.Err(); err != nil {
			r.logger.Info().Err(err).Msg("router.Serve stopped")
			return err
		}
		m, err := reader.Next()
		if errors.Is(err, io.EOF) {
			stats := r.Stats()
			r.logger.Info().
				Uint64("handled", stats.Handled).
				Uint64("unhandled", stats.Unhandled).
				Msg("router.Serve end of stream")
			return nil
		}
		if err != nil {
			r.counters.RecordReadError()
			r.logger.Error().Err(err).Msg("router.Serve read failed")
			return fmt.Errorf("router %s: %w", r.cfg.Name, err)
		}
		r.Dispatch(m)
	}
}

func (r *Router[A]) Stats() Stats {
	return Stats{Handled: r.handled.Load(), Unhandled: r.unhandled.Load()}
}

func (r *Router[A]) Name() string {
	return r.cfg.Name
}
