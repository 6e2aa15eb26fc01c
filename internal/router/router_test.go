package router

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/danmuck/fieldmux/internal/lookup"
	"github.com/danmuck/fieldmux/internal/msg"
	"github.com/danmuck/fieldmux/internal/protocol/wire"
	"github.com/danmuck/fieldmux/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

var (
	opcode = msg.NewField("opcode", 0, 31, 24)
	def    = msg.MustDefinition("router_test", opcode, msg.NewField("body", 1, 31, 0))
)

type sink struct {
	mu  sync.Mutex
	got []string
}

func (s *sink) record(tag string) msg.Callback[string] {
	return func(_ msg.Message, arg string) bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.got = append(s.got, tag+"@"+arg)
		return true
	}
}

func stream(t *testing.T, ops ...uint32) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, op := range ops {
		if err := wire.WriteMessage(&buf, def.MustNew(opcode.Of(op)), wire.DefaultLimits()); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return &buf
}

func TestServeDispatchesUntilEOF(t *testing.T) {
	testlog.Start(t)
	var s sink
	h := msg.MustIndexedHandler([]msg.Index{
		msg.BuildIndex(opcode, lookup.NewInput(new(bitset.BitSet),
			lookup.E(uint32(1), msg.Bits(0)),
			lookup.E(uint32(2), msg.Bits(1)),
		)),
	}, []msg.Callback[string]{s.record("one"), s.record("two")})

	r, err := New[string](DefaultConfig("serve-test"), def, h, "rx")
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	if err := r.Serve(context.Background(), stream(t, 1, 2, 3, 1)); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if diff := cmp.Diff([]string{"one@rx", "two@rx", "one@rx"}, s.got); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Stats{Handled: 3, Unhandled: 1}, r.Stats()); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	if r.Stats().Total() != 4 {
		t.Fatalf("unexpected total: %d", r.Stats().Total())
	}
}

func TestServeWithLinearHandler(t *testing.T) {
	testlog.Start(t)
	var s sink
	h := msg.NewHandlerBuilder[string]().
		Add(func(m msg.Message, _ string) bool { return opcode.Extract(m) == 9 }).
		Add(s.record("fallback")).
		MustBuild()

	r, err := New[string](DefaultConfig("linear-test"), def, h, "x")
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	if err := r.Serve(context.Background(), stream(t, 9, 4)); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if diff := cmp.Diff([]string{"fallback@x"}, s.got); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestServeTruncatedStream(t *testing.T) {
	testlog.Start(t)
	h := msg.NewHandlerBuilder[string]().MustBuild()
	r, err := New[string](DefaultConfig("truncated-test"), def, h, "")
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	buf := stream(t, 1)
	buf.WriteByte(0xff)
	err = r.Serve(context.Background(), buf)
	if !errors.Is(err, wire.ErrShortMessage) {
		t.Fatalf("expected ErrShortMessage, got %v", err)
	}
	if r.Stats().Total() != 1 {
		t.Fatalf("expected the complete message to be dispatched, stats=%+v", r.Stats())
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	testlog.Start(t)
	h := msg.NewHandlerBuilder[string]().MustBuild()
	r, err := New[string](DefaultConfig("cancel-test"), def, h, "")
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Serve(ctx, stream(t, 1, 2)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if r.Stats().Total() != 0 {
		t.Fatalf("expected no dispatch after cancel, stats=%+v", r.Stats())
	}
}

func TestNewValidatesConfig(t *testing.T) {
	testlog.Start(t)
	h := msg.NewHandlerBuilder[string]().MustBuild()
	if _, err := New[string](Config{}, def, h, ""); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing name, got %v", err)
	}
	if _, err := New[string](DefaultConfig("x"), nil, h, ""); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing definition, got %v", err)
	}
	if _, err := New[string](DefaultConfig("x"), def, nil, ""); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing dispatcher, got %v", err)
	}
}

func TestConcurrentDispatch(t *testing.T) {
	testlog.Start(t)
	var s sink
	h := msg.MustIndexedHandler([]msg.Index{
		msg.BuildIndex(opcode, lookup.NewInput(new(bitset.BitSet), lookup.E(uint32(1), msg.Bits(0)))),
	}, []msg.Callback[string]{s.record("one")})
	r, err := New[string](DefaultConfig("concurrent-test"), def, h, "c")
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	hit := def.MustNew(opcode.Of(1))
	miss := def.MustNew(opcode.Of(2))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Dispatch(hit)
				r.Dispatch(miss)
			}
		}()
	}
	wg.Wait()
	if diff := cmp.Diff(Stats{Handled: 800, Unhandled: 800}, r.Stats()); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	if len(s.got) != 800 {
		t.Fatalf("expected 800 callbacks, got %d", len(s.got))
	}
}
