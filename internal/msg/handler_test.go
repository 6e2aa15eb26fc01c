package msg

import (
	"errors"
	"testing"

	"github.com/danmuck/fieldmux/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestBuilderCompositionMatchesDirectBuild(t *testing.T) {
	testlog.Start(t)
	var order []string
	c1 := func(m Message, _ NoArgs) bool {
		order = append(order, "c1")
		op, _ := m.Get("opcode_field")
		return op == 1
	}
	c2 := func(m Message, _ NoArgs) bool {
		order = append(order, "c2")
		op, _ := m.Get("opcode_field")
		return op == 2
	}

	composed := NewHandlerBuilder[NoArgs]().Add(c1).Add(c2).MustBuild()
	direct, err := NewHandler[NoArgs](c1, c2)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	for op := uint32(0); op < 4; op++ {
		m := testMsg.MustNew(opcodeField.Of(op))

		order = nil
		gotComposed := composed.Handle(m, NoArgs{})
		composedOrder := order

		order = nil
		gotDirect := direct.Handle(m, NoArgs{})

		if gotComposed != gotDirect {
			t.Fatalf("op=%d: composed=%v direct=%v", op, gotComposed, gotDirect)
		}
		if diff := cmp.Diff(order, composedOrder); diff != "" {
			t.Fatalf("op=%d order mismatch (-direct +composed):\n%s", op, diff)
		}
	}

	order = nil
	composed.Handle(testMsg.MustNew(opcodeField.Of(2)), NoArgs{})
	if diff := cmp.Diff([]string{"c1", "c2"}, order); diff != "" {
		t.Fatalf("c1 must be tried before c2 (-want +got):\n%s", diff)
	}
}

func TestBuilderAddDoesNotMutateReceiver(t *testing.T) {
	testlog.Start(t)
	var order []string
	named := func(name string) Callback[NoArgs] {
		return func(Message, NoArgs) bool {
			order = append(order, name)
			return false
		}
	}

	base := NewHandlerBuilder[NoArgs]().Add(named("a"))
	left := base.Add(named("b"))
	right := base.Add(named("c"))
	if base.Len() != 1 || left.Len() != 2 || right.Len() != 2 {
		t.Fatalf("unexpected lengths: base=%d left=%d right=%d", base.Len(), left.Len(), right.Len())
	}

	m := testMsg.MustNew()
	left.MustBuild().Handle(m, NoArgs{})
	right.MustBuild().Handle(m, NoArgs{})
	base.MustBuild().Handle(m, NoArgs{})
	if diff := cmp.Diff([]string{"a", "b", "a", "c", "a"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlerStopsAtFirstClaim(t *testing.T) {
	testlog.Start(t)
	var order []int
	cb := func(slot int, claim bool) Callback[string] {
		return func(_ Message, tag string) bool {
			if tag != "ctx" {
				t.Fatalf("unexpected arg %q", tag)
			}
			order = append(order, slot)
			return claim
		}
	}
	h, err := NewHandlerBuilder[string]().Add(cb(0, false), cb(1, true)).Add(cb(2, true)).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !h.Handle(testMsg.MustNew(), "ctx") {
		t.Fatalf("expected handled")
	}
	if diff := cmp.Diff([]int{0, 1}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if h.Len() != 3 {
		t.Fatalf("unexpected len: %d", h.Len())
	}
}

func TestEmptyHandlerDeclines(t *testing.T) {
	testlog.Start(t)
	h := NewHandlerBuilder[NoArgs]().MustBuild()
	if h.Handle(testMsg.MustNew(), NoArgs{}) {
		t.Fatalf("empty handler claimed a message")
	}
}

func TestBuildRejectsNilCallback(t *testing.T) {
	testlog.Start(t)
	_, err := NewHandlerBuilder[NoArgs]().Add(nil).Build()
	if !errors.Is(err, ErrNilCallback) {
		t.Fatalf("expected ErrNilCallback, got %v", err)
	}
}

func TestHandlersSatisfyDispatcher(t *testing.T) {
	testlog.Start(t)
	var _ Dispatcher[NoArgs] = (*Handler[NoArgs])(nil)
	var _ Dispatcher[NoArgs] = (*IndexedHandler[NoArgs])(nil)
}
