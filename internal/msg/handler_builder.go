package msg

// HandlerBuilder accumulates callbacks from independent configuration
// fragments. Add never modifies the receiver, so one builder may be extended
// along several paths.
type HandlerBuilder[A any] struct {
	callbacks []Callback[A]
}

func NewHandlerBuilder[A any]() HandlerBuilder[A] {
	return HandlerBuilder[A]{}
}

// Add returns a builder holding the receiver's callbacks followed by cbs.
func (b HandlerBuilder[A]) Add(cbs ...Callback[A]) HandlerBuilder[A] {
	next := make([]Callback[A], 0, len(b.callbacks)+len(cbs))
	next = append(next, b.callbacks...)
	next = append(next, cbs...)
	return HandlerBuilder[A]{callbacks: next}
}

func (b HandlerBuilder[A]) Len() int {
	return len(b.callbacks)
}

// Build finalizes the accumulated callbacks into a Handler.
func (b HandlerBuilder[A]) Build() (*Handler[A], error) {
	return NewHandler(b.callbacks...)
}

// MustBuild is Build for static configuration; it panics on error.
func (b HandlerBuilder[A]) MustBuild() *Handler[A] {
	h, err := b.Build()
	if err != nil {
		panic(err)
	}
	return h
}
