package msg

// Callback claims a message by returning true. arg carries per-call context
// supplied by the dispatcher's caller; handlers never store it.
type Callback[A any] func(m Message, arg A) bool

// NoArgs is the argument type for callbacks that take no extra context.
type NoArgs = struct{}

// Dispatcher is implemented by IndexedHandler and Handler.
type Dispatcher[A any] interface {
	Handle(m Message, arg A) bool
}
