package lifecycle

// Sink consumes lifecycle statuses, e.g. to drive UI feedback or
// analytics. Implementations must tolerate being called from the
// execution layer's goroutine.
type Sink interface {
	UpdateStatus(s Status)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Status)

func (f SinkFunc) UpdateStatus(s Status) { f(s) }

// Relay returns the status callback handed to an execution subsystem.
// Every status is forwarded to sink unchanged, exactly once, in the order
// received. No filtering, no de-duplication, no tag inspection.
// A nil sink yields a no-op callback.
func Relay(sink Sink) func(Status) {
	if sink == nil {
		return func(Status) {}
	}
	return sink.UpdateStatus
}
