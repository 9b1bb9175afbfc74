package connector

import (
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// Handler processes one recognised message type.
type Handler func(m *Message) Outcome

// Dispatcher is a receiver's message-type → handler table.
type Dispatcher struct {
	kind     protocol.ConnectorType
	handlers map[protocol.MessageType]Handler
}

// NewDispatcher returns an empty table for a channel type.
func NewDispatcher(kind protocol.ConnectorType) *Dispatcher {
	return &Dispatcher{
		kind:     kind,
		handlers: make(map[protocol.MessageType]Handler),
	}
}

// On registers h for a catalog value, replacing any earlier handler.
func On[T protocol.Catalog](d *Dispatcher, t T, h Handler) {
	d.handlers[protocol.MessageType(t)] = h
}

// Handles reports whether a handler is registered for t.
func (d *Dispatcher) Handles(t protocol.MessageType) bool {
	_, ok := d.handlers[t]
	return ok
}

// Dispatch checks the destination tag and runs the handler for m.Type.
func (d *Dispatcher) Dispatch(m *Message) Outcome {
	if m == nil {
		return OutcomeBadPayload
	}
	if m.Destination != d.kind {
		return OutcomeDestinationMismatch
	}
	h, ok := d.handlers[m.Type]
	if !ok {
		return OutcomeUnsupported
	}
	return h(m)
}

// Owned adapts fn into a Handler that only runs when ref is attached.
func Owned[V any](ref *VesselRef[V], fn func(v V, m *Message) Outcome) Handler {
	return func(m *Message) Outcome {
		return ref.With(func(v V) Outcome {
			return fn(v, m)
		})
	}
}

// Accept is a Handler that succeeds without touching anything. It marks
// message types that are acknowledged but deliberately inert.
func Accept(*Message) Outcome {
	return OutcomeDelivered
}
