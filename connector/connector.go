// Package connector implements the typed, synchronous message bus used
// between the simulated stages of the Saturn stack.
//
// A Connector is one endpoint of a channel. Senders build a Message, call
// SendMessage, and read results out of the value slots when it returns
// true. Every failure (no peer, wrong destination, unsupported type,
// owner absent) is the same false; observers can see the finer Outcome.
package connector

import (
	"sync"

	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// ID identifies a registered connector.
type ID string

// Connector is a typed messaging endpoint.
type Connector interface {
	// Type returns the channel identity set at construction.
	Type() protocol.ConnectorType
	// ReceiveMessage handles m synchronously and reports success.
	ReceiveMessage(from Connector, m *Message) bool
}

// OutcomeReceiver is implemented by connectors that can explain a failed
// ReceiveMessage. ReceiveMessage must equal ReceiveOutcome(...).OK().
type OutcomeReceiver interface {
	Connector
	ReceiveOutcome(from Connector, m *Message) Outcome
}

// Router resolves the peer of a bound connector and delivers to it.
type Router interface {
	Route(from ID, m *Message) Outcome
}

// Bindable is a connector that can be attached to a Router.
type Bindable interface {
	Connector
	ID() ID
	Bind(id ID, r Router)
	Unbind()
}

// Receive delivers m to c and returns the richest outcome c can report.
func Receive(c Connector, from Connector, m *Message) Outcome {
	if r, ok := c.(OutcomeReceiver); ok {
		return r.ReceiveOutcome(from, m)
	}
	if c.ReceiveMessage(from, m) {
		return OutcomeDelivered
	}
	return OutcomeRejected
}

// Base carries the state every endpoint shares: its type tag and the
// router binding installed by the registry. Concrete connectors embed it.
type Base struct {
	kind protocol.ConnectorType

	mu     sync.RWMutex
	id     ID
	router Router
}

// NewBase returns a Base for a channel type.
func NewBase(kind protocol.ConnectorType) *Base {
	return &Base{kind: kind}
}

// Type returns the channel identity.
func (b *Base) Type() protocol.ConnectorType {
	return b.kind
}

// ID returns the identity assigned at registration, or "" when unbound.
func (b *Base) ID() ID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

// Bind attaches the endpoint to a router.
func (b *Base) Bind(id ID, r Router) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.id = id
	b.router = r
}

// Unbind detaches the endpoint; subsequent sends fail.
func (b *Base) Unbind() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.id = ""
	b.router = nil
}

// Send routes m to the peer and returns the outcome.
func (b *Base) Send(m *Message) Outcome {
	b.mu.RLock()
	id, r := b.id, b.router
	b.mu.RUnlock()

	if r == nil || m == nil {
		return OutcomeNoPeer
	}
	return r.Route(id, m)
}

// SendMessage routes m to the peer. It returns false when no peer is
// registered or the peer rejects the message.
func (b *Base) SendMessage(m *Message) bool {
	return b.Send(m).OK()
}
