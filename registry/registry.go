// Package registry pairs connectors into channels and routes messages
// between them.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

var (
	// ErrAlreadyRegistered is returned when a connector is registered twice.
	ErrAlreadyRegistered = errors.New("connector already registered")
	// ErrNotFound is returned for an unknown connector ID.
	ErrNotFound = errors.New("connector not found")
	// ErrTypeMismatch is returned when pairing connectors of different types.
	ErrTypeMismatch = errors.New("connector types do not match")
	// ErrAlreadyConnected is returned when either end already has a peer.
	ErrAlreadyConnected = errors.New("connector already connected")
	// ErrSelfConnect is returned when a connector is paired with itself.
	ErrSelfConnect = errors.New("connector cannot be paired with itself")
)

// EventType indicates what kind of change happened in the registry.
type EventType int

const (
	EventConnected EventType = iota
	EventDisconnected
	EventUnregistered
)

func (e EventType) String() string {
	switch e {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventUnregistered:
		return "unregistered"
	default:
		return "unknown"
	}
}

// Event is emitted to subscribers when the channel topology changes.
type Event struct {
	Type    EventType
	Channel protocol.ConnectorType
	A, B    connector.ID
}

// Channel is a snapshot of one pairing.
type Channel struct {
	Type protocol.ConnectorType
	A, B connector.ID
}

type entry struct {
	conn connector.Bindable
	peer connector.ID
}

// Registry is a thread-safe in-memory connector registry and router.
type Registry struct {
	mu sync.RWMutex

	entries map[connector.ID]*entry

	subs     map[int]func(Event)
	nextSub  int
	observer connector.Observer
	now      func() time.Time
}

// Option customises Registry construction.
type Option func(*Registry)

// WithObserver attaches a diagnostics observer notified after every routed
// message.
func WithObserver(o connector.Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[connector.ID]*entry),
		subs:    make(map[int]func(Event)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register assigns c an identity and binds it to this registry. A
// connector still bound here or to another registry is rejected; it must be
// unregistered first.
func (r *Registry) Register(c connector.Bindable) (connector.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id := c.ID(); id != "" {
		return "", fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}
	id := connector.ID(uuid.NewString())
	r.entries[id] = &entry{conn: c}
	c.Bind(id, r)
	return id, nil
}

// Get returns a registered connector.
func (r *Registry) Get(id connector.ID) (connector.Bindable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// Connect pairs two registered connectors of the same type.
func (r *Registry) Connect(a, b connector.ID) error {
	if a == b {
		return ErrSelfConnect
	}

	r.mu.Lock()
	ea, ok := r.entries[a]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, a)
	}
	eb, ok := r.entries[b]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, b)
	}
	if ea.conn.Type() != eb.conn.Type() {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, ea.conn.Type(), eb.conn.Type())
	}
	if ea.peer != "" || eb.peer != "" {
		r.mu.Unlock()
		return ErrAlreadyConnected
	}
	ea.peer, eb.peer = b, a
	ev := Event{Type: EventConnected, Channel: ea.conn.Type(), A: a, B: b}
	subs := r.subscribersLocked()
	r.mu.Unlock()

	notify(subs, ev)
	return nil
}

// Disconnect breaks the pairing of id. Both ends lose their peer.
func (r *Registry) Disconnect(id connector.ID) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if e.peer == "" {
		r.mu.Unlock()
		return nil
	}
	ev := r.unpairLocked(id, e)
	subs := r.subscribersLocked()
	r.mu.Unlock()

	notify(subs, ev)
	return nil
}

// Unregister disconnects and forgets id. Later sends from it fail.
func (r *Registry) Unregister(id connector.ID) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	var events []Event
	if e.peer != "" {
		events = append(events, r.unpairLocked(id, e))
	}
	delete(r.entries, id)
	events = append(events, Event{Type: EventUnregistered, Channel: e.conn.Type(), A: id})
	subs := r.subscribersLocked()
	r.mu.Unlock()

	e.conn.Unbind()
	for _, ev := range events {
		notify(subs, ev)
	}
}

func (r *Registry) unpairLocked(id connector.ID, e *entry) Event {
	peerID := e.peer
	if pe, ok := r.entries[peerID]; ok {
		pe.peer = ""
	}
	e.peer = ""
	return Event{Type: EventDisconnected, Channel: e.conn.Type(), A: id, B: peerID}
}

// Peer returns the connector paired with id.
func (r *Registry) Peer(id connector.ID) (connector.Bindable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok || e.peer == "" {
		return nil, false
	}
	pe, ok := r.entries[e.peer]
	if !ok {
		return nil, false
	}
	return pe.conn, true
}

// Channels returns a snapshot of current pairings, one per channel.
func (r *Registry) Channels() []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]Channel, 0, len(r.entries)/2)
	for id, e := range r.entries {
		if e.peer == "" || id > e.peer {
			continue
		}
		res = append(res, Channel{Type: e.conn.Type(), A: id, B: e.peer})
	}
	return res
}

// Route implements connector.Router. The peer is resolved under the read
// lock and invoked outside it, so handlers may send nested messages.
func (r *Registry) Route(from connector.ID, m *connector.Message) connector.Outcome {
	if m == nil {
		return connector.OutcomeBadPayload
	}
	start := r.now()
	req := *m

	sender, peer, peerID := r.resolve(from)

	outcome := connector.OutcomeNoPeer
	if peer != nil {
		outcome = connector.Receive(peer, sender, m)
	}

	if r.observer != nil {
		r.observer.Observe(connector.Event{
			From:      from,
			To:        peerID,
			Channel:   m.Destination,
			Direction: m.Direction(),
			Type:      m.Type,
			Name:      m.Name(),
			Outcome:   outcome,
			Request:   req,
			Response:  *m,
			Start:     start,
			Duration:  r.now().Sub(start),
		})
	}
	return outcome
}

func (r *Registry) resolve(from connector.ID) (connector.Bindable, connector.Bindable, connector.ID) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[from]
	if !ok {
		return nil, nil, ""
	}
	if e.peer == "" {
		return e.conn, nil, ""
	}
	pe, ok := r.entries[e.peer]
	if !ok {
		return e.conn, nil, ""
	}
	return e.conn, pe.conn, e.peer
}

// Subscribe registers a callback for topology events. It returns an
// unsubscribe function.
func (r *Registry) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

func (r *Registry) subscribersLocked() []func(Event) {
	subs := make([]func(Event), 0, len(r.subs))
	for i := 0; i < r.nextSub; i++ {
		if fn, ok := r.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

// Notify subscribers outside the lock to avoid deadlocks.
func notify(subs []func(Event), ev Event) {
	for _, sub := range subs {
		sub(ev)
	}
}
