package connector

import (
	"time"

	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// Event describes one completed round trip.
type Event struct {
	From ID
	// To is empty when no peer was resolved.
	To ID

	Channel   protocol.ConnectorType
	Direction protocol.Direction
	Type      protocol.MessageType
	Name      string
	Outcome   Outcome

	// Request is the message as sent; Response is the message after the
	// receiver returned. Pointer slots alias the caller's buffers.
	Request  Message
	Response Message

	Start    time.Time
	Duration time.Duration
}

// Observer is a diagnostics side channel. Observers must not change the
// message and must not send on the bus.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }

type multiObserver []Observer

func (m multiObserver) Observe(ev Event) {
	for _, o := range m {
		o.Observe(ev)
	}
}

// Observers fans an event out to every non-nil observer.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}
