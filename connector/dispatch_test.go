package connector

import (
	"sync"
	"testing"
	"time"

	"github.com/signalsfoundry/saturn-connectors/protocol"
)

type counter struct {
	calls int
}

func newTestDispatcher(ref *VesselRef[*counter]) *Dispatcher {
	d := NewDispatcher(protocol.CSMSIVBCommand)
	On(d, protocol.CSMSIVBStartVenting, Owned(ref, func(c *counter, m *Message) Outcome {
		c.calls++
		return OutcomeDelivered
	}))
	On(d, protocol.CSMSIVBStopVenting, Accept)
	return d
}

func TestDispatchRejectsWrongDestination(t *testing.T) {
	ref := &VesselRef[*counter]{}
	c := &counter{}
	ref.Set(c)
	d := newTestDispatcher(ref)

	m := NewMessage(protocol.CSMIUCommand, protocol.CSMSIVBStartVenting)
	if got := d.Dispatch(m); got != OutcomeDestinationMismatch {
		t.Fatalf("Dispatch = %v, want destination_mismatch", got)
	}
	if c.calls != 0 {
		t.Fatalf("handler ran %d times on a mismatched destination", c.calls)
	}
}

func TestDispatchUnsupportedAndNil(t *testing.T) {
	d := newTestDispatcher(&VesselRef[*counter]{})

	if got := d.Dispatch(NewMessage(protocol.CSMSIVBCommand, protocol.CSMSIVBIsVenting)); got != OutcomeUnsupported {
		t.Fatalf("Dispatch unknown type = %v, want unsupported", got)
	}
	if got := d.Dispatch(nil); got != OutcomeBadPayload {
		t.Fatalf("Dispatch(nil) = %v, want bad_payload", got)
	}
	if !d.Handles(protocol.MessageType(protocol.CSMSIVBStartVenting)) {
		t.Fatalf("Handles should report registered type")
	}
}

func TestOwnedHandlerNeedsVessel(t *testing.T) {
	ref := &VesselRef[*counter]{}
	d := newTestDispatcher(ref)
	m := NewMessage(protocol.CSMSIVBCommand, protocol.CSMSIVBStartVenting)

	if got := d.Dispatch(m); got != OutcomeNoOwner {
		t.Fatalf("Dispatch without vessel = %v, want no_owner", got)
	}

	c := &counter{}
	ref.Set(c)
	if got := d.Dispatch(m); got != OutcomeDelivered {
		t.Fatalf("Dispatch with vessel = %v, want delivered", got)
	}
	if c.calls != 1 {
		t.Fatalf("calls = %d, want 1", c.calls)
	}

	ref.Clear()
	if got := d.Dispatch(m); got != OutcomeNoOwner {
		t.Fatalf("Dispatch after Clear = %v, want no_owner", got)
	}
	if c.calls != 1 {
		t.Fatalf("calls after Clear = %d, want 1", c.calls)
	}
}

func TestAcceptIsInert(t *testing.T) {
	d := newTestDispatcher(&VesselRef[*counter]{})
	if got := d.Dispatch(NewMessage(protocol.CSMSIVBCommand, protocol.CSMSIVBStopVenting)); got != OutcomeDelivered {
		t.Fatalf("Accept handler = %v, want delivered", got)
	}
}

func TestVesselRefSetNilClears(t *testing.T) {
	type owner interface{ Name() string }
	ref := &VesselRef[owner]{}
	ref.Set(nil)
	if _, ok := ref.Get(); ok {
		t.Fatalf("Set(nil) should leave the reference unset")
	}
}

type named interface{ Name() string }

func (c *counter) Name() string { return "counter" }

func TestVesselRefSetTypedNilClears(t *testing.T) {
	// A nil *counter inside a named interface is not == nil.
	var c *counter
	iref := &VesselRef[named]{}
	iref.Set(c)
	if _, ok := iref.Get(); ok {
		t.Fatalf("Set(typed nil) should leave the reference unset")
	}

	ptrRef := &VesselRef[*counter]{}
	ptrRef.Set(&counter{})
	ptrRef.Set(nil)
	if _, ok := ptrRef.Get(); ok {
		t.Fatalf("Set(nil pointer) should clear a set reference")
	}

	d := NewDispatcher(protocol.CSMSIVBCommand)
	On(d, protocol.CSMSIVBStartVenting, Owned(iref, func(v named, m *Message) Outcome {
		_ = v.Name()
		return OutcomeDelivered
	}))
	if got := d.Dispatch(NewMessage(protocol.CSMSIVBCommand, protocol.CSMSIVBStartVenting)); got != OutcomeNoOwner {
		t.Fatalf("Dispatch with typed nil vessel = %v, want no_owner", got)
	}
}

func TestVesselRefClearWaitsForInFlightHandler(t *testing.T) {
	ref := &VesselRef[*counter]{}
	ref.Set(&counter{})

	entered := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ref.With(func(c *counter) Outcome {
			close(entered)
			<-release
			c.calls++
			return OutcomeDelivered
		})
	}()

	<-entered
	cleared := make(chan struct{})
	go func() {
		ref.Clear()
		close(cleared)
	}()

	select {
	case <-cleared:
		t.Fatalf("Clear returned while a handler still held the vessel")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	<-cleared
	if _, ok := ref.Get(); ok {
		t.Fatalf("reference should be cleared")
	}
}

func TestUnboundBaseSendFails(t *testing.T) {
	b := NewBase(protocol.CSMIUCommand)
	if b.SendMessage(NewMessage(protocol.CSMIUCommand, protocol.CSMIUIsTLICapable)) {
		t.Fatalf("unbound SendMessage should return false")
	}
	if got := b.Send(nil); got != OutcomeNoPeer {
		t.Fatalf("Send(nil) = %v, want no_peer", got)
	}
	if b.Type() != protocol.CSMIUCommand {
		t.Fatalf("Type() = %v", b.Type())
	}
}

type boolOnly struct{ ok bool }

func (b boolOnly) Type() protocol.ConnectorType            { return protocol.MFDConnector }
func (b boolOnly) ReceiveMessage(Connector, *Message) bool { return b.ok }

func TestReceiveFallsBackToBoolean(t *testing.T) {
	m := NewMessage(protocol.MFDConnector, protocol.IULVGetStage)
	if got := Receive(boolOnly{ok: true}, nil, m); got != OutcomeDelivered {
		t.Fatalf("Receive(true) = %v", got)
	}
	if got := Receive(boolOnly{ok: false}, nil, m); got != OutcomeRejected {
		t.Fatalf("Receive(false) = %v", got)
	}
}

func TestObserversSkipNil(t *testing.T) {
	var seen []Outcome
	obs := Observers(nil, ObserverFunc(func(ev Event) { seen = append(seen, ev.Outcome) }), nil)
	obs.Observe(Event{Outcome: OutcomeNoPeer})
	if len(seen) != 1 || seen[0] != OutcomeNoPeer {
		t.Fatalf("seen = %v, want [no_peer]", seen)
	}
}
