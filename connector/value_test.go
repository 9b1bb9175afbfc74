package connector

import (
	"testing"

	"github.com/signalsfoundry/saturn-connectors/model"
	"github.com/signalsfoundry/saturn-connectors/protocol"
)

func TestValueVariantsAreTagged(t *testing.T) {
	v := Float(2.5)
	if got, ok := v.Float(); !ok || got != 2.5 {
		t.Fatalf("Float() = %v, %v; want 2.5, true", got, ok)
	}
	if _, ok := v.Int(); ok {
		t.Fatalf("Int() on a float slot should report ok=false")
	}
	if _, ok := v.Bool(); ok {
		t.Fatalf("Bool() on a float slot should report ok=false")
	}

	if got, ok := Int(7).Int(); !ok || got != 7 {
		t.Fatalf("Int(7).Int() = %v, %v", got, ok)
	}
	if got, ok := Bool(true).Bool(); !ok || !got {
		t.Fatalf("Bool(true).Bool() = %v, %v", got, ok)
	}
	if got, ok := Handle(9).Handle(); !ok || got != 9 {
		t.Fatalf("Handle(9).Handle() = %v, %v", got, ok)
	}
	if got, ok := Vector(model.V(1, 2, 3)).Vector(); !ok || got != model.V(1, 2, 3) {
		t.Fatalf("Vector().Vector() = %v, %v", got, ok)
	}

	var empty Value
	if empty.IsSet() || empty.Kind() != KindNone {
		t.Fatalf("zero Value should be unset, got kind %v", empty.Kind())
	}
}

func TestBufferRequiresMatchingNonNilPointer(t *testing.T) {
	buf := &model.Vector3{}
	got, ok := Buffer[model.Vector3](Pointer(buf))
	if !ok || got != buf {
		t.Fatalf("Buffer returned %p, %v; want %p, true", got, ok, buf)
	}

	if _, ok := Buffer[model.Matrix3](Pointer(buf)); ok {
		t.Fatalf("Buffer of the wrong element type should fail")
	}
	var nilVec *model.Vector3
	if _, ok := Buffer[model.Vector3](Pointer(nilVec)); ok {
		t.Fatalf("Buffer of a typed nil pointer should fail")
	}
	if _, ok := Buffer[model.Vector3](Float(1)); ok {
		t.Fatalf("Buffer of a non-pointer slot should fail")
	}
}

func TestNewMessageRemembersCatalog(t *testing.T) {
	m := NewMessage(protocol.LVIUCommand, protocol.IULVGetStage)
	if m.Type != protocol.MessageType(protocol.IULVGetStage) {
		t.Fatalf("Type = %d, want %d", m.Type, protocol.IULVGetStage)
	}
	if m.Destination != protocol.LVIUCommand {
		t.Fatalf("Destination = %v, want LV_IU_COMMAND", m.Destination)
	}
	if m.Name() != "IULV_GET_STAGE" {
		t.Fatalf("Name() = %q", m.Name())
	}
	if m.Direction() != protocol.DirectionIUToLV {
		t.Fatalf("Direction() = %v", m.Direction())
	}

	raw := &Message{Type: 3}
	if raw.Name() != "MESSAGE_3" {
		t.Fatalf("raw Name() = %q", raw.Name())
	}
}

func TestFillChecksBufferFirst(t *testing.T) {
	called := false
	read := func() model.Vector3 {
		called = true
		return model.V(1, 2, 3)
	}

	if got := Fill(Float(1), read); got != OutcomeBadPayload {
		t.Fatalf("Fill(float slot) = %v, want bad_payload", got)
	}
	if got := Fill(Pointer((*model.Vector3)(nil)), read); got != OutcomeBadPayload {
		t.Fatalf("Fill(nil buffer) = %v, want bad_payload", got)
	}
	if called {
		t.Fatalf("read ran for a bad payload")
	}

	var buf model.Vector3
	if got := Fill(Pointer(&buf), read); got != OutcomeDelivered {
		t.Fatalf("Fill = %v, want delivered", got)
	}
	if buf != model.V(1, 2, 3) {
		t.Fatalf("buffer = %v, want (1, 2, 3)", buf)
	}
}

func TestScalarArgs(t *testing.T) {
	var gotInt int
	if WithInt(Int(7), func(i int) { gotInt = i }) != OutcomeDelivered || gotInt != 7 {
		t.Fatalf("WithInt did not deliver 7, got %d", gotInt)
	}
	if WithInt(Float(7), func(int) { t.Fatalf("WithInt ran for a float slot") }) != OutcomeBadPayload {
		t.Fatalf("WithInt(float) not rejected")
	}
	if WithFloat(Int(1), func(float64) { t.Fatalf("WithFloat ran for an int slot") }) != OutcomeBadPayload {
		t.Fatalf("WithFloat(int) not rejected")
	}
	if WithBool(Value{}, func(bool) { t.Fatalf("WithBool ran for an empty slot") }) != OutcomeBadPayload {
		t.Fatalf("WithBool(empty) not rejected")
	}
	ran := false
	if Do(func() { ran = true }) != OutcomeDelivered || !ran {
		t.Fatalf("Do did not run")
	}
}
