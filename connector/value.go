package connector

import (
	"fmt"

	"github.com/signalsfoundry/saturn-connectors/model"
)

// Kind records which variant of a Value is active.
type Kind uint8

const (
	KindNone Kind = iota
	KindFloat
	KindInt
	KindBool
	KindVector
	KindPointer
	KindHandle
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindVector:
		return "vector"
	case KindPointer:
		return "pointer"
	case KindHandle:
		return "handle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one payload slot of a Message. Exactly one variant is active at
// a time; reading it as another variant reports ok == false.
//
// Pointer values reference caller-owned output buffers (*model.Vector3,
// *model.Matrix3, *model.VesselStatus, *model.Elements). Receivers write
// through them in place and never keep them past the call.
type Value struct {
	kind Kind

	num    float64
	i      int
	b      bool
	vec    model.Vector3
	ptr    any
	handle model.Handle
}

// Float returns a float slot.
func Float(f float64) Value { return Value{kind: KindFloat, num: f} }

// Int returns an integer slot.
func Int(i int) Value { return Value{kind: KindInt, i: i} }

// Bool returns a boolean slot.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Vector returns a by-value vector slot.
func Vector(v model.Vector3) Value { return Value{kind: KindVector, vec: v} }

// Pointer returns a slot referencing a caller-owned buffer.
func Pointer(p any) Value { return Value{kind: KindPointer, ptr: p} }

// Handle returns an entity-handle slot.
func Handle(h model.Handle) Value { return Value{kind: KindHandle, handle: h} }

// Kind reports the active variant.
func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether any variant has been stored.
func (v Value) IsSet() bool { return v.kind != KindNone }

// Float returns the float variant.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindFloat }

// Int returns the integer variant.
func (v Value) Int() (int, bool) { return v.i, v.kind == KindInt }

// Bool returns the boolean variant.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Vector returns the by-value vector variant.
func (v Value) Vector() (model.Vector3, bool) { return v.vec, v.kind == KindVector }

// Handle returns the handle variant.
func (v Value) Handle() (model.Handle, bool) { return v.handle, v.kind == KindHandle }

// Pointer returns the raw pointer variant.
func (v Value) Pointer() (any, bool) { return v.ptr, v.kind == KindPointer }

// Buffer returns the pointer variant as *E when it is a non-nil *E.
func Buffer[E any](v Value) (*E, bool) {
	if v.kind != KindPointer {
		return nil, false
	}
	p, ok := v.ptr.(*E)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "<none>"
	case KindFloat:
		return fmt.Sprintf("%g", v.num)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindVector:
		return fmt.Sprintf("(%g, %g, %g)", v.vec.X, v.vec.Y, v.vec.Z)
	case KindPointer:
		return fmt.Sprintf("%T", v.ptr)
	case KindHandle:
		return fmt.Sprintf("handle(%d)", uint64(v.handle))
	default:
		return v.kind.String()
	}
}
