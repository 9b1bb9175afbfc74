package connector

import (
	"reflect"
	"sync"
)

// VesselRef is a connector's optional, non-owning association with the
// vehicle (or computer) it acts for. Only the vehicle sets or clears it.
//
// Handlers run under the read lock, so Set and Clear wait for an in-flight
// ReceiveMessage to finish.
type VesselRef[V any] struct {
	mu  sync.RWMutex
	v   V
	set bool
}

// Set attaches v. Attaching nil, including a typed nil pointer held in an
// interface, clears the reference.
func (r *VesselRef[V]) Set(v V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if isNil(v) {
		var zero V
		r.v, r.set = zero, false
		return
	}
	r.v, r.set = v, true
}

// Clear detaches the vehicle.
func (r *VesselRef[V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero V
	r.v, r.set = zero, false
}

// Get returns the vehicle and whether one is attached.
func (r *VesselRef[V]) Get() (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.v, r.set
}

// With runs fn against the attached vehicle, holding the read lock. It
// returns OutcomeNoOwner without calling fn when nothing is attached.
func (r *VesselRef[V]) With(fn func(V) Outcome) Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.set {
		return OutcomeNoOwner
	}
	return fn(r.v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
