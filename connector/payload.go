package connector

// Fill writes read() into the caller's buffer held by slot. The buffer is
// checked before read runs, so a bad payload has no side effects.
func Fill[E any](slot Value, read func() E) Outcome {
	p, ok := Buffer[E](slot)
	if !ok {
		return OutcomeBadPayload
	}
	*p = read()
	return OutcomeDelivered
}

// WithInt runs fn with the int held by slot.
func WithInt(slot Value, fn func(int)) Outcome {
	i, ok := slot.Int()
	if !ok {
		return OutcomeBadPayload
	}
	fn(i)
	return OutcomeDelivered
}

// WithFloat runs fn with the float held by slot.
func WithFloat(slot Value, fn func(float64)) Outcome {
	f, ok := slot.Float()
	if !ok {
		return OutcomeBadPayload
	}
	fn(f)
	return OutcomeDelivered
}

// WithBool runs fn with the bool held by slot.
func WithBool(slot Value, fn func(bool)) Outcome {
	b, ok := slot.Bool()
	if !ok {
		return OutcomeBadPayload
	}
	fn(b)
	return OutcomeDelivered
}

// Do runs fn and reports delivery. It is the handler body for commands
// without payload.
func Do(fn func()) Outcome {
	fn()
	return OutcomeDelivered
}
